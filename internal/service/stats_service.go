package service

import (
	"errors"

	"gorm.io/gorm"

	"blogforge-backend/internal/models"
	"blogforge-backend/internal/repository"
)

type StatsService struct {
	statsRepo    repository.StatsRepository
	userRepo     repository.UserRepository
	aiAuthorName string
}

func NewStatsService(statsRepo repository.StatsRepository, userRepo repository.UserRepository, aiAuthorName string) *StatsService {
	return &StatsService{
		statsRepo:    statsRepo,
		userRepo:     userRepo,
		aiAuthorName: aiAuthorName,
	}
}

// GetSiteStats aggregates site-wide totals. Generated-post counts are
// attributed to the configured AI author account when it exists.
func (s *StatsService) GetSiteStats() (*repository.SiteStats, error) {
	var aiAuthorID *uint

	if s.aiAuthorName != "" {
		author, err := s.userRepo.GetByUsername(s.aiAuthorName)
		if err == nil {
			aiAuthorID = &author.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return s.statsRepo.GetSiteStats(aiAuthorID)
}

func (s *StatsService) GetTopPosts(limit int) ([]models.Post, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.statsRepo.GetTopPosts(limit)
}

func (s *StatsService) GetTopAuthors(limit int) ([]models.User, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.statsRepo.GetTopAuthors(limit)
}

func (s *StatsService) GetPostsPerDay(days int) (map[string]int64, error) {
	if days < 1 || days > 365 {
		days = 30
	}
	return s.statsRepo.GetPostsPerDay(days)
}
