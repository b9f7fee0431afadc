package service

import (
	"errors"
	"strings"
	"time"

	"blogforge-backend/internal/models"
	"blogforge-backend/internal/repository"
)

const viewDedupWindow = time.Hour

type EngagementService struct {
	engagementRepo repository.EngagementRepository
	viewRepo       repository.ViewRepository
	postRepo       repository.PostRepository
}

func NewEngagementService(
	engagementRepo repository.EngagementRepository,
	viewRepo repository.ViewRepository,
	postRepo repository.PostRepository,
) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		viewRepo:       viewRepo,
		postRepo:       postRepo,
	}
}

func (s *EngagementService) LikePost(userID, postID uint) error {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return err
	}

	err := s.engagementRepo.LikePost(userID, postID)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return errors.New("post already liked")
	}
	return err
}

func (s *EngagementService) UnlikePost(userID, postID uint) error {
	return s.engagementRepo.UnlikePost(userID, postID)
}

func (s *EngagementService) HasLikedPost(userID, postID uint) (bool, error) {
	return s.engagementRepo.HasLikedPost(userID, postID)
}

func (s *EngagementService) LikeComment(userID, commentID uint) error {
	err := s.engagementRepo.LikeComment(userID, commentID)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return errors.New("comment already liked")
	}
	return err
}

func (s *EngagementService) UnlikeComment(userID, commentID uint) error {
	return s.engagementRepo.UnlikeComment(userID, commentID)
}

func (s *EngagementService) AddBookmark(userID, postID uint) error {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return err
	}

	err := s.engagementRepo.AddBookmark(userID, postID)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return errors.New("post already bookmarked")
	}
	return err
}

func (s *EngagementService) RemoveBookmark(userID, postID uint) error {
	return s.engagementRepo.RemoveBookmark(userID, postID)
}

func (s *EngagementService) GetBookmarks(userID uint, page, limit int) ([]models.Post, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.engagementRepo.GetBookmarkedPosts(userID, (page-1)*limit, limit)
}

// RecordView stores a view event unless the same address viewed the post
// inside the deduplication window.
func (s *EngagementService) RecordView(postID uint, userID *uint, ipAddress, userAgent, referrer string) error {
	seen, err := s.viewRepo.HasRecentView(postID, ipAddress, viewDedupWindow)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	view := &models.View{
		PostID:     postID,
		UserID:     userID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Referrer:   referrer,
		DeviceType: detectDeviceType(userAgent),
	}
	return s.viewRepo.Record(view)
}

func detectDeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone"):
		return "mobile"
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		return "tablet"
	case strings.Contains(ua, "bot") || strings.Contains(ua, "crawler") || strings.Contains(ua, "spider"):
		return "bot"
	default:
		return "desktop"
	}
}
