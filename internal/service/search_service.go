package service

import (
	"strings"

	"blogforge-backend/internal/models"
	"blogforge-backend/internal/repository"
)

type SearchResults struct {
	Posts      []models.Post     `json:"posts"`
	Tags       []models.Tag      `json:"tags"`
	Categories []models.Category `json:"categories"`
	Total      int64             `json:"total"`
	Query      string            `json:"query"`
}

type SearchService struct {
	searchRepo repository.SearchRepository
}

func NewSearchService(searchRepo repository.SearchRepository) *SearchService {
	return &SearchService{searchRepo: searchRepo}
}

// Search runs a combined lookup over posts, tags and categories. Queries
// shorter than two characters return empty results.
func (s *SearchService) Search(query string, page, limit int) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	results := &SearchResults{
		Posts:      []models.Post{},
		Tags:       []models.Tag{},
		Categories: []models.Category{},
		Query:      query,
	}

	if len([]rune(query)) < 2 {
		return results, nil
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	posts, total, err := s.searchRepo.SearchPosts(query, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	results.Posts = posts
	results.Total = total

	tags, err := s.searchRepo.SearchTags(query, 10)
	if err != nil {
		return nil, err
	}
	results.Tags = tags

	categories, err := s.searchRepo.SearchCategories(query, 10)
	if err != nil {
		return nil, err
	}
	results.Categories = categories

	return results, nil
}

func (s *SearchService) SearchPosts(query string, page, limit int) ([]models.Post, int64, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return []models.Post{}, 0, nil
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.searchRepo.SearchPosts(query, (page-1)*limit, limit)
}
