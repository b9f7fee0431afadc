package repository

import (
	"gorm.io/gorm"

	"blogforge-backend/internal/models"
)

type SearchRepository interface {
	SearchPosts(query string, offset, limit int) ([]models.Post, int64, error)
	SearchTags(query string, limit int) ([]models.Tag, error)
	SearchCategories(query string, limit int) ([]models.Category, error)
}

type searchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{db: db}
}

// SearchPosts matches published posts by title, content or excerpt,
// title hits ranked first.
func (r *searchRepository) SearchPosts(query string, offset, limit int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	pattern := "%" + query + "%"
	base := r.db.Model(&models.Post{}).
		Where("is_published = ? AND visibility = ?", true, "public").
		Where("title ILIKE ? OR content ILIKE ? OR excerpt ILIKE ?", pattern, pattern, pattern)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.Preload("Author").Preload("Category").Preload("Tags").
		Select("posts.*, CASE WHEN title ILIKE ? THEN 0 ELSE 1 END AS title_rank", pattern).
		Order("title_rank, COALESCE(published_at, posts.created_at) DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error

	return posts, total, err
}

func (r *searchRepository) SearchTags(query string, limit int) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Where("name ILIKE ?", "%"+query+"%").
		Order("posts_count DESC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

func (r *searchRepository) SearchCategories(query string, limit int) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("is_active = ?", true).
		Where("name ILIKE ? OR description ILIKE ?", "%"+query+"%", "%"+query+"%").
		Order("posts_count DESC").
		Limit(limit).
		Find(&categories).Error
	return categories, err
}
