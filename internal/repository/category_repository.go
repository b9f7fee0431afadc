package repository

import (
	"gorm.io/gorm"

	"blogforge-backend/internal/models"
)

type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	GetAll(activeOnly bool) ([]models.Category, error)
	Update(category *models.Category) error
	Delete(id uint) error
	ExistsBySlug(slug string) (bool, error)
	PublishedPostsCount(id uint) (int64, error)
	ReassignPosts(fromID, toID uint) error
	RecountPosts() error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.First(&category, id).Error
	return &category, err
}

func (r *categoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	return &category, err
}

func (r *categoryRepository) GetAll(activeOnly bool) ([]models.Category, error) {
	var categories []models.Category

	q := r.db.Model(&models.Category{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	err := q.Order("sort_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Category{}, id).Error
}

func (r *categoryRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Category{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) PublishedPostsCount(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).
		Where("category_id = ? AND is_published = ?", id, true).
		Count(&count).Error
	return count, err
}

func (r *categoryRepository) ReassignPosts(fromID, toID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var moved int64
		if err := tx.Model(&models.Post{}).
			Where("category_id = ? AND is_published = ?", fromID, true).
			Count(&moved).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", fromID).
			Update("category_id", toID).Error; err != nil {
			return err
		}

		return tx.Model(&models.Category{}).
			Where("id = ?", toID).
			UpdateColumn("posts_count", gorm.Expr("posts_count + ?", moved)).Error
	})
}

// RecountPosts resets every category counter from the posts table. Used by the
// drift-repair background job.
func (r *categoryRepository) RecountPosts() error {
	return r.db.Exec(`
		UPDATE categories SET posts_count = (
			SELECT COUNT(*) FROM posts
			WHERE posts.category_id = categories.id
			  AND posts.is_published = TRUE
			  AND posts.deleted_at IS NULL
		)
	`).Error
}
