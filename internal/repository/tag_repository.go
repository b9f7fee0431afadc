package repository

import (
	"errors"

	"gorm.io/gorm"

	"blogforge-backend/internal/models"
)

type TagRepository interface {
	Create(tag *models.Tag) error
	GetByID(id uint) (*models.Tag, error)
	GetBySlug(slug string) (*models.Tag, error)
	GetByName(name string) (*models.Tag, error)
	GetAll() ([]models.Tag, error)
	GetPopular(limit int) ([]models.Tag, error)
	GetOrCreate(name, slug string) (*models.Tag, error)
	Update(tag *models.Tag) error
	Delete(id uint) error
	ExistsBySlug(slug string) (bool, error)
	DeleteOrphaned() (int64, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

func (r *tagRepository) GetByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.First(&tag, id).Error
	return &tag, err
}

func (r *tagRepository) GetBySlug(slug string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("slug = ?", slug).First(&tag).Error
	return &tag, err
}

func (r *tagRepository) GetByName(name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&tag).Error
	return &tag, err
}

func (r *tagRepository) GetAll() ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) GetPopular(limit int) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Where("posts_count > 0").
		Order("posts_count DESC, name ASC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

// GetOrCreate looks up a tag by name, creating it with the given slug when
// missing. A concurrent insert losing the race falls back to the lookup.
func (r *tagRepository) GetOrCreate(name, slug string) (*models.Tag, error) {
	tag, err := r.GetByName(name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &models.Tag{Name: name, Slug: slug}
	if err := r.db.Create(created).Error; err != nil {
		if existing, lookupErr := r.GetByName(name); lookupErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return created, nil
}

func (r *tagRepository) Update(tag *models.Tag) error {
	return r.db.Save(tag).Error
}

func (r *tagRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Tag{}, id).Error
	})
}

func (r *tagRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Tag{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// DeleteOrphaned removes tags no post references anymore.
func (r *tagRepository) DeleteOrphaned() (int64, error) {
	result := r.db.Unscoped().
		Where("id NOT IN (?)", r.db.Table("post_tags").Select("DISTINCT tag_id")).
		Delete(&models.Tag{})
	return result.RowsAffected, result.Error
}
