package repository

import (
	"time"

	"gorm.io/gorm"

	"blogforge-backend/internal/models"
)

type ViewRepository interface {
	Record(view *models.View) error
	HasRecentView(postID uint, ipAddress string, within time.Duration) (bool, error)
	CountSince(since time.Time) (int64, error)
	CountByPost(postID uint) (int64, error)
}

type viewRepository struct {
	db *gorm.DB
}

func NewViewRepository(db *gorm.DB) ViewRepository {
	return &viewRepository{db: db}
}

// Record stores the view event and increments the post counter together.
func (r *viewRepository) Record(view *models.View) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(view).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", view.PostID).
			UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
	})
}

// HasRecentView checks for a view from the same address inside the
// deduplication window.
func (r *viewRepository) HasRecentView(postID uint, ipAddress string, within time.Duration) (bool, error) {
	var count int64
	err := r.db.Model(&models.View{}).
		Where("post_id = ? AND ip_address = ? AND created_at >= ?", postID, ipAddress, time.Now().Add(-within)).
		Count(&count).Error
	return count > 0, err
}

func (r *viewRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.View{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *viewRepository) CountByPost(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.View{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
