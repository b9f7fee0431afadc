package repository

import (
	"time"

	"gorm.io/gorm"

	"blogforge-backend/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetAll(query string, limit int) ([]models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
	RecordLogin(id uint, at time.Time) error
	TouchLastSeen(id uint, at time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return &user, err
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *userRepository) GetAll(query string, limit int) ([]models.User, error) {
	var users []models.User

	q := r.db.Model(&models.User{})
	if query != "" {
		q = q.Where("username ILIKE ? OR email ILIKE ?", "%"+query+"%", "%"+query+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	err := q.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes the user and everything they own in one transaction: posts
// with their dependents, comments, likes, bookmarks, sessions, notifications.
func (r *userRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}

		if len(postIDs) > 0 {
			if err := tx.Exec("DELETE FROM post_tags WHERE post_id IN ?", postIDs).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("post_id IN ?", postIDs).Delete(&models.View{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("post_id IN ?", postIDs).Delete(&models.Bookmark{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("post_id IN ?", postIDs).Delete(&models.PostLike{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().
				Where("comment_id IN (?)", tx.Model(&models.Comment{}).Select("id").Where("post_id IN ?", postIDs)).
				Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Unscoped().
			Where("comment_id IN (?)", tx.Model(&models.Comment{}).Select("id").Where("author_id = ?", id)).
			Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", id).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", id).Delete(&models.UserSession{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&models.User{}, id).Error
	})
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *userRepository) RecordLogin(id uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"login_count": gorm.Expr("login_count + 1"),
		"last_login":  at,
		"last_seen":   at,
	}).Error
}

func (r *userRepository) TouchLastSeen(id uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_seen", at).Error
}
