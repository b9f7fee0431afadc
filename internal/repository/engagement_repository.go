package repository

import (
	"errors"

	"gorm.io/gorm"

	"blogforge-backend/internal/models"
)

var ErrAlreadyExists = errors.New("already exists")

type EngagementRepository interface {
	LikePost(userID, postID uint) error
	UnlikePost(userID, postID uint) error
	HasLikedPost(userID, postID uint) (bool, error)
	LikeComment(userID, commentID uint) error
	UnlikeComment(userID, commentID uint) error
	AddBookmark(userID, postID uint) error
	RemoveBookmark(userID, postID uint) error
	HasBookmarked(userID, postID uint) (bool, error)
	GetBookmarkedPosts(userID uint, offset, limit int) ([]models.Post, int64, error)
}

type engagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// LikePost records a like and bumps the post counter. The composite unique
// index makes a duplicate insert fail, which surfaces as ErrAlreadyExists.
func (r *engagementRepository) LikePost(userID, postID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PostLike{}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyExists
		}

		if err := tx.Create(&models.PostLike{UserID: userID, PostID: postID}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
}

func (r *engagementRepository) UnlikePost(userID, postID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.PostLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.Post{}).
			Where("id = ? AND likes_count > 0", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
	})
}

func (r *engagementRepository) HasLikedPost(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *engagementRepository) LikeComment(userID, commentID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CommentLike{}).
			Where("user_id = ? AND comment_id = ?", userID, commentID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyExists
		}

		if err := tx.Create(&models.CommentLike{UserID: userID, CommentID: commentID}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
}

func (r *engagementRepository) UnlikeComment(userID, commentID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).Delete(&models.CommentLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.Comment{}).
			Where("id = ? AND likes_count > 0", commentID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
	})
}

func (r *engagementRepository) AddBookmark(userID, postID uint) error {
	var count int64
	if err := r.db.Model(&models.Bookmark{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyExists
	}

	return r.db.Create(&models.Bookmark{UserID: userID, PostID: postID}).Error
}

func (r *engagementRepository) RemoveBookmark(userID, postID uint) error {
	result := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *engagementRepository) HasBookmarked(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *engagementRepository) GetBookmarkedPosts(userID uint, offset, limit int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	query := r.db.Model(&models.Post{}).
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
		Where("bookmarks.user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Author").Preload("Category").Preload("Tags").
		Order("bookmarks.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error

	return posts, total, err
}
