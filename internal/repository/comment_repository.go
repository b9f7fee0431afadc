package repository

import (
	"time"

	"gorm.io/gorm"

	"blogforge-backend/internal/models"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id uint) (*models.Comment, error)
	GetByPostID(postID uint) ([]models.Comment, error)
	GetByState(state string, offset, limit int) ([]models.Comment, int64, error)
	Update(comment *models.Comment) error
	Delete(id uint) error
	SetModeration(id uint, approved, spam bool, moderatorID uint, notes string, at time.Time) error
	CountPending() (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and bumps the post, author and parent counters
// in one transaction. Only approved comments count toward the post total.
func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", comment.AuthorID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error; err != nil {
			return err
		}

		if comment.IsApproved {
			if err := tx.Model(&models.Post{}).
				Where("id = ?", comment.PostID).
				UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error; err != nil {
				return err
			}
		}

		if comment.ParentID != nil {
			if err := tx.Model(&models.Comment{}).
				Where("id = ?", *comment.ParentID).
				UpdateColumn("replies_count", gorm.Expr("replies_count + 1")).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *commentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").First(&comment, id).Error
	return &comment, err
}

// GetByPostID returns the approved top-level comments of a post with their
// approved replies, newest first.
func (r *commentRepository) GetByPostID(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ? AND parent_id IS NULL AND is_approved = ?", postID, true).
		Preload("Author").
		Preload("Replies", "is_approved = ?", true).
		Preload("Replies.Author").
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) GetByState(state string, offset, limit int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	query := r.db.Model(&models.Comment{})
	switch state {
	case "spam":
		query = query.Where("is_spam = ?", true)
	case "approved":
		query = query.Where("is_approved = ? AND is_spam = ?", true, false)
	case "pending":
		query = query.Where("is_approved = ? AND is_spam = ?", false, false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Author").Preload("Post").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&comments).Error

	return comments, total, err
}

func (r *commentRepository) Update(comment *models.Comment) error {
	return r.db.Omit("Author", "Post", "Parent", "Replies", "Likes").Save(comment).Error
}

func (r *commentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			return err
		}

		var replyIDs []uint
		if err := tx.Model(&models.Comment{}).Where("parent_id = ?", id).Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		ids := append(replyIDs, id)

		if err := tx.Unscoped().Where("comment_id IN ?", ids).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ? AND comments_count > 0", comment.AuthorID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - 1")).Error; err != nil {
			return err
		}

		if comment.ParentID != nil {
			if err := tx.Model(&models.Comment{}).
				Where("id = ? AND replies_count > 0", *comment.ParentID).
				UpdateColumn("replies_count", gorm.Expr("replies_count - 1")).Error; err != nil {
				return err
			}
		}

		// Rebuild the post counter instead of tracking per-reply deltas.
		return tx.Exec(`
			UPDATE posts SET comments_count = (
				SELECT COUNT(*) FROM comments
				WHERE comments.post_id = posts.id
				  AND comments.is_approved = TRUE
				  AND comments.deleted_at IS NULL
			) WHERE id = ?
		`, comment.PostID).Error
	})
}

// SetModeration applies a moderation decision and keeps the post counter in
// step with the approved state transition.
func (r *commentRepository) SetModeration(id uint, approved, spam bool, moderatorID uint, notes string, at time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			return err
		}

		wasApproved := comment.IsApproved && !comment.IsSpam
		nowApproved := approved && !spam

		updates := map[string]interface{}{
			"is_approved":      approved,
			"is_spam":          spam,
			"moderated_by":     moderatorID,
			"moderated_at":     at,
			"moderation_notes": notes,
		}
		if err := tx.Model(&models.Comment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if wasApproved == nowApproved {
			return nil
		}

		delta := 1
		if !nowApproved {
			delta = -1
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", delta)).Error
	})
}

func (r *commentRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).
		Where("is_approved = ? AND is_spam = ?", false, false).
		Count(&count).Error
	return count, err
}
