package service

import (
	"errors"
	"fmt"
	"time"

	"blogforge-backend/internal/models"
	"blogforge-backend/internal/repository"
	"blogforge-backend/pkg/logger"
	"blogforge-backend/pkg/utils"
)

var (
	ErrCommentsDisabled = errors.New("comments are disabled for this post")
	ErrParentMismatch   = errors.New("parent comment belongs to a different post")
)

type CommentService struct {
	commentRepo  repository.CommentRepository
	postRepo     repository.PostRepository
	notification *NotificationService
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	notification *NotificationService,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		postRepo:     postRepo,
		notification: notification,
	}
}

// Create adds a comment to a post. Replies must reference a parent on the
// same post. New comments start unapproved unless the author is an admin.
func (s *CommentService) Create(req models.CreateCommentRequest, postID, authorID uint, isAdmin bool) (*models.Comment, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}

	if !post.AllowComments {
		return nil, ErrCommentsDisabled
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(*req.ParentID)
		if err != nil {
			return nil, errors.New("parent comment not found")
		}
		if parent.PostID != postID {
			return nil, ErrParentMismatch
		}
		if parent.ParentID != nil {
			// One level of nesting only, deeper replies attach to the root.
			req.ParentID = parent.ParentID
		}
	}

	comment := &models.Comment{
		Content:     req.Content,
		ContentHTML: utils.RenderCommentHTML(req.Content),
		IsApproved:  isAdmin,
		PostID:      postID,
		AuthorID:    authorID,
		ParentID:    req.ParentID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if s.notification != nil {
		s.notification.NotifyNewComment(post, comment)
	}

	logger.Info("Comment created", map[string]interface{}{
		"comment_id": comment.ID,
		"post_id":    postID,
		"approved":   comment.IsApproved,
	})
	return comment, nil
}

func (s *CommentService) Update(id uint, req models.UpdateCommentRequest, userID uint, isAdmin bool) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != userID && !isAdmin {
		return nil, ErrForbidden
	}

	comment.Content = req.Content
	comment.ContentHTML = utils.RenderCommentHTML(req.Content)

	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) Delete(id uint, userID uint, isAdmin bool) error {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return err
	}

	if comment.AuthorID != userID && !isAdmin {
		return ErrForbidden
	}

	return s.commentRepo.Delete(id)
}

func (s *CommentService) GetByPostID(postID uint) ([]models.Comment, error) {
	return s.commentRepo.GetByPostID(postID)
}

func (s *CommentService) GetByState(state string, page, limit int) ([]models.Comment, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.commentRepo.GetByState(state, (page-1)*limit, limit)
}

// Approve moves a comment to the approved state.
func (s *CommentService) Approve(id, moderatorID uint, notes string) error {
	return s.moderate(id, moderatorID, true, false, notes)
}

// Reject returns a comment to the pending state.
func (s *CommentService) Reject(id, moderatorID uint, notes string) error {
	return s.moderate(id, moderatorID, false, false, notes)
}

// MarkAsSpam flags a comment as spam, which also removes approval.
func (s *CommentService) MarkAsSpam(id, moderatorID uint, notes string) error {
	return s.moderate(id, moderatorID, false, true, notes)
}

func (s *CommentService) moderate(id, moderatorID uint, approved, spam bool, notes string) error {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return err
	}

	wasApproved := comment.IsApproved && !comment.IsSpam
	if err := s.commentRepo.SetModeration(id, approved, spam, moderatorID, notes, time.Now()); err != nil {
		return fmt.Errorf("failed to moderate comment: %w", err)
	}

	if approved && !wasApproved && s.notification != nil {
		if post, err := s.postRepo.GetByID(comment.PostID); err == nil {
			s.notification.NotifyCommentApproved(post, comment)
		}
	}

	logger.Info("Comment moderated", map[string]interface{}{
		"comment_id": id,
		"approved":   approved,
		"spam":       spam,
		"moderator":  moderatorID,
	})
	return nil
}

func (s *CommentService) CountPending() (int64, error) {
	return s.commentRepo.CountPending()
}
