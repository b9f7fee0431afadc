package service

import (
	"fmt"
	"time"

	"blogforge-backend/internal/models"
	"blogforge-backend/internal/repository"
	"blogforge-backend/pkg/logger"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	email            *EmailService
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	emailService *EmailService,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		email:            emailService,
	}
}

func (s *NotificationService) Create(userID uint, notificationType, title, message, link string, data models.JSONMap) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		Link:    link,
		Data:    data,
	}
	return s.notificationRepo.Create(notification)
}

// NotifyNewComment tells the post author about a fresh comment. Self-comments
// are skipped. Email goes out only when the author opted in.
func (s *NotificationService) NotifyNewComment(post *models.Post, comment *models.Comment) {
	if post.AuthorID == comment.AuthorID {
		return
	}

	commentAuthor, err := s.userRepo.GetByID(comment.AuthorID)
	if err != nil {
		logger.Error(err, "Failed to load comment author for notification", nil)
		return
	}

	title := "Новый комментарий"
	message := fmt.Sprintf("%s оставил комментарий к посту «%s»", commentAuthor.Username, post.Title)
	link := "/blog/post/" + post.Slug
	data := models.JSONMap{"post_id": post.ID, "comment_id": comment.ID}

	if err := s.Create(post.AuthorID, "comment", title, message, link, data); err != nil {
		logger.Error(err, "Failed to create comment notification", map[string]interface{}{
			"post_id": post.ID,
		})
		return
	}

	if s.email != nil && s.email.Enabled() {
		postAuthor, err := s.userRepo.GetByID(post.AuthorID)
		if err == nil && postAuthor.EmailNotifications {
			go s.email.SendCommentNotification(postAuthor.Email, post.Title, commentAuthor.Username)
		}
	}
}

// NotifyCommentApproved tells the comment author the comment passed
// moderation. Email goes out only when the author opted in.
func (s *NotificationService) NotifyCommentApproved(post *models.Post, comment *models.Comment) {
	title := "Комментарий одобрен"
	message := fmt.Sprintf("Ваш комментарий к посту «%s» прошел модерацию и опубликован", post.Title)
	link := "/blog/post/" + post.Slug
	data := models.JSONMap{"post_id": post.ID, "comment_id": comment.ID}

	if err := s.Create(comment.AuthorID, "moderation", title, message, link, data); err != nil {
		logger.Error(err, "Failed to create moderation notification", map[string]interface{}{
			"comment_id": comment.ID,
		})
		return
	}

	if s.email != nil && s.email.Enabled() {
		author, err := s.userRepo.GetByID(comment.AuthorID)
		if err == nil && author.EmailNotifications {
			go s.email.SendCommentApproved(author.Email, post.Title)
		}
	}
}

func (s *NotificationService) GetForUser(userID uint, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.notificationRepo.GetByUserID(userID, unreadOnly, (page-1)*limit, limit)
}

func (s *NotificationService) CountUnread(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

func (s *NotificationService) MarkRead(id, userID uint) error {
	return s.notificationRepo.MarkRead(id, userID)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}

// CleanupOld deletes read notifications older than the retention window.
func (s *NotificationService) CleanupOld(retention time.Duration) (int64, error) {
	return s.notificationRepo.DeleteOlderThan(time.Now().Add(-retention))
}
