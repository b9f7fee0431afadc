package repository

import (
	"time"

	"gorm.io/gorm"

	"blogforge-backend/internal/models"
)

type SessionRepository interface {
	Create(session *models.UserSession) error
	Update(session *models.UserSession) error
	GetByToken(token string) (*models.UserSession, error)
	GetActiveByUserID(userID uint) ([]models.UserSession, error)
	Touch(id uint, at time.Time) error
	Terminate(id, userID uint) error
	TerminateAll(userID uint) (int64, error)
	ExpireStale(now time.Time) (int64, error)
	DeleteInactiveOlderThan(cutoff time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *models.UserSession) error {
	return r.db.Create(session).Error
}

func (r *sessionRepository) Update(session *models.UserSession) error {
	return r.db.Save(session).Error
}

func (r *sessionRepository) GetByToken(token string) (*models.UserSession, error) {
	var session models.UserSession
	err := r.db.Where("token = ? AND is_active = ?", token, true).First(&session).Error
	return &session, err
}

func (r *sessionRepository) GetActiveByUserID(userID uint) ([]models.UserSession, error) {
	var sessions []models.UserSession
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("last_activity DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) Touch(id uint, at time.Time) error {
	return r.db.Model(&models.UserSession{}).
		Where("id = ?", id).
		UpdateColumn("last_activity", at).Error
}

func (r *sessionRepository) Terminate(id, userID uint) error {
	result := r.db.Model(&models.UserSession{}).
		Where("id = ? AND user_id = ?", id, userID).
		UpdateColumn("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sessionRepository) TerminateAll(userID uint) (int64, error) {
	result := r.db.Model(&models.UserSession{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		UpdateColumn("is_active", false)
	return result.RowsAffected, result.Error
}

// ExpireStale deactivates sessions past their expiry. Runs from the hourly
// background sweep.
func (r *sessionRepository) ExpireStale(now time.Time) (int64, error) {
	result := r.db.Model(&models.UserSession{}).
		Where("is_active = ? AND expires_at <= ?", true, now).
		UpdateColumn("is_active", false)
	return result.RowsAffected, result.Error
}

func (r *sessionRepository) DeleteInactiveOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Unscoped().
		Where("is_active = ? AND last_activity < ?", false, cutoff).
		Delete(&models.UserSession{})
	return result.RowsAffected, result.Error
}
