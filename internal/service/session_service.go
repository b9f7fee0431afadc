package service

import (
	"time"

	"blogforge-backend/internal/models"
	"blogforge-backend/internal/repository"
	"blogforge-backend/pkg/logger"
)

const inactiveSessionRetention = 30 * 24 * time.Hour

type SessionService struct {
	sessionRepo repository.SessionRepository
}

func NewSessionService(sessionRepo repository.SessionRepository) *SessionService {
	return &SessionService{sessionRepo: sessionRepo}
}

func (s *SessionService) GetActiveSessions(userID uint) ([]models.UserSession, error) {
	return s.sessionRepo.GetActiveByUserID(userID)
}

func (s *SessionService) Terminate(sessionID, userID uint) error {
	return s.sessionRepo.Terminate(sessionID, userID)
}

func (s *SessionService) TerminateAll(userID uint) (int64, error) {
	return s.sessionRepo.TerminateAll(userID)
}

func (s *SessionService) Touch(sessionID uint) error {
	return s.sessionRepo.Touch(sessionID, time.Now())
}

// ExpireStale deactivates sessions past expiry and purges long-inactive
// ones. Runs from the hourly sweep job.
func (s *SessionService) ExpireStale() error {
	expired, err := s.sessionRepo.ExpireStale(time.Now())
	if err != nil {
		return err
	}

	deleted, err := s.sessionRepo.DeleteInactiveOlderThan(time.Now().Add(-inactiveSessionRetention))
	if err != nil {
		return err
	}

	if expired > 0 || deleted > 0 {
		logger.Info("Session sweep finished", map[string]interface{}{
			"expired": expired,
			"deleted": deleted,
		})
	}
	return nil
}
