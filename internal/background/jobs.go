package background

import (
	"context"
	"time"

	"blogforge-backend/internal/config"
	"blogforge-backend/internal/service"
	"blogforge-backend/pkg/logger"
)

const notificationRetention = 90 * 24 * time.Hour

// RegisterJobs wires the periodic maintenance jobs onto a started scheduler.
func RegisterJobs(
	s *Scheduler,
	cfg *config.Config,
	postService *service.PostService,
	sessionService *service.SessionService,
	notificationService *service.NotificationService,
	aiService *service.AIService,
) error {
	jobs := []struct {
		interval time.Duration
		job      Job
	}{
		{
			interval: time.Minute,
			job: Job{
				Name:    "publish_scheduled_posts",
				Timeout: 30 * time.Second,
				Run: func(ctx context.Context) error {
					published, err := postService.PublishDueScheduled()
					if err != nil {
						return err
					}
					if published > 0 {
						logger.Info("Scheduled posts published", map[string]interface{}{"count": published})
					}
					return nil
				},
			},
		},
		{
			interval: time.Hour,
			job: Job{
				Name:        "expire_sessions",
				Timeout:     time.Minute,
				RetryPolicy: RetryPolicy{MaxRetries: 2, Backoff: 10 * time.Second},
				Run: func(ctx context.Context) error {
					return sessionService.ExpireStale()
				},
			},
		},
		{
			interval: 24 * time.Hour,
			job: Job{
				Name:    "recount_counters",
				Timeout: 10 * time.Minute,
				Run: func(ctx context.Context) error {
					return postService.RecountCounters()
				},
			},
		},
		{
			interval: 24 * time.Hour,
			job: Job{
				Name:    "cleanup_notifications",
				Timeout: time.Minute,
				Run: func(ctx context.Context) error {
					deleted, err := notificationService.CleanupOld(notificationRetention)
					if err != nil {
						return err
					}
					if deleted > 0 {
						logger.Info("Old notifications removed", map[string]interface{}{"count": deleted})
					}
					return nil
				},
			},
		},
	}

	if cfg.AIEnabled && cfg.AIAutoGenerate && aiService != nil {
		jobs = append(jobs, struct {
			interval time.Duration
			job      Job
		}{
			interval: 6 * time.Hour,
			job: Job{
				Name:        "auto_generate_posts",
				Timeout:     5 * time.Minute,
				RetryPolicy: RetryPolicy{MaxRetries: 1, Backoff: time.Minute},
				Run: func(ctx context.Context) error {
					result, err := aiService.GenerateBatch(1, "", "", true, false)
					if err != nil {
						if result != nil && result.Created == 0 {
							// Daily cap is an expected stop, not a failure.
							logger.Debug("Auto generation skipped", map[string]interface{}{"reason": err.Error()})
							return nil
						}
						return err
					}
					return nil
				},
			},
		})
	}

	for _, j := range jobs {
		if err := s.Every(j.interval, j.job); err != nil {
			return err
		}
	}
	return nil
}
