package cli

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"blogforge-backend/internal/aigen"
	"blogforge-backend/internal/config"
	"blogforge-backend/internal/repository"
	"blogforge-backend/internal/service"
	"blogforge-backend/pkg/cache"
	"blogforge-backend/pkg/logger"
)

// toolkit bundles the services a management command needs, without the HTTP
// surface of the full application.
type toolkit struct {
	cfg *config.Config
	db  *gorm.DB

	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository

	post         *service.PostService
	category     *service.CategoryService
	session      *service.SessionService
	notification *service.NotificationService
	stats        *service.StatsService
	ai           *service.AIService
}

func newToolkit() (*toolkit, error) {
	cfg := config.New()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	noCache, err := cache.NewCache("", false)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache stub: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	postRepo := repository.NewPostRepository(db)
	tagRepo := repository.NewTagRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	email := service.NewEmailService(cfg)
	notification := service.NewNotificationService(notificationRepo, userRepo, email)
	post := service.NewPostService(postRepo, tagRepo, categoryRepo, noCache)
	manager := aigen.NewManager(cfg, noCache)

	return &toolkit{
		cfg:          cfg,
		db:           db,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		post:         post,
		category:     service.NewCategoryService(categoryRepo, noCache),
		session:      service.NewSessionService(sessionRepo),
		notification: notification,
		stats:        service.NewStatsService(statsRepo, userRepo, cfg.AIAuthorName),
		ai:           service.NewAIService(manager, post, userRepo, postRepo, tagRepo, categoryRepo, cfg),
	}, nil
}

func (t *toolkit) Close() {
	if t == nil || t.db == nil {
		return
	}
	if sqlDB, err := t.db.DB(); err == nil {
		sqlDB.Close()
	}
}
