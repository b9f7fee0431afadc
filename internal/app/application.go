package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"blogforge-backend/internal/aigen"
	"blogforge-backend/internal/background"
	"blogforge-backend/internal/config"
	"blogforge-backend/internal/handlers"
	"blogforge-backend/internal/middleware"
	"blogforge-backend/internal/models"
	"blogforge-backend/internal/repository"
	"blogforge-backend/internal/seed"
	"blogforge-backend/internal/service"
	"blogforge-backend/internal/storage"
	"blogforge-backend/pkg/cache"
	"blogforge-backend/pkg/logger"
)

type Application struct {
	cfg *config.Config

	db    *gorm.DB
	cache *cache.Cache

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	rateLimits *middleware.RateLimitManager
	scheduler  *background.Scheduler
	router     *gin.Engine
	server     *http.Server
}

type repositoryContainer struct {
	User         repository.UserRepository
	Session      repository.SessionRepository
	Category     repository.CategoryRepository
	Post         repository.PostRepository
	Tag          repository.TagRepository
	Comment      repository.CommentRepository
	Engagement   repository.EngagementRepository
	View         repository.ViewRepository
	Notification repository.NotificationRepository
	Search       repository.SearchRepository
	Stats        repository.StatsRepository
}

type serviceContainer struct {
	Auth         *service.AuthService
	Session      *service.SessionService
	Category     *service.CategoryService
	Post         *service.PostService
	Comment      *service.CommentService
	Engagement   *service.EngagementService
	Notification *service.NotificationService
	Email        *service.EmailService
	Search       *service.SearchService
	Stats        *service.StatsService
	Upload       *service.UploadService
	AI           *service.AIService
}

type handlerContainer struct {
	Auth         *handlers.AuthHandler
	Category     *handlers.CategoryHandler
	Post         *handlers.PostHandler
	Comment      *handlers.CommentHandler
	Engagement   *handlers.EngagementHandler
	Notification *handlers.NotificationHandler
	Search       *handlers.SearchHandler
	Stats        *handlers.StatsHandler
	Upload       *handlers.UploadHandler
	AI           *handlers.AIHandler
	SEO          *handlers.SEOHandler
	Cache        *handlers.CacheHandler
}

func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &Application{cfg: cfg}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.runMigrations(); err != nil {
		return nil, err
	}

	if err := app.createIndexes(); err != nil {
		return nil, err
	}

	if err := app.initCache(); err != nil {
		return nil, err
	}

	app.initRepositories()

	if err := app.initServices(); err != nil {
		return nil, err
	}

	if count, err := seed.Categories(app.repositories.Category); err != nil {
		logger.Error(err, "Failed to seed default categories", nil)
	} else if count > 0 {
		logger.Info("Seeded default categories", map[string]interface{}{"count": count})
	}

	app.initHandlers()
	app.initRouter()

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

// StartBackground launches the rate limiter cleanup and the job scheduler.
// The provided context bounds their lifetime.
func (a *Application) StartBackground(ctx context.Context) error {
	a.rateLimits = middleware.NewRateLimitManager(ctx)

	a.scheduler = background.NewScheduler(background.SchedulerConfig{
		WorkerCount: 4,
		QueueSize:   64,
	})
	a.scheduler.Start(ctx)

	return background.RegisterJobs(
		a.scheduler,
		a.cfg,
		a.services.Post,
		a.services.Session,
		a.services.Notification,
		a.services.AI,
	)
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(ctx); err != nil {
			logger.Error(err, "Scheduler shutdown incomplete", nil)
		}
	}

	if a.rateLimits != nil {
		_ = a.rateLimits.Shutdown()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Tag{},
		&models.Comment{},
		&models.View{},
		&models.Bookmark{},
		&models.PostLike{},
		&models.CommentLike{},
		&models.Notification{},
		&models.UserSession{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

var indexStatements = []string{
	"CREATE INDEX IF NOT EXISTS idx_posts_published ON posts(is_published) WHERE is_published = true",
	"CREATE INDEX IF NOT EXISTS idx_posts_published_at ON posts(published_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_posts_scheduled_at ON posts(scheduled_at) WHERE scheduled_at IS NOT NULL",
	"CREATE INDEX IF NOT EXISTS idx_comments_pending ON comments(created_at) WHERE is_approved = false AND is_spam = false",
	"CREATE INDEX IF NOT EXISTS idx_views_post_ip ON views(post_id, ip_address, created_at)",
	"CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(user_id) WHERE is_read = false",
	"CREATE INDEX IF NOT EXISTS idx_sessions_token ON user_sessions(token) WHERE is_active = true",
}

func (a *Application) createIndexes() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Creating database indexes", nil)

	for _, stmt := range indexStatements {
		if err := a.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (a *Application) initCache() error {
	addr := ""
	if a.cfg.CacheEnabled() {
		addr = a.cfg.RedisURL
	}

	c, err := cache.NewCache(addr, a.cfg.CacheEnabled())
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	a.cache = c
	return nil
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		User:         repository.NewUserRepository(a.db),
		Session:      repository.NewSessionRepository(a.db),
		Category:     repository.NewCategoryRepository(a.db),
		Post:         repository.NewPostRepository(a.db),
		Tag:          repository.NewTagRepository(a.db),
		Comment:      repository.NewCommentRepository(a.db),
		Engagement:   repository.NewEngagementRepository(a.db),
		View:         repository.NewViewRepository(a.db),
		Notification: repository.NewNotificationRepository(a.db),
		Search:       repository.NewSearchRepository(a.db),
		Stats:        repository.NewStatsRepository(a.db),
	}
}

func (a *Application) initServices() error {
	repos := a.repositories

	email := service.NewEmailService(a.cfg)
	notification := service.NewNotificationService(repos.Notification, repos.User, email)
	post := service.NewPostService(repos.Post, repos.Tag, repos.Category, a.cache)

	var objectStore *storage.ObjectStore
	if a.cfg.ObjectStorageEnabled() {
		store, err := storage.NewObjectStore(a.cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
		objectStore = store
	}

	var aiService *service.AIService
	if a.cfg.AIEnabled {
		manager := aigen.NewManager(a.cfg, a.cache)
		aiService = service.NewAIService(manager, post, repos.User, repos.Post, repos.Tag, repos.Category, a.cfg)
	}

	a.services = serviceContainer{
		Auth:         service.NewAuthService(repos.User, repos.Session, a.cfg.JWTSecret),
		Session:      service.NewSessionService(repos.Session),
		Category:     service.NewCategoryService(repos.Category, a.cache),
		Post:         post,
		Comment:      service.NewCommentService(repos.Comment, repos.Post, notification),
		Engagement:   service.NewEngagementService(repos.Engagement, repos.View, repos.Post),
		Notification: notification,
		Email:        email,
		Search:       service.NewSearchService(repos.Search),
		Stats:        service.NewStatsService(repos.Stats, repos.User, a.cfg.AIAuthorName),
		Upload:       service.NewUploadService(a.cfg.UploadDir, a.cfg.MaxUploadSize, objectStore),
		AI:           aiService,
	}

	return nil
}

func (a *Application) initHandlers() {
	svcs := a.services

	a.handlers = handlerContainer{
		Auth:         handlers.NewAuthHandler(svcs.Auth, svcs.Session),
		Category:     handlers.NewCategoryHandler(svcs.Category),
		Post:         handlers.NewPostHandler(svcs.Post, svcs.Engagement),
		Comment:      handlers.NewCommentHandler(svcs.Comment),
		Engagement:   handlers.NewEngagementHandler(svcs.Engagement),
		Notification: handlers.NewNotificationHandler(svcs.Notification),
		Search:       handlers.NewSearchHandler(svcs.Search),
		Stats:        handlers.NewStatsHandler(svcs.Stats),
		Upload:       handlers.NewUploadHandler(svcs.Upload),
		AI:           handlers.NewAIHandler(svcs.AI),
		SEO:          handlers.NewSEOHandler(svcs.Post, svcs.Category, a.cfg),
		Cache:        handlers.NewCacheHandler(a.cache),
	}
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	router.Use(middleware.SecurityHeadersMiddleware())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(func(c *gin.Context) {
		if a.rateLimits != nil {
			c.Set("rateLimitManager", a.rateLimits)
		}
		c.Next()
	})
	router.Use(middleware.RateLimitMiddleware(a.cfg))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.Static("/uploads", a.cfg.UploadDir)

	router.GET("/sitemap.xml", a.handlers.SEO.Sitemap)
	router.GET("/robots.txt", a.handlers.SEO.Robots)

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(middleware.OptionalAuthMiddleware(a.cfg.JWTSecret))
		{
			public.POST("/register", a.handlers.Auth.Register)
			public.POST("/login", a.handlers.Auth.Login)
			public.POST("/logout", a.handlers.Auth.Logout)
			public.POST("/refresh", a.handlers.Auth.RefreshToken)

			public.GET("/posts", a.handlers.Post.GetPublished)
			public.GET("/posts/popular", a.handlers.Post.GetPopular)
			public.GET("/posts/recent", a.handlers.Post.GetRecent)
			public.GET("/posts/slug/:slug", a.handlers.Post.GetBySlug)
			public.GET("/posts/:id", a.handlers.Post.GetByID)
			public.GET("/posts/:id/related", a.handlers.Post.GetRelated)
			public.GET("/posts/:id/comments", a.handlers.Comment.GetByPostID)

			public.GET("/categories", a.handlers.Category.GetAll)
			public.GET("/categories/:id", a.handlers.Category.GetByID)
			public.GET("/categories/slug/:slug", a.handlers.Category.GetBySlug)

			public.GET("/tags", a.handlers.Post.GetAllTags)
			public.GET("/tags/popular", a.handlers.Post.GetPopularTags)
			public.GET("/tags/:slug", a.handlers.Post.GetTagBySlug)

			public.GET("/search", a.handlers.Search.Search)
			public.GET("/search/posts", a.handlers.Search.SearchPosts)

			public.GET("/users/:username", a.handlers.Auth.GetPublicProfile)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		{
			protected.GET("/profile", a.handlers.Auth.Me)
			protected.PUT("/profile", a.handlers.Auth.UpdateProfile)
			protected.PUT("/profile/password", a.handlers.Auth.ChangePassword)

			protected.GET("/sessions", a.handlers.Auth.GetSessions)
			protected.DELETE("/sessions", a.handlers.Auth.TerminateAllSessions)
			protected.DELETE("/sessions/:id", a.handlers.Auth.TerminateSession)

			protected.POST("/posts", a.handlers.Post.Create)
			protected.PUT("/posts/:id", a.handlers.Post.Update)
			protected.DELETE("/posts/:id", a.handlers.Post.Delete)
			protected.GET("/posts/:id/analysis", a.handlers.Post.Analyze)

			protected.POST("/posts/:id/comments", a.handlers.Comment.Create)
			protected.PUT("/comments/:id", a.handlers.Comment.Update)
			protected.DELETE("/comments/:id", a.handlers.Comment.Delete)

			protected.POST("/posts/:id/like", a.handlers.Engagement.LikePost)
			protected.DELETE("/posts/:id/like", a.handlers.Engagement.UnlikePost)
			protected.GET("/posts/:id/liked", a.handlers.Engagement.HasLikedPost)
			protected.POST("/comments/:id/like", a.handlers.Engagement.LikeComment)
			protected.DELETE("/comments/:id/like", a.handlers.Engagement.UnlikeComment)

			protected.GET("/bookmarks", a.handlers.Engagement.GetBookmarks)
			protected.POST("/posts/:id/bookmark", a.handlers.Engagement.AddBookmark)
			protected.DELETE("/posts/:id/bookmark", a.handlers.Engagement.RemoveBookmark)

			protected.GET("/notifications", a.handlers.Notification.List)
			protected.GET("/notifications/unread", a.handlers.Notification.CountUnread)
			protected.PUT("/notifications/:id/read", a.handlers.Notification.MarkRead)
			protected.PUT("/notifications/read-all", a.handlers.Notification.MarkAllRead)

			protected.POST("/upload", a.handlers.Upload.Upload)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/posts", a.handlers.Post.GetAll)
			admin.PUT("/posts/:id/publish", a.handlers.Post.Publish)
			admin.PUT("/posts/:id/unpublish", a.handlers.Post.Unpublish)

			admin.POST("/categories", a.handlers.Category.Create)
			admin.PUT("/categories/:id", a.handlers.Category.Update)
			admin.DELETE("/categories/:id", a.handlers.Category.Delete)

			admin.GET("/comments", a.handlers.Comment.GetByState)
			admin.GET("/comments/pending", a.handlers.Comment.CountPending)
			admin.PUT("/comments/:id/approve", a.handlers.Comment.Approve)
			admin.PUT("/comments/:id/reject", a.handlers.Comment.Reject)
			admin.PUT("/comments/:id/spam", a.handlers.Comment.MarkAsSpam)

			admin.DELETE("/tags/:id", a.handlers.Post.DeleteTag)

			admin.GET("/users", a.handlers.Auth.ListUsers)
			admin.DELETE("/users/:id", a.handlers.Auth.DeleteUser)
			admin.PUT("/users/:id/role", a.handlers.Auth.UpdateUserRole)
			admin.PUT("/users/:id/status", a.handlers.Auth.UpdateUserStatus)

			admin.DELETE("/upload", a.handlers.Upload.Delete)

			admin.POST("/cache/flush", a.handlers.Cache.Flush)

			admin.GET("/stats", a.handlers.Stats.SiteStats)
			admin.GET("/stats/posts/top", a.handlers.Stats.TopPosts)
			admin.GET("/stats/authors/top", a.handlers.Stats.TopAuthors)
			admin.GET("/stats/posts/daily", a.handlers.Stats.PostsPerDay)

			admin.POST("/ai/generate", a.handlers.AI.Generate)
			admin.GET("/ai/topics", a.handlers.AI.Topics)
			admin.GET("/ai/providers", a.handlers.AI.TestProviders)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "route not found",
			"path":  c.Request.URL.Path,
		})
	})

	a.router = router
}
