package service

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"blogforge-backend/internal/aigen"
	"blogforge-backend/internal/config"
	"blogforge-backend/internal/models"
	"blogforge-backend/internal/repository"
	"blogforge-backend/pkg/logger"
	"blogforge-backend/pkg/utils"
)

var ErrDailyCapReached = errors.New("daily generation cap reached")

// AIService turns generated content into persisted posts under a dedicated
// author account, enforcing the daily cap.
type AIService struct {
	manager      *aigen.Manager
	postService  *PostService
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	tagRepo      repository.TagRepository
	categoryRepo repository.CategoryRepository
	cfg          *config.Config
}

func NewAIService(
	manager *aigen.Manager,
	postService *PostService,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	categoryRepo repository.CategoryRepository,
	cfg *config.Config,
) *AIService {
	return &AIService{
		manager:      manager,
		postService:  postService,
		userRepo:     userRepo,
		postRepo:     postRepo,
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
		cfg:          cfg,
	}
}

func (s *AIService) Manager() *aigen.Manager { return s.manager }

// EnsureAuthor returns the generation author account, creating it on first
// use.
func (s *AIService) EnsureAuthor() (*models.User, error) {
	author, err := s.userRepo.GetByUsername(s.cfg.AIAuthorName)
	if err == nil {
		return author, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	password, err := bcrypt.GenerateFromPassword([]byte(utils.RandomString(32)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	author = &models.User{
		Username:  s.cfg.AIAuthorName,
		Email:     s.cfg.AIAuthorName + "@" + "blogforge.local",
		Password:  string(password),
		FirstName: "Автор",
		LastName:  "Контента",
		Bio:       "Автоматически генерируемые материалы",
		Role:      "user",
		IsActive:  true,
	}
	if err := s.userRepo.Create(author); err != nil {
		return nil, fmt.Errorf("failed to create generation author: %w", err)
	}

	logger.Info("Created generation author account", map[string]interface{}{
		"username": author.Username,
	})
	return author, nil
}

// GenerateResult reports the outcome of one batch run.
type GenerateResult struct {
	Requested int           `json:"requested"`
	Created   int           `json:"created"`
	Skipped   int           `json:"skipped"`
	Posts     []models.Post `json:"posts"`
	Errors    []string      `json:"errors,omitempty"`
}

// GenerateBatch produces count posts, optionally restricted to a category or
// topic. Respects the daily cap unless unlimited is set.
func (s *AIService) GenerateBatch(count int, category, topic string, publish, unlimited bool) (*GenerateResult, error) {
	if count < 1 || count > 50 {
		return nil, errors.New("count must be between 1 and 50")
	}

	author, err := s.EnsureAuthor()
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{Requested: count}

	for i := 0; i < count; i++ {
		if !unlimited {
			if err := s.checkDailyCap(author.ID); err != nil {
				result.Skipped = count - result.Created
				if result.Created == 0 {
					return result, err
				}
				logger.Warn("Stopping batch at daily cap", map[string]interface{}{
					"created": result.Created,
				})
				return result, nil
			}
		}

		post, err := s.generateOne(author.ID, category, topic, publish)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Created++
		result.Posts = append(result.Posts, *post)
	}

	return result, nil
}

func (s *AIService) generateOne(authorID uint, category, topic string, publish bool) (*models.Post, error) {
	generated, err := s.manager.GeneratePost(category, topic)
	if err != nil {
		return nil, err
	}

	req := models.CreatePostRequest{
		Title:       generated.Title,
		Content:     generated.Content,
		Excerpt:     generated.Excerpt,
		IsPublished: publish,
		Visibility:  "public",
		TagNames:    generated.Tags,
	}
	if !publish {
		req.Visibility = "draft"
	}

	if categoryID := s.resolveCategoryID(generated.Category); categoryID != nil {
		req.CategoryID = categoryID
	}

	post, err := s.postService.Create(req, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to save generated post: %w", err)
	}

	logger.Info("Generated post", map[string]interface{}{
		"post_id":   post.ID,
		"slug":      post.Slug,
		"topic":     generated.Topic,
		"quality":   generated.QualityScore,
		"published": publish,
	})
	return post, nil
}

func (s *AIService) resolveCategoryID(name string) *uint {
	category, err := s.categoryRepo.GetBySlug(utils.GenerateSlug(name))
	if err != nil {
		return nil
	}
	return &category.ID
}

func (s *AIService) checkDailyCap(authorID uint) error {
	since := time.Now().Truncate(24 * time.Hour)
	generated, err := s.postRepo.CountByAuthorSince(authorID, since)
	if err != nil {
		return err
	}
	if generated >= int64(s.cfg.AIDailyPostCap) {
		return fmt.Errorf("%w: %d posts today", ErrDailyCapReached, generated)
	}
	return nil
}

// CleanupPosts deletes every post authored by the generation account.
func (s *AIService) CleanupPosts() (int64, error) {
	author, err := s.userRepo.GetByUsername(s.cfg.AIAuthorName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	deleted, err := s.postRepo.DeleteByAuthor(author.ID)
	if err != nil {
		return deleted, err
	}

	if _, err := s.tagRepo.DeleteOrphaned(); err != nil {
		logger.Error(err, "Failed to prune orphaned tags", nil)
	}
	return deleted, nil
}

// CleanupAuthor removes the generation account with everything it owns.
func (s *AIService) CleanupAuthor() error {
	author, err := s.userRepo.GetByUsername(s.cfg.AIAuthorName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.userRepo.Delete(author.ID)
}
