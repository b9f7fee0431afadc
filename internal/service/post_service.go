package service

import (
	"errors"
	"fmt"
	"time"

	"blogforge-backend/internal/models"
	"blogforge-backend/internal/repository"
	"blogforge-backend/internal/seo"
	"blogforge-backend/pkg/logger"
	"blogforge-backend/pkg/utils"
)

var ErrForbidden = errors.New("operation not allowed")

// PostCache is the slice of the cache layer the post service touches.
// *cache.Cache satisfies it.
type PostCache interface {
	Enabled() bool
	CachePostBySlug(slug string, post interface{}) error
	GetCachedPostBySlug(slug string, dest interface{}) error
	CacheTags(tags interface{}) error
	GetCachedTags(dest interface{}) error
	InvalidatePost(postID uint) error
	InvalidatePostsCache() error
	InvalidateTags() error
}

type PostService struct {
	postRepo     repository.PostRepository
	tagRepo      repository.TagRepository
	categoryRepo repository.CategoryRepository
	cache        PostCache
}

func NewPostService(
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	categoryRepo repository.CategoryRepository,
	cacheService PostCache,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
		cache:        cacheService,
	}
}

func (s *PostService) Create(req models.CreatePostRequest, authorID uint) (*models.Post, error) {
	slug, err := utils.UniqueSlug(req.Title, s.postRepo.ExistsBySlug)
	if err != nil {
		return nil, fmt.Errorf("failed to generate slug: %w", err)
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(*req.CategoryID); err != nil {
			return nil, errors.New("category not found")
		}
	}

	contentHTML := utils.RenderPostHTML(req.Content)

	excerpt := req.Excerpt
	if excerpt == "" {
		excerpt = utils.Excerpt(utils.StripTags(contentHTML), 200)
	}

	post := &models.Post{
		Title:            req.Title,
		Slug:             slug,
		Content:          req.Content,
		ContentHTML:      contentHTML,
		Excerpt:          excerpt,
		FeaturedImage:    req.FeaturedImage,
		FeaturedImageAlt: req.FeaturedImageAlt,
		IsPublished:      req.IsPublished,
		IsFeatured:       req.IsFeatured,
		IsPinned:         req.IsPinned,
		Visibility:       req.Visibility,
		MetaTitle:        req.MetaTitle,
		MetaDescription:  req.MetaDescription,
		ReadingTime:      utils.ReadingTime(req.Content),
		AuthorID:         authorID,
		CategoryID:       req.CategoryID,
	}

	if post.Visibility == "" {
		post.Visibility = "public"
	}
	if req.AllowComments != nil {
		post.AllowComments = *req.AllowComments
	} else {
		post.AllowComments = true
	}
	if post.MetaTitle == "" {
		post.MetaTitle = post.Title
	}
	if post.MetaDescription == "" {
		post.MetaDescription = post.Excerpt
	}

	if req.ScheduledAt != nil && *req.ScheduledAt != "" {
		scheduledAt, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			return nil, errors.New("invalid scheduled_at, expected RFC3339")
		}
		if scheduledAt.Before(time.Now()) {
			return nil, errors.New("scheduled_at must be in the future")
		}
		post.ScheduledAt = &scheduledAt
		post.IsPublished = false
		post.Visibility = "draft"
	}

	if post.IsPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	tags, err := s.getOrCreateTags(req.TagNames)
	if err != nil {
		return nil, err
	}
	post.Tags = tags

	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.invalidateListCaches()
	logger.Info("Post created", map[string]interface{}{
		"post_id": post.ID,
		"slug":    post.Slug,
		"author":  authorID,
	})

	return post, nil
}

func (s *PostService) Update(id uint, req models.UpdatePostRequest, userID uint, isAdmin bool) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != userID && !isAdmin {
		return nil, ErrForbidden
	}

	if req.Title != nil && *req.Title != post.Title {
		post.Title = *req.Title
		slug, err := utils.UniqueSlug(*req.Title, s.postRepo.ExistsBySlug)
		if err != nil {
			return nil, fmt.Errorf("failed to generate slug: %w", err)
		}
		post.Slug = slug
	}

	if req.Content != nil {
		post.Content = *req.Content
		post.ContentHTML = utils.RenderPostHTML(*req.Content)
		post.ReadingTime = utils.ReadingTime(*req.Content)
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.FeaturedImageAlt != nil {
		post.FeaturedImageAlt = *req.FeaturedImageAlt
	}
	if req.IsFeatured != nil {
		post.IsFeatured = *req.IsFeatured
	}
	if req.IsPinned != nil {
		post.IsPinned = *req.IsPinned
	}
	if req.Visibility != nil && *req.Visibility != "" {
		post.Visibility = *req.Visibility
	}
	if req.AllowComments != nil {
		post.AllowComments = *req.AllowComments
	}
	if req.MetaTitle != nil {
		post.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		post.MetaDescription = *req.MetaDescription
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(*req.CategoryID); err != nil {
			return nil, errors.New("category not found")
		}
		post.CategoryID = req.CategoryID
	}

	if req.TagNames != nil {
		tags, err := s.getOrCreateTags(req.TagNames)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.invalidatePost(post.ID)
	return post, nil
}

func (s *PostService) Delete(id uint, userID uint, isAdmin bool) error {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return err
	}

	if post.AuthorID != userID && !isAdmin {
		return ErrForbidden
	}

	if err := s.postRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.invalidatePost(post.ID)
	logger.Info("Post deleted", map[string]interface{}{"post_id": id})
	return nil
}

func (s *PostService) GetByID(id uint) (*models.Post, error) {
	return s.postRepo.GetByID(id)
}

func (s *PostService) GetBySlug(slug string) (*models.Post, error) {
	if s.cache != nil && s.cache.Enabled() {
		var cached models.Post
		if err := s.cache.GetCachedPostBySlug(slug, &cached); err == nil {
			return &cached, nil
		}
	}

	post, err := s.postRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.CachePostBySlug(slug, post)
	}
	return post, nil
}

func (s *PostService) GetAll(page, limit int, filter repository.PostFilter) ([]models.Post, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.postRepo.GetAll((page-1)*limit, limit, filter)
}

// GetPublished lists publicly visible posts with optional category and tag
// filters.
func (s *PostService) GetPublished(page, limit int, categoryID *uint, tagSlug *string) ([]models.Post, int64, error) {
	published := true
	filter := repository.PostFilter{
		Published:  &published,
		CategoryID: categoryID,
		TagSlug:    tagSlug,
	}
	return s.GetAll(page, limit, filter)
}

func (s *PostService) GetPopular(limit int) ([]models.Post, error) {
	return s.postRepo.GetPopular(limit)
}

func (s *PostService) GetRecent(limit int) ([]models.Post, error) {
	return s.postRepo.GetRecent(limit)
}

func (s *PostService) GetRelated(postID uint, limit int) ([]models.Post, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post.CategoryID == nil {
		return []models.Post{}, nil
	}
	return s.postRepo.GetRelated(postID, *post.CategoryID, limit)
}

func (s *PostService) Publish(id uint) error {
	if err := s.postRepo.SetPublished(id, true, time.Now()); err != nil {
		return err
	}
	s.invalidatePost(id)
	return nil
}

func (s *PostService) Unpublish(id uint) error {
	if err := s.postRepo.SetPublished(id, false, time.Now()); err != nil {
		return err
	}
	s.invalidatePost(id)
	return nil
}

// PublishDueScheduled publishes every post whose schedule time has passed.
// Returns the number of posts published.
func (s *PostService) PublishDueScheduled() (int, error) {
	due, err := s.postRepo.ListScheduledDue(time.Now())
	if err != nil {
		return 0, err
	}

	published := 0
	for _, post := range due {
		if err := s.postRepo.SetPublished(post.ID, true, time.Now()); err != nil {
			logger.Error(err, "Failed to publish scheduled post", map[string]interface{}{"post_id": post.ID})
			continue
		}
		published++
		s.invalidatePost(post.ID)
		logger.Info("Published scheduled post", map[string]interface{}{
			"post_id": post.ID,
			"slug":    post.Slug,
		})
	}

	return published, nil
}

func (s *PostService) ListPublishedForSitemap() ([]models.Post, error) {
	return s.postRepo.ListPublishedForSitemap()
}

// Analyze runs the content heuristic against a stored post.
func (s *PostService) Analyze(id uint) (*seo.ContentAnalysis, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return seo.Analyze(post.Title, post.Content, post.MetaDescription), nil
}

func (s *PostService) RecountCounters() error {
	return s.postRepo.RecountCounters()
}

func (s *PostService) GetAllTags() ([]models.Tag, error) {
	if s.cache != nil && s.cache.Enabled() {
		var cached []models.Tag
		if err := s.cache.GetCachedTags(&cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	tags, err := s.tagRepo.GetAll()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.CacheTags(tags)
	}
	return tags, nil
}

func (s *PostService) GetPopularTags(limit int) ([]models.Tag, error) {
	return s.tagRepo.GetPopular(limit)
}

func (s *PostService) GetTagBySlug(slug string) (*models.Tag, error) {
	return s.tagRepo.GetBySlug(slug)
}

func (s *PostService) DeleteTag(id uint) error {
	if err := s.tagRepo.Delete(id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.InvalidateTags()
	}
	return nil
}

func (s *PostService) getOrCreateTags(tagNames []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(tagNames))
	seen := make(map[string]bool, len(tagNames))

	for _, name := range tagNames {
		name = utils.NormalizeTagName(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		slug, err := utils.UniqueSlug(name, s.tagRepo.ExistsBySlug)
		if err != nil {
			return nil, fmt.Errorf("failed to generate tag slug: %w", err)
		}

		tag, err := s.tagRepo.GetOrCreate(name, slug)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tag %q: %w", name, err)
		}
		tags = append(tags, *tag)
	}

	if len(tags) > 0 && s.cache != nil {
		s.cache.InvalidateTags()
	}
	return tags, nil
}

// invalidatePost drops the per-post and per-slug entries along with the list
// caches, so publish-state changes become visible immediately.
func (s *PostService) invalidatePost(postID uint) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidatePost(postID)
	s.invalidateListCaches()
}

func (s *PostService) invalidateListCaches() {
	if s.cache == nil {
		return
	}
	s.cache.InvalidatePostsCache()
}
