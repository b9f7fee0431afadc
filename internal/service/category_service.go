package service

import (
	"errors"
	"fmt"

	"blogforge-backend/internal/models"
	"blogforge-backend/internal/repository"
	"blogforge-backend/pkg/cache"
	"blogforge-backend/pkg/logger"
	"blogforge-backend/pkg/utils"
	"blogforge-backend/pkg/validator"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cache        *cache.Cache
}

func NewCategoryService(categoryRepo repository.CategoryRepository, cacheService *cache.Cache) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        cacheService,
	}
}

func (s *CategoryService) Create(req models.CreateCategoryRequest) (*models.Category, error) {
	slug, err := utils.UniqueSlug(req.Name, s.categoryRepo.ExistsBySlug)
	if err != nil {
		return nil, fmt.Errorf("failed to generate slug: %w", err)
	}

	category := &models.Category{
		Name:            req.Name,
		Slug:            slug,
		Description:     req.Description,
		Color:           req.Color,
		Icon:            req.Icon,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		IsActive:        true,
		ShowInMenu:      true,
	}

	if category.Color == "" {
		category.Color = "#007bff"
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.ShowInMenu != nil {
		category.ShowInMenu = *req.ShowInMenu
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return category, nil
}

func (s *CategoryService) Update(id uint, req models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		category.Name = *req.Name
		slug, err := utils.UniqueSlug(*req.Name, s.categoryRepo.ExistsBySlug)
		if err != nil {
			return nil, fmt.Errorf("failed to generate slug: %w", err)
		}
		category.Slug = slug
	}

	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Color != nil {
		if !validator.ValidateHexColor(*req.Color) {
			return nil, errors.New("invalid color, expected hex value")
		}
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.MetaTitle != nil {
		category.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		category.MetaDescription = *req.MetaDescription
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.ShowInMenu != nil {
		category.ShowInMenu = *req.ShowInMenu
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	if s.cache != nil {
		s.cache.InvalidateCategory(id)
	}
	return category, nil
}

// Delete removes a category. Posts keep existing but are detached, or moved
// to reassignTo when provided.
func (s *CategoryService) Delete(id uint, reassignTo *uint) error {
	if _, err := s.categoryRepo.GetByID(id); err != nil {
		return err
	}

	if reassignTo != nil {
		if *reassignTo == id {
			return errors.New("cannot reassign posts to the category being deleted")
		}
		if _, err := s.categoryRepo.GetByID(*reassignTo); err != nil {
			return errors.New("target category not found")
		}
		if err := s.categoryRepo.ReassignPosts(id, *reassignTo); err != nil {
			return fmt.Errorf("failed to reassign posts: %w", err)
		}
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if s.cache != nil {
		s.cache.InvalidateCategory(id)
	}
	logger.Info("Category deleted", map[string]interface{}{"category_id": id})
	return nil
}

func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	if s.cache != nil && s.cache.Enabled() {
		var cached models.Category
		if err := s.cache.GetCachedCategory(id, &cached); err == nil {
			return &cached, nil
		}
	}

	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.CacheCategory(id, category)
	}
	return category, nil
}

func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	return s.categoryRepo.GetBySlug(slug)
}

func (s *CategoryService) GetAll(activeOnly bool) ([]models.Category, error) {
	return s.categoryRepo.GetAll(activeOnly)
}

// PublishedPostsCount counts only published posts in the category.
func (s *CategoryService) PublishedPostsCount(id uint) (int64, error) {
	return s.categoryRepo.PublishedPostsCount(id)
}
