// Package seed bootstraps reference data a fresh installation needs.
package seed

import (
	"errors"

	"gorm.io/gorm"

	"blogforge-backend/internal/models"
	"blogforge-backend/internal/repository"
	"blogforge-backend/pkg/logger"
	"blogforge-backend/pkg/utils"
)

var defaultCategories = []models.Category{
	{Name: "технологии", Description: "Статьи о современных технологиях", Color: "#007bff"},
	{Name: "наука", Description: "Научные открытия и исследования", Color: "#28a745"},
	{Name: "общество", Description: "Социальные вопросы и культура", Color: "#ffc107"},
	{Name: "бизнес", Description: "Предпринимательство и экономика", Color: "#dc3545"},
}

// Categories creates the default category set, skipping ones that already
// exist. Returns the number created.
func Categories(categoryRepo repository.CategoryRepository) (int, error) {
	created := 0

	for _, category := range defaultCategories {
		slug := utils.GenerateSlug(category.Name)

		_, err := categoryRepo.GetBySlug(slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}

		category.Slug = slug
		category.IsActive = true
		category.ShowInMenu = true
		if err := categoryRepo.Create(&category); err != nil {
			return created, err
		}
		created++
	}

	if created > 0 {
		logger.Info("Seeded default categories", map[string]interface{}{"created": created})
	}
	return created, nil
}
