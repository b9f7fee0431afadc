package service

import (
	"testing"

	"blogforge-backend/internal/models"
)

func newCategoryFixture() (*CategoryService, *memoryCategoryRepository, *memoryPostRepository) {
	postRepo := newMemoryPostRepository()
	categoryRepo := newMemoryCategoryRepository(postRepo)
	return NewCategoryService(categoryRepo, nil), categoryRepo, postRepo
}

func TestCategoryCreateAppliesDefaults(t *testing.T) {
	svc, _, _ := newCategoryFixture()

	category, err := svc.Create(models.CreateCategoryRequest{Name: "Веб-разработка"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if category.Color != "#007bff" {
		t.Fatalf("expected default color, got %q", category.Color)
	}
	if !category.IsActive || !category.ShowInMenu {
		t.Fatalf("new category must be active and visible in menu")
	}
	if category.Slug == "" {
		t.Fatalf("expected generated slug")
	}
}

func TestCategoryCreateGeneratesUniqueSlugs(t *testing.T) {
	svc, _, _ := newCategoryFixture()

	first, err := svc.Create(models.CreateCategoryRequest{Name: "DevOps"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := svc.Create(models.CreateCategoryRequest{Name: "DevOps"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if first.Slug == second.Slug {
		t.Fatalf("expected distinct slugs, both are %q", first.Slug)
	}
}

func TestCategoryUpdateRejectsBadColor(t *testing.T) {
	svc, _, _ := newCategoryFixture()

	category, err := svc.Create(models.CreateCategoryRequest{Name: "Базы данных"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	bad := "red"
	if _, err := svc.Update(category.ID, models.UpdateCategoryRequest{Color: &bad}); err == nil {
		t.Fatalf("expected invalid color to be rejected")
	}

	good := "#ff5733"
	updated, err := svc.Update(category.ID, models.UpdateCategoryRequest{Color: &good})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Color != good {
		t.Fatalf("expected color %q, got %q", good, updated.Color)
	}
}

func TestCategoryDeleteSelfReassignRejected(t *testing.T) {
	svc, _, _ := newCategoryFixture()

	category, err := svc.Create(models.CreateCategoryRequest{Name: "Go"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(category.ID, &category.ID); err == nil {
		t.Fatalf("expected self-reassign to be rejected")
	}
}

func TestCategoryDeleteReassignsPosts(t *testing.T) {
	svc, _, postRepo := newCategoryFixture()

	from, err := svc.Create(models.CreateCategoryRequest{Name: "Старая"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	to, err := svc.Create(models.CreateCategoryRequest{Name: "Новая"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	post := &models.Post{
		Title:       "Запись для переноса",
		Slug:        "post-to-move",
		Content:     "Содержимое записи.",
		AuthorID:    1,
		CategoryID:  &from.ID,
		IsPublished: true,
	}
	if err := postRepo.Create(post); err != nil {
		t.Fatalf("seed post: %v", err)
	}

	if err := svc.Delete(from.ID, &to.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	moved, err := postRepo.GetByID(post.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if moved.CategoryID == nil || *moved.CategoryID != to.ID {
		t.Fatalf("expected post reassigned to %d, got %v", to.ID, moved.CategoryID)
	}

	if _, err := svc.GetByID(from.ID); err == nil {
		t.Fatalf("expected deleted category to be gone")
	}
}

func TestPublishedPostsCountExcludesDrafts(t *testing.T) {
	svc, _, postRepo := newCategoryFixture()

	category, err := svc.Create(models.CreateCategoryRequest{Name: "Статистика"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	published := &models.Post{Title: "Опубликовано", Slug: "pub", Content: "x", AuthorID: 1, CategoryID: &category.ID, IsPublished: true}
	draft := &models.Post{Title: "Черновик", Slug: "draft", Content: "x", AuthorID: 1, CategoryID: &category.ID}
	if err := postRepo.Create(published); err != nil {
		t.Fatalf("seed post: %v", err)
	}
	if err := postRepo.Create(draft); err != nil {
		t.Fatalf("seed post: %v", err)
	}

	count, err := svc.PublishedPostsCount(category.ID)
	if err != nil {
		t.Fatalf("PublishedPostsCount returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 published post, got %d", count)
	}
}
