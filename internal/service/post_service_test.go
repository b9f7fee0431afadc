package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"blogforge-backend/internal/models"
	"blogforge-backend/pkg/cache"
)

const testPostContent = "Это достаточно длинный текст статьи, который проходит минимальную проверку длины содержимого без проблем."

type postFixture struct {
	svc        *PostService
	postRepo   *memoryPostRepository
	tagRepo    *memoryTagRepository
	categories *memoryCategoryRepository
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()

	noCache, err := cache.NewCache("", false)
	if err != nil {
		t.Fatalf("failed to build disabled cache: %v", err)
	}

	postRepo := newMemoryPostRepository()
	tagRepo := newMemoryTagRepository()
	categoryRepo := newMemoryCategoryRepository(postRepo)

	return &postFixture{
		svc:        NewPostService(postRepo, tagRepo, categoryRepo, noCache),
		postRepo:   postRepo,
		tagRepo:    tagRepo,
		categories: categoryRepo,
	}
}

func TestCreateGeneratesSequentialSlugs(t *testing.T) {
	f := newPostFixture(t)

	first, err := f.svc.Create(models.CreatePostRequest{
		Title:   "Hello World",
		Content: testPostContent,
	}, 1)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if first.Slug != "hello-world" {
		t.Fatalf("expected hello-world, got %q", first.Slug)
	}

	second, err := f.svc.Create(models.CreatePostRequest{
		Title:   "Hello World",
		Content: testPostContent,
	}, 1)
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if second.Slug != "hello-world-1" {
		t.Fatalf("expected hello-world-1, got %q", second.Slug)
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.svc.Create(models.CreatePostRequest{
		Title:   "Заметка о настройках",
		Content: testPostContent,
	}, 7)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if post.Visibility != "public" {
		t.Fatalf("expected public visibility default, got %q", post.Visibility)
	}
	if !post.AllowComments {
		t.Fatalf("expected comments allowed by default")
	}
	if post.MetaTitle != post.Title {
		t.Fatalf("expected meta title defaulted to title")
	}
	if post.Excerpt == "" {
		t.Fatalf("expected excerpt derived from content")
	}
	if post.ReadingTime < 1 {
		t.Fatalf("expected reading time of at least one minute")
	}
	if post.ContentHTML == "" || !strings.Contains(post.ContentHTML, "<p>") {
		t.Fatalf("expected rendered HTML content, got %q", post.ContentHTML)
	}
}

func TestCreateScheduledPostStaysDraft(t *testing.T) {
	f := newPostFixture(t)

	future := time.Now().Add(2 * time.Hour).Format(time.RFC3339)
	post, err := f.svc.Create(models.CreatePostRequest{
		Title:       "Запланированная запись",
		Content:     testPostContent,
		IsPublished: true,
		ScheduledAt: &future,
	}, 1)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if post.IsPublished {
		t.Fatalf("scheduled post must not be published immediately")
	}
	if post.PublishedAt != nil {
		t.Fatalf("scheduled post must not carry a publish timestamp")
	}
	if post.ScheduledAt == nil {
		t.Fatalf("expected schedule time to be stored")
	}
}

func TestCreateRejectsPastSchedule(t *testing.T) {
	f := newPostFixture(t)

	past := time.Now().Add(-time.Hour).Format(time.RFC3339)
	if _, err := f.svc.Create(models.CreatePostRequest{
		Title:       "Просроченная запись",
		Content:     testPostContent,
		ScheduledAt: &past,
	}, 1); err == nil {
		t.Fatalf("expected past schedule to be rejected")
	}
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	f := newPostFixture(t)

	missing := uint(42)
	if _, err := f.svc.Create(models.CreatePostRequest{
		Title:      "Без категории",
		Content:    testPostContent,
		CategoryID: &missing,
	}, 1); err == nil {
		t.Fatalf("expected unknown category to be rejected")
	}
}

func TestCreateDeduplicatesTagNames(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.svc.Create(models.CreatePostRequest{
		Title:    "Пост с тегами",
		Content:  testPostContent,
		TagNames: []string{"Go", " go ", "DevOps", ""},
	}, 1)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if len(post.Tags) != 2 {
		t.Fatalf("expected 2 distinct tags, got %d", len(post.Tags))
	}
	for _, tag := range post.Tags {
		if tag.Name != strings.ToLower(tag.Name) {
			t.Fatalf("expected normalized tag name, got %q", tag.Name)
		}
	}
}

func TestUpdateByNonAuthorIsForbidden(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.svc.Create(models.CreatePostRequest{
		Title:   "Чужая запись",
		Content: testPostContent,
	}, 1)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	newTitle := "Взломанный заголовок"
	if _, err := f.svc.Update(post.ID, models.UpdatePostRequest{Title: &newTitle}, 2, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if _, err := f.svc.Update(post.ID, models.UpdatePostRequest{Title: &newTitle}, 2, true); err != nil {
		t.Fatalf("expected admin update to succeed, got %v", err)
	}
}

func TestDeleteByNonAuthorIsForbidden(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.svc.Create(models.CreatePostRequest{
		Title:   "Еще одна запись",
		Content: testPostContent,
	}, 1)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := f.svc.Delete(post.ID, 2, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.svc.Delete(post.ID, 1, false); err != nil {
		t.Fatalf("expected author delete to succeed, got %v", err)
	}
}

func TestPublishDueScheduledPublishesOnlyDuePosts(t *testing.T) {
	f := newPostFixture(t)

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	due := &models.Post{Title: "Due", Slug: "due", Content: testPostContent, AuthorID: 1, ScheduledAt: &past}
	notDue := &models.Post{Title: "Later", Slug: "later", Content: testPostContent, AuthorID: 1, ScheduledAt: &future}
	if err := f.postRepo.Create(due); err != nil {
		t.Fatalf("seed due post: %v", err)
	}
	if err := f.postRepo.Create(notDue); err != nil {
		t.Fatalf("seed future post: %v", err)
	}

	published, err := f.svc.PublishDueScheduled()
	if err != nil {
		t.Fatalf("PublishDueScheduled returned error: %v", err)
	}
	if published != 1 {
		t.Fatalf("expected exactly one post published, got %d", published)
	}

	got, _ := f.postRepo.GetByID(due.ID)
	if !got.IsPublished || got.PublishedAt == nil {
		t.Fatalf("expected due post to be published with timestamp")
	}

	later, _ := f.postRepo.GetByID(notDue.ID)
	if later.IsPublished {
		t.Fatalf("future post must stay unpublished")
	}
}

func TestGetPublishedFiltersDrafts(t *testing.T) {
	f := newPostFixture(t)

	if _, err := f.svc.Create(models.CreatePostRequest{
		Title: "Черновик", Content: testPostContent,
	}, 1); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := f.svc.Create(models.CreatePostRequest{
		Title: "Опубликовано", Content: testPostContent, IsPublished: true,
	}, 1); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	posts, total, err := f.svc.GetPublished(1, 10, nil, nil)
	if err != nil {
		t.Fatalf("GetPublished returned error: %v", err)
	}
	if total != 1 || len(posts) != 1 {
		t.Fatalf("expected one published post, got total=%d len=%d", total, len(posts))
	}
	if posts[0].Title != "Опубликовано" {
		t.Fatalf("unexpected post in published listing: %q", posts[0].Title)
	}
}

func TestPublishStateChangeDropsSlugCache(t *testing.T) {
	postRepo := newMemoryPostRepository()
	postCache := newMemoryPostCache()
	svc := NewPostService(postRepo, newMemoryTagRepository(), newMemoryCategoryRepository(postRepo), postCache)

	post, err := svc.Create(models.CreatePostRequest{
		Title: "Кешированная запись", Content: testPostContent, IsPublished: true,
	}, 1)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.GetBySlug(post.Slug); err != nil {
		t.Fatalf("GetBySlug returned error: %v", err)
	}
	if _, ok := postCache.bySlug[post.Slug]; !ok {
		t.Fatalf("expected slug lookup to populate the cache")
	}

	if err := svc.Unpublish(post.ID); err != nil {
		t.Fatalf("Unpublish returned error: %v", err)
	}
	got, err := svc.GetBySlug(post.Slug)
	if err != nil {
		t.Fatalf("GetBySlug after unpublish returned error: %v", err)
	}
	if got.IsPublished {
		t.Fatalf("slug lookup served a stale published copy after unpublish")
	}

	if err := svc.Publish(post.ID); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	got, err = svc.GetBySlug(post.Slug)
	if err != nil {
		t.Fatalf("GetBySlug after publish returned error: %v", err)
	}
	if !got.IsPublished {
		t.Fatalf("slug lookup served a stale draft copy after publish")
	}
}

func TestPublishDueScheduledDropsSlugCache(t *testing.T) {
	postRepo := newMemoryPostRepository()
	postCache := newMemoryPostCache()
	svc := NewPostService(postRepo, newMemoryTagRepository(), newMemoryCategoryRepository(postRepo), postCache)

	past := time.Now().Add(-time.Minute)
	scheduled := &models.Post{Title: "Due", Slug: "due", Content: testPostContent, AuthorID: 1, ScheduledAt: &past}
	if err := postRepo.Create(scheduled); err != nil {
		t.Fatalf("seed scheduled post: %v", err)
	}

	if _, err := svc.GetBySlug("due"); err != nil {
		t.Fatalf("GetBySlug returned error: %v", err)
	}

	published, err := svc.PublishDueScheduled()
	if err != nil {
		t.Fatalf("PublishDueScheduled returned error: %v", err)
	}
	if published != 1 {
		t.Fatalf("expected one post published, got %d", published)
	}

	got, err := svc.GetBySlug("due")
	if err != nil {
		t.Fatalf("GetBySlug after scheduled publish returned error: %v", err)
	}
	if !got.IsPublished {
		t.Fatalf("slug lookup served the pre-publish copy")
	}
}
