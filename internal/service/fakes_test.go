package service

import (
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"blogforge-backend/internal/models"
	"blogforge-backend/internal/repository"
)

// In-memory repositories for exercising service logic without a database.
// Counter maintenance here mirrors what the SQL layer does on writes, only
// as far as the tests need it.

type memoryUserRepository struct {
	nextID uint
	users  map[uint]*models.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{nextID: 1, users: make(map[uint]*models.User)}
}

func (r *memoryUserRepository) Create(user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepository) GetByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepository) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepository) GetByUsername(username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepository) GetAll(query string, limit int) ([]models.User, error) {
	var out []models.User
	for _, user := range r.users {
		if query == "" || strings.Contains(user.Username, query) || strings.Contains(user.Email, query) {
			out = append(out, *user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryUserRepository) Update(user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepository) Delete(id uint) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepository) Count() (int64, error) {
	return int64(len(r.users)), nil
}

func (r *memoryUserRepository) RecordLogin(id uint, at time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.LastLogin = &at
	user.LoginCount++
	return nil
}

func (r *memoryUserRepository) TouchLastSeen(id uint, at time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.LastSeen = &at
	return nil
}

type memorySessionRepository struct {
	nextID   uint
	sessions map[uint]*models.UserSession
}

func newMemorySessionRepository() *memorySessionRepository {
	return &memorySessionRepository{nextID: 1, sessions: make(map[uint]*models.UserSession)}
}

func (r *memorySessionRepository) Create(session *models.UserSession) error {
	session.ID = r.nextID
	r.nextID++
	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *memorySessionRepository) Update(session *models.UserSession) error {
	if _, ok := r.sessions[session.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *memorySessionRepository) GetByToken(token string) (*models.UserSession, error) {
	for _, session := range r.sessions {
		if session.Token == token && session.IsActive {
			clone := *session
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memorySessionRepository) GetActiveByUserID(userID uint) ([]models.UserSession, error) {
	var out []models.UserSession
	for _, session := range r.sessions {
		if session.UserID == userID && session.IsActive {
			out = append(out, *session)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memorySessionRepository) Touch(id uint, at time.Time) error {
	session, ok := r.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	session.LastActivity = at
	return nil
}

func (r *memorySessionRepository) Terminate(id, userID uint) error {
	session, ok := r.sessions[id]
	if !ok || session.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	session.IsActive = false
	return nil
}

func (r *memorySessionRepository) TerminateAll(userID uint) (int64, error) {
	var count int64
	for _, session := range r.sessions {
		if session.UserID == userID && session.IsActive {
			session.IsActive = false
			count++
		}
	}
	return count, nil
}

func (r *memorySessionRepository) ExpireStale(now time.Time) (int64, error) {
	var count int64
	for _, session := range r.sessions {
		if session.IsActive && session.ExpiresAt != nil && session.ExpiresAt.Before(now) {
			session.IsActive = false
			count++
		}
	}
	return count, nil
}

func (r *memorySessionRepository) DeleteInactiveOlderThan(cutoff time.Time) (int64, error) {
	var count int64
	for id, session := range r.sessions {
		if !session.IsActive && session.LastActivity.Before(cutoff) {
			delete(r.sessions, id)
			count++
		}
	}
	return count, nil
}

type memoryPostRepository struct {
	nextID uint
	posts  map[uint]*models.Post
}

func newMemoryPostRepository() *memoryPostRepository {
	return &memoryPostRepository{nextID: 1, posts: make(map[uint]*models.Post)}
}

func (r *memoryPostRepository) Create(post *models.Post) error {
	post.ID = r.nextID
	r.nextID++
	post.CreatedAt = time.Now()
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *memoryPostRepository) GetByID(id uint) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *post
	return &clone, nil
}

func (r *memoryPostRepository) GetBySlug(slug string) (*models.Post, error) {
	for _, post := range r.posts {
		if post.Slug == slug {
			clone := *post
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryPostRepository) GetAll(offset, limit int, filter repository.PostFilter) ([]models.Post, int64, error) {
	var out []models.Post
	for _, post := range r.posts {
		if filter.Published != nil && post.IsPublished != *filter.Published {
			continue
		}
		if filter.AuthorID != nil && post.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.CategoryID != nil && (post.CategoryID == nil || *post.CategoryID != *filter.CategoryID) {
			continue
		}
		out = append(out, *post)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *memoryPostRepository) Update(post *models.Post) error {
	if _, ok := r.posts[post.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *memoryPostRepository) Delete(id uint) error {
	if _, ok := r.posts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memoryPostRepository) ExistsBySlug(slug string) (bool, error) {
	for _, post := range r.posts {
		if post.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryPostRepository) GetPopular(limit int) ([]models.Post, error) {
	published := r.published()
	sort.Slice(published, func(i, j int) bool { return published[i].ViewsCount > published[j].ViewsCount })
	if limit > 0 && len(published) > limit {
		published = published[:limit]
	}
	return published, nil
}

func (r *memoryPostRepository) GetRecent(limit int) ([]models.Post, error) {
	published := r.published()
	sort.Slice(published, func(i, j int) bool { return published[i].ID > published[j].ID })
	if limit > 0 && len(published) > limit {
		published = published[:limit]
	}
	return published, nil
}

func (r *memoryPostRepository) GetRelated(postID uint, categoryID uint, limit int) ([]models.Post, error) {
	var out []models.Post
	for _, post := range r.posts {
		if post.ID == postID || !post.IsPublished {
			continue
		}
		if post.CategoryID != nil && *post.CategoryID == categoryID {
			out = append(out, *post)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryPostRepository) SetPublished(id uint, published bool, at time.Time) error {
	post, ok := r.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	post.IsPublished = published
	if published {
		post.PublishedAt = &at
		post.ScheduledAt = nil
		post.Visibility = "public"
	} else {
		post.PublishedAt = nil
	}
	return nil
}

func (r *memoryPostRepository) ListScheduledDue(now time.Time) ([]models.Post, error) {
	var out []models.Post
	for _, post := range r.posts {
		if !post.IsPublished && post.ScheduledAt != nil && !post.ScheduledAt.After(now) {
			out = append(out, *post)
		}
	}
	return out, nil
}

func (r *memoryPostRepository) ListPublishedForSitemap() ([]models.Post, error) {
	return r.published(), nil
}

func (r *memoryPostRepository) CountByAuthorSince(authorID uint, since time.Time) (int64, error) {
	var count int64
	for _, post := range r.posts {
		if post.AuthorID == authorID && !post.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *memoryPostRepository) DeleteByAuthor(authorID uint) (int64, error) {
	var count int64
	for id, post := range r.posts {
		if post.AuthorID == authorID {
			delete(r.posts, id)
			count++
		}
	}
	return count, nil
}

func (r *memoryPostRepository) RecountCounters() error { return nil }

func (r *memoryPostRepository) published() []models.Post {
	var out []models.Post
	for _, post := range r.posts {
		if post.IsPublished {
			out = append(out, *post)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memoryTagRepository struct {
	nextID uint
	tags   map[uint]*models.Tag
}

func newMemoryTagRepository() *memoryTagRepository {
	return &memoryTagRepository{nextID: 1, tags: make(map[uint]*models.Tag)}
}

func (r *memoryTagRepository) Create(tag *models.Tag) error {
	tag.ID = r.nextID
	r.nextID++
	clone := *tag
	r.tags[tag.ID] = &clone
	return nil
}

func (r *memoryTagRepository) GetByID(id uint) (*models.Tag, error) {
	tag, ok := r.tags[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *tag
	return &clone, nil
}

func (r *memoryTagRepository) GetBySlug(slug string) (*models.Tag, error) {
	for _, tag := range r.tags {
		if tag.Slug == slug {
			clone := *tag
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryTagRepository) GetByName(name string) (*models.Tag, error) {
	for _, tag := range r.tags {
		if strings.EqualFold(tag.Name, name) {
			clone := *tag
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryTagRepository) GetAll() ([]models.Tag, error) {
	var out []models.Tag
	for _, tag := range r.tags {
		out = append(out, *tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryTagRepository) GetPopular(limit int) ([]models.Tag, error) {
	out, _ := r.GetAll()
	sort.Slice(out, func(i, j int) bool { return out[i].UsageCount > out[j].UsageCount })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryTagRepository) GetOrCreate(name, slug string) (*models.Tag, error) {
	if tag, err := r.GetByName(name); err == nil {
		return tag, nil
	}
	tag := &models.Tag{Name: name, Slug: slug}
	if err := r.Create(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *memoryTagRepository) Update(tag *models.Tag) error {
	if _, ok := r.tags[tag.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *tag
	r.tags[tag.ID] = &clone
	return nil
}

func (r *memoryTagRepository) Delete(id uint) error {
	if _, ok := r.tags[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.tags, id)
	return nil
}

func (r *memoryTagRepository) ExistsBySlug(slug string) (bool, error) {
	_, err := r.GetBySlug(slug)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *memoryTagRepository) DeleteOrphaned() (int64, error) {
	var count int64
	for id, tag := range r.tags {
		if tag.UsageCount == 0 {
			delete(r.tags, id)
			count++
		}
	}
	return count, nil
}

type memoryCategoryRepository struct {
	nextID     uint
	categories map[uint]*models.Category
	posts      *memoryPostRepository
}

func newMemoryCategoryRepository(posts *memoryPostRepository) *memoryCategoryRepository {
	return &memoryCategoryRepository{
		nextID:     1,
		categories: make(map[uint]*models.Category),
		posts:      posts,
	}
}

func (r *memoryCategoryRepository) Create(category *models.Category) error {
	category.ID = r.nextID
	r.nextID++
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *memoryCategoryRepository) GetByID(id uint) (*models.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *category
	return &clone, nil
}

func (r *memoryCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	for _, category := range r.categories {
		if category.Slug == slug {
			clone := *category
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryCategoryRepository) GetAll(activeOnly bool) ([]models.Category, error) {
	var out []models.Category
	for _, category := range r.categories {
		if activeOnly && !category.IsActive {
			continue
		}
		out = append(out, *category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryCategoryRepository) Update(category *models.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *memoryCategoryRepository) Delete(id uint) error {
	if _, ok := r.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *memoryCategoryRepository) ExistsBySlug(slug string) (bool, error) {
	_, err := r.GetBySlug(slug)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *memoryCategoryRepository) PublishedPostsCount(id uint) (int64, error) {
	if _, ok := r.categories[id]; !ok {
		return 0, gorm.ErrRecordNotFound
	}
	if r.posts == nil {
		return 0, nil
	}
	var count int64
	for _, post := range r.posts.posts {
		if post.IsPublished && post.CategoryID != nil && *post.CategoryID == id {
			count++
		}
	}
	return count, nil
}

func (r *memoryCategoryRepository) ReassignPosts(fromID, toID uint) error {
	if r.posts == nil {
		return nil
	}
	for _, post := range r.posts.posts {
		if post.CategoryID != nil && *post.CategoryID == fromID {
			to := toID
			post.CategoryID = &to
		}
	}
	return nil
}

func (r *memoryCategoryRepository) RecountPosts() error { return nil }

type memoryCommentRepository struct {
	nextID   uint
	comments map[uint]*models.Comment
}

func newMemoryCommentRepository() *memoryCommentRepository {
	return &memoryCommentRepository{nextID: 1, comments: make(map[uint]*models.Comment)}
}

func (r *memoryCommentRepository) Create(comment *models.Comment) error {
	comment.ID = r.nextID
	r.nextID++
	comment.CreatedAt = time.Now()
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *memoryCommentRepository) GetByID(id uint) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *comment
	return &clone, nil
}

func (r *memoryCommentRepository) GetByPostID(postID uint) ([]models.Comment, error) {
	var out []models.Comment
	for _, comment := range r.comments {
		if comment.PostID == postID && comment.IsApproved && comment.ParentID == nil {
			out = append(out, *comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryCommentRepository) GetByState(state string, offset, limit int) ([]models.Comment, int64, error) {
	var out []models.Comment
	for _, comment := range r.comments {
		if comment.ModerationState() == state {
			out = append(out, *comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *memoryCommentRepository) Update(comment *models.Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *memoryCommentRepository) Delete(id uint) error {
	if _, ok := r.comments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *memoryCommentRepository) SetModeration(id uint, approved, spam bool, moderatorID uint, notes string, at time.Time) error {
	comment, ok := r.comments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	comment.IsApproved = approved
	comment.IsSpam = spam
	comment.ModeratedBy = &moderatorID
	comment.ModeratedAt = &at
	comment.ModerationNotes = notes
	return nil
}

func (r *memoryCommentRepository) CountPending() (int64, error) {
	var count int64
	for _, comment := range r.comments {
		if comment.ModerationState() == "pending" {
			count++
		}
	}
	return count, nil
}

type memoryNotificationRepository struct {
	nextID        uint
	notifications map[uint]*models.Notification
}

func newMemoryNotificationRepository() *memoryNotificationRepository {
	return &memoryNotificationRepository{nextID: 1, notifications: make(map[uint]*models.Notification)}
}

func (r *memoryNotificationRepository) Create(notification *models.Notification) error {
	notification.ID = r.nextID
	r.nextID++
	notification.CreatedAt = time.Now()
	clone := *notification
	r.notifications[notification.ID] = &clone
	return nil
}

func (r *memoryNotificationRepository) GetByUserID(userID uint, unreadOnly bool, offset, limit int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, notification := range r.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.IsRead {
			continue
		}
		out = append(out, *notification)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *memoryNotificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memoryNotificationRepository) MarkRead(id, userID uint) error {
	notification, ok := r.notifications[id]
	if !ok || notification.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	return nil
}

func (r *memoryNotificationRepository) MarkAllRead(userID uint) error {
	now := time.Now()
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			notification.IsRead = true
			notification.ReadAt = &now
		}
	}
	return nil
}

func (r *memoryNotificationRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	var count int64
	for id, notification := range r.notifications {
		if notification.IsRead && notification.CreatedAt.Before(cutoff) {
			delete(r.notifications, id)
			count++
		}
	}
	return count, nil
}

// memoryPostCache mimics the slug-keyed post cache so tests can observe
// which entries survive a publish-state change.
type memoryPostCache struct {
	bySlug map[string]models.Post
}

func newMemoryPostCache() *memoryPostCache {
	return &memoryPostCache{bySlug: make(map[string]models.Post)}
}

func (c *memoryPostCache) Enabled() bool { return true }

func (c *memoryPostCache) CachePostBySlug(slug string, post interface{}) error {
	if p, ok := post.(*models.Post); ok {
		c.bySlug[slug] = *p
	}
	return nil
}

func (c *memoryPostCache) GetCachedPostBySlug(slug string, dest interface{}) error {
	cached, ok := c.bySlug[slug]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p, ok := dest.(*models.Post); ok {
		*p = cached
	}
	return nil
}

func (c *memoryPostCache) CacheTags(tags interface{}) error     { return nil }
func (c *memoryPostCache) GetCachedTags(dest interface{}) error { return gorm.ErrRecordNotFound }
func (c *memoryPostCache) InvalidateTags() error                { return nil }
func (c *memoryPostCache) InvalidatePostsCache() error          { return nil }

func (c *memoryPostCache) InvalidatePost(postID uint) error {
	c.bySlug = make(map[string]models.Post)
	return nil
}
