package service

import (
	"errors"
	"testing"

	"blogforge-backend/internal/config"
	"blogforge-backend/internal/models"
)

type commentFixture struct {
	svc           *CommentService
	commentRepo   *memoryCommentRepository
	postRepo      *memoryPostRepository
	userRepo      *memoryUserRepository
	notifications *memoryNotificationRepository
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()

	commentRepo := newMemoryCommentRepository()
	postRepo := newMemoryPostRepository()
	userRepo := newMemoryUserRepository()
	notificationRepo := newMemoryNotificationRepository()

	notification := NewNotificationService(notificationRepo, userRepo, NewEmailService(&config.Config{}))

	return &commentFixture{
		svc:           NewCommentService(commentRepo, postRepo, notification),
		commentRepo:   commentRepo,
		postRepo:      postRepo,
		userRepo:      userRepo,
		notifications: notificationRepo,
	}
}

func (f *commentFixture) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", IsActive: true}
	if err := f.userRepo.Create(user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (f *commentFixture) seedPost(t *testing.T, authorID uint, allowComments bool) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:         "Тестовая запись",
		Slug:          "test-post",
		Content:       "Содержимое тестовой записи для комментариев.",
		AuthorID:      authorID,
		AllowComments: allowComments,
		IsPublished:   true,
	}
	if err := f.postRepo.Create(post); err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return post
}

func TestCommentOnDisabledPostRejected(t *testing.T) {
	f := newCommentFixture(t)
	author := f.seedUser(t, "author")
	post := f.seedPost(t, author.ID, false)

	if _, err := f.svc.Create(models.CreateCommentRequest{Content: "Отличная статья"}, post.ID, author.ID, false); !errors.Is(err, ErrCommentsDisabled) {
		t.Fatalf("expected ErrCommentsDisabled, got %v", err)
	}
}

func TestCommentStartsPendingUnlessAdmin(t *testing.T) {
	f := newCommentFixture(t)
	author := f.seedUser(t, "author")
	reader := f.seedUser(t, "reader")
	post := f.seedPost(t, author.ID, true)

	comment, err := f.svc.Create(models.CreateCommentRequest{Content: "Обычный комментарий"}, post.ID, reader.ID, false)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if comment.IsApproved {
		t.Fatalf("non-admin comment must start pending")
	}
	if comment.ModerationState() != "pending" {
		t.Fatalf("expected pending state, got %q", comment.ModerationState())
	}

	adminComment, err := f.svc.Create(models.CreateCommentRequest{Content: "Комментарий модератора"}, post.ID, author.ID, true)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !adminComment.IsApproved {
		t.Fatalf("admin comment must be auto-approved")
	}
}

func TestReplyParentMustBeOnSamePost(t *testing.T) {
	f := newCommentFixture(t)
	author := f.seedUser(t, "author")
	post := f.seedPost(t, author.ID, true)
	otherPost := f.seedPost(t, author.ID, true)

	parent, err := f.svc.Create(models.CreateCommentRequest{Content: "Родительский комментарий"}, post.ID, author.ID, true)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := f.svc.Create(models.CreateCommentRequest{
		Content:  "Ответ не туда",
		ParentID: &parent.ID,
	}, otherPost.ID, author.ID, false); !errors.Is(err, ErrParentMismatch) {
		t.Fatalf("expected ErrParentMismatch, got %v", err)
	}
}

func TestDeepRepliesAttachToRootComment(t *testing.T) {
	f := newCommentFixture(t)
	author := f.seedUser(t, "author")
	post := f.seedPost(t, author.ID, true)

	root, err := f.svc.Create(models.CreateCommentRequest{Content: "Корень"}, post.ID, author.ID, true)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	reply, err := f.svc.Create(models.CreateCommentRequest{Content: "Ответ", ParentID: &root.ID}, post.ID, author.ID, true)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	deep, err := f.svc.Create(models.CreateCommentRequest{Content: "Ответ на ответ", ParentID: &reply.ID}, post.ID, author.ID, true)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if deep.ParentID == nil || *deep.ParentID != root.ID {
		t.Fatalf("expected deep reply re-attached to root %d, got %v", root.ID, deep.ParentID)
	}
}

func TestModerationTransitions(t *testing.T) {
	f := newCommentFixture(t)
	author := f.seedUser(t, "author")
	reader := f.seedUser(t, "reader")
	moderator := f.seedUser(t, "moderator")
	post := f.seedPost(t, author.ID, true)

	comment, err := f.svc.Create(models.CreateCommentRequest{Content: "На модерацию"}, post.ID, reader.ID, false)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	pending, err := f.svc.CountPending()
	if err != nil || pending != 1 {
		t.Fatalf("expected one pending comment, got %d (err=%v)", pending, err)
	}

	if err := f.svc.Approve(comment.ID, moderator.ID, "ok"); err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	got, _ := f.commentRepo.GetByID(comment.ID)
	if got.ModerationState() != "approved" {
		t.Fatalf("expected approved, got %q", got.ModerationState())
	}
	if got.ModeratedBy == nil || *got.ModeratedBy != moderator.ID {
		t.Fatalf("expected moderator recorded")
	}

	if unread, _ := f.notifications.CountUnread(reader.ID); unread != 1 {
		t.Fatalf("expected approval notification for comment author, got %d", unread)
	}
	approvals, _, err := f.notifications.GetByUserID(reader.ID, true, 0, 10)
	if err != nil || len(approvals) != 1 {
		t.Fatalf("expected one approval notification, got %d (err=%v)", len(approvals), err)
	}
	if approvals[0].Link != "/blog/post/"+post.Slug {
		t.Fatalf("expected notification link to the post, got %q", approvals[0].Link)
	}
	if approvals[0].Data["post_id"] != post.ID || approvals[0].Data["comment_id"] != comment.ID {
		t.Fatalf("expected notification data to reference post and comment, got %v", approvals[0].Data)
	}

	if err := f.svc.MarkAsSpam(comment.ID, moderator.ID, "спам"); err != nil {
		t.Fatalf("MarkAsSpam returned error: %v", err)
	}
	got, _ = f.commentRepo.GetByID(comment.ID)
	if got.ModerationState() != "spam" {
		t.Fatalf("expected spam, got %q", got.ModerationState())
	}

	if err := f.svc.Reject(comment.ID, moderator.ID, ""); err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}
	got, _ = f.commentRepo.GetByID(comment.ID)
	if got.ModerationState() != "pending" {
		t.Fatalf("expected pending after reject, got %q", got.ModerationState())
	}
}

func TestNewCommentNotifiesPostAuthorOnly(t *testing.T) {
	f := newCommentFixture(t)
	author := f.seedUser(t, "author")
	reader := f.seedUser(t, "reader")
	post := f.seedPost(t, author.ID, true)

	if _, err := f.svc.Create(models.CreateCommentRequest{Content: "Самокомментарий"}, post.ID, author.ID, false); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if unread, _ := f.notifications.CountUnread(author.ID); unread != 0 {
		t.Fatalf("self-comment must not notify, got %d", unread)
	}

	if _, err := f.svc.Create(models.CreateCommentRequest{Content: "Чужой комментарий"}, post.ID, reader.ID, false); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if unread, _ := f.notifications.CountUnread(author.ID); unread != 1 {
		t.Fatalf("expected one notification for post author, got %d", unread)
	}
}

func TestCommentUpdateOwnership(t *testing.T) {
	f := newCommentFixture(t)
	author := f.seedUser(t, "author")
	reader := f.seedUser(t, "reader")
	post := f.seedPost(t, author.ID, true)

	comment, err := f.svc.Create(models.CreateCommentRequest{Content: "Исходный текст"}, post.ID, reader.ID, false)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := f.svc.Update(comment.ID, models.UpdateCommentRequest{Content: "Правка чужого"}, author.ID, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := f.svc.Update(comment.ID, models.UpdateCommentRequest{Content: "Правка автора"}, reader.ID, false)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Content != "Правка автора" {
		t.Fatalf("unexpected content: %q", updated.Content)
	}

	if err := f.svc.Delete(comment.ID, author.ID, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
	if err := f.svc.Delete(comment.ID, author.ID, true); err != nil {
		t.Fatalf("expected admin delete to succeed, got %v", err)
	}
}

func TestGetByStateReturnsOnlyMatchingComments(t *testing.T) {
	f := newCommentFixture(t)
	author := f.seedUser(t, "author")
	reader := f.seedUser(t, "reader")
	post := f.seedPost(t, author.ID, true)

	if _, err := f.svc.Create(models.CreateCommentRequest{Content: "Ожидает"}, post.ID, reader.ID, false); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := f.svc.Create(models.CreateCommentRequest{Content: "Одобрен"}, post.ID, author.ID, true); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	pending, total, err := f.svc.GetByState("pending", 0, 0)
	if err != nil {
		t.Fatalf("GetByState returned error: %v", err)
	}
	if total != 1 || len(pending) != 1 {
		t.Fatalf("expected one pending comment, got total=%d len=%d", total, len(pending))
	}
	if pending[0].Content != "Ожидает" {
		t.Fatalf("unexpected pending comment: %q", pending[0].Content)
	}
}
