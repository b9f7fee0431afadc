package repository

import (
	"time"

	"gorm.io/gorm"

	"blogforge-backend/internal/models"
)

type PostFilter struct {
	CategoryID *uint
	TagSlug    *string
	AuthorID   *uint
	Published  *bool
	Featured   *bool
}

type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id uint) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	GetAll(offset, limit int, filter PostFilter) ([]models.Post, int64, error)
	Update(post *models.Post) error
	Delete(id uint) error
	ExistsBySlug(slug string) (bool, error)
	GetPopular(limit int) ([]models.Post, error)
	GetRecent(limit int) ([]models.Post, error)
	GetRelated(postID uint, categoryID uint, limit int) ([]models.Post, error)
	SetPublished(id uint, published bool, at time.Time) error
	ListScheduledDue(now time.Time) ([]models.Post, error)
	ListPublishedForSitemap() ([]models.Post, error)
	CountByAuthorSince(authorID uint, since time.Time) (int64, error)
	DeleteByAuthor(authorID uint) (int64, error)
	RecountCounters() error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post and maintains the author, category and tag counters
// in the same transaction.
func (r *postRepository) Create(post *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", post.AuthorID).
			UpdateColumn("posts_count", gorm.Expr("posts_count + 1")).Error; err != nil {
			return err
		}

		if post.IsPublished {
			if err := adjustPublishedCounters(tx, post, 1); err != nil {
				return err
			}
		}

		if len(post.Tags) > 0 {
			tagIDs := make([]uint, 0, len(post.Tags))
			for _, tag := range post.Tags {
				tagIDs = append(tagIDs, tag.ID)
			}
			if err := tx.Model(&models.Tag{}).
				Where("id IN ?", tagIDs).
				UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *postRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author").Preload("Category").Preload("Tags").First(&post, id).Error
	return &post, err
}

func (r *postRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.Where("slug = ?", slug).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Where("parent_id IS NULL AND is_approved = ?", true).Order("comments.created_at DESC")
		}).
		Preload("Comments.Author").
		Preload("Comments.Replies", "is_approved = ?", true).
		Preload("Comments.Replies.Author").
		First(&post).Error
	return &post, err
}

func (r *postRepository) GetAll(offset, limit int, filter PostFilter) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	query := r.db.Model(&models.Post{})

	if filter.Published != nil {
		query = query.Where("is_published = ?", *filter.Published)
		if *filter.Published {
			query = query.Where("visibility = ?", "public")
		}
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if filter.TagSlug != nil {
		query = query.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", *filter.TagSlug)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Author").Preload("Category").Preload("Tags").
		Order("posts.is_pinned DESC, COALESCE(posts.published_at, posts.created_at) DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error

	return posts, total, err
}

// Update saves the post with its tag associations and recomputes the counters
// the change may have touched.
func (r *postRepository) Update(post *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var prev models.Post
		if err := tx.Select("id", "category_id", "is_published").First(&prev, post.ID).Error; err != nil {
			return err
		}

		if err := tx.Omit("Author", "Category", "Tags", "Comments", "Views", "Bookmarks", "Likes").
			Save(post).Error; err != nil {
			return err
		}

		if post.Tags != nil {
			if err := tx.Model(post).Association("Tags").Replace(post.Tags); err != nil {
				return err
			}
		}

		categoryIDs := make([]uint, 0, 2)
		if prev.CategoryID != nil {
			categoryIDs = append(categoryIDs, *prev.CategoryID)
		}
		if post.CategoryID != nil && (prev.CategoryID == nil || *post.CategoryID != *prev.CategoryID) {
			categoryIDs = append(categoryIDs, *post.CategoryID)
		}
		if err := recountCategories(tx, categoryIDs); err != nil {
			return err
		}

		return recountTags(tx)
	})
}

func (r *postRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "author_id", "category_id", "is_published").First(&post, id).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&models.View{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().
			Where("comment_id IN (?)", tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", id)).
			Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&models.Post{}, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ? AND posts_count > 0", post.AuthorID).
			UpdateColumn("posts_count", gorm.Expr("posts_count - 1")).Error; err != nil {
			return err
		}

		if post.CategoryID != nil {
			if err := recountCategories(tx, []uint{*post.CategoryID}); err != nil {
				return err
			}
		}

		return recountTags(tx)
	})
}

func (r *postRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Unscoped().Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *postRepository) GetPopular(limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("is_published = ? AND visibility = ?", true, "public").
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Order("views_count DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) GetRecent(limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("is_published = ? AND visibility = ?", true, "public").
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Order("COALESCE(posts.published_at, posts.created_at) DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) GetRelated(postID uint, categoryID uint, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("id != ? AND category_id = ? AND is_published = ?", postID, categoryID, true).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Order("COALESCE(posts.published_at, posts.created_at) DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// SetPublished flips the publish flag and adjusts the category and tag
// counters in one transaction.
func (r *postRepository) SetPublished(id uint, published bool, at time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Preload("Tags").First(&post, id).Error; err != nil {
			return err
		}

		if post.IsPublished == published {
			return nil
		}

		updates := map[string]interface{}{
			"is_published": published,
			"scheduled_at": nil,
		}
		if published {
			updates["published_at"] = at
			updates["visibility"] = "public"
		} else {
			updates["visibility"] = "draft"
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		delta := 1
		if !published {
			delta = -1
		}
		return adjustPublishedCounters(tx, &post, delta)
	})
}

func (r *postRepository) ListScheduledDue(now time.Time) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("is_published = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", false, now).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListPublishedForSitemap() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Select("id", "slug", "updated_at", "created_at", "published_at").
		Where("is_published = ? AND visibility = ?", true, "public").
		Order("COALESCE(posts.published_at, posts.updated_at) DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountByAuthorSince(authorID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).
		Where("author_id = ? AND created_at >= ?", authorID, since).
		Count(&count).Error
	return count, err
}

// DeleteByAuthor bulk-removes all posts by one author, used by the cleanup CLI.
func (r *postRepository) DeleteByAuthor(authorID uint) (int64, error) {
	var postIDs []uint
	if err := r.db.Model(&models.Post{}).Where("author_id = ?", authorID).Pluck("id", &postIDs).Error; err != nil {
		return 0, err
	}

	for _, id := range postIDs {
		if err := r.Delete(id); err != nil {
			return 0, err
		}
	}
	return int64(len(postIDs)), nil
}

// RecountCounters rebuilds every denormalized counter from the fact tables.
// Backs the daily drift-repair job.
func (r *postRepository) RecountCounters() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		statements := []string{
			`UPDATE users SET posts_count = (
				SELECT COUNT(*) FROM posts WHERE posts.author_id = users.id AND posts.deleted_at IS NULL
			)`,
			`UPDATE users SET comments_count = (
				SELECT COUNT(*) FROM comments WHERE comments.author_id = users.id AND comments.deleted_at IS NULL
			)`,
			`UPDATE posts SET comments_count = (
				SELECT COUNT(*) FROM comments
				WHERE comments.post_id = posts.id AND comments.is_approved = TRUE AND comments.deleted_at IS NULL
			)`,
			`UPDATE posts SET likes_count = (
				SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id
			)`,
			`UPDATE posts SET views_count = (
				SELECT COUNT(*) FROM views WHERE views.post_id = posts.id
			)`,
			`UPDATE comments SET likes_count = (
				SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id
			)`,
			`UPDATE comments SET replies_count = (
				SELECT COUNT(*) FROM comments AS replies
				WHERE replies.parent_id = comments.id AND replies.deleted_at IS NULL
			)`,
			`UPDATE categories SET posts_count = (
				SELECT COUNT(*) FROM posts
				WHERE posts.category_id = categories.id AND posts.is_published = TRUE AND posts.deleted_at IS NULL
			)`,
		}

		for _, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}

		return recountTags(tx)
	})
}

func adjustPublishedCounters(tx *gorm.DB, post *models.Post, delta int) error {
	if post.CategoryID != nil {
		if err := tx.Model(&models.Category{}).
			Where("id = ?", *post.CategoryID).
			UpdateColumn("posts_count", gorm.Expr("posts_count + ?", delta)).Error; err != nil {
			return err
		}
	}

	if len(post.Tags) > 0 {
		tagIDs := make([]uint, 0, len(post.Tags))
		for _, tag := range post.Tags {
			tagIDs = append(tagIDs, tag.ID)
		}
		if err := tx.Model(&models.Tag{}).
			Where("id IN ?", tagIDs).
			UpdateColumn("posts_count", gorm.Expr("posts_count + ?", delta)).Error; err != nil {
			return err
		}
	}

	return nil
}

func recountCategories(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Exec(`
		UPDATE categories SET posts_count = (
			SELECT COUNT(*) FROM posts
			WHERE posts.category_id = categories.id
			  AND posts.is_published = TRUE
			  AND posts.deleted_at IS NULL
		) WHERE id IN ?
	`, ids).Error
}

func recountTags(tx *gorm.DB) error {
	if err := tx.Exec(`
		UPDATE tags SET posts_count = (
			SELECT COUNT(*) FROM post_tags
			JOIN posts ON posts.id = post_tags.post_id
			WHERE post_tags.tag_id = tags.id
			  AND posts.is_published = TRUE
			  AND posts.deleted_at IS NULL
		)
	`).Error; err != nil {
		return err
	}

	return tx.Exec(`
		UPDATE tags SET usage_count = (
			SELECT COUNT(*) FROM post_tags WHERE post_tags.tag_id = tags.id
		)
	`).Error
}
