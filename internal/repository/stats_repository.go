package repository

import (
	"time"

	"gorm.io/gorm"

	"blogforge-backend/internal/models"
)

type SiteStats struct {
	TotalUsers       int64   `json:"total_users"`
	ActiveUsers      int64   `json:"active_users"`
	TotalPosts       int64   `json:"total_posts"`
	PublishedPosts   int64   `json:"published_posts"`
	ScheduledPosts   int64   `json:"scheduled_posts"`
	TotalComments    int64   `json:"total_comments"`
	PendingComments  int64   `json:"pending_comments"`
	TotalViews       int64   `json:"total_views"`
	TotalCategories  int64   `json:"total_categories"`
	TotalTags        int64   `json:"total_tags"`
	AvgViewsPerPost  float64 `json:"avg_views_per_post"`
	AvgWordsPerPost  float64 `json:"avg_words_per_post"`
	GeneratedPosts   int64   `json:"generated_posts"`
	ViewsLast24Hours int64   `json:"views_last_24_hours"`
	PostsLast30Days  int64   `json:"posts_last_30_days"`
}

type StatsRepository interface {
	GetSiteStats(aiAuthorID *uint) (*SiteStats, error)
	GetTopPosts(limit int) ([]models.Post, error)
	GetTopAuthors(limit int) ([]models.User, error)
	GetPostsPerDay(days int) (map[string]int64, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetSiteStats(aiAuthorID *uint) (*SiteStats, error) {
	stats := &SiteStats{}
	now := time.Now()

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, r.db.Model(&models.User{})},
		{&stats.ActiveUsers, r.db.Model(&models.User{}).Where("is_active = ?", true)},
		{&stats.TotalPosts, r.db.Model(&models.Post{})},
		{&stats.PublishedPosts, r.db.Model(&models.Post{}).Where("is_published = ?", true)},
		{&stats.ScheduledPosts, r.db.Model(&models.Post{}).Where("is_published = ? AND scheduled_at IS NOT NULL", false)},
		{&stats.TotalComments, r.db.Model(&models.Comment{})},
		{&stats.PendingComments, r.db.Model(&models.Comment{}).Where("is_approved = ? AND is_spam = ?", false, false)},
		{&stats.TotalViews, r.db.Model(&models.View{})},
		{&stats.TotalCategories, r.db.Model(&models.Category{})},
		{&stats.TotalTags, r.db.Model(&models.Tag{})},
		{&stats.ViewsLast24Hours, r.db.Model(&models.View{}).Where("created_at >= ?", now.Add(-24*time.Hour))},
		{&stats.PostsLast30Days, r.db.Model(&models.Post{}).Where("created_at >= ?", now.AddDate(0, 0, -30))},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if stats.PublishedPosts > 0 {
		var totalPublishedViews int64
		if err := r.db.Model(&models.Post{}).
			Where("is_published = ?", true).
			Select("COALESCE(SUM(views_count), 0)").
			Scan(&totalPublishedViews).Error; err != nil {
			return nil, err
		}
		stats.AvgViewsPerPost = float64(totalPublishedViews) / float64(stats.PublishedPosts)

		var avgWords float64
		if err := r.db.Model(&models.Post{}).
			Where("is_published = ?", true).
			Select("COALESCE(AVG(reading_time), 0) * 200").
			Scan(&avgWords).Error; err != nil {
			return nil, err
		}
		stats.AvgWordsPerPost = avgWords
	}

	if aiAuthorID != nil {
		if err := r.db.Model(&models.Post{}).
			Where("author_id = ?", *aiAuthorID).
			Count(&stats.GeneratedPosts).Error; err != nil {
			return nil, err
		}
	}

	return stats, nil
}

func (r *statsRepository) GetTopPosts(limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("is_published = ?", true).
		Preload("Author").
		Preload("Category").
		Order("views_count DESC, likes_count DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *statsRepository) GetTopAuthors(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("posts_count > 0").
		Order("posts_count DESC, reputation_score DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// GetPostsPerDay returns creation counts keyed by date for the last N days.
func (r *statsRepository) GetPostsPerDay(days int) (map[string]int64, error) {
	type row struct {
		Day   time.Time
		Count int64
	}

	var rows []row
	since := time.Now().AddDate(0, 0, -days)
	err := r.db.Model(&models.Post{}).
		Select("DATE(created_at) AS day, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Day.Format("2006-01-02")] = r.Count
	}
	return result, nil
}
