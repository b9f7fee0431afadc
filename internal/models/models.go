package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"type:varchar(32);default:'user'" json:"role"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `gorm:"type:text" json:"bio"`
	Avatar    string `json:"avatar"`
	Website   string `json:"website"`
	Location  string `json:"location"`

	IsActive           bool `gorm:"default:true;index" json:"is_active"`
	IsVerified         bool `gorm:"default:false" json:"is_verified"`
	EmailNotifications bool `gorm:"default:true" json:"email_notifications"`

	LastSeen   *time.Time `json:"last_seen,omitempty"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	LoginCount int        `gorm:"default:0" json:"login_count"`

	PostsCount      int `gorm:"default:0" json:"posts_count"`
	CommentsCount   int `gorm:"default:0" json:"comments_count"`
	ReputationScore int `gorm:"default:0;index" json:"reputation_score"`

	Posts         []Post         `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	Comments      []Comment      `gorm:"foreignKey:AuthorID" json:"comments,omitempty"`
	Bookmarks     []Bookmark     `gorm:"foreignKey:UserID" json:"bookmarks,omitempty"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
	Sessions      []UserSession  `gorm:"foreignKey:UserID" json:"sessions,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

func (u *User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}

// ReputationLevel buckets the score the same way the profile UI expects.
func (u *User) ReputationLevel() string {
	switch {
	case u.ReputationScore >= 1000:
		return "expert"
	case u.ReputationScore >= 500:
		return "advanced"
	case u.ReputationScore >= 100:
		return "intermediate"
	default:
		return "beginner"
	}
}

type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Color       string `gorm:"type:varchar(7);default:'#007bff'" json:"color"`
	Icon        string `json:"icon"`

	MetaTitle       string `json:"meta_title"`
	MetaDescription string `gorm:"type:text" json:"meta_description"`

	IsActive   bool `gorm:"default:true;index" json:"is_active"`
	SortOrder  int  `gorm:"default:0" json:"sort_order"`
	ShowInMenu bool `gorm:"default:true" json:"show_in_menu"`

	PostsCount int `gorm:"default:0" json:"posts_count"`

	Posts []Post `gorm:"foreignKey:CategoryID" json:"posts,omitempty"`
}

type Post struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string `gorm:"not null;index" json:"title"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Content     string `gorm:"type:text;not null" json:"content"`
	ContentHTML string `gorm:"type:text" json:"content_html"`
	Excerpt     string `gorm:"type:text" json:"excerpt"`

	FeaturedImage    string `json:"featured_image"`
	FeaturedImageAlt string `json:"featured_image_alt"`

	IsPublished bool   `gorm:"default:false;index" json:"is_published"`
	IsFeatured  bool   `gorm:"default:false;index" json:"is_featured"`
	IsPinned    bool   `gorm:"default:false" json:"is_pinned"`
	Visibility  string `gorm:"type:varchar(20);default:'public';index" json:"visibility"`

	ViewsCount    int `gorm:"default:0;index" json:"views_count"`
	LikesCount    int `gorm:"default:0" json:"likes_count"`
	SharesCount   int `gorm:"default:0" json:"shares_count"`
	CommentsCount int `gorm:"default:0" json:"comments_count"`

	MetaTitle       string `json:"meta_title"`
	MetaDescription string `gorm:"type:text" json:"meta_description"`
	CanonicalURL    string `json:"canonical_url"`

	AllowComments bool `gorm:"default:true" json:"allow_comments"`
	ReadingTime   int  `json:"reading_time"`

	PublishedAt *time.Time `gorm:"index" json:"published_at,omitempty"`
	ScheduledAt *time.Time `gorm:"index" json:"scheduled_at,omitempty"`

	AuthorID   uint      `gorm:"not null;index" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Tags      []Tag      `gorm:"many2many:post_tags;" json:"tags,omitempty"`
	Comments  []Comment  `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Views     []View     `gorm:"foreignKey:PostID" json:"-"`
	Bookmarks []Bookmark `gorm:"foreignKey:PostID" json:"-"`
	Likes     []PostLike `gorm:"foreignKey:PostID" json:"-"`
}

// IsScheduled reports whether the post is waiting for a future publish time.
func (p *Post) IsScheduled() bool {
	return p.ScheduledAt != nil && p.ScheduledAt.After(time.Now().UTC())
}

type Tag struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Color       string `gorm:"type:varchar(7);default:'#6c757d'" json:"color"`

	PostsCount int `gorm:"default:0;index" json:"posts_count"`
	UsageCount int `gorm:"default:0" json:"usage_count"`

	Posts []Post `gorm:"many2many:post_tags;" json:"posts,omitempty"`
}

type Comment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Content     string `gorm:"type:text;not null" json:"content"`
	ContentHTML string `gorm:"type:text" json:"content_html"`

	IsApproved bool `gorm:"default:false;index" json:"is_approved"`
	IsSpam     bool `gorm:"default:false" json:"is_spam"`

	LikesCount   int `gorm:"default:0" json:"likes_count"`
	RepliesCount int `gorm:"default:0" json:"replies_count"`

	ModerationNotes string     `gorm:"type:text" json:"moderation_notes,omitempty"`
	ModeratedBy     *uint      `json:"moderated_by,omitempty"`
	ModeratedAt     *time.Time `json:"moderated_at,omitempty"`

	PostID uint `gorm:"not null;index" json:"post_id"`
	Post   Post `gorm:"foreignKey:PostID" json:"-"`

	AuthorID uint `gorm:"not null;index" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID" json:"author"`

	ParentID *uint      `gorm:"index" json:"parent_id"`
	Parent   *Comment   `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Replies  []*Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`

	Likes []CommentLike `gorm:"foreignKey:CommentID" json:"-"`
}

// ModerationState reports pending, approved or spam.
func (c *Comment) ModerationState() string {
	switch {
	case c.IsSpam:
		return "spam"
	case c.IsApproved:
		return "approved"
	default:
		return "pending"
	}
}

type View struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	PostID uint  `gorm:"not null;index:idx_views_post_created,priority:1" json:"post_id"`
	UserID *uint `gorm:"index" json:"user_id,omitempty"`

	IPAddress  string `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent  string `gorm:"type:text" json:"user_agent,omitempty"`
	Referrer   string `gorm:"type:varchar(500)" json:"referrer,omitempty"`
	DeviceType string `gorm:"type:varchar(20);index" json:"device_type,omitempty"`

	Post Post `gorm:"foreignKey:PostID" json:"-"`
}

type Bookmark struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint `gorm:"not null;uniqueIndex:idx_bookmark_user_post,priority:1" json:"user_id"`
	PostID uint `gorm:"not null;uniqueIndex:idx_bookmark_user_post,priority:2" json:"post_id"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Post Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

type PostLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint `gorm:"not null;uniqueIndex:idx_post_like_user_post,priority:1" json:"user_id"`
	PostID uint `gorm:"not null;uniqueIndex:idx_post_like_user_post,priority:2" json:"post_id"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}

type CommentLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID    uint `gorm:"not null;uniqueIndex:idx_comment_like_user_comment,priority:1" json:"user_id"`
	CommentID uint `gorm:"not null;uniqueIndex:idx_comment_like_user_comment,priority:2" json:"comment_id"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Comment Comment `gorm:"foreignKey:CommentID" json:"-"`
}

type Notification struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID  uint       `gorm:"not null;index:idx_notification_user_read,priority:1" json:"user_id"`
	Title   string     `gorm:"not null" json:"title"`
	Message string     `gorm:"type:text;not null" json:"message"`
	Type    string     `gorm:"type:varchar(50);not null;index" json:"type"`
	Link    string     `gorm:"type:varchar(500)" json:"link,omitempty"`
	Data    JSONMap    `gorm:"type:jsonb" json:"data,omitempty"`
	IsRead  bool       `gorm:"default:false;index:idx_notification_user_read,priority:2" json:"is_read"`
	ReadAt  *time.Time `json:"read_at,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

type UserSession struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID       uint       `gorm:"not null;index" json:"user_id"`
	Token        string     `gorm:"uniqueIndex;not null" json:"-"`
	IPAddress    string     `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent    string     `gorm:"type:text" json:"user_agent,omitempty"`
	IsActive     bool       `gorm:"default:true;index" json:"is_active"`
	LastActivity time.Time  `json:"last_activity"`
	ExpiresAt    *time.Time `gorm:"index" json:"expires_at,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (s *UserSession) IsExpired() bool {
	return s.ExpiresAt != nil && time.Now().UTC().After(*s.ExpiresAt)
}

type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan JSONMap")
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(bytes, &decoded); err != nil {
		return err
	}

	*m = decoded
	return nil
}
