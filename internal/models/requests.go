package models

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,username"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateProfileRequest struct {
	Username  string `json:"username" binding:"required,username"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Website   string `json:"website"`
	Location  string `json:"location"`

	EmailNotifications *bool `json:"email_notifications"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

type CreateCategoryRequest struct {
	Name            string `json:"name" binding:"required,min=2"`
	Description     string `json:"description"`
	Color           string `json:"color" binding:"hexcolor_value"`
	Icon            string `json:"icon"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	SortOrder       *int   `json:"sort_order"`
	ShowInMenu      *bool  `json:"show_in_menu"`
}

type UpdateCategoryRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Color           *string `json:"color"`
	Icon            *string `json:"icon"`
	MetaTitle       *string `json:"meta_title"`
	MetaDescription *string `json:"meta_description"`
	SortOrder       *int    `json:"sort_order"`
	ShowInMenu      *bool   `json:"show_in_menu"`
	IsActive        *bool   `json:"is_active"`
}

type CreatePostRequest struct {
	Title            string   `json:"title" binding:"required,min=5"`
	Content          string   `json:"content" binding:"required,min=50"`
	Excerpt          string   `json:"excerpt"`
	FeaturedImage    string   `json:"featured_image"`
	FeaturedImageAlt string   `json:"featured_image_alt"`
	IsPublished      bool     `json:"is_published"`
	IsFeatured       bool     `json:"is_featured"`
	IsPinned         bool     `json:"is_pinned"`
	Visibility       string   `json:"visibility" binding:"visibility"`
	AllowComments    *bool    `json:"allow_comments"`
	CategoryID       *uint    `json:"category_id"`
	TagNames         []string `json:"tags"`
	MetaTitle        string   `json:"meta_title"`
	MetaDescription  string   `json:"meta_description"`
	ScheduledAt      *string  `json:"scheduled_at"`
}

type UpdatePostRequest struct {
	Title            *string  `json:"title"`
	Content          *string  `json:"content"`
	Excerpt          *string  `json:"excerpt"`
	FeaturedImage    *string  `json:"featured_image"`
	FeaturedImageAlt *string  `json:"featured_image_alt"`
	IsPublished      *bool    `json:"is_published"`
	IsFeatured       *bool    `json:"is_featured"`
	IsPinned         *bool    `json:"is_pinned"`
	Visibility       *string  `json:"visibility"`
	AllowComments    *bool    `json:"allow_comments"`
	CategoryID       *uint    `json:"category_id"`
	TagNames         []string `json:"tags"`
	MetaTitle        *string  `json:"meta_title"`
	MetaDescription  *string  `json:"meta_description"`
	ScheduledAt      *string  `json:"scheduled_at"`
}

type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,min=3,max=1000"`
	ParentID *uint  `json:"parent_id"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=3,max=1000"`
}

type ModerateCommentRequest struct {
	Notes string `json:"notes"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type GenerateContentRequest struct {
	Count    int    `json:"count" binding:"required,min=1,max=50"`
	Category string `json:"category"`
	Topic    string `json:"topic"`
	Publish  bool   `json:"publish"`
}
