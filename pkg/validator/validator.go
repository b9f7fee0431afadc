package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
)

func Init() {
	validate = validator.New()

	sanitizer = bluemonday.UGCPolicy()

	registerCustomValidations(validate)

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidations(engine)
	}
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("username", validateUsername)
	v.RegisterValidation("slug", validateSlug)
	v.RegisterValidation("hexcolor_value", validateHexColor)
	v.RegisterValidation("visibility", validateVisibility)
}

func Validate(s interface{}) error {
	return validate.Struct(s)
}

func SanitizeHTML(html string) string {
	return sanitizer.Sanitize(html)
}

func SanitizeString(s string) string {
	return bluemonday.StrictPolicy().Sanitize(s)
}

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	slugValuePat    = regexp.MustCompile(`^[a-z0-9-]+$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidateHexColor(color string) bool {
	return hexColorPattern.MatchString(color)
}

func validateUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	return usernamePattern.MatchString(username) && len(username) >= 3 && len(username) <= 30
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugValuePat.MatchString(fl.Field().String())
}

func validateHexColor(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return hexColorPattern.MatchString(value)
}

func validateVisibility(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "public", "private", "draft":
		return true
	}
	return false
}

func TrimSpaces(s string) string {
	return strings.TrimSpace(s)
}

var spacePattern = regexp.MustCompile(`\s+`)

func NormalizeSpaces(s string) string {
	return spacePattern.ReplaceAllString(s, " ")
}

func SanitizeFilename(filename string) string {
	reg := regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	return reg.ReplaceAllString(filename, "_")
}

func ValidateImageExtension(filename string) bool {
	allowedExtensions := []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".ico"}
	filename = strings.ToLower(filename)

	for _, ext := range allowedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

func ValidateFileSize(size int64, maxSize int64) bool {
	return size > 0 && size <= maxSize
}
