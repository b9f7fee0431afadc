package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	// Database
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	// Redis
	EnableRedis bool
	RedisURL    string

	// JWT
	JWTSecret string

	// Server
	Port        string
	Environment string

	// CORS
	CORSOrigins []string

	// Upload
	UploadDir     string
	MaxUploadSize int64

	// Object storage (optional, S3-compatible)
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	// Email
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	EnableEmail  bool

	// Rate Limiting
	RateLimitRequests int
	RateLimitWindow   int
	RateLimitBurst    int

	// Features
	EnableCache   bool
	EnableMetrics bool

	// Site Meta
	SiteName        string
	SiteDescription string
	SiteURL         string

	// AI providers
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleAPIKey    string
	AIEnabled       bool
	AIAutoGenerate  bool
	AIDailyPostCap  int
	AIMaxRetries    int
	AIAuthorName    string
}

func New() *Config {
	c := &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "bloguser"),
		DBPassword: getEnv("DB_PASSWORD", "blogpassword"),
		DBName:     getEnv("DB_NAME", "blogdb"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		EnableRedis: getEnvAsBool("ENABLE_REDIS", true),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "change-this-secret-in-production"),

		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// CORS
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		// Upload
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize: 10 * 1024 * 1024, // 10MB

		// Object storage
		S3Endpoint:  getEnv("MEDIA_S3_ENDPOINT", ""),
		S3AccessKey: getEnv("MEDIA_S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("MEDIA_S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("MEDIA_S3_BUCKET", "blog-media"),
		S3UseSSL:    getEnvAsBool("MEDIA_S3_USE_SSL", true),

		// Email
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@blogforge.local"),
		EnableEmail:  getEnvAsBool("ENABLE_EMAIL", false),

		// Rate Limiting
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 20),

		// Features
		EnableCache:   getEnvAsBool("ENABLE_CACHE", true),
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),

		// Site Meta
		SiteName:        getEnv("SITE_NAME", "BlogForge"),
		SiteDescription: getEnv("SITE_DESCRIPTION", "Блог-платформа с генерацией контента"),
		SiteURL:         getEnv("SITE_URL", "http://localhost:8080"),

		// AI providers
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		GoogleAPIKey:    getEnv("GOOGLE_API_KEY", ""),
		AIAutoGenerate:  getEnvAsBool("AI_AUTO_GENERATE", false),
		AIDailyPostCap:  getEnvAsInt("AI_DAILY_POST_CAP", 5),
		AIMaxRetries:    getEnvAsInt("AI_MAX_RETRIES", 3),
		AIAuthorName:    getEnv("AI_AUTHOR_NAME", "ai_writer"),
	}

	// Providers auto-enable when any API key is present; AI_ENABLED can force
	// the local template generator on or off regardless.
	hasProviderKey := c.OpenAIAPIKey != "" || c.AnthropicAPIKey != "" || c.GoogleAPIKey != ""
	c.AIEnabled = getEnvAsBool("AI_ENABLED", hasProviderKey)

	// Build DSN unless a full URL was provided
	if url := getEnv("DATABASE_URL", ""); url != "" {
		c.DatabaseURL = url
	} else {
		c.DatabaseURL = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
		)
	}

	return c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) ObjectStorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// CacheEnabled reports whether the Redis-backed cache should be used.
// ENABLE_REDIS turns the Redis connection off entirely while ENABLE_CACHE
// toggles caching on top of it.
func (c *Config) CacheEnabled() bool {
	return c.EnableRedis && c.EnableCache
}
