package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration read from environment variables. The
// environment mode is carried here and injected into services instead of
// being read ambiently, so tests can exercise both modes.
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
	BaseURL  string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	ContentDir string `envconfig:"CONTENT_DIR" default:"./content"`
	LogDir     string `envconfig:"LOG_DIR" default:"./logs"`

	MediaDir          string `envconfig:"MEDIA_DIR" default:"./content/media"`
	MediaPublicPrefix string `envconfig:"MEDIA_PUBLIC_PREFIX" default:"/media"`

	SessionSecret string `envconfig:"SESSION_SECRET" default:"mdx-cms-dev-secret"`
	PreviewSecret string `envconfig:"PREVIEW_SECRET"`

	// Cron settings for the publish-day social dispatch
	CronSchedule    string `envconfig:"CRON_SCHEDULE" default:"0 8 * * *"`
	CronSecret      string `envconfig:"CRON_SECRET"`
	SocialPlatforms string `envconfig:"SOCIAL_PLATFORMS" default:"linkedin,twitter,facebook,devto"`
}

// Load reads the configuration from the environment, loading a .env file
// first when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// IsDevelopment reports whether the app runs in development mode. Admin
// writes are only permitted in this mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
