package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Upload backends
const (
	UploadBackendScript = "script"
	UploadBackendS3     = "s3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port           int           `envconfig:"PORT" default:"8080"`
	ReadTimeout    time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout   time.Duration `envconfig:"WRITE_TIMEOUT" default:"90s"`
	MaxWorkers     int           `envconfig:"MAX_WORKERS" default:"5"`
	FormTTL        time.Duration `envconfig:"FORM_TTL" default:"2h"`
	CookieHashKey  string        `envconfig:"COOKIE_HASH_KEY"`  // base64, 32 or 64 bytes
	CookieBlockKey string        `envconfig:"COOKIE_BLOCK_KEY"` // base64, 16, 24 or 32 bytes
	CookieSecure   bool          `envconfig:"COOKIE_SECURE" default:"false"`

	// Logging configuration
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"` // "json" or "pretty"
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	// Tabular store and upload script
	ListEndpoint   string        `envconfig:"LIST_ENDPOINT"`
	WriteEndpoint  string        `envconfig:"WRITE_ENDPOINT"`
	UploadEndpoint string        `envconfig:"UPLOAD_ENDPOINT"`
	ListReadStyle  string        `envconfig:"LIST_READ_STYLE" default:"search"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// Image handling
	MaxImageBytes     int64 `envconfig:"MAX_IMAGE_BYTES" default:"10485760"`
	ImageMaxDimension int   `envconfig:"IMAGE_MAX_DIMENSION" default:"1600"`
	ImageQuality      int   `envconfig:"IMAGE_QUALITY" default:"85"`

	// Alternative image storage
	UploadBackend     string `envconfig:"UPLOAD_BACKEND" default:"script"`
	S3Endpoint        string `envconfig:"S3_ENDPOINT"`
	S3Region          string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Bucket          string `envconfig:"S3_BUCKET" default:"receipts"`
	S3AccessKeyID     string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3PublicBaseURL   string `envconfig:"S3_PUBLIC_BASE_URL"`
}

// LoadConfig loads the application configuration from an optional .env file
// and the environment. envFile may be empty to use the default locations.
func LoadConfig(envFile string) (*Config, error) {
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	config := new(Config)
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadDotEnv loads the first .env file found. An explicit file must exist;
// the default locations are optional.
func loadDotEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	// Project root relative to bin/<name>
	if execPath, err := os.Executable(); err == nil {
		projectRoot := filepath.Dir(filepath.Dir(execPath))
		if err := godotenv.Load(filepath.Join(projectRoot, ".env")); err == nil {
			return nil
		}
	}

	// Missing .env in the working directory is fine
	_ = godotenv.Load()
	return nil
}

// Validate checks that the configuration can run the pipeline
func (c *Config) Validate() error {
	var problems []string

	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT %d is out of range", c.Port))
	}

	for name, value := range map[string]string{
		"LIST_ENDPOINT":  c.ListEndpoint,
		"WRITE_ENDPOINT": c.WriteEndpoint,
	} {
		if err := checkURL(value); err != nil {
			problems = append(problems, fmt.Sprintf("%s %v", name, err))
		}
	}

	switch c.ListReadStyle {
	case "search", "sheet":
	default:
		problems = append(problems, fmt.Sprintf("LIST_READ_STYLE must be search or sheet, got %q", c.ListReadStyle))
	}

	switch c.UploadBackend {
	case UploadBackendScript:
		if err := checkURL(c.UploadEndpoint); err != nil {
			problems = append(problems, fmt.Sprintf("UPLOAD_ENDPOINT %v", err))
		}
	case UploadBackendS3:
		if c.S3Endpoint == "" || c.S3AccessKeyID == "" || c.S3SecretAccessKey == "" || c.S3Bucket == "" {
			problems = append(problems, "UPLOAD_BACKEND=s3 requires S3_ENDPOINT, S3_BUCKET, S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY")
		}
	default:
		problems = append(problems, fmt.Sprintf("UPLOAD_BACKEND must be script or s3, got %q", c.UploadBackend))
	}

	if c.MaxWorkers <= 0 {
		problems = append(problems, "MAX_WORKERS must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Warnings lists settings that work but are probably not what production wants
func (c *Config) Warnings() []string {
	var warnings []string

	if c.CookieHashKey == "" || c.CookieBlockKey == "" {
		warnings = append(warnings, "COOKIE_HASH_KEY or COOKIE_BLOCK_KEY not set; using random keys, open forms are lost on restart")
	}
	if c.MaxImageBytes <= 0 {
		warnings = append(warnings, "MAX_IMAGE_BYTES is not positive; image size is unbounded")
	}
	if c.ImageMaxDimension <= 0 {
		warnings = append(warnings, "IMAGE_MAX_DIMENSION is not positive; images are uploaded at full size")
	}

	return warnings
}

func checkURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is not a valid URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an absolute http(s) URL")
	}
	return nil
}
