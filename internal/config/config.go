// Package config loads server configuration from command-line flags, environment variables and
// .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Image storage backends.
const (
	ImageBackendLocal = "local"
	ImageBackendMinIO = "minio"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Data    DataConfig
	Server  ServerConfig
	Auth    AuthConfig
	Site    SiteConfig
	Storage StorageConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig locates on-disk state: the database, the token key and local uploads.
type DataConfig struct {
	BasePath string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	CORSAllowedOrigins []string
	// MaxUploadSize caps the total body size of a multipart creator request.
	MaxUploadSize int64
}

// AuthConfig holds admin authentication configuration.
type AuthConfig struct {
	SessionDuration    time.Duration
	ResetTokenDuration time.Duration
	CookieSecure       bool
	// AdminEmail and AdminPassword seed an admin account on boot when both are set.
	AdminEmail    string
	AdminPassword string
}

// SiteConfig holds settings that shape public creator data.
type SiteConfig struct {
	ContactDomain string
	FeaturedLimit int
}

// StorageConfig selects where uploaded images live.
type StorageConfig struct {
	Backend string
	MinIO   MinIOConfig
}

// MinIOConfig holds S3-compatible object storage settings.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LoadConfig loads configuration using the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("tman-server", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for the database, auth key and uploads")
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated origins allowed to call the API with credentials")
	maxUpload := fs.String("max-upload-size", "", "Maximum multipart request size in bytes (default: 32MiB)")
	sessionDuration := fs.String("session-duration", "", "Admin session lifetime (default: 24h)")
	resetDuration := fs.String("reset-token-duration", "", "Password reset token lifetime (default: 1h)")
	cookieSecure := fs.String("cookie-secure", "", "Mark the session cookie Secure (default: true in production)")
	contactDomain := fs.String("contact-domain", "", "Domain used for creator collaboration addresses")
	featuredLimit := fs.String("featured-limit", "", "Number of creators returned by the featured endpoint (default: 3)")
	imageBackend := fs.String("image-backend", "", "Image storage backend: local or minio")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// A missing .env file is fine; real environment variables always win over it.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Auth: AuthConfig{
			AdminEmail:    getConfigValue("", "ADMIN_EMAIL", ""),
			AdminPassword: getConfigValue("", "ADMIN_PASSWORD", ""),
		},
		Site: SiteConfig{
			ContactDomain: getConfigValue(*contactDomain, "CONTACT_DOMAIN", "tmanorigins.com"),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getConfigValue(*imageBackend, "IMAGE_BACKEND", ImageBackendLocal)),
			MinIO: MinIOConfig{
				Endpoint:  getConfigValue("", "MINIO_ENDPOINT", ""),
				AccessKey: getConfigValue("", "MINIO_ACCESS_KEY", ""),
				SecretKey: getConfigValue("", "MINIO_SECRET_KEY", ""),
				Bucket:    getConfigValue("", "MINIO_BUCKET", "creators"),
				UseSSL:    getBoolConfigValue("", "MINIO_USE_SSL", false),
			},
		},
	}
	cfg.Auth.CookieSecure = getBoolConfigValue(*cookieSecure, "COOKIE_SECURE", cfg.App.Environment == "production")

	var err error
	durations := []struct {
		dst      *time.Duration
		flag     string
		key      string
		fallback string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "30s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Auth.SessionDuration, *sessionDuration, "SESSION_DURATION", "24h"},
		{&cfg.Auth.ResetTokenDuration, *resetDuration, "RESET_TOKEN_DURATION", "1h"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.key, d.fallback)
		if *d.dst, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.key, raw, err)
		}
	}

	if cfg.Server.MaxUploadSize, err = getInt64ConfigValue(*maxUpload, "MAX_UPLOAD_SIZE", 32<<20); err != nil {
		return nil, err
	}
	featured, err := getInt64ConfigValue(*featuredLimit, "FEATURED_LIMIT", 3)
	if err != nil {
		return nil, err
	}
	cfg.Site.FeaturedLimit = int(featured)

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	switch c.Storage.Backend {
	case ImageBackendLocal:
	case ImageBackendMinIO:
		if c.Storage.MinIO.Endpoint == "" || c.Storage.MinIO.Bucket == "" {
			return errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for the minio image backend")
		}
	default:
		return fmt.Errorf("invalid image backend: %q (must be local or minio)", c.Storage.Backend)
	}

	if c.Auth.SessionDuration <= 0 {
		return errors.New("session duration must be positive")
	}
	if c.Auth.ResetTokenDuration <= 0 {
		return errors.New("reset token duration must be positive")
	}
	if c.Server.MaxUploadSize <= 0 {
		return errors.New("max upload size must be positive")
	}
	if c.Site.FeaturedLimit < 0 {
		return errors.New("featured limit cannot be negative")
	}
	if (c.Auth.AdminEmail == "") != (c.Auth.AdminPassword == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	return nil
}

// DatabasePath returns the SQLite database file location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Data.BasePath, "db")
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned unchanged.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data path to ~/TManOrigins/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	expanded, err := expandPath(c.Data.BasePath, filepath.Join(homeDir, "TManOrigins", "data"))
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getInt64ConfigValue returns an integer from flag, env var, or default.
func getInt64ConfigValue(flagValue, envKey string, defaultValue int64) (int64, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(strValue, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return n, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
