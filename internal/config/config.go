package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the whole application configuration, populated from
// environment variables. All persistent state lives in the external
// spreadsheet; there is no database section.
type Config struct {
	App    AppConfig
	Redis  RedisConfig
	Sheets SheetsConfig
	Admin  AdminConfig
	MinIO  MinIOConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// SheetsConfig points at the spreadsheet that acts as the row store.
// Each tab can be overridden with an explicit CSV URL; otherwise the
// export URL is derived from AlumniSheetID and the tab name.
type SheetsConfig struct {
	AlumniSheetID string
	SlugsTab      string // default "Profile-Slugs"
	SlugsCSVURL   string
	RosterCSVURL  string
	FeedCSVURL    string
	AppendURL     string // webhook endpoint for row writes
	WebhookSecret string
	FallbackDir   string
}

type AdminConfig struct {
	APIKey           string
	HeaderName       string // default "X-Admin-Key"
	JWTSecret        string
	AutoCanonicalize bool
	RateLimit        int64 // requests per window, per client IP
	RateWindowSecs   int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Enabled   bool
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "DAT Alumni API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Sheets: SheetsConfig{
			AlumniSheetID: getEnv("ALUMNI_SHEET_ID", ""),
			SlugsTab:      getEnv("SLUGS_TAB", "Profile-Slugs"),
			SlugsCSVURL:   getEnv("SLUGS_CSV_URL", ""),
			RosterCSVURL:  getEnv("ROSTER_CSV_URL", ""),
			FeedCSVURL:    getEnv("FEED_CSV_URL", ""),
			AppendURL:     getEnv("SHEETS_APPEND_URL", ""),
			WebhookSecret: getEnv("SHEETS_WEBHOOK_SECRET", ""),
			FallbackDir:   getEnv("CSV_FALLBACK_DIR", "data/fallback"),
		},
		Admin: AdminConfig{
			APIKey:           getEnv("ADMIN_API_KEY", ""),
			HeaderName:       getEnv("ADMIN_HEADER_NAME", "X-Admin-Key"),
			JWTSecret:        getEnv("ADMIN_JWT_SECRET", ""),
			AutoCanonicalize: getEnvBool("AUTO_CANONICALIZE_SLUGS", false),
			RateLimit:        int64(getEnvInt("ADMIN_RATE_LIMIT", 60)),
			RateWindowSecs:   getEnvInt("ADMIN_RATE_WINDOW_SECS", 60),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "dat-snapshots"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			Enabled:   getEnvBool("MINIO_ENABLED", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Sheets.AlumniSheetID == "" && (c.Sheets.SlugsCSVURL == "" || c.Sheets.RosterCSVURL == "") {
		return fmt.Errorf("config: ALUMNI_SHEET_ID or explicit CSV URLs (SLUGS_CSV_URL, ROSTER_CSV_URL) required")
	}
	if c.Admin.APIKey == "" && c.App.Environment == "production" {
		return fmt.Errorf("config: ADMIN_API_KEY required in production")
	}
	return nil
}

// SlugsURL resolves the forward-map CSV URL (explicit override first).
func (c *SheetsConfig) SlugsURL(exportURL func(sheetID, tab string) string) string {
	if c.SlugsCSVURL != "" {
		return c.SlugsCSVURL
	}
	return exportURL(c.AlumniSheetID, c.SlugsTab)
}

// RosterURL resolves the alumni roster CSV URL.
func (c *SheetsConfig) RosterURL(exportURL func(sheetID, tab string) string) string {
	if c.RosterCSVURL != "" {
		return c.RosterCSVURL
	}
	return exportURL(c.AlumniSheetID, "Alumni")
}

// FeedURL resolves the audit-log CSV URL.
func (c *SheetsConfig) FeedURL(exportURL func(sheetID, tab string) string) string {
	if c.FeedCSVURL != "" {
		return c.FeedCSVURL
	}
	return exportURL(c.AlumniSheetID, "Profile-Changes")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
