package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	LogLevel  string
	Server    ServerConfig
	API       APIConfig
	Session   SessionConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// APIConfig points the console at the manufacturing backend.
type APIConfig struct {
	BaseURL string
}

// SessionConfig controls where the client session is persisted.
type SessionConfig struct {
	StorePath string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether KPI snapshots should be appended to a spreadsheet.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether KPI snapshots should be archived in MongoDB.
func (m MongoDBConfig) Enabled() bool {
	return m.URI != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		API: APIConfig{
			BaseURL: getenvWithDefault("MFG_API_BASE_URL", "http://127.0.0.1:5000/api"),
		},
		Session: SessionConfig{
			StorePath: getenvWithDefault("SESSION_STORE_PATH", defaultSessionPath()),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("KPI_SNAPSHOT_CRON", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "mfgconsole"),
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.API.BaseURL == "" {
		return errors.New("MFG_API_BASE_URL must be provided")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("MFG_API_BASE_URL must be an absolute URL, got %q", c.API.BaseURL)
	}

	if c.Session.StorePath == "" {
		return errors.New("SESSION_STORE_PATH must not be empty")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("KPI_SNAPSHOT_CRON must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".mfgconsole", "session.json")
	}
	return filepath.Join(dir, "mfgconsole", "session.json")
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
