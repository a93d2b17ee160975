package config

import (
	"fmt"
	"os"
	"time"
)

// Environment variable names
const (
	EnvDevMode     = "BACKUPD_DEV"          // Set to "1" for development mode
	EnvListenAddr  = "BACKUPD_LISTEN"       // Override API listen address
	EnvBackupDir   = "BACKUPD_BACKUP_DIR"   // Directory holding dump files
	EnvDatabaseURL = "BACKUPD_DATABASE_URL" // Target database connection string (required)
	EnvJWTSecret   = "BACKUPD_JWT_SECRET"   // Token signing secret (required)
	EnvSchedule    = "BACKUPD_SCHEDULE"     // Cron expression for the recurring backup
	EnvCORSOrigin  = "BACKUPD_CORS_ORIGIN"  // Allowed cross-origin value
	EnvJobTimeout  = "BACKUPD_JOB_TIMEOUT"  // Optional duration bound for dump/restore jobs
)

// Config holds the service configuration, sourced from the environment.
type Config struct {
	ListenAddr  string
	BackupDir   string
	DatabaseURL string
	JWTSecret   string
	Schedule    string
	CORSOrigin  string
	// JobTimeout bounds a single dump or restore subprocess. Zero means the
	// subprocess runs to completion no matter how long it takes.
	JobTimeout time.Duration
}

// IsDevMode returns true if running in development mode
func IsDevMode() bool {
	return os.Getenv(EnvDevMode) == "1"
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Load reads the configuration from the environment. The database connection
// string and the token signing secret have no sane defaults and missing either
// is a startup error.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:  getEnvOrDefault(EnvListenAddr, ":8280"),
		BackupDir:   getEnvOrDefault(EnvBackupDir, "/var/lib/backupd/backups"),
		DatabaseURL: os.Getenv(EnvDatabaseURL),
		JWTSecret:   os.Getenv(EnvJWTSecret),
		Schedule:    getEnvOrDefault(EnvSchedule, "0 3 * * *"),
		CORSOrigin:  getEnvOrDefault(EnvCORSOrigin, "*"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%s is required", EnvDatabaseURL)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%s is required", EnvJWTSecret)
	}

	if raw := os.Getenv(EnvJobTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvJobTimeout, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid %s: must not be negative", EnvJobTimeout)
		}
		cfg.JobTimeout = d
	}

	return cfg, nil
}
