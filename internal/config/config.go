// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// AppName names the per-user config directory.
const AppName = "claude-usage-tui"

// Config holds the application configuration.
type Config struct {
	StatsPath           string
	DatabasePath        string
	LogPath             string
	LogLevel            string
	Locale              string
	RefreshInterval     time.Duration
	TokenAlertThreshold int64
}

// Default values
const (
	defaultRefreshInterval = 60 * time.Second
	minRefreshInterval     = time.Second
	defaultLogLevel        = "info"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// First existing .env wins; real environment variables take precedence.
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	threshold, err := getEnvCount("TOKEN_ALERT_THRESHOLD", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		StatsPath:           expandHome(getEnvString("STATS_PATH", getDefaultStatsPath())),
		DatabasePath:        expandHome(getEnvString("DATABASE_PATH", getDefaultDatabasePath())),
		LogPath:             expandHome(getEnvString("LOG_PATH", getDefaultLogPath())),
		LogLevel:            getEnvString("LOG_LEVEL", defaultLogLevel),
		Locale:              os.Getenv("LOCALE"),
		RefreshInterval:     getEnvDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		TokenAlertThreshold: threshold,
	}

	if cfg.RefreshInterval < minRefreshInterval {
		cfg.RefreshInterval = minRefreshInterval
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Dir returns the per-user configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", AppName, ".env"),
			filepath.Join(home, ".claude", ".env"),
		)
	}

	return paths
}

// getDefaultStatsPath returns the snapshot Claude keeps under ~/.claude.
func getDefaultStatsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "stats-cache.json"
	}
	return filepath.Join(home, ".claude", "stats-cache.json")
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	dir := Dir()
	if dir == "" {
		return "history.db"
	}
	return filepath.Join(dir, "history.db")
}

func getDefaultLogPath() string {
	dir := Dir()
	if dir == "" {
		return "cut.log"
	}
	return filepath.Join(dir, "cut.log")
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvCount retrieves a token count such as "250000", "500K" or "1.5M".
func getEnvCount(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := ParseCount(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

var countSuffixes = map[byte]int32{'K': 3, 'M': 6, 'B': 9}

// ParseCount parses a non-negative count with an optional K, M or B suffix.
func ParseCount(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty count")
	}

	var exp int32
	if e, ok := countSuffixes[s[len(s)-1]]; ok {
		exp = e
		s = s[:len(s)-1]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("count must not be negative: %s", s)
	}
	return d.Shift(exp).Round(0).IntPart(), nil
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
