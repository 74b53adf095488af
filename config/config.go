// Package config exposes the runtime configuration of the blog, read from
// environment variables (optionally seeded from a .env file by main).
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

const (
	defaultPort          = 5000
	defaultSessionMaxAge = 7 * 24 * 60
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := envOr("BLOG_LOG_LEVEL", "")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("BLOG_DEBUG") == "true"
}

// GetDataFolderPath is the folder holding the JSON documents.
func GetDataFolderPath() string {
	return envOr("BLOG_DATA_FOLDER", "data")
}

// GetBackupFolderPath is where the daily backup job writes its snapshots.
func GetBackupFolderPath() string {
	return envOr("BLOG_BACKUP_FOLDER", filepath.Join(GetDataFolderPath(), "backup"))
}

func GetLogFolder() string {
	if IsDebug() {
		return envOr("BLOG_LOG_FOLDER", "log")
	}
	return envOr("BLOG_LOG_FOLDER", "/var/log")
}

func GetListen() string {
	return envOr("BLOG_LISTEN", "")
}

func GetPort() int {
	port := envOrInt("BLOG_PORT", defaultPort)
	if port <= 0 || port > 65535 {
		return defaultPort
	}
	return port
}

// GetSessionSecret returns the cookie signing secret. An empty value makes the
// web server generate a random one, which invalidates sessions on restart.
func GetSessionSecret() string {
	return envOr("BLOG_SESSION_SECRET", "")
}

// GetSessionMaxAge returns the session lifetime in minutes.
func GetSessionMaxAge() int {
	return envOrInt("BLOG_SESSION_MAX_AGE", defaultSessionMaxAge)
}

// GetLanguage is the fallback language for UI messages.
func GetLanguage() string {
	return envOr("BLOG_LANG", "en-US")
}

// GetTimeLocation returns the zone used for view-counter day buckets and cron.
// Unknown zones fall back to the server local zone.
func GetTimeLocation() *time.Location {
	zone := envOr("BLOG_TIME_LOCATION", "")
	if zone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Local
	}
	return loc
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
