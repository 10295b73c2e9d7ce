package config

import (
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeyBackendURL        = "backend_url"
	KeyRequestTimeout    = "request_timeout_seconds"
	KeyRequestsPerSecond = "requests_per_second"
	KeyLogLevel          = "log_level"
	KeyNoticeTTL         = "notice_ttl_seconds"
)

// EnvBackendURL overrides the stored backend URL when set
const EnvBackendURL = "BACKENDURL"

// Default values
const (
	DefaultBackendURL        = "https://backendforcompreactapp.herokuapp.com"
	DefaultRequestTimeout    = 30 * time.Second
	DefaultRequestsPerSecond = 10
	DefaultLogLevel          = "info"
	DefaultNoticeTTL         = 5 * time.Second
)

// Settings manages application configuration
type Settings struct {
	app    fyne.App
	getenv func(string) string
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app, getenv: os.Getenv}
}

// GetBackendURL returns the REST backend base URL without a trailing slash.
// The BACKENDURL environment variable wins over the stored value.
func (s *Settings) GetBackendURL() string {
	if env := strings.TrimSpace(s.getenv(EnvBackendURL)); env != "" {
		return strings.TrimRight(env, "/")
	}
	url := s.app.Preferences().String(KeyBackendURL)
	if url == "" {
		s.SetBackendURL(DefaultBackendURL)
		return DefaultBackendURL
	}
	return url
}

// SetBackendURL sets the backend base URL
func (s *Settings) SetBackendURL(url string) {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		url = DefaultBackendURL
	}
	s.app.Preferences().SetString(KeyBackendURL, url)
}

// GetRequestTimeout returns the transport timeout; zero means no timeout
func (s *Settings) GetRequestTimeout() time.Duration {
	value := s.app.Preferences().IntWithFallback(KeyRequestTimeout, -1)
	if value < 0 {
		s.SetRequestTimeout(DefaultRequestTimeout)
		return DefaultRequestTimeout
	}
	return time.Duration(value) * time.Second
}

// SetRequestTimeout sets the transport timeout, rounded down to whole seconds
func (s *Settings) SetRequestTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.app.Preferences().SetInt(KeyRequestTimeout, int(d/time.Second))
}

// GetRequestsPerSecond returns the outbound request rate limit
func (s *Settings) GetRequestsPerSecond() int {
	value := s.app.Preferences().Int(KeyRequestsPerSecond)
	if value <= 0 {
		s.SetRequestsPerSecond(DefaultRequestsPerSecond)
		return DefaultRequestsPerSecond
	}
	return value
}

// SetRequestsPerSecond sets the outbound request rate limit
func (s *Settings) SetRequestsPerSecond(count int) {
	if count < 1 {
		count = 1
	}
	if count > 100 {
		count = 100
	}
	s.app.Preferences().SetInt(KeyRequestsPerSecond, count)
}

// GetLogLevel returns the configured log level name
func (s *Settings) GetLogLevel() string {
	level := s.app.Preferences().String(KeyLogLevel)
	if level == "" {
		s.SetLogLevel(DefaultLogLevel)
		return DefaultLogLevel
	}
	return level
}

// SetLogLevel sets the log level name
func (s *Settings) SetLogLevel(level string) {
	s.app.Preferences().SetString(KeyLogLevel, strings.ToLower(strings.TrimSpace(level)))
}

// GetNoticeTTL returns how long a notice stays visible; zero keeps notices until dismissed
func (s *Settings) GetNoticeTTL() time.Duration {
	value := s.app.Preferences().IntWithFallback(KeyNoticeTTL, -1)
	if value < 0 {
		s.SetNoticeTTL(DefaultNoticeTTL)
		return DefaultNoticeTTL
	}
	return time.Duration(value) * time.Second
}

// SetNoticeTTL sets how long a notice stays visible
func (s *Settings) SetNoticeTTL(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.app.Preferences().SetInt(KeyNoticeTTL, int(d/time.Second))
}

// GetLogLevelOptions returns available log levels
func (s *Settings) GetLogLevelOptions() []string {
	return []string{"debug", "info", "warn", "error"}
}
