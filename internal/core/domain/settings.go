package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Configuration keys understood by the config store.
const (
	KeyServerURL    = "server.url"
	KeyPollInterval = "poll.interval"
	KeyProbeTimeout = "probe.timeout"
	KeyMaxTopics    = "topics.max"
	KeyFreshness    = "state.freshness"
	KeyHTTPTimeout  = "http.timeout"
	KeyHTTPRate     = "http.rate"
)

// Settings holds the typed client configuration.
type Settings struct {
	// ServerURL is the base URL of the generation backend.
	ServerURL string

	// PollInterval is the fixed delay between job status polls.
	PollInterval time.Duration

	// ProbeTimeout bounds how long a URL attachment probe may take.
	ProbeTimeout time.Duration

	// MaxTopics bounds the size of the topic set.
	MaxTopics int

	// FreshnessWindow is how long persisted state stays restorable.
	FreshnessWindow time.Duration

	// HTTPTimeout bounds a single backend request.
	HTTPTimeout time.Duration

	// RequestRate is the number of backend requests allowed per second.
	RequestRate float64
}

// DefaultSettings returns sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		ServerURL:       "http://localhost:5000",
		PollInterval:    2 * time.Second,
		ProbeTimeout:    10 * time.Second,
		MaxTopics:       DefaultMaxTopics,
		FreshnessWindow: DefaultFreshnessWindow,
		HTTPTimeout:     30 * time.Second,
		RequestRate:     5,
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	u, err := url.Parse(s.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: server url %q", ErrInvalidInput, s.ServerURL)
	}
	if s.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidInput)
	}
	if s.ProbeTimeout <= 0 {
		return fmt.Errorf("%w: probe timeout must be positive", ErrInvalidInput)
	}
	if s.MaxTopics < 1 {
		return fmt.Errorf("%w: topics.max must be at least 1", ErrInvalidInput)
	}
	if s.FreshnessWindow <= 0 {
		return fmt.Errorf("%w: freshness window must be positive", ErrInvalidInput)
	}
	if s.RequestRate <= 0 {
		return fmt.Errorf("%w: http rate must be positive", ErrInvalidInput)
	}
	return nil
}
