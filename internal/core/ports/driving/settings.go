package driving

import "github.com/custodia-labs/batchwriter/internal/core/domain"

// SettingsService manages client configuration.
type SettingsService interface {
	// Get returns the configured settings overlaid on the defaults.
	Get() (domain.Settings, error)

	// Set parses raw for key, validates the result and persists it.
	Set(key, raw string) error

	// Value returns the effective value of key formatted for display.
	Value(key string) (string, error)

	// Keys returns the supported configuration keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Path returns where the configuration is stored.
	Path() string
}
