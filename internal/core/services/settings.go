package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindDuration
)

var settingKeys = []struct {
	key  string
	kind keyKind
}{
	{domain.KeyServerURL, kindString},
	{domain.KeyPollInterval, kindDuration},
	{domain.KeyProbeTimeout, kindDuration},
	{domain.KeyMaxTopics, kindInt},
	{domain.KeyFreshness, kindDuration},
	{domain.KeyHTTPTimeout, kindDuration},
	{domain.KeyHTTPRate, kindFloat},
}

// SettingsService reads and writes typed settings through a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get overlays configured values on the defaults and validates the result.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings := s.read()
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid configuration in %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Set parses raw for key and persists it if the resulting settings are valid.
func (s *SettingsService) Set(key, raw string) error {
	kind, ok := lookupKind(key)
	if !ok {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}

	var value any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		value = n
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		value = f
	case kindDuration:
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%w: %s must be a duration like 2s", domain.ErrInvalidInput, key)
		}
		value = raw
	default:
		value = raw
	}

	candidate := s.read()
	applySetting(&candidate, key, value)
	if err := candidate.Validate(); err != nil {
		return err
	}
	return s.configStore.Set(key, value)
}

// Value returns the effective value of key formatted for display.
func (s *SettingsService) Value(key string) (string, error) {
	if _, ok := lookupKind(key); !ok {
		return "", fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}
	st := s.read()
	switch key {
	case domain.KeyServerURL:
		return st.ServerURL, nil
	case domain.KeyPollInterval:
		return st.PollInterval.String(), nil
	case domain.KeyProbeTimeout:
		return st.ProbeTimeout.String(), nil
	case domain.KeyMaxTopics:
		return strconv.Itoa(st.MaxTopics), nil
	case domain.KeyFreshness:
		return st.FreshnessWindow.String(), nil
	case domain.KeyHTTPTimeout:
		return st.HTTPTimeout.String(), nil
	default:
		return strconv.FormatFloat(st.RequestRate, 'g', -1, 64), nil
	}
}

// Keys returns the supported configuration keys.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) read() domain.Settings {
	settings := domain.DefaultSettings()
	for _, k := range settingKeys {
		if _, ok := s.configStore.Get(k.key); !ok {
			continue
		}
		var value any
		switch k.kind {
		case kindInt:
			value = s.configStore.GetInt(k.key)
		case kindFloat:
			value = s.configStore.GetFloat(k.key)
		case kindDuration:
			d := s.configStore.GetDuration(k.key)
			if d == 0 {
				continue
			}
			value = d
		default:
			value = s.configStore.GetString(k.key)
		}
		applySetting(&settings, k.key, value)
	}
	return settings
}

func applySetting(st *domain.Settings, key string, value any) {
	if raw, ok := value.(string); ok && key != domain.KeyServerURL {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return
		}
		value = d
	}
	switch key {
	case domain.KeyServerURL:
		st.ServerURL, _ = value.(string)
	case domain.KeyPollInterval:
		st.PollInterval, _ = value.(time.Duration)
	case domain.KeyProbeTimeout:
		st.ProbeTimeout, _ = value.(time.Duration)
	case domain.KeyMaxTopics:
		st.MaxTopics, _ = value.(int)
	case domain.KeyFreshness:
		st.FreshnessWindow, _ = value.(time.Duration)
	case domain.KeyHTTPTimeout:
		st.HTTPTimeout, _ = value.(time.Duration)
	case domain.KeyHTTPRate:
		st.RequestRate, _ = value.(float64)
	}
}

func lookupKind(key string) (keyKind, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return 0, false
}
