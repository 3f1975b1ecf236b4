package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
	assert.Equal(t, svc.GetDefaults(), settings)
}

func TestSettingsService_Get_Overlay(t *testing.T) {
	store := newMockConfigStore()
	store.values[domain.KeyServerURL] = "http://gen.internal:8080"
	store.values[domain.KeyPollInterval] = "500ms"
	store.values[domain.KeyMaxTopics] = int64(10)
	store.values[domain.KeyHTTPRate] = 2.5
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "http://gen.internal:8080", settings.ServerURL)
	assert.Equal(t, 500*time.Millisecond, settings.PollInterval)
	assert.Equal(t, 10, settings.MaxTopics)
	assert.InDelta(t, 2.5, settings.RequestRate, 0.0001)
	assert.Equal(t, domain.DefaultFreshnessWindow, settings.FreshnessWindow)
}

func TestSettingsService_Get_UnparseableDurationKeepsDefault(t *testing.T) {
	store := newMockConfigStore()
	store.values[domain.KeyPollInterval] = "soon"
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, settings.PollInterval)
}

func TestSettingsService_Get_Invalid(t *testing.T) {
	store := newMockConfigStore()
	store.values[domain.KeyServerURL] = "not a url"
	svc := NewSettingsService(store)

	_, err := svc.Get()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		raw     string
		want    any
		wantErr bool
	}{
		{"server url", domain.KeyServerURL, "https://example.com", "https://example.com", false},
		{"bad server url", domain.KeyServerURL, "example", nil, true},
		{"interval", domain.KeyPollInterval, "3s", "3s", false},
		{"bad interval", domain.KeyPollInterval, "3 seconds", nil, true},
		{"zero interval", domain.KeyPollInterval, "0s", nil, true},
		{"max topics", domain.KeyMaxTopics, "20", 20, false},
		{"bad max topics", domain.KeyMaxTopics, "many", nil, true},
		{"zero max topics", domain.KeyMaxTopics, "0", nil, true},
		{"rate", domain.KeyHTTPRate, "0.5", 0.5, false},
		{"unknown key", "search.mode", "hybrid", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockConfigStore()
			svc := NewSettingsService(store)

			err := svc.Set(tt.key, tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				_, ok := store.values[tt.key]
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, store.values[tt.key])
		})
	}
}

func TestSettingsService_Set_StoreError(t *testing.T) {
	store := newMockConfigStore()
	store.setErr = errBoom
	svc := NewSettingsService(store)

	assert.ErrorIs(t, svc.Set(domain.KeyMaxTopics, "5"), errBoom)
}

func TestSettingsService_Value(t *testing.T) {
	store := newMockConfigStore()
	store.values[domain.KeyFreshness] = "1h"
	svc := NewSettingsService(store)

	v, err := svc.Value(domain.KeyFreshness)
	require.NoError(t, err)
	assert.Equal(t, "1h0m0s", v)

	v, err = svc.Value(domain.KeyHTTPRate)
	require.NoError(t, err)
	assert.Equal(t, "5", v)

	_, err = svc.Value("nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_KeysAndPath(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore())
	assert.Contains(t, svc.Keys(), domain.KeyServerURL)
	assert.Len(t, svc.Keys(), 7)
	assert.Equal(t, "/tmp/batchwriter/config.toml", svc.Path())
}
