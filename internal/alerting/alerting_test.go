package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlertConfig_DetectsType(t *testing.T) {
	assert.Equal(t, "slack", NewAlertConfig("https://hooks.slack.com/services/x", "", 0).WebhookType)
	assert.Equal(t, "discord", NewAlertConfig("https://discord.com/api/webhooks/x", "", 0).WebhookType)
	assert.Equal(t, "generic", NewAlertConfig("https://example.org/hook", "", 0).WebhookType)
	assert.Equal(t, "slack", NewAlertConfig("https://example.org/hook", "Slack", 0).WebhookType)

	cfg := NewAlertConfig("", "", 0)
	assert.False(t, cfg.Enabled())
	assert.Equal(t, 1, cfg.MinFailuresBeforeAlert)
}

func TestSendRefreshAlert_Generic(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	a := NewAlerter(NewAlertConfig(srv.URL, "generic", 2))
	err := a.SendRefreshAlert(context.Background(), RefreshAlert{
		JobName:             "listings-refresh",
		Source:              "https://sheets.example/frota.csv",
		ConsecutiveFailures: 2,
		Error:               "status 503",
		Timestamp:           time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "listing_refresh_failure", got["alert_type"])
	assert.Equal(t, "status 503", got["error"])
	assert.Equal(t, "never", got["last_success"])
	assert.EqualValues(t, 2, got["consecutive_failures"])
}

func TestSendRefreshAlert_BelowThreshold(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	a := NewAlerter(NewAlertConfig(srv.URL, "", 3))
	require.NoError(t, a.SendRefreshAlert(context.Background(), RefreshAlert{ConsecutiveFailures: 2}))
	assert.Zero(t, calls.Load())
}

func TestSendRefreshAlert_WebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewAlerter(NewAlertConfig(srv.URL, "slack", 1))
	err := a.SendRefreshAlert(context.Background(), RefreshAlert{ConsecutiveFailures: 1, Timestamp: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestPayloadBuilders(t *testing.T) {
	alert := RefreshAlert{JobName: "listings-refresh", ConsecutiveFailures: 4, Error: "timeout", LastSuccess: time.Unix(0, 0).UTC(), Timestamp: time.Now()}

	raw, err := buildSlackPayload(alert)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Listing refresh failing")

	raw, err = buildDiscordPayload(alert)
	require.NoError(t, err)
	var discord map[string]any
	require.NoError(t, json.Unmarshal(raw, &discord))
	assert.Len(t, discord["embeds"], 1)
}
