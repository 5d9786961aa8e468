package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bher20/locadora/internal/logger"
)

// AlertConfig holds alerting configuration.
type AlertConfig struct {
	// WebhookURL is a generic webhook endpoint (Slack, Discord, or custom)
	WebhookURL string
	// WebhookType determines the payload format: "slack", "discord", or "generic"
	WebhookType string
	// MinFailuresBeforeAlert is how many consecutive failures trigger an alert
	MinFailuresBeforeAlert int
	Timeout                time.Duration
}

// Enabled reports whether a webhook is configured.
func (c AlertConfig) Enabled() bool { return c.WebhookURL != "" }

// NewAlertConfig fills defaults and detects the webhook type from the URL
// when it is not given.
func NewAlertConfig(url, typ string, minFailures int) AlertConfig {
	cfg := AlertConfig{
		WebhookURL:             url,
		WebhookType:            strings.ToLower(typ),
		MinFailuresBeforeAlert: minFailures,
		Timeout:                10 * time.Second,
	}
	if cfg.MinFailuresBeforeAlert < 1 {
		cfg.MinFailuresBeforeAlert = 1
	}
	if cfg.WebhookType == "" {
		switch {
		case strings.Contains(url, "slack.com"):
			cfg.WebhookType = "slack"
		case strings.Contains(url, "discord.com"):
			cfg.WebhookType = "discord"
		default:
			cfg.WebhookType = "generic"
		}
	}
	return cfg
}

// Alerter sends alerts to configured webhooks.
type Alerter struct {
	cfg    AlertConfig
	client *http.Client
	log    *slog.Logger
}

// NewAlerter creates a new alerter instance.
func NewAlerter(cfg AlertConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger.With("alerting"),
	}
}

// RefreshAlert describes a failing listing refresh.
type RefreshAlert struct {
	JobName string
	Source  string
	// ConsecutiveFailures counts failed runs since the last success.
	ConsecutiveFailures int
	Error               string
	Duration            time.Duration
	// LastSuccess is zero when the job never succeeded.
	LastSuccess time.Time
	Timestamp   time.Time
}

// SendRefreshAlert posts an alert when the failure threshold is reached.
func (a *Alerter) SendRefreshAlert(ctx context.Context, alert RefreshAlert) error {
	if !a.cfg.Enabled() {
		a.log.Debug("alerting: alerts disabled, skipping")
		return nil
	}
	if alert.ConsecutiveFailures < a.cfg.MinFailuresBeforeAlert {
		a.log.Debug("alerting: failures below threshold, skipping",
			"failures", alert.ConsecutiveFailures, "threshold", a.cfg.MinFailuresBeforeAlert)
		return nil
	}

	var payload []byte
	var err error
	switch a.cfg.WebhookType {
	case "slack":
		payload, err = buildSlackPayload(alert)
	case "discord":
		payload, err = buildDiscordPayload(alert)
	default:
		payload, err = buildGenericPayload(alert)
	}
	if err != nil {
		return fmt.Errorf("build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	a.log.Info("alerting: sent refresh alert", "job", alert.JobName, "failures", alert.ConsecutiveFailures)
	return nil
}

func lastSuccessText(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(time.RFC3339)
}

func buildSlackPayload(alert RefreshAlert) ([]byte, error) {
	payload := map[string]any{
		"blocks": []map[string]any{
			{
				"type": "header",
				"text": map[string]string{
					"type": "plain_text",
					"text": fmt.Sprintf(":x: Listing refresh failing: %s", alert.JobName),
				},
			},
			{
				"type": "section",
				"fields": []map[string]string{
					{"type": "mrkdwn", "text": fmt.Sprintf("*Consecutive failures:*\n%d", alert.ConsecutiveFailures)},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Duration:*\n%s", alert.Duration.Round(time.Millisecond))},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Last success:*\n%s", lastSuccessText(alert.LastSuccess))},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Timestamp:*\n%s", alert.Timestamp.Format(time.RFC3339))},
				},
			},
			{
				"type": "section",
				"text": map[string]string{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Source:* %s\n*Error:* %s", alert.Source, alert.Error),
				},
			},
		},
	}
	return json.Marshal(payload)
}

func buildDiscordPayload(alert RefreshAlert) ([]byte, error) {
	payload := map[string]any{
		"embeds": []map[string]any{
			{
				"title":       fmt.Sprintf("Listing refresh failing: %s", alert.JobName),
				"description": alert.Error,
				"color":       16711680, // red
				"fields": []map[string]any{
					{"name": "Failures", "value": fmt.Sprintf("%d", alert.ConsecutiveFailures), "inline": true},
					{"name": "Duration", "value": alert.Duration.Round(time.Millisecond).String(), "inline": true},
					{"name": "Last success", "value": lastSuccessText(alert.LastSuccess), "inline": true},
					{"name": "Source", "value": alert.Source, "inline": false},
				},
				"timestamp": alert.Timestamp.Format(time.RFC3339),
			},
		},
	}
	return json.Marshal(payload)
}

func buildGenericPayload(alert RefreshAlert) ([]byte, error) {
	payload := map[string]any{
		"alert_type":           "listing_refresh_failure",
		"job_name":             alert.JobName,
		"source":               alert.Source,
		"consecutive_failures": alert.ConsecutiveFailures,
		"error":                alert.Error,
		"duration_ms":          alert.Duration.Milliseconds(),
		"last_success":         lastSuccessText(alert.LastSuccess),
		"timestamp":            alert.Timestamp.Format(time.RFC3339),
	}
	return json.Marshal(payload)
}
