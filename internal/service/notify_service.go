package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/geobase-api/internal/config"
	"github.com/rs/zerolog"
)

// webhookNotifier posts event notifications to an external form relay.
// Every call is fire-and-forget: the HTTP request runs on its own
// goroutine with its own deadline, and failures are logged, never
// returned. An empty webhook URL disables the notifier entirely.
type webhookNotifier struct {
	cfg    *config.NotifyConfig
	client *http.Client
	log    zerolog.Logger
}

// newWebhookNotifier creates a new Notifier
func newWebhookNotifier(cfg *config.NotifyConfig, log zerolog.Logger) *webhookNotifier {
	return &webhookNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log.With().Str("service", "notify").Logger(),
	}
}

// NewUser announces a first-time registration
func (n *webhookNotifier) NewUser(email, name string) {
	if name == "" {
		name = "לא צוין"
	}
	n.send("משתמש חדש נרשם", map[string]interface{}{
		"user_email": email,
		"user_name":  name,
	})
}

// NewSubmission announces a newly added question
func (n *webhookNotifier) NewSubmission(question, category, userEmail string) {
	if len(question) > 100 {
		question = question[:100] + "..."
	}
	n.send("שאלה חדשה נוספה", map[string]interface{}{
		"question": question,
		"category": category,
		"user":     orUnknown(userEmail),
	})
}

// Imported announces a completed bulk import
func (n *webhookNotifier) Imported(count int, userEmail string) {
	n.send("ייבוא שאלות", map[string]interface{}{
		"imported_count": count,
		"user":           orUnknown(userEmail),
	})
}

// Exported announces a completed export
func (n *webhookNotifier) Exported(count int, userEmail string) {
	n.send("ייצוא שאלות", map[string]interface{}{
		"exported_count": count,
		"user":           orUnknown(userEmail),
	})
}

// send fires the webhook on a fresh goroutine and returns immediately
func (n *webhookNotifier) send(action string, details map[string]interface{}) {
	if n.cfg.WebhookURL == "" {
		return
	}

	payload := map[string]interface{}{
		"access_key": n.cfg.AccessKey,
		"subject":    "GEOBase: " + action,
		"from_name":  "GEOBase Notifications",
		"action":     action,
		"timestamp":  time.Now().Format(time.RFC3339),
	}
	for k, v := range details {
		payload[k] = v
	}

	go func() {
		body, err := json.Marshal(payload)
		if err != nil {
			n.log.Error().Err(err).Str("action", action).Msg("Notification payload marshal failed")
			return
		}

		req, err := http.NewRequest(http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
		if err != nil {
			n.log.Error().Err(err).Str("action", action).Msg("Notification request build failed")
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			n.log.Error().Err(err).Str("action", action).Msg("Notification delivery failed")
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			n.log.Error().Int("status", resp.StatusCode).Str("action", action).Msg("Notification rejected by relay")
		}
	}()
}

func orUnknown(s string) string {
	if s == "" {
		return "לא ידוע"
	}
	return s
}
