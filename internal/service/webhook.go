package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const webhookTimeout = 5 * time.Second

// IPChangeNotice is posted to the configured webhook when a refresh arrives
// from a different address than the one that issued the session.
type IPChangeNotice struct {
	UserID    int64  `json:"user_id"`
	OldIP     string `json:"old_ip"`
	NewIP     string `json:"new_ip"`
	UserAgent string `json:"user_agent"`
}

type WebhookService struct {
	client     *http.Client
	log        *zap.SugaredLogger
	webhookURL string
}

// NewWebhookService returns nil when no URL is configured; callers treat a
// nil service as "notifications disabled".
func NewWebhookService(log *zap.SugaredLogger, webhookURL string) *WebhookService {
	if webhookURL == "" {
		return nil
	}
	return &WebhookService{
		client:     &http.Client{Timeout: webhookTimeout},
		log:        log,
		webhookURL: webhookURL,
	}
}

// NotifyIPChange delivers the notice asynchronously. Delivery survives the
// originating request being cancelled but never blocks it.
func (s *WebhookService) NotifyIPChange(ctx context.Context, notice IPChangeNotice) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		payload, err := json.Marshal(notice)
		if err != nil {
			s.log.Errorw("failed to marshal webhook payload", "error", err)
			return
		}

		ctx, cancel := context.WithTimeout(ctx, webhookTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewBuffer(payload))
		if err != nil {
			s.log.Errorw("failed to create webhook request", "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			s.log.Errorw("failed to send webhook", "error", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusMultipleChoices {
			s.log.Warnw("webhook returned non-2xx status", "status", resp.StatusCode)
		}
	}()
}
