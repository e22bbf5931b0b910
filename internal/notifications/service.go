package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shortlist/internal/config"
)

const userAgent = "shortlist/0.1.0"

// Service defines the notification surface exposed to the enrichment batch.
type Service interface {
	NotifyEnrichmentStarted(ctx context.Context, targets int) error
	NotifyEnrichmentCompleted(ctx context.Context, enriched, failed int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, operation string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:         topic,
		client:           &http.Client{Timeout: timeout},
		notifyEnrichment: cfg.Notifications.Enrichment,
		notifyErrors:     cfg.Notifications.Errors,
	}
}

// NewNop returns a Service that discards every notification.
func NewNop() Service {
	return noopService{}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint         string
	client           *http.Client
	notifyEnrichment bool
	notifyErrors     bool
}

func (n *ntfyService) NotifyEnrichmentStarted(ctx context.Context, targets int) error {
	if !n.notifyEnrichment {
		return nil
	}
	data := payload{
		title:   "Shortlist - Enrichment Started",
		message: fmt.Sprintf("Looking up %d entries", targets),
		tags:    []string{"shortlist", "enrich", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyEnrichmentCompleted(ctx context.Context, enriched, failed int, duration time.Duration) error {
	if !n.notifyEnrichment {
		return nil
	}
	data := payload{
		title:   "Shortlist - Enrichment Complete",
		message: fmt.Sprintf("Enriched %d entries (%d failed) in %s", enriched, failed, duration.Round(time.Second)),
		tags:    []string{"shortlist", "enrich", "completed"},
	}
	if failed > 0 {
		data.priority = "high"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, operation string) error {
	if !n.notifyErrors || err == nil {
		return nil
	}
	operation = strings.TrimSpace(operation)
	if operation == "" {
		operation = "operation"
	}
	data := payload{
		title:    "Shortlist - Error",
		message:  fmt.Sprintf("%s failed: %v", operation, err),
		tags:     []string{"shortlist", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:   "Shortlist - Test",
		message: "Test notification from shortlist",
		tags:    []string{"shortlist", "test"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyEnrichmentStarted(context.Context, int) error                  { return nil }
func (noopService) NotifyEnrichmentCompleted(context.Context, int, int, time.Duration) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                    { return nil }
func (noopService) TestNotification(context.Context) error                              { return nil }
