package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/unit-service/internal/logger"
	"github.com/Adda-Baaj/unit-service/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

const maxErrorSnippet = 512

// webhookPublisher delivers run summaries to an arbitrary HTTP endpoint.
type webhookPublisher struct {
	id     string
	cfg    HTTPPublisherConfig
	client *resty.Client
	log    logger.Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	return &webhookPublisher{
		id:     cfg.ID,
		cfg:    *cfg.HTTP,
		client: httpclient.NewRestyHTTPClient(timeout),
		log:    logger.Ensure(log),
	}, nil
}

func (h *webhookPublisher) ID() string   { return h.id }
func (h *webhookPublisher) Type() string { return TypeHTTP }

// Publish sends evt as JSON. Configured headers are applied first so they
// cannot replace Content-Type or the run id.
func (h *webhookPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeaders(h.cfg.Headers).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Run-ID", evt.RunID).
		SetBody(evt).
		Execute(h.cfg.Method, h.cfg.URL)
	if err != nil {
		return fmt.Errorf("%s %s: %w", h.cfg.Method, h.cfg.URL, err)
	}
	if !resp.IsSuccess() {
		h.log.WarnObj("http publisher rejected event", "publisher_error", map[string]any{
			"publisher_id": h.id,
			"type":         TypeHTTP,
			"status":       resp.StatusCode(),
		})
		return fmt.Errorf("http response status %d: %s", resp.StatusCode(), snippet(resp.Body()))
	}
	return nil
}

func snippet(body []byte) string {
	if len(body) > maxErrorSnippet {
		body = body[:maxErrorSnippet]
	}
	return strings.TrimSpace(string(body))
}
