package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/repo"
)

// RequestIDHeader carries the id of a notification request
const RequestIDHeader = "X-Request-ID"

// relayNotifier publishes notifications to the relay over HTTP
type relayNotifier struct {
	client *resty.Client
}

// NewRelayNotifier creates a notifier for the relay at baseURL
func NewRelayNotifier(baseURL string, timeout time.Duration) repo.NotifierRepo {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &relayNotifier{client: client}
}

// Notify posts the notification once; it is never retried
func (n *relayNotifier) Notify(ctx context.Context, notification *domain.Notification) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString()).
		SetBody(notification).
		Post("/notify")
	if err != nil {
		return fmt.Errorf("failed to post notification: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("relay returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
