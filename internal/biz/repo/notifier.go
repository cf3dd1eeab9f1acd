package repo

import (
	"context"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
)

// NotifierRepo publishes notifications to the relay (at-most-once, no retry)
type NotifierRepo interface {
	Notify(ctx context.Context, n *domain.Notification) error
}
