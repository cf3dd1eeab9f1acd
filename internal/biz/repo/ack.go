package repo

import (
	"context"
	"errors"
	"time"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
)

// ErrAckNotFound is returned when no entry exists for a key
var ErrAckNotFound = errors.New("acknowledgement entry not found")

// AckRepo stores the correlation between source messages and relay messages.
// Implementations must be safe for concurrent use.
type AckRepo interface {
	// Save creates or replaces the entry for entry.Key
	Save(ctx context.Context, entry *domain.AckEntry) error

	// Get returns the entry for the key or ErrAckNotFound
	Get(ctx context.Context, key domain.AckKey) (*domain.AckEntry, error)

	// MarkAcknowledged sets the acknowledged time once; later calls keep the first time
	MarkAcknowledged(ctx context.Context, key domain.AckKey, at time.Time) error

	// Close releases resources
	Close() error
}
