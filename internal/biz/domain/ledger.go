package domain

import (
	"sync"
	"time"
)

// DefaultCooldown is the minimum time between two automatic replies to one sender
const DefaultCooldown = 8 * time.Hour

// ReplyLedger remembers when each sender last received an automatic reply.
// Entries live in memory only: they are overwritten per sender, never
// evicted, and lost on restart.
type ReplyLedger struct {
	mu       sync.Mutex
	cooldown time.Duration
	lastSent map[int64]time.Time
}

// NewReplyLedger creates a ledger with the given cooldown
func NewReplyLedger(cooldown time.Duration) *ReplyLedger {
	return &ReplyLedger{
		cooldown: cooldown,
		lastSent: make(map[int64]time.Time),
	}
}

// CanReply checks if the cooldown for the sender has elapsed at now
func (l *ReplyLedger) CanReply(senderID int64, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, ok := l.lastSent[senderID]
	if !ok {
		return true
	}
	return now.Sub(last) >= l.cooldown
}

// Record stores now as the last reply time for the sender
func (l *ReplyLedger) Record(senderID int64, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastSent[senderID] = now
}
