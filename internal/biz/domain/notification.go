package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the layout of Notification.Timestamp
const TimestampLayout = "2006-01-02 15:04:05"

// Notification is the payload published to the relay for every message
// received inside the quiet window. Delivery is at-most-once.
type Notification struct {
	UserID      int64  `json:"user_id"`
	UserName    string `json:"user_name"`
	Username    string `json:"username"`
	MessageText string `json:"message_text"`
	MessageID   int64  `json:"message_id"`
	Timestamp   string `json:"timestamp"`
}

// Key returns the correlation key of the notification
func (n *Notification) Key() AckKey {
	return AckKey{SenderID: n.UserID, MessageID: n.MessageID}
}

// Render fills a notification template.
// Placeholders: {user_name}, {username}, {user_id}, {timestamp}, {message_text}.
func (n *Notification) Render(template string) string {
	return strings.NewReplacer(
		"{user_name}", n.UserName,
		"{username}", n.Username,
		"{user_id}", strconv.FormatInt(n.UserID, 10),
		"{timestamp}", n.Timestamp,
		"{message_text}", n.MessageText,
	).Replace(template)
}

const (
	ackPrefix = "read_"

	// AlreadyAckedData tags the button of an acknowledged notification
	AlreadyAckedData = "already_read"
)

// AckKey correlates a relay notification with its source message (value object)
type AckKey struct {
	SenderID  int64
	MessageID int64
}

// CallbackData encodes the key as the acknowledgement button tag
func (k AckKey) CallbackData() string {
	return fmt.Sprintf("%s%d_%d", ackPrefix, k.SenderID, k.MessageID)
}

// IsAckData checks if callback data is an acknowledgement tag
func IsAckData(data string) bool {
	return strings.HasPrefix(data, ackPrefix)
}

// ParseAckKey decodes a button tag produced by CallbackData
func ParseAckKey(data string) (AckKey, error) {
	if !IsAckData(data) {
		return AckKey{}, fmt.Errorf("not an acknowledgement tag: %q", data)
	}
	parts := strings.Split(strings.TrimPrefix(data, ackPrefix), "_")
	if len(parts) != 2 {
		return AckKey{}, fmt.Errorf("malformed acknowledgement tag: %q", data)
	}
	senderID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return AckKey{}, fmt.Errorf("parse sender id: %w", err)
	}
	msgID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return AckKey{}, fmt.Errorf("parse message id: %w", err)
	}
	return AckKey{SenderID: senderID, MessageID: msgID}, nil
}

// AckEntry records a delivered notification on the relay side
type AckEntry struct {
	Key            AckKey
	RelayMessageID int
	CreatedAt      time.Time
	AckedAt        time.Time
}

// IsAcknowledged checks if the operator pressed the button
func (e *AckEntry) IsAcknowledged() bool {
	return !e.AckedAt.IsZero()
}
