package domain

import "time"

// ChatKind represents the conversation kind
type ChatKind string

const (
	ChatKindPrivate    ChatKind = "private"
	ChatKindGroup      ChatKind = "group"
	ChatKindSupergroup ChatKind = "supergroup"
	ChatKindChannel    ChatKind = "channel"
)

// Peer identifies a conversation (value object)
type Peer struct {
	Kind ChatKind
	ID   int64
}

// IsPrivate checks if the peer is a one-to-one conversation
func (p Peer) IsPrivate() bool {
	return p.Kind == ChatKindPrivate
}

// Message represents a message event.
// SenderID is 0 for channel posts, Text is empty for media-only messages.
type Message struct {
	ID           int
	Chat         Peer
	SenderID     int64
	SenderName   string
	SenderHandle string
	SenderIsBot  bool
	Text         string
	ReplyToID    int
	Outgoing     bool
	Date         time.Time
}

// HasText checks if the message carries a text body
func (m *Message) HasText() bool {
	return m.Text != ""
}

// IsReply checks if the message replies to another message
func (m *Message) IsReply() bool {
	return m.ReplyToID != 0
}

// ExportedMessage is one entry of an exported chat file
type ExportedMessage struct {
	ID       int     `json:"id"`
	Date     string  `json:"date"`
	FromUser *int64  `json:"from_user"`
	Text     *string `json:"text"`
}

// ExportLayout is the date layout used in exported chat files
const ExportLayout = "2006-01-02 15:04:05"

// ToExported converts the message into its export representation
func (m *Message) ToExported() ExportedMessage {
	e := ExportedMessage{
		ID:   m.ID,
		Date: m.Date.Format(ExportLayout),
	}
	if m.SenderID != 0 {
		id := m.SenderID
		e.FromUser = &id
	}
	if m.Text != "" {
		text := m.Text
		e.Text = &text
	}
	return e
}
