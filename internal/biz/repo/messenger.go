package repo

import (
	"context"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
)

// MessengerRepo is the messaging transport interface of the user account.
// Message ids returned by the send methods identify the sent message in chat.
type MessengerRepo interface {
	// SendText sends a text message
	SendText(ctx context.Context, chat domain.Peer, text string) (int, error)

	// ReplyText sends a text message as a reply to replyTo
	ReplyText(ctx context.Context, chat domain.Peer, replyTo int, text string) (int, error)

	// EditText replaces the text of a message sent by the account
	EditText(ctx context.Context, chat domain.Peer, msgID int, text string) error

	// DeleteMessage deletes a message for everyone
	DeleteMessage(ctx context.Context, chat domain.Peer, msgID int) error

	// SendDocument uploads a local file and sends it with a caption
	SendDocument(ctx context.Context, chat domain.Peer, path, caption string) error

	// GetHistory gets the most recent messages, newest first
	GetHistory(ctx context.Context, chat domain.Peer, limit int) ([]domain.Message, error)

	// GetMessage gets a single message by id
	GetMessage(ctx context.Context, chat domain.Peer, msgID int) (*domain.Message, error)

	// GetUserProfile gets the profile and bio of a user
	GetUserProfile(ctx context.Context, userID int64) (*domain.UserProfile, error)

	// SendToDestination sends a text to a configured destination
	// ("me" for Saved Messages, or a numeric peer id)
	SendToDestination(ctx context.Context, dest, text string) error
}
