package data

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/repo"
	"github.com/sleepguard/sleepguard/internal/infra/telegram"
)

// telegramRepo implements the messenger repository over the user client
type telegramRepo struct {
	client *telegram.Client
}

// NewTelegramRepo creates a Telegram repository
func NewTelegramRepo(client *telegram.Client) repo.MessengerRepo {
	return &telegramRepo{client: client}
}

// ToPeerRef converts a domain peer to a client peer reference
func ToPeerRef(p domain.Peer) telegram.PeerRef {
	switch p.Kind {
	case domain.ChatKindPrivate:
		return telegram.PeerRef{Kind: telegram.PeerKindUser, ID: p.ID}
	case domain.ChatKindGroup:
		return telegram.PeerRef{Kind: telegram.PeerKindChat, ID: p.ID}
	case domain.ChatKindSupergroup:
		return telegram.PeerRef{Kind: telegram.PeerKindSupergroup, ID: p.ID}
	default:
		return telegram.PeerRef{Kind: telegram.PeerKindChannel, ID: p.ID}
	}
}

// ToDomainPeer converts a client peer reference to a domain peer
func ToDomainPeer(p telegram.PeerRef) domain.Peer {
	switch p.Kind {
	case telegram.PeerKindUser:
		return domain.Peer{Kind: domain.ChatKindPrivate, ID: p.ID}
	case telegram.PeerKindChat:
		return domain.Peer{Kind: domain.ChatKindGroup, ID: p.ID}
	case telegram.PeerKindSupergroup:
		return domain.Peer{Kind: domain.ChatKindSupergroup, ID: p.ID}
	default:
		return domain.Peer{Kind: domain.ChatKindChannel, ID: p.ID}
	}
}

// ToDomainMessage converts a client message to a domain message
func ToDomainMessage(m *telegram.Message) *domain.Message {
	return &domain.Message{
		ID:           m.ID,
		Chat:         ToDomainPeer(m.Peer),
		SenderID:     m.SenderID,
		SenderName:   m.SenderName,
		SenderHandle: m.SenderUsername,
		SenderIsBot:  m.SenderBot,
		Text:         m.Text,
		ReplyToID:    m.ReplyToID,
		Outgoing:     m.Out,
		Date:         m.Date,
	}
}

// ToDomainProfile converts a client user to a domain profile
func ToDomainProfile(u *telegram.UserInfo) *domain.UserProfile {
	return &domain.UserProfile{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Status:     domain.UserStatus(u.Status),
		LastOnline: u.WasOnline,
		Bio:        u.About,
		Verified:   u.Verified,
		Scam:       u.Scam,
		Fake:       u.Fake,
		Premium:    u.Premium,
	}
}

// SendText sends a text message
func (r *telegramRepo) SendText(ctx context.Context, chat domain.Peer, text string) (int, error) {
	return r.client.SendText(ctx, ToPeerRef(chat), text, 0)
}

// ReplyText sends a text message as a reply
func (r *telegramRepo) ReplyText(ctx context.Context, chat domain.Peer, replyTo int, text string) (int, error) {
	return r.client.SendText(ctx, ToPeerRef(chat), text, replyTo)
}

// EditText edits an own message
func (r *telegramRepo) EditText(ctx context.Context, chat domain.Peer, msgID int, text string) error {
	return r.client.EditText(ctx, ToPeerRef(chat), msgID, text)
}

// DeleteMessage deletes a message for everyone
func (r *telegramRepo) DeleteMessage(ctx context.Context, chat domain.Peer, msgID int) error {
	return r.client.Delete(ctx, ToPeerRef(chat), msgID)
}

// SendDocument uploads and sends a file
func (r *telegramRepo) SendDocument(ctx context.Context, chat domain.Peer, path, caption string) error {
	return r.client.SendFile(ctx, ToPeerRef(chat), path, caption)
}

// GetHistory gets the most recent messages
func (r *telegramRepo) GetHistory(ctx context.Context, chat domain.Peer, limit int) ([]domain.Message, error) {
	msgs, err := r.client.History(ctx, ToPeerRef(chat), limit)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Message, 0, len(msgs))
	for i := range msgs {
		result = append(result, *ToDomainMessage(&msgs[i]))
	}
	return result, nil
}

// GetMessage gets a single message
func (r *telegramRepo) GetMessage(ctx context.Context, chat domain.Peer, msgID int) (*domain.Message, error) {
	msg, err := r.client.GetMessage(ctx, ToPeerRef(chat), msgID)
	if err != nil || msg == nil {
		return nil, err
	}
	return ToDomainMessage(msg), nil
}

// GetUserProfile gets the profile of a user
func (r *telegramRepo) GetUserProfile(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	info, err := r.client.FullUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToDomainProfile(info), nil
}

// SendToDestination sends text to "me" (Saved Messages) or a known numeric peer.
// Unknown destinations fall back to Saved Messages.
func (r *telegramRepo) SendToDestination(ctx context.Context, dest, text string) error {
	dest = strings.TrimSpace(dest)
	if dest != "" && dest != "me" {
		id, err := strconv.ParseInt(dest, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid destination %q: %w", dest, err)
		}
		if ref, ok := r.client.Resolve(id); ok {
			_, err := r.client.SendText(ctx, ref, text, 0)
			return err
		}
	}
	_, err := r.client.SendToSelf(ctx, text)
	return err
}
