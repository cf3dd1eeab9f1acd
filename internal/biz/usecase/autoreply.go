package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/repo"
)

// AutoReplyTexts contains the fixed auto-reply texts
type AutoReplyTexts struct {
	Ukrainian       string
	English         string
	NoUsername      string
	NonTextFallback string
}

// AutoReplyConfig contains auto-reply configuration
type AutoReplyConfig struct {
	Window   domain.QuietWindow
	Cooldown time.Duration
	Texts    AutoReplyTexts
}

// AutoReplyUsecase answers private messages received during the quiet window
// and forwards every such message to the relay
type AutoReplyUsecase struct {
	cfg       AutoReplyConfig
	ledger    *domain.ReplyLedger
	messenger repo.MessengerRepo
	notifier  repo.NotifierRepo
	logger    *zap.Logger
	now       func() time.Time
}

// NewAutoReplyUsecase creates a new auto-reply usecase
func NewAutoReplyUsecase(
	cfg AutoReplyConfig,
	messenger repo.MessengerRepo,
	notifier repo.NotifierRepo,
	logger *zap.Logger,
) *AutoReplyUsecase {
	return &AutoReplyUsecase{
		cfg:       cfg,
		ledger:    domain.NewReplyLedger(cfg.Cooldown),
		messenger: messenger,
		notifier:  notifier,
		logger:    logger.Named("autoreply"),
		now:       time.Now,
	}
}

// Qualifies checks if the message is a private incoming message from a human
func (uc *AutoReplyUsecase) Qualifies(msg *domain.Message) bool {
	return msg.Chat.IsPrivate() && !msg.Outgoing && !msg.SenderIsBot && msg.SenderID != 0
}

// Handle processes a qualifying message.
// Returns true when an automatic reply was sent.
func (uc *AutoReplyUsecase) Handle(ctx context.Context, msg *domain.Message) (bool, error) {
	now := uc.now()
	if !uc.cfg.Window.ActiveAt(now) {
		return false, nil
	}

	// Every message inside the window is forwarded, throttled or not
	n := uc.buildNotification(msg, now)
	if err := uc.notifier.Notify(ctx, n); err != nil {
		uc.logger.Warn("notification failed", zap.Int64("user_id", n.UserID), zap.Error(err))
	} else {
		uc.logger.Info("notification sent", zap.Int64("user_id", n.UserID))
	}

	if !uc.ledger.CanReply(msg.SenderID, now) {
		return false, nil
	}

	text := uc.cfg.Texts.English
	if msg.HasText() && domain.IsUkrainian(msg.Text) {
		text = uc.cfg.Texts.Ukrainian
	}

	if _, err := uc.messenger.ReplyText(ctx, msg.Chat, msg.ID, text); err != nil {
		return false, err
	}
	uc.ledger.Record(msg.SenderID, now)
	return true, nil
}

func (uc *AutoReplyUsecase) buildNotification(msg *domain.Message, now time.Time) *domain.Notification {
	username := msg.SenderHandle
	if username == "" {
		username = uc.cfg.Texts.NoUsername
	}
	text := msg.Text
	if text == "" {
		text = uc.cfg.Texts.NonTextFallback
	}
	return &domain.Notification{
		UserID:      msg.SenderID,
		UserName:    msg.SenderName,
		Username:    username,
		MessageText: text,
		MessageID:   int64(msg.ID),
		Timestamp:   now.Format(domain.TimestampLayout),
	}
}
