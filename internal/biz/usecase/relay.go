package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/repo"
)

// RelayTexts contains the fixed relay texts
type RelayTexts struct {
	Template    string
	ReadLabel   string
	DoneLabel   string
	DoneMarker  string
	MarkedRead  string
	AlreadyRead string
	ErrorFormat string // Sprintf format: error
}

// Callback is a button press received by the relay bot
type Callback struct {
	ID        string
	Data      string
	ChatID    int64
	MessageID int
	Text      string
}

// RelayUsecase delivers notifications to the operator and tracks acknowledgements
type RelayUsecase struct {
	texts    RelayTexts
	operator repo.OperatorRepo
	acks     repo.AckRepo
	logger   *zap.Logger
	now      func() time.Time
}

// NewRelayUsecase creates a new relay usecase
func NewRelayUsecase(texts RelayTexts, operator repo.OperatorRepo, acks repo.AckRepo, logger *zap.Logger) *RelayUsecase {
	return &RelayUsecase{
		texts:    texts,
		operator: operator,
		acks:     acks,
		logger:   logger.Named("relay"),
		now:      time.Now,
	}
}

// Deliver sends the notification to the operator with a read button
// and records the relay message id against the notification key
func (uc *RelayUsecase) Deliver(ctx context.Context, n *domain.Notification) error {
	key := n.Key()
	msgID, err := uc.operator.SendNotification(ctx, n.Render(uc.texts.Template), uc.texts.ReadLabel, key.CallbackData())
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	entry := &domain.AckEntry{
		Key:            key,
		RelayMessageID: msgID,
		CreatedAt:      uc.now(),
	}
	if err := uc.acks.Save(ctx, entry); err != nil {
		// The operator already has the message; only the bookkeeping is lost
		uc.logger.Warn("failed to save correlation",
			zap.String("key", key.CallbackData()),
			zap.Int("relay_message_id", msgID),
			zap.Error(err))
	}
	return nil
}

// HandleCallback handles a button press.
// Pressing an acknowledged button again only answers the callback.
func (uc *RelayUsecase) HandleCallback(ctx context.Context, cb *Callback) error {
	switch {
	case cb.Data == domain.AlreadyAckedData:
		return uc.operator.AnswerCallback(ctx, cb.ID, uc.texts.AlreadyRead, false)
	case domain.IsAckData(cb.Data):
		if err := uc.acknowledge(ctx, cb); err != nil {
			uc.logger.Warn("acknowledge failed", zap.String("data", cb.Data), zap.Error(err))
			return uc.operator.AnswerCallback(ctx, cb.ID, fmt.Sprintf(uc.texts.ErrorFormat, err), true)
		}
		return nil
	default:
		return nil
	}
}

func (uc *RelayUsecase) acknowledge(ctx context.Context, cb *Callback) error {
	texts := uc.texts

	if err := uc.operator.ReplaceButton(ctx, cb.ChatID, cb.MessageID, texts.DoneLabel, domain.AlreadyAckedData); err != nil {
		return err
	}
	if err := uc.operator.AnswerCallback(ctx, cb.ID, texts.MarkedRead, false); err != nil {
		return err
	}
	if !strings.HasPrefix(cb.Text, texts.DoneMarker) {
		text := texts.DoneMarker + " " + cb.Text
		if err := uc.operator.EditTextWithButton(ctx, cb.ChatID, cb.MessageID, text, texts.DoneLabel, domain.AlreadyAckedData); err != nil {
			return err
		}
	}

	key, err := domain.ParseAckKey(cb.Data)
	if err != nil {
		uc.logger.Warn("unparsable acknowledgement tag", zap.String("data", cb.Data), zap.Error(err))
		return nil
	}
	err = uc.acks.MarkAcknowledged(ctx, key, uc.now())
	if errors.Is(err, repo.ErrAckNotFound) {
		uc.logger.Debug("acknowledged unknown notification", zap.String("data", cb.Data))
		return nil
	}
	if err != nil {
		uc.logger.Warn("failed to record acknowledgement", zap.String("data", cb.Data), zap.Error(err))
	}
	return nil
}
