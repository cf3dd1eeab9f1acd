package server

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/usecase"
	"github.com/sleepguard/sleepguard/internal/data"
	"github.com/sleepguard/sleepguard/internal/infra/telegram"
)

const seenTTL = 5 * time.Minute

// UpdateSource delivers messages of the user account
type UpdateSource interface {
	OnMessage(handler telegram.MessageHandler)
	Run(ctx context.Context, onStart func(ctx context.Context)) error
}

// UserbotServer routes account messages to the command dispatcher
// and the auto-reply engine
type UserbotServer struct {
	source     UpdateSource
	dispatcher *usecase.Dispatcher
	autoReply  *usecase.AutoReplyUsecase
	relayURL   string
	logger     *zap.Logger

	// Auto-replies are serialized so the cooldown check and record stay atomic per sender
	autoMu sync.Mutex

	seenMu   sync.Mutex
	seenMsgs map[string]time.Time
	wg       sync.WaitGroup
}

// NewUserbotServer creates a new userbot server
func NewUserbotServer(
	source UpdateSource,
	dispatcher *usecase.Dispatcher,
	autoReply *usecase.AutoReplyUsecase,
	relayURL string,
	logger *zap.Logger,
) *UserbotServer {
	return &UserbotServer{
		source:     source,
		dispatcher: dispatcher,
		autoReply:  autoReply,
		relayURL:   relayURL,
		logger:     logger.Named("userbot"),
		seenMsgs:   make(map[string]time.Time),
	}
}

// Run receives updates until ctx is done, then waits for running handlers
func (s *UserbotServer) Run(ctx context.Context) error {
	s.source.OnMessage(s.handleMessage)
	err := s.source.Run(ctx, func(ctx context.Context) {
		s.logBanner()
	})
	s.wg.Wait()
	return err
}

func (s *UserbotServer) logBanner() {
	s.logger.Info("userbot started",
		zap.String("commands", strings.Join(s.dispatcher.Commands(), ", ")),
		zap.String("relay_url", s.relayURL),
	)
}

func (s *UserbotServer) handleMessage(ctx context.Context, m *telegram.Message) {
	msg := data.ToDomainMessage(m)

	if s.isSeen(msg) {
		s.logger.Debug("duplicate message ignored", zap.Int64("chat_id", msg.Chat.ID), zap.Int("msg_id", msg.ID))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("message handler panicked", zap.Any("panic", r), zap.Int64("chat_id", msg.Chat.ID))
			}
		}()
		s.process(ctx, msg)
	}()
}

func (s *UserbotServer) process(ctx context.Context, msg *domain.Message) {
	if msg.Outgoing {
		s.dispatcher.Dispatch(ctx, msg)
		return
	}
	if !s.autoReply.Qualifies(msg) {
		return
	}

	s.autoMu.Lock()
	defer s.autoMu.Unlock()
	replied, err := s.autoReply.Handle(ctx, msg)
	if err != nil {
		s.logger.Warn("auto-reply failed", zap.Int64("user_id", msg.SenderID), zap.Error(err))
		return
	}
	if replied {
		s.logger.Info("auto-reply sent", zap.Int64("user_id", msg.SenderID))
	}
}

// isSeen checks and marks a message as processed
func (s *UserbotServer) isSeen(msg *domain.Message) bool {
	key := fmt.Sprintf("%d:%d", msg.Chat.ID, msg.ID)
	now := time.Now()

	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	if _, ok := s.seenMsgs[key]; ok {
		return true
	}
	s.seenMsgs[key] = now

	cutoff := now.Add(-seenTTL)
	for k, ts := range s.seenMsgs {
		if ts.Before(cutoff) {
			delete(s.seenMsgs, k)
		}
	}
	return false
}
