package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/biz/usecase"
	"github.com/sleepguard/sleepguard/internal/infra/botapi"
)

// CallbackSource delivers button presses of the relay bot
type CallbackSource interface {
	Run(ctx context.Context, handler botapi.CallbackHandler) error
}

// RelayServer runs the notification HTTP API and the bot callback loop side by side
type RelayServer struct {
	addr    string
	handler http.Handler
	bot     CallbackSource
	relay   *usecase.RelayUsecase
	logger  *zap.Logger
}

// NewRelayServer creates a new relay server
func NewRelayServer(addr string, handler http.Handler, bot CallbackSource, relay *usecase.RelayUsecase, logger *zap.Logger) *RelayServer {
	return &RelayServer{
		addr:    addr,
		handler: handler,
		bot:     bot,
		relay:   relay,
		logger:  logger.Named("relay"),
	}
}

// Run serves until ctx is done or either loop fails
func (s *RelayServer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
			return
		}
		errCh <- nil
	}()
	go func() {
		err := s.bot.Run(ctx, s.handleCallback)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		if err != nil {
			err = fmt.Errorf("bot: %w", err)
		}
		errCh <- err
	}()

	var firstErr error
	select {
	case <-ctx.Done():
	case firstErr = <-errCh:
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http shutdown failed", zap.Error(err))
	}
	return firstErr
}

func (s *RelayServer) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("callback handler panicked", zap.Any("panic", r))
		}
	}()

	if err := s.relay.HandleCallback(ctx, ToCallback(q)); err != nil {
		s.logger.Warn("callback failed", zap.String("data", q.Data), zap.Error(err))
	}
}

// ToCallback converts a bot callback query
func ToCallback(q *tgbotapi.CallbackQuery) *usecase.Callback {
	cb := &usecase.Callback{
		ID:   q.ID,
		Data: q.Data,
	}
	if q.Message != nil {
		cb.MessageID = q.Message.MessageID
		cb.Text = q.Message.Text
		if q.Message.Chat != nil {
			cb.ChatID = q.Message.Chat.ID
		}
	}
	return cb
}
