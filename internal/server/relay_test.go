package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/biz/usecase"
	"github.com/sleepguard/sleepguard/internal/infra/botapi"
)

func TestToCallback(t *testing.T) {
	q := &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		Data: "read_77_9",
		Message: &tgbotapi.Message{
			MessageID: 12,
			Text:      "original",
			Chat:      &tgbotapi.Chat{ID: 4242},
		},
	}

	cb := ToCallback(q)
	expected := usecase.Callback{ID: "cb-1", Data: "read_77_9", ChatID: 4242, MessageID: 12, Text: "original"}
	if *cb != expected {
		t.Errorf("Expected %+v, got %+v", expected, *cb)
	}

	bare := ToCallback(&tgbotapi.CallbackQuery{ID: "cb-2", Data: "already_read"})
	if bare.ChatID != 0 || bare.MessageID != 0 {
		t.Errorf("Expected empty message fields, got %+v", bare)
	}
}

// blockingBot runs until its context is done
type blockingBot struct{}

func (blockingBot) Run(ctx context.Context, handler botapi.CallbackHandler) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRelayServer_StopsOnCancel(t *testing.T) {
	s := NewRelayServer("127.0.0.1:0", http.NotFoundHandler(), blockingBot{}, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Relay server did not stop")
	}
}
