package data

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/infra/botapi"
	"github.com/sleepguard/sleepguard/internal/infra/botapi/botapitest"
)

func TestOperatorRepo_SendsToOperator(t *testing.T) {
	server := botapitest.NewServer()
	defer server.Close()

	client, err := botapi.NewClient("token", server.Endpoint(), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	r := NewOperatorRepo(client, 4242)
	ctx := context.Background()

	msgID, err := r.SendNotification(ctx, "text", "✅ Прочитано", "read_1_2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if msgID == 0 {
		t.Error("Expected message id")
	}
	if calls := server.Calls("sendMessage"); len(calls) != 1 || calls[0].Get("chat_id") != "4242" {
		t.Errorf("Expected message to operator, got %v", calls)
	}

	if err := r.ReplaceButton(ctx, 4242, msgID, "done", "already_read"); err != nil {
		t.Errorf("ReplaceButton failed: %v", err)
	}
	if err := r.EditTextWithButton(ctx, 4242, msgID, "✅ text", "done", "already_read"); err != nil {
		t.Errorf("EditTextWithButton failed: %v", err)
	}
	if err := r.AnswerCallback(ctx, "cb", "ok", false); err != nil {
		t.Errorf("AnswerCallback failed: %v", err)
	}
}
