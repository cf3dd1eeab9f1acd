package botapi

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/infra/botapi/botapitest"
)

type keyboard struct {
	InlineKeyboard [][]struct {
		Text         string `json:"text"`
		CallbackData string `json:"callback_data"`
	} `json:"inline_keyboard"`
}

func decodeKeyboard(t *testing.T, raw string) keyboard {
	t.Helper()
	var kb keyboard
	if err := json.Unmarshal([]byte(raw), &kb); err != nil {
		t.Fatalf("Failed to decode keyboard %q: %v", raw, err)
	}
	if len(kb.InlineKeyboard) != 1 || len(kb.InlineKeyboard[0]) != 1 {
		t.Fatalf("Expected a single button, got %q", raw)
	}
	return kb
}

func newTestClient(t *testing.T) (*Client, *botapitest.Server) {
	t.Helper()
	server := botapitest.NewServer()
	t.Cleanup(server.Close)

	client, err := NewClient("token", server.Endpoint(), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client, server
}

func TestClient_Username(t *testing.T) {
	client, _ := newTestClient(t)
	if client.Username() != "relay_bot" {
		t.Errorf("Expected relay_bot, got %s", client.Username())
	}
}

func TestClient_SendWithButton(t *testing.T) {
	client, server := newTestClient(t)

	msgID, err := client.SendWithButton(555, "hello", "✅ Прочитано", "read_1_2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if msgID == 0 {
		t.Error("Expected message id")
	}

	calls := server.Calls("sendMessage")
	if len(calls) != 1 {
		t.Fatalf("Expected 1 sendMessage call, got %d", len(calls))
	}
	if calls[0].Get("chat_id") != "555" || calls[0].Get("text") != "hello" {
		t.Errorf("Unexpected params %v", calls[0])
	}
	kb := decodeKeyboard(t, calls[0].Get("reply_markup"))
	button := kb.InlineKeyboard[0][0]
	if button.Text != "✅ Прочитано" || button.CallbackData != "read_1_2" {
		t.Errorf("Unexpected button %+v", button)
	}
}

func TestClient_Edits(t *testing.T) {
	client, server := newTestClient(t)

	if err := client.EditButton(555, 7, "done", "already_read"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := client.EditTextAndButton(555, 7, "✅ hello", "done", "already_read"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	markup := server.Calls("editMessageReplyMarkup")
	if len(markup) != 1 || markup[0].Get("message_id") != "7" {
		t.Fatalf("Unexpected editMessageReplyMarkup calls %v", markup)
	}
	if decodeKeyboard(t, markup[0].Get("reply_markup")).InlineKeyboard[0][0].CallbackData != "already_read" {
		t.Error("Expected already_read button")
	}

	text := server.Calls("editMessageText")
	if len(text) != 1 || text[0].Get("text") != "✅ hello" {
		t.Fatalf("Unexpected editMessageText calls %v", text)
	}
}

func TestClient_AnswerCallback(t *testing.T) {
	client, server := newTestClient(t)

	if err := client.AnswerCallback("cb1", "ok", false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := client.AnswerCallback("cb2", "bad", true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	calls := server.Calls("answerCallbackQuery")
	if len(calls) != 2 {
		t.Fatalf("Expected 2 calls, got %d", len(calls))
	}
	if calls[0].Get("callback_query_id") != "cb1" || calls[0].Get("show_alert") == "true" {
		t.Errorf("Unexpected first answer %v", calls[0])
	}
	if calls[1].Get("show_alert") != "true" {
		t.Errorf("Expected alert on second answer, got %v", calls[1])
	}
}

func TestClient_APIError(t *testing.T) {
	client, server := newTestClient(t)
	server.Fail("sendMessage", "Bad Request: chat not found")

	if _, err := client.SendWithButton(1, "x", "l", "d"); err == nil {
		t.Error("Expected error")
	}
}
