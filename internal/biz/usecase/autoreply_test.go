package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
)

func testAutoReplyConfig() AutoReplyConfig {
	return AutoReplyConfig{
		Window:   domain.DefaultQuietWindow,
		Cooldown: 8 * time.Hour,
		Texts: AutoReplyTexts{
			Ukrainian:       "Вибачте, зараз я сплю. Відповім пізніше! 😴",
			English:         "Sorry, I'm sleeping right now. I'll reply later! 😴",
			NoUsername:      "No username",
			NonTextFallback: "[Медіа або інший контент]",
		},
	}
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newAutoReplyFixture(start time.Time) (*AutoReplyUsecase, *mockMessenger, *mockNotifier, *clock) {
	messenger := newMockMessenger()
	notifier := &mockNotifier{}
	c := &clock{now: start}
	uc := NewAutoReplyUsecase(testAutoReplyConfig(), messenger, notifier, zap.NewNop())
	uc.now = c.Now
	return uc, messenger, notifier, c
}

func incoming(id int, text string) *domain.Message {
	return &domain.Message{
		ID:         id,
		Chat:       domain.Peer{Kind: domain.ChatKindPrivate, ID: 77},
		SenderID:   77,
		SenderName: "Alice",
		Text:       text,
	}
}

func TestAutoReply_Qualifies(t *testing.T) {
	uc, _, _, _ := newAutoReplyFixture(time.Now())

	if !uc.Qualifies(incoming(1, "hi")) {
		t.Error("Expected private incoming message to qualify")
	}

	bot := incoming(1, "hi")
	bot.SenderIsBot = true
	if uc.Qualifies(bot) {
		t.Error("Expected bot message to be rejected")
	}

	own := incoming(1, "hi")
	own.Outgoing = true
	if uc.Qualifies(own) {
		t.Error("Expected outgoing message to be rejected")
	}

	group := incoming(1, "hi")
	group.Chat.Kind = domain.ChatKindGroup
	if uc.Qualifies(group) {
		t.Error("Expected group message to be rejected")
	}

	anonymous := incoming(1, "hi")
	anonymous.SenderID = 0
	if uc.Qualifies(anonymous) {
		t.Error("Expected message without sender to be rejected")
	}
}

func TestAutoReply_NightEnglish(t *testing.T) {
	at := time.Date(2024, 5, 1, 2, 0, 0, 0, time.Local)
	uc, messenger, notifier, _ := newAutoReplyFixture(at)

	replied, err := uc.Handle(context.Background(), incoming(5, "hi"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !replied {
		t.Error("Expected a reply")
	}

	if len(messenger.sent) != 1 {
		t.Fatalf("Expected 1 reply, got %d", len(messenger.sent))
	}
	if messenger.sent[0].ReplyTo != 5 {
		t.Errorf("Expected reply to message 5, got %d", messenger.sent[0].ReplyTo)
	}
	if messenger.sent[0].Text != testAutoReplyConfig().Texts.English {
		t.Errorf("Expected English reply, got %q", messenger.sent[0].Text)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifier.sent))
	}
	n := notifier.sent[0]
	if n.UserID != 77 || n.MessageID != 5 || n.MessageText != "hi" || n.UserName != "Alice" {
		t.Errorf("Unexpected notification %+v", n)
	}
	if n.Username != "No username" {
		t.Errorf("Expected username placeholder, got %q", n.Username)
	}
	if n.Timestamp != "2024-05-01 02:00:00" {
		t.Errorf("Expected timestamp 2024-05-01 02:00:00, got %s", n.Timestamp)
	}

	if uc.ledger.CanReply(77, at) {
		t.Error("Expected the reply to be recorded in the ledger")
	}
}

func TestAutoReply_NightUkrainian(t *testing.T) {
	uc, messenger, _, _ := newAutoReplyFixture(time.Date(2024, 5, 1, 23, 30, 0, 0, time.Local))

	msg := incoming(5, "Привіт")
	msg.SenderHandle = "alice"
	if _, err := uc.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if messenger.lastSent() != testAutoReplyConfig().Texts.Ukrainian {
		t.Errorf("Expected Ukrainian reply, got %q", messenger.lastSent())
	}
}

func TestAutoReply_MediaPlaceholder(t *testing.T) {
	uc, messenger, notifier, _ := newAutoReplyFixture(time.Date(2024, 5, 1, 3, 0, 0, 0, time.Local))

	if _, err := uc.Handle(context.Background(), incoming(5, "")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if notifier.sent[0].MessageText != "[Медіа або інший контент]" {
		t.Errorf("Expected media placeholder, got %q", notifier.sent[0].MessageText)
	}
	if messenger.lastSent() != testAutoReplyConfig().Texts.English {
		t.Errorf("Expected English reply for media, got %q", messenger.lastSent())
	}
}

func TestAutoReply_DaytimeIgnored(t *testing.T) {
	uc, messenger, notifier, _ := newAutoReplyFixture(time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local))

	replied, err := uc.Handle(context.Background(), incoming(5, "hi"))
	if err != nil || replied {
		t.Errorf("Expected no reply, got %v (%v)", replied, err)
	}
	if len(messenger.sent) != 0 || len(notifier.sent) != 0 {
		t.Error("Expected no reply and no notification during the day")
	}
}

func TestAutoReply_CooldownWhileNotifying(t *testing.T) {
	start := time.Date(2024, 5, 1, 23, 0, 0, 0, time.Local)
	uc, messenger, notifier, c := newAutoReplyFixture(start)
	ctx := context.Background()

	steps := []struct {
		offset time.Duration
		reply  bool
	}{
		{0, true},
		{time.Hour, false},
		{7*time.Hour + 59*time.Minute, false},
		{8 * time.Hour, true}, // 07:00, exactly at the cooldown boundary
		{8*time.Hour + 30*time.Minute, false},
	}

	for i, step := range steps {
		c.now = start.Add(step.offset)
		replied, err := uc.Handle(ctx, incoming(i+1, "hi"))
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if replied != step.reply {
			t.Errorf("step %d: expected reply=%v, got %v", i, step.reply, replied)
		}
	}

	if len(notifier.sent) != len(steps) {
		t.Errorf("Expected %d notifications, got %d", len(steps), len(notifier.sent))
	}
	if len(messenger.sent) != 2 {
		t.Errorf("Expected 2 replies, got %d", len(messenger.sent))
	}
}

func TestAutoReply_NotificationFailureDoesNotBlockReply(t *testing.T) {
	uc, messenger, notifier, _ := newAutoReplyFixture(time.Date(2024, 5, 1, 1, 0, 0, 0, time.Local))
	notifier.err = errors.New("connection refused")

	replied, err := uc.Handle(context.Background(), incoming(5, "hi"))
	if err != nil || !replied {
		t.Errorf("Expected reply despite notification failure, got %v (%v)", replied, err)
	}
	if len(messenger.sent) != 1 {
		t.Errorf("Expected 1 reply, got %d", len(messenger.sent))
	}
}

func TestAutoReply_FailedSendNotRecorded(t *testing.T) {
	uc, messenger, _, _ := newAutoReplyFixture(time.Date(2024, 5, 1, 1, 0, 0, 0, time.Local))
	messenger.sendErr = errors.New("flood wait")

	replied, err := uc.Handle(context.Background(), incoming(5, "hi"))
	if err == nil || replied {
		t.Errorf("Expected send failure, got %v (%v)", replied, err)
	}
	if !uc.ledger.CanReply(77, time.Date(2024, 5, 1, 1, 0, 0, 0, time.Local)) {
		t.Error("Expected no ledger entry after a failed reply")
	}

	messenger.sendErr = nil
	replied, err = uc.Handle(context.Background(), incoming(6, "hi"))
	if err != nil || !replied {
		t.Errorf("Expected reply on retry, got %v (%v)", replied, err)
	}
}
