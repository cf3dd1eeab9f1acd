package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/repo"
)

// Mock implementations

type sentText struct {
	Chat    domain.Peer
	ReplyTo int
	Text    string
}

type editedText struct {
	MsgID int
	Text  string
}

type sentDocument struct {
	Path    string
	Caption string
	Content string
}

type mockMessenger struct {
	mu sync.Mutex

	events    []string
	sent      []sentText
	edits     []editedText
	deleted   []int
	documents []sentDocument
	destSent  map[string][]string

	history  []domain.Message
	messages map[int]*domain.Message
	profile  *domain.UserProfile

	sendErr    error
	deleteErr  error
	profileErr error
	nextID     int
}

func newMockMessenger() *mockMessenger {
	return &mockMessenger{
		messages: make(map[int]*domain.Message),
		destSent: make(map[string][]string),
		nextID:   1000,
	}
}

func (m *mockMessenger) SendText(ctx context.Context, chat domain.Peer, text string) (int, error) {
	return m.ReplyText(ctx, chat, 0, text)
}

func (m *mockMessenger) ReplyText(ctx context.Context, chat domain.Peer, replyTo int, text string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.nextID++
	m.events = append(m.events, "send")
	m.sent = append(m.sent, sentText{Chat: chat, ReplyTo: replyTo, Text: text})
	return m.nextID, nil
}

func (m *mockMessenger) EditText(ctx context.Context, chat domain.Peer, msgID int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "edit")
	m.edits = append(m.edits, editedText{MsgID: msgID, Text: text})
	return nil
}

func (m *mockMessenger) DeleteMessage(ctx context.Context, chat domain.Peer, msgID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "delete")
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, msgID)
	return nil
}

func (m *mockMessenger) SendDocument(ctx context.Context, chat domain.Peer, path, caption string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "document")
	m.documents = append(m.documents, sentDocument{Path: path, Caption: caption, Content: string(content)})
	return nil
}

func (m *mockMessenger) GetHistory(ctx context.Context, chat domain.Peer, limit int) ([]domain.Message, error) {
	if len(m.history) > limit {
		return m.history[:limit], nil
	}
	return m.history, nil
}

func (m *mockMessenger) GetMessage(ctx context.Context, chat domain.Peer, msgID int) (*domain.Message, error) {
	return m.messages[msgID], nil
}

func (m *mockMessenger) GetUserProfile(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	return m.profile, nil
}

func (m *mockMessenger) SendToDestination(ctx context.Context, dest, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destSent[dest] = append(m.destSent[dest], text)
	return nil
}

func (m *mockMessenger) lastSent() string {
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].Text
}

type mockGenerator struct {
	prompts []string
	reply   string
	err     error
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if m.reply == "" {
		return "", repo.ErrEmptyCompletion
	}
	return m.reply, nil
}

type mockSearcher struct {
	output string
	err    error
	calls  []string
}

func (m *mockSearcher) Search(ctx context.Context, username string) (string, error) {
	m.calls = append(m.calls, username)
	return m.output, m.err
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []*domain.Notification
	err  error
}

func (m *mockNotifier) Notify(ctx context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return m.err
}

type mockFiles struct {
	dir      string
	exported map[int64][]domain.Message
	removed  []string
}

func newMockFiles(dir string) *mockFiles {
	return &mockFiles{dir: dir, exported: make(map[int64][]domain.Message)}
}

func (m *mockFiles) ExportChat(ctx context.Context, chatID int64, msgs []domain.Message) (string, error) {
	m.exported[chatID] = msgs
	return filepath.Join(m.dir, fmt.Sprintf("chat_%d.json", chatID)), nil
}

func (m *mockFiles) WriteSearchReport(ctx context.Context, report *domain.SearchReport) (string, error) {
	path := filepath.Join(m.dir, report.FileName())
	if err := os.WriteFile(path, []byte(report.Text()), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (m *mockFiles) Remove(path string) error {
	m.removed = append(m.removed, path)
	return os.Remove(path)
}

type buttonState struct {
	Label string
	Data  string
}

type operatorMessage struct {
	Text   string
	Button buttonState
}

type mockOperator struct {
	mu       sync.Mutex
	messages map[int]*operatorMessage
	answers  []string
	alerts   []bool
	nextID   int
	sendErr  error
	editErr  error
}

func newMockOperator() *mockOperator {
	return &mockOperator{messages: make(map[int]*operatorMessage)}
}

func (m *mockOperator) SendNotification(ctx context.Context, text, label, data string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.nextID++
	m.messages[m.nextID] = &operatorMessage{Text: text, Button: buttonState{Label: label, Data: data}}
	return m.nextID, nil
}

func (m *mockOperator) ReplaceButton(ctx context.Context, chatID int64, msgID int, label, data string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editErr != nil {
		return m.editErr
	}
	msg, ok := m.messages[msgID]
	if !ok {
		return errors.New("message not found")
	}
	msg.Button = buttonState{Label: label, Data: data}
	return nil
}

func (m *mockOperator) EditTextWithButton(ctx context.Context, chatID int64, msgID int, text, label, data string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[msgID]
	if !ok {
		return errors.New("message not found")
	}
	msg.Text = text
	msg.Button = buttonState{Label: label, Data: data}
	return nil
}

func (m *mockOperator) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, text)
	m.alerts = append(m.alerts, alert)
	return nil
}

type mockAckRepo struct {
	mu      sync.Mutex
	entries map[domain.AckKey]*domain.AckEntry
	saveErr error
}

func newMockAckRepo() *mockAckRepo {
	return &mockAckRepo{entries: make(map[domain.AckKey]*domain.AckEntry)}
}

func (m *mockAckRepo) Save(ctx context.Context, entry *domain.AckEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	e := *entry
	m.entries[entry.Key] = &e
	return nil
}

func (m *mockAckRepo) Get(ctx context.Context, key domain.AckKey) (*domain.AckEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, repo.ErrAckNotFound
	}
	out := *e
	return &out, nil
}

func (m *mockAckRepo) MarkAcknowledged(ctx context.Context, key domain.AckKey, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return repo.ErrAckNotFound
	}
	if e.AckedAt.IsZero() {
		e.AckedAt = at
	}
	return nil
}

func (m *mockAckRepo) Close() error {
	return nil
}

func testCommandTexts() CommandTexts {
	return CommandTexts{
		PreparedText:       "This is the prepared text that will be sent instead of '.me'.",
		AISuffix:           "\n\nВідповідай коротко та по суті, без форматування markdown, без зірочок, без жирного тексту. Максимум 2-3 речення.",
		NoAIResponse:       "No response from AI.",
		TranslatePrompt:    "Переклади наступний текст %s мовою. Дай тільки переклад без пояснень:\n\n%s",
		DefaultLanguage:    "українською",
		TranslationLabel:   "Переклад: ",
		TranslationFailed:  "Translation failed.",
		TranslateUsage:     "❌ Використання:\n.tn [мова] [текст]\nабо відповідь на повідомлення з .tn",
		SavedChat:          "Chat saved to %s",
		SearchStatus:       "🔍 Searching for @%s...",
		SearchNoResults:    "❌ No results found for @%s",
		SearchToolMissing:  "❌ Maigret not installed!\n\nInstall: pip install maigret",
		ReportCaption:      "📋 Complete search results for @%s",
		UserInfoSent:       "✅ User info sent to Saved Messages",
		ErrorFormat:        "Error: %s",
		TranslateErrFormat: "Translation error: %s",
		FailureFormat:      "❌ Error: %s",
	}
}

func testRelayTexts() RelayTexts {
	return RelayTexts{
		Template:    "💤 Нове повідомлення під час сну:\n\n👤 Від: {user_name}\n🔗 Username: @{username}\n🆔 ID: {user_id}\n🕐 Час: {timestamp}\n\n📝 Повідомлення:\n{message_text}",
		ReadLabel:   "✅ Прочитано",
		DoneLabel:   "✅ Прочитано ✓",
		DoneMarker:  "✅",
		MarkedRead:  "✅ Позначено як прочитане",
		AlreadyRead: "Вже прочитано",
		ErrorFormat: "Error: %s",
	}
}
