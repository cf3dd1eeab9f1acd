package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/repo"
)

const (
	// HistoryLimit is the number of messages exported by .save_chat
	HistoryLimit = 100
	// PreviewLimit is the number of search matches shown in the status message
	PreviewLimit = 5
)

// CommandTexts contains the fixed texts used by the commands
type CommandTexts struct {
	PreparedText       string
	AISuffix           string
	NoAIResponse       string
	TranslatePrompt    string // Sprintf format: language, text
	DefaultLanguage    string
	TranslationLabel   string
	TranslationFailed  string
	TranslateUsage     string
	SavedChat          string // Sprintf format: file name
	SearchStatus       string // Sprintf format: username
	SearchNoResults    string // Sprintf format: username
	SearchToolMissing  string
	ReportCaption      string // Sprintf format: username
	UserInfoSent       string
	ErrorFormat        string // Sprintf format: error
	TranslateErrFormat string // Sprintf format: error
	FailureFormat      string // Sprintf format: error
}

// CommandConfig contains command configuration
type CommandConfig struct {
	Texts               CommandTexts
	UserInfoDestination string
}

// CommandUsecase implements the chat commands
type CommandUsecase struct {
	cfg       CommandConfig
	messenger repo.MessengerRepo
	generator repo.GeneratorRepo
	searcher  repo.SearcherRepo
	files     repo.FileRepo
	logger    *zap.Logger
	now       func() time.Time
}

// NewCommandUsecase creates a new command usecase
func NewCommandUsecase(
	cfg CommandConfig,
	messenger repo.MessengerRepo,
	generator repo.GeneratorRepo,
	searcher repo.SearcherRepo,
	files repo.FileRepo,
	logger *zap.Logger,
) *CommandUsecase {
	return &CommandUsecase{
		cfg:       cfg,
		messenger: messenger,
		generator: generator,
		searcher:  searcher,
		files:     files,
		logger:    logger.Named("commands"),
		now:       time.Now,
	}
}

// Commands returns the command table in evaluation order
func (uc *CommandUsecase) Commands() []Command {
	return []Command{
		{Name: "me", Arity: ArityNone, Filter: Outgoing, Handler: uc.handleMe},
		{Name: "save_chat", Arity: ArityNone, Filter: Outgoing, Handler: uc.handleSaveChat},
		{Name: "ai", Arity: ArityRest, Filter: Outgoing, Handler: uc.handleAI},
		{Name: "tn", Arity: ArityOptional, Filter: Outgoing, Handler: uc.handleTranslate},
		{Name: "find_user", Arity: ArityRest, Filter: Outgoing, Handler: uc.handleFindUser},
		{Name: "user", Arity: ArityNone, Filter: All(Outgoing, PrivateOnly), Handler: uc.handleUser},
	}
}

func (uc *CommandUsecase) handleMe(ctx context.Context, msg *domain.Message, _ string) error {
	_, err := uc.messenger.SendText(ctx, msg.Chat, uc.cfg.Texts.PreparedText)
	return err
}

func (uc *CommandUsecase) handleSaveChat(ctx context.Context, msg *domain.Message, _ string) error {
	history, err := uc.messenger.GetHistory(ctx, msg.Chat, HistoryLimit)
	if err != nil {
		return uc.reportFailure(ctx, msg.Chat, fmt.Errorf("failed to get history: %w", err))
	}

	path, err := uc.files.ExportChat(ctx, msg.Chat.ID, history)
	if err != nil {
		return uc.reportFailure(ctx, msg.Chat, fmt.Errorf("failed to export chat: %w", err))
	}

	_, err = uc.messenger.SendText(ctx, msg.Chat, fmt.Sprintf(uc.cfg.Texts.SavedChat, filepath.Base(path)))
	return err
}

// Ask sends the query to the generator with the short-answer suffix
// and returns the answer without markdown markers
func (uc *CommandUsecase) Ask(ctx context.Context, query string) (string, error) {
	answer, err := uc.generator.Generate(ctx, query+uc.cfg.Texts.AISuffix)
	if err != nil {
		return "", err
	}
	return domain.StripMarkdown(answer), nil
}

func (uc *CommandUsecase) handleAI(ctx context.Context, msg *domain.Message, query string) error {
	answer, err := uc.Ask(ctx, query)
	switch {
	case errors.Is(err, repo.ErrEmptyCompletion):
		answer = uc.cfg.Texts.NoAIResponse
	case err != nil:
		answer = fmt.Sprintf(uc.cfg.Texts.ErrorFormat, err)
	}

	_, sendErr := uc.messenger.SendText(ctx, msg.Chat, answer)
	return sendErr
}

// Translate translates text into the target language.
// An empty language means the default language.
func (uc *CommandUsecase) Translate(ctx context.Context, language, text string) (string, error) {
	if language == "" {
		language = uc.cfg.Texts.DefaultLanguage
	}
	translated, err := uc.generator.Generate(ctx, fmt.Sprintf(uc.cfg.Texts.TranslatePrompt, language, text))
	if err != nil {
		return "", err
	}
	return domain.StripMarkdown(translated), nil
}

func (uc *CommandUsecase) handleTranslate(ctx context.Context, msg *domain.Message, arg string) error {
	texts := uc.cfg.Texts

	source, err := uc.repliedText(ctx, msg)
	if err != nil {
		_, sendErr := uc.messenger.SendText(ctx, msg.Chat, fmt.Sprintf(texts.TranslateErrFormat, err))
		return sendErr
	}

	var language, prefix string
	if source == "" {
		idx := strings.IndexFunc(arg, unicode.IsSpace)
		if idx < 0 {
			_, err := uc.messenger.SendText(ctx, msg.Chat, texts.TranslateUsage)
			return err
		}
		language = arg[:idx]
		source = strings.TrimSpace(arg[idx:])
	} else {
		prefix = texts.TranslationLabel
	}

	translated, err := uc.Translate(ctx, language, source)
	switch {
	case errors.Is(err, repo.ErrEmptyCompletion):
		translated = texts.TranslationFailed
	case err != nil:
		_, sendErr := uc.messenger.SendText(ctx, msg.Chat, fmt.Sprintf(texts.TranslateErrFormat, err))
		return sendErr
	}

	_, err = uc.messenger.SendText(ctx, msg.Chat, prefix+translated)
	return err
}

// repliedText returns the text of the replied-to message, empty when
// the message is not a reply or the target has no text
func (uc *CommandUsecase) repliedText(ctx context.Context, msg *domain.Message) (string, error) {
	if !msg.IsReply() {
		return "", nil
	}
	target, err := uc.messenger.GetMessage(ctx, msg.Chat, msg.ReplyToID)
	if err != nil {
		return "", fmt.Errorf("failed to get replied message: %w", err)
	}
	if target == nil {
		return "", nil
	}
	return target.Text, nil
}

// SearchUsername runs the search tool and builds the report.
// The username is taken without the @ sign.
func (uc *CommandUsecase) SearchUsername(ctx context.Context, username string) (*domain.SearchReport, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}
	output, err := uc.searcher.Search(ctx, username)
	if err != nil {
		return nil, err
	}
	return domain.NewSearchReport(username, domain.ParseSearchOutput(output), uc.now()), nil
}

func (uc *CommandUsecase) handleFindUser(ctx context.Context, msg *domain.Message, arg string) error {
	texts := uc.cfg.Texts
	username := strings.ReplaceAll(arg, "@", "")

	statusID, err := uc.messenger.SendText(ctx, msg.Chat, fmt.Sprintf(texts.SearchStatus, username))
	if err != nil {
		return fmt.Errorf("failed to send status message: %w", err)
	}
	status := func(text string) error {
		return uc.messenger.EditText(ctx, msg.Chat, statusID, text)
	}

	report, err := uc.SearchUsername(ctx, username)
	if errors.Is(err, repo.ErrSearchToolMissing) {
		return status(texts.SearchToolMissing)
	}
	if err != nil {
		return status(fmt.Sprintf(texts.FailureFormat, err))
	}

	if len(report.Sites) == 0 {
		return status(fmt.Sprintf(texts.SearchNoResults, username))
	}

	path, err := uc.files.WriteSearchReport(ctx, report)
	if err != nil {
		return status(fmt.Sprintf(texts.FailureFormat, err))
	}
	defer func() {
		if err := uc.files.Remove(path); err != nil {
			uc.logger.Warn("failed to remove report file", zap.String("path", path), zap.Error(err))
		}
	}()

	if err := status(report.Preview(PreviewLimit)); err != nil {
		return fmt.Errorf("failed to edit status message: %w", err)
	}

	if err := uc.messenger.SendDocument(ctx, msg.Chat, path, fmt.Sprintf(texts.ReportCaption, username)); err != nil {
		return status(fmt.Sprintf(texts.FailureFormat, err))
	}
	return nil
}

func (uc *CommandUsecase) handleUser(ctx context.Context, msg *domain.Message, _ string) error {
	profile, err := uc.messenger.GetUserProfile(ctx, msg.Chat.ID)
	if err != nil {
		return uc.reportFailure(ctx, msg.Chat, err)
	}

	if err := uc.messenger.SendToDestination(ctx, uc.cfg.UserInfoDestination, profile.Summary()); err != nil {
		return uc.reportFailure(ctx, msg.Chat, err)
	}

	_, err = uc.messenger.SendText(ctx, msg.Chat, uc.cfg.Texts.UserInfoSent)
	return err
}

// reportFailure shows err in the chat and returns only a send failure
func (uc *CommandUsecase) reportFailure(ctx context.Context, chat domain.Peer, err error) error {
	uc.logger.Warn("command failed", zap.Int64("chat_id", chat.ID), zap.Error(err))
	_, sendErr := uc.messenger.SendText(ctx, chat, fmt.Sprintf(uc.cfg.Texts.FailureFormat, err))
	return sendErr
}
