package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// TextsConfig contains every user-visible fixed text, loaded from YAML
type TextsConfig struct {
	Commands  CommandTexts   `yaml:"commands"`
	AutoReply AutoReplyTexts `yaml:"auto_reply"`
	Relay     RelayTexts     `yaml:"relay"`
}

// CommandTexts contains the texts of the chat commands
type CommandTexts struct {
	PreparedText       string `yaml:"prepared_text"`
	AISuffix           string `yaml:"ai_suffix"`
	NoAIResponse       string `yaml:"no_ai_response"`
	TranslatePrompt    string `yaml:"translate_prompt"`
	DefaultLanguage    string `yaml:"default_language"`
	TranslationLabel   string `yaml:"translation_label"`
	TranslationFailed  string `yaml:"translation_failed"`
	TranslateUsage     string `yaml:"translate_usage"`
	SavedChat          string `yaml:"saved_chat"`
	SearchStatus       string `yaml:"search_status"`
	SearchNoResults    string `yaml:"search_no_results"`
	SearchToolMissing  string `yaml:"search_tool_missing"`
	ReportCaption      string `yaml:"report_caption"`
	UserInfoSent       string `yaml:"user_info_sent"`
	ErrorFormat        string `yaml:"error_format"`
	TranslateErrFormat string `yaml:"translate_error_format"`
	FailureFormat      string `yaml:"failure_format"`
}

// AutoReplyTexts contains the quiet-hours reply texts
type AutoReplyTexts struct {
	Ukrainian       string `yaml:"ukrainian"`
	English         string `yaml:"english"`
	NoUsername      string `yaml:"no_username"`
	NonTextFallback string `yaml:"non_text_fallback"`
}

// RelayTexts contains the relay bot texts
type RelayTexts struct {
	Template    string `yaml:"template"`
	ReadLabel   string `yaml:"read_label"`
	DoneLabel   string `yaml:"done_label"`
	DoneMarker  string `yaml:"done_marker"`
	MarkedRead  string `yaml:"marked_read"`
	AlreadyRead string `yaml:"already_read"`
	ErrorFormat string `yaml:"error_format"`
}

// LoadTextsConfig loads the texts from a YAML file.
// With an empty path the well-known locations are tried; no file means defaults.
func LoadTextsConfig(configPath string, logger *zap.Logger) (*TextsConfig, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/texts.yaml",
			"/etc/sleepguard/texts.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "texts.yaml"))
		}
	}

	var (
		data       []byte
		loadedPath string
	)
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err == nil {
			data, loadedPath = b, p
			break
		}
		if configPath != "" {
			return nil, fmt.Errorf("failed to read texts config: %w", err)
		}
	}

	if data == nil {
		logger.Info("no texts.yaml found, using defaults")
		return DefaultTextsConfig(), nil
	}

	logger.Info("loading texts", zap.String("path", loadedPath))

	var config TextsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", loadedPath, err)
	}
	config.fillDefaults()
	return &config, nil
}

func fill(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// fillDefaults fills in default values for empty fields
func (c *TextsConfig) fillDefaults() {
	d := DefaultTextsConfig()

	cmd := &c.Commands
	fill(&cmd.PreparedText, d.Commands.PreparedText)
	fill(&cmd.AISuffix, d.Commands.AISuffix)
	fill(&cmd.NoAIResponse, d.Commands.NoAIResponse)
	fill(&cmd.TranslatePrompt, d.Commands.TranslatePrompt)
	fill(&cmd.DefaultLanguage, d.Commands.DefaultLanguage)
	fill(&cmd.TranslationLabel, d.Commands.TranslationLabel)
	fill(&cmd.TranslationFailed, d.Commands.TranslationFailed)
	fill(&cmd.TranslateUsage, d.Commands.TranslateUsage)
	fill(&cmd.SavedChat, d.Commands.SavedChat)
	fill(&cmd.SearchStatus, d.Commands.SearchStatus)
	fill(&cmd.SearchNoResults, d.Commands.SearchNoResults)
	fill(&cmd.SearchToolMissing, d.Commands.SearchToolMissing)
	fill(&cmd.ReportCaption, d.Commands.ReportCaption)
	fill(&cmd.UserInfoSent, d.Commands.UserInfoSent)
	fill(&cmd.ErrorFormat, d.Commands.ErrorFormat)
	fill(&cmd.TranslateErrFormat, d.Commands.TranslateErrFormat)
	fill(&cmd.FailureFormat, d.Commands.FailureFormat)

	ar := &c.AutoReply
	fill(&ar.Ukrainian, d.AutoReply.Ukrainian)
	fill(&ar.English, d.AutoReply.English)
	fill(&ar.NoUsername, d.AutoReply.NoUsername)
	fill(&ar.NonTextFallback, d.AutoReply.NonTextFallback)

	r := &c.Relay
	fill(&r.Template, d.Relay.Template)
	fill(&r.ReadLabel, d.Relay.ReadLabel)
	fill(&r.DoneLabel, d.Relay.DoneLabel)
	fill(&r.DoneMarker, d.Relay.DoneMarker)
	fill(&r.MarkedRead, d.Relay.MarkedRead)
	fill(&r.AlreadyRead, d.Relay.AlreadyRead)
	fill(&r.ErrorFormat, d.Relay.ErrorFormat)
}

// DefaultTextsConfig returns the built-in texts
func DefaultTextsConfig() *TextsConfig {
	return &TextsConfig{
		Commands: CommandTexts{
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
		},
		AutoReply: AutoReplyTexts{
			Ukrainian:       "Вибачте, зараз я сплю. Відповім пізніше! 😴",
			English:         "Sorry, I'm sleeping right now. I'll reply later! 😴",
			NoUsername:      "No username",
			NonTextFallback: "[Медіа або інший контент]",
		},
		Relay: RelayTexts{
			Template:    "💤 Нове повідомлення під час сну:\n\n👤 Від: {user_name}\n🔗 Username: @{username}\n🆔 ID: {user_id}\n🕐 Час: {timestamp}\n\n📝 Повідомлення:\n{message_text}",
			ReadLabel:   "✅ Прочитано",
			DoneLabel:   "✅ Прочитано ✓",
			DoneMarker:  "✅",
			MarkedRead:  "✅ Позначено як прочитане",
			AlreadyRead: "Вже прочитано",
			ErrorFormat: "Error: %s",
		},
	}
}
