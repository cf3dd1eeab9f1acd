package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/usecase"
	"github.com/sleepguard/sleepguard/internal/data"
	"github.com/sleepguard/sleepguard/internal/infra/genai"
	"github.com/sleepguard/sleepguard/internal/infra/telegram"
)

// Keys shared with cobra flag bindings
const (
	KeyDebug       = "DEBUG"
	KeyTextsPath   = "TEXTS_CONFIG_PATH"
	DefaultEnvFile = ".env"
)

// Config represents application configuration
type Config struct {
	Telegram  TelegramConfig
	Gemini    GeminiConfig
	Relay     RelayConfig
	AutoReply AutoReplyConfig
	Search    SearchConfig
	Export    ExportConfig

	// Texts configuration (loaded from YAML)
	Texts *TextsConfig

	Debug bool
}

// TelegramConfig contains the user account configuration
type TelegramConfig struct {
	APIID       int
	APIHash     string
	Phone       string
	Password    string
	SessionPath string
}

// GeminiConfig contains the generative API configuration
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RelayConfig contains both sides of the notification relay
type RelayConfig struct {
	URL           string        // used by the userbot
	NotifyTimeout time.Duration // used by the userbot
	BotToken      string
	OperatorID    int64
	ListenAddr    string
	DBPath        string // empty keeps correlations in memory
}

// AutoReplyConfig contains the quiet-hours configuration
type AutoReplyConfig struct {
	QuietStartHour int
	QuietEndHour   int
	Cooldown       time.Duration
}

// SearchConfig contains the username search tool configuration
type SearchConfig struct {
	MaigretPath string
	Timeout     int
	OutputDir   string
}

// ExportConfig contains output locations of the commands
type ExportConfig struct {
	Dir                 string
	UserInfoDestination string
}

// NewViper creates a viper instance reading the environment with all defaults registered
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	homeDir, _ := os.UserHomeDir()
	v.SetDefault("SESSION_PATH", filepath.Join(homeDir, ".sleepguard", "session.json"))
	v.SetDefault("GEMINI_MODEL", genai.DefaultModel)
	v.SetDefault("GEMINI_BASE_URL", genai.DefaultBaseURL)
	v.SetDefault("NOTIFICATION_BOT_URL", "http://localhost:5000")
	v.SetDefault("NOTIFY_TIMEOUT", 5*time.Second)
	v.SetDefault("RELAY_LISTEN_ADDR", "0.0.0.0:5000")
	v.SetDefault("QUIET_START_HOUR", domain.DefaultQuietWindow.StartHour)
	v.SetDefault("QUIET_END_HOUR", domain.DefaultQuietWindow.EndHour)
	v.SetDefault("AUTO_REPLY_COOLDOWN", domain.DefaultCooldown)
	v.SetDefault("MAIGRET_PATH", "maigret")
	v.SetDefault("MAIGRET_TIMEOUT", 10)
	v.SetDefault("SEARCH_OUTPUT_DIR", "searches")
	v.SetDefault("EXPORT_DIR", ".")
	v.SetDefault("USER_INFO_DESTINATION", "me")
	v.SetDefault(KeyDebug, false)
	return v
}

// LoadEnvFile loads a .env file into the process environment.
// A missing file is not an error; loaded reports whether the file existed.
func LoadEnvFile(path string) (loaded bool, err error) {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return true, nil
}

// Load reads the configuration from v and loads the texts
func Load(v *viper.Viper, logger *zap.Logger) (*Config, error) {
	texts, err := LoadTextsConfig(v.GetString(KeyTextsPath), logger)
	if err != nil {
		return nil, err
	}

	return &Config{
		Telegram: TelegramConfig{
			APIID:       v.GetInt("API_ID"),
			APIHash:     v.GetString("API_HASH"),
			Phone:       v.GetString("PHONE"),
			Password:    v.GetString("TG_PASSWORD"),
			SessionPath: v.GetString("SESSION_PATH"),
		},
		Gemini: GeminiConfig{
			APIKey:  v.GetString("GEMINI_API_KEY"),
			Model:   v.GetString("GEMINI_MODEL"),
			BaseURL: v.GetString("GEMINI_BASE_URL"),
		},
		Relay: RelayConfig{
			URL:           v.GetString("NOTIFICATION_BOT_URL"),
			NotifyTimeout: v.GetDuration("NOTIFY_TIMEOUT"),
			BotToken:      v.GetString("BOT_TOKEN"),
			OperatorID:    v.GetInt64("YOUR_USER_ID"),
			ListenAddr:    v.GetString("RELAY_LISTEN_ADDR"),
			DBPath:        v.GetString("RELAY_DB_PATH"),
		},
		AutoReply: AutoReplyConfig{
			QuietStartHour: v.GetInt("QUIET_START_HOUR"),
			QuietEndHour:   v.GetInt("QUIET_END_HOUR"),
			Cooldown:       v.GetDuration("AUTO_REPLY_COOLDOWN"),
		},
		Search: SearchConfig{
			MaigretPath: v.GetString("MAIGRET_PATH"),
			Timeout:     v.GetInt("MAIGRET_TIMEOUT"),
			OutputDir:   v.GetString("SEARCH_OUTPUT_DIR"),
		},
		Export: ExportConfig{
			Dir:                 v.GetString("EXPORT_DIR"),
			UserInfoDestination: v.GetString("USER_INFO_DESTINATION"),
		},
		Texts: texts,
		Debug: v.GetBool(KeyDebug),
	}, nil
}

// ValidateUserbot validates the configuration needed by the userbot
func (c *Config) ValidateUserbot() error {
	if c.Telegram.APIID == 0 || c.Telegram.APIHash == "" {
		return &ConfigError{Field: "API_ID/API_HASH", Message: "required"}
	}
	if c.Telegram.SessionPath == "" {
		return &ConfigError{Field: "SESSION_PATH", Message: "required"}
	}
	if !c.quietWindow().Valid() {
		return &ConfigError{Field: "QUIET_START_HOUR/QUIET_END_HOUR", Message: "must be hours between 0 and 23"}
	}
	if c.AutoReply.Cooldown < 0 {
		return &ConfigError{Field: "AUTO_REPLY_COOLDOWN", Message: "must not be negative"}
	}
	if dest := strings.TrimSpace(c.Export.UserInfoDestination); dest != "" && dest != "me" {
		if _, err := strconv.ParseInt(dest, 10, 64); err != nil {
			return &ConfigError{Field: "USER_INFO_DESTINATION", Message: "must be \"me\" or a numeric chat id"}
		}
	}
	return nil
}

// ValidateRelay validates the configuration needed by the relay
func (c *Config) ValidateRelay() error {
	if c.Relay.BotToken == "" {
		return &ConfigError{Field: "BOT_TOKEN", Message: "required"}
	}
	if c.Relay.OperatorID == 0 {
		return &ConfigError{Field: "YOUR_USER_ID", Message: "required"}
	}
	if c.Relay.ListenAddr == "" {
		return &ConfigError{Field: "RELAY_LISTEN_ADDR", Message: "required"}
	}
	return nil
}

func (c *Config) quietWindow() domain.QuietWindow {
	return domain.QuietWindow{
		StartHour: c.AutoReply.QuietStartHour,
		EndHour:   c.AutoReply.QuietEndHour,
	}
}

// ToTelegramConfig converts to user client configuration
func (c *Config) ToTelegramConfig() telegram.Config {
	return telegram.Config{
		AppID:       c.Telegram.APIID,
		AppHash:     c.Telegram.APIHash,
		Phone:       c.Telegram.Phone,
		Password:    c.Telegram.Password,
		SessionPath: c.Telegram.SessionPath,
	}
}

// ToCommandConfig converts to command configuration
func (c *Config) ToCommandConfig() usecase.CommandConfig {
	t := c.Texts.Commands
	return usecase.CommandConfig{
		Texts: usecase.CommandTexts{
			PreparedText:       t.PreparedText,
			AISuffix:           t.AISuffix,
			NoAIResponse:       t.NoAIResponse,
			TranslatePrompt:    t.TranslatePrompt,
			DefaultLanguage:    t.DefaultLanguage,
			TranslationLabel:   t.TranslationLabel,
			TranslationFailed:  t.TranslationFailed,
			TranslateUsage:     t.TranslateUsage,
			SavedChat:          t.SavedChat,
			SearchStatus:       t.SearchStatus,
			SearchNoResults:    t.SearchNoResults,
			SearchToolMissing:  t.SearchToolMissing,
			ReportCaption:      t.ReportCaption,
			UserInfoSent:       t.UserInfoSent,
			ErrorFormat:        t.ErrorFormat,
			TranslateErrFormat: t.TranslateErrFormat,
			FailureFormat:      t.FailureFormat,
		},
		UserInfoDestination: c.Export.UserInfoDestination,
	}
}

// ToAutoReplyConfig converts to auto-reply configuration
func (c *Config) ToAutoReplyConfig() usecase.AutoReplyConfig {
	t := c.Texts.AutoReply
	return usecase.AutoReplyConfig{
		Window:   c.quietWindow(),
		Cooldown: c.AutoReply.Cooldown,
		Texts: usecase.AutoReplyTexts{
			Ukrainian:       t.Ukrainian,
			English:         t.English,
			NoUsername:      t.NoUsername,
			NonTextFallback: t.NonTextFallback,
		},
	}
}

// ToRelayTexts converts to relay texts
func (c *Config) ToRelayTexts() usecase.RelayTexts {
	t := c.Texts.Relay
	return usecase.RelayTexts{
		Template:    t.Template,
		ReadLabel:   t.ReadLabel,
		DoneLabel:   t.DoneLabel,
		DoneMarker:  t.DoneMarker,
		MarkedRead:  t.MarkedRead,
		AlreadyRead: t.AlreadyRead,
		ErrorFormat: t.ErrorFormat,
	}
}

// ToDataOptions converts to repository options
func (c *Config) ToDataOptions() data.Options {
	return data.Options{
		NotifyURL:     c.Relay.URL,
		NotifyTimeout: c.Relay.NotifyTimeout,
		Maigret: data.MaigretConfig{
			Binary:    c.Search.MaigretPath,
			Timeout:   c.Search.Timeout,
			OutputDir: c.Search.OutputDir,
		},
		ExportDir: c.Export.Dir,
		ReportDir: c.Search.OutputDir,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
