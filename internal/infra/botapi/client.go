package botapi

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// CallbackHandler is the callback for button presses
type CallbackHandler func(ctx context.Context, q *tgbotapi.CallbackQuery)

// Client is the Bot API client of the relay bot
type Client struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewClient connects to the Bot API.
// An empty endpoint uses the public Bot API.
func NewClient(token, endpoint string, logger *zap.Logger) (*Client, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	logger = logger.Named("botapi")

	if err := tgbotapi.SetLogger(&botLogger{sugar: logger.Sugar()}); err != nil {
		logger.Warn("failed to set bot api logger", zap.Error(err))
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("connecting to Telegram: %w", err)
	}

	return &Client{bot: bot, logger: logger}, nil
}

// Username returns the bot's username (without the @ prefix)
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

func singleButton(label, data string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data),
		),
	)
}

// SendWithButton sends text with a single inline button and returns the message id
func (c *Client) SendWithButton(chatID int64, text, label, data string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = singleButton(label, data)

	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return sent.MessageID, nil
}

// EditButton replaces the inline keyboard of a message with a single button
func (c *Client) EditButton(chatID int64, msgID int, label, data string) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, singleButton(label, data))
	if _, err := c.bot.Request(edit); err != nil {
		return fmt.Errorf("edit reply markup: %w", err)
	}
	return nil
}

// EditTextAndButton replaces text and inline keyboard of a message
func (c *Client) EditTextAndButton(chatID int64, msgID int, text, label, data string) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, singleButton(label, data))
	if _, err := c.bot.Request(edit); err != nil {
		return fmt.Errorf("edit message text: %w", err)
	}
	return nil
}

// AnswerCallback answers a button press
func (c *Client) AnswerCallback(callbackID, text string, alert bool) error {
	cfg := tgbotapi.NewCallback(callbackID, text)
	if alert {
		cfg = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}
	if _, err := c.bot.Request(cfg); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// Run starts the long-polling loop. Blocks until the context is cancelled
// or the updates channel is closed. Every callback is handled in its own goroutine.
func (c *Client) Run(ctx context.Context, handler CallbackHandler) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"callback_query"}

	updates := c.bot.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		c.bot.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.CallbackQuery == nil {
			continue
		}
		go handler(ctx, update.CallbackQuery)
	}

	return ctx.Err()
}

type botLogger struct {
	sugar *zap.SugaredLogger
}

func (l *botLogger) Println(v ...interface{}) {
	l.sugar.Debug(v...)
}

func (l *botLogger) Printf(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}
