package data

import (
	"time"

	"github.com/sleepguard/sleepguard/internal/biz/repo"
	"github.com/sleepguard/sleepguard/internal/infra/botapi"
	"github.com/sleepguard/sleepguard/internal/infra/genai"
	"github.com/sleepguard/sleepguard/internal/infra/telegram"
)

// Options contains the repository settings of the userbot
type Options struct {
	NotifyURL     string
	NotifyTimeout time.Duration
	Maigret       MaigretConfig
	ExportDir     string
	ReportDir     string
}

// Repositories contains the userbot repositories
type Repositories struct {
	Messenger repo.MessengerRepo
	Generator repo.GeneratorRepo
	Searcher  repo.SearcherRepo
	Notifier  repo.NotifierRepo
	Files     repo.FileRepo
}

// NewRepositories creates the userbot repositories.
// A nil Telegram client leaves Messenger unset (tool server mode).
func NewRepositories(
	telegramClient *telegram.Client,
	genaiClient *genai.Client,
	opts Options,
) *Repositories {
	repos := &Repositories{
		Generator: NewGeminiRepo(genaiClient),
		Searcher:  NewMaigretRepo(opts.Maigret),
		Notifier:  NewRelayNotifier(opts.NotifyURL, opts.NotifyTimeout),
		Files:     NewFileRepo(opts.ExportDir, opts.ReportDir),
	}
	if telegramClient != nil {
		repos.Messenger = NewTelegramRepo(telegramClient)
	}
	return repos
}

// RelayRepositories contains the relay repositories
type RelayRepositories struct {
	Operator repo.OperatorRepo
	Acks     repo.AckRepo
}

// NewRelayRepositories creates the relay repositories
func NewRelayRepositories(botClient *botapi.Client, operatorID int64, ackDBPath string) (*RelayRepositories, error) {
	acks, err := NewAckRepo(ackDBPath)
	if err != nil {
		return nil, err
	}

	return &RelayRepositories{
		Operator: NewOperatorRepo(botClient, operatorID),
		Acks:     acks,
	}, nil
}
