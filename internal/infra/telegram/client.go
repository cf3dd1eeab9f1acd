package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/updates"
	updhook "github.com/gotd/td/telegram/updates/hook"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
)

const dialogsLimit = 100

// MessageHandler is the callback for received messages
type MessageHandler func(ctx context.Context, msg *Message)

// CodePrompt asks the account owner for the login code
type CodePrompt func(ctx context.Context) (string, error)

// Config contains the user client configuration
type Config struct {
	AppID       int
	AppHash     string
	Phone       string
	Password    string
	SessionPath string
}

// Client is the MTProto client of the user account
type Client struct {
	cfg    Config
	client *telegram.Client
	gaps   *updates.Manager
	api    *tg.Client
	peers  *PeerCache
	prompt CodePrompt
	logger *zap.Logger

	mu        sync.RWMutex
	onMessage MessageHandler
	selfID    int64
}

// NewClient creates a new user client
func NewClient(cfg Config, prompt CodePrompt, logger *zap.Logger) (*Client, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.SessionPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	c := &Client{
		cfg:    cfg,
		peers:  NewPeerCache(),
		prompt: prompt,
		logger: logger.Named("telegram"),
	}

	dispatcher := tg.NewUpdateDispatcher()
	dispatcher.OnNewMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
		c.handleUpdate(ctx, e, u.Message)
		return nil
	})
	dispatcher.OnNewChannelMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewChannelMessage) error {
		c.handleUpdate(ctx, e, u.Message)
		return nil
	})

	c.gaps = updates.New(updates.Config{
		Handler: dispatcher,
		Logger:  c.logger.Named("gaps"),
	})

	c.client = telegram.NewClient(cfg.AppID, cfg.AppHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: cfg.SessionPath},
		UpdateHandler:  c.gaps,
		Middlewares: []telegram.Middleware{
			updhook.UpdateHook(c.gaps.Handle),
		},
		Logger: c.logger.Named("mtproto"),
	})
	c.api = c.client.API()

	return c, nil
}

// OnMessage sets the message handler
func (c *Client) OnMessage(handler MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = handler
}

// SelfID returns the id of the logged in account
func (c *Client) SelfID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selfID
}

// Run connects, logs in if necessary and receives updates until ctx is done.
// onStart is called once the update loop is running.
func (c *Client) Run(ctx context.Context, onStart func(ctx context.Context)) error {
	return c.client.Run(ctx, func(ctx context.Context) error {
		codeAuth := auth.CodeAuthenticatorFunc(func(ctx context.Context, _ *tg.AuthSentCode) (string, error) {
			if c.prompt == nil {
				return "", fmt.Errorf("login code required but no prompt configured")
			}
			return c.prompt(ctx)
		})
		flow := auth.NewFlow(auth.Constant(c.cfg.Phone, c.cfg.Password, codeAuth), auth.SendCodeOptions{})
		if err := c.client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("auth: %w", err)
		}

		self, err := c.client.Self(ctx)
		if err != nil {
			return fmt.Errorf("get self: %w", err)
		}
		c.mu.Lock()
		c.selfID = self.ID
		c.mu.Unlock()
		c.peers.AddUser(self)

		c.logger.Info("logged in", zap.Int64("user_id", self.ID), zap.String("username", self.Username))

		// Short updates carry no entities, so known dialogs are loaded up front
		if err := c.loadDialogs(ctx); err != nil {
			c.logger.Warn("failed to load dialogs", zap.Error(err))
		}

		return c.gaps.Run(ctx, c.api, self.ID, updates.AuthOptions{
			IsBot: false,
			OnStart: func(ctx context.Context) {
				if onStart != nil {
					onStart(ctx)
				}
			},
		})
	})
}

func (c *Client) handleUpdate(ctx context.Context, e tg.Entities, msgClass tg.MessageClass) {
	msg, ok := msgClass.(*tg.Message)
	if !ok {
		return
	}
	c.peers.AddEntities(e)

	c.mu.RLock()
	handler := c.onMessage
	c.mu.RUnlock()
	if handler == nil {
		return
	}

	m := convertMessage(msg, c.SelfID(), e.Users, e.Channels)
	c.learnPeers(ctx, m)
	if u, ok := c.peers.User(m.SenderID); ok && m.SenderID != 0 {
		m.SenderName = u.FirstName
		m.SenderUsername = u.Username
		m.SenderBot = u.Bot
	}
	handler(ctx, m)
}

// learnPeers fetches the message again when its chat or sender is not
// cached yet, which is the case for updates delivered without entities
func (c *Client) learnPeers(ctx context.Context, m *Message) {
	missing := m.SenderID != 0 && !c.knownUser(m.SenderID)
	if m.Peer.Kind == PeerKindUser && !c.knownUser(m.Peer.ID) {
		missing = true
	}
	if !missing {
		return
	}
	if _, err := c.GetMessage(ctx, m.Peer, m.ID); err != nil {
		c.logger.Warn("failed to resolve message peers",
			zap.Int64("chat_id", m.Peer.ID),
			zap.Int("message_id", m.ID),
			zap.Error(err))
	}
}

func (c *Client) knownUser(id int64) bool {
	_, ok := c.peers.User(id)
	return ok
}

func (c *Client) loadDialogs(ctx context.Context) error {
	res, err := c.api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      dialogsLimit,
	})
	if err != nil {
		return fmt.Errorf("get dialogs: %w", err)
	}
	switch d := res.(type) {
	case *tg.MessagesDialogs:
		c.peers.AddClasses(d.Users, d.Chats)
	case *tg.MessagesDialogsSlice:
		c.peers.AddClasses(d.Users, d.Chats)
	}
	return nil
}
