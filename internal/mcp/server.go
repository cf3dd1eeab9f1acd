package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/repo"
)

// Toolbox is the userbot functionality exposed as tools
type Toolbox interface {
	Ask(ctx context.Context, query string) (string, error)
	Translate(ctx context.Context, language, text string) (string, error)
	SearchUsername(ctx context.Context, username string) (*domain.SearchReport, error)
}

// Server exposes the toolbox over MCP
type Server struct {
	server  *mcp.Server
	toolbox Toolbox
	logger  *zap.Logger
}

// NewServer creates a new MCP server with all tools registered
func NewServer(toolbox Toolbox, version string, logger *zap.Logger) *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "sleepguard-tools",
			Version: version,
		}, nil),
		toolbox: toolbox,
		logger:  logger.Named("mcp"),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the generative model a question. The answer is kept short.",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "translate",
		Description: "Translate text into a target language (Ukrainian by default).",
	}, s.handleTranslate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_username",
		Description: "Search public sites for accounts registered under a username.",
	}, s.handleFindUsername)
}

// Run serves the tools on stdin/stdout until ctx is done
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("serving tools over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// AskInput is the input for the ask tool
type AskInput struct {
	Query string `json:"query" jsonschema:"the question to ask"`
}

// TextOutput is the output of the text tools
type TextOutput struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleAsk(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, TextOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, TextOutput{Error: "query is required"}, nil
	}

	answer, err := s.toolbox.Ask(ctx, query)
	if err != nil {
		s.logger.Warn("ask failed", zap.Error(err))
		return nil, TextOutput{Error: err.Error()}, nil
	}
	return nil, TextOutput{Text: answer}, nil
}

// TranslateInput is the input for the translate tool
type TranslateInput struct {
	Text     string `json:"text" jsonschema:"the text to translate"`
	Language string `json:"language,omitempty" jsonschema:"target language in Ukrainian instrumental form, e.g. англійською; Ukrainian when empty"`
}

func (s *Server) handleTranslate(ctx context.Context, req *mcp.CallToolRequest, input TranslateInput) (*mcp.CallToolResult, TextOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, TextOutput{Error: "text is required"}, nil
	}

	translated, err := s.toolbox.Translate(ctx, strings.TrimSpace(input.Language), text)
	if err != nil {
		s.logger.Warn("translate failed", zap.Error(err))
		return nil, TextOutput{Error: err.Error()}, nil
	}
	return nil, TextOutput{Text: translated}, nil
}

// FindUsernameInput is the input for the find_username tool
type FindUsernameInput struct {
	Username string `json:"username" jsonschema:"the username to search for, with or without @"`
}

// FindUsernameOutput lists the sites where the username was found
type FindUsernameOutput struct {
	Username string   `json:"username"`
	Sites    []string `json:"sites"`
	Error    string   `json:"error,omitempty"`
}

func (s *Server) handleFindUsername(ctx context.Context, req *mcp.CallToolRequest, input FindUsernameInput) (*mcp.CallToolResult, FindUsernameOutput, error) {
	username := strings.ReplaceAll(strings.TrimSpace(input.Username), "@", "")
	if username == "" {
		return nil, FindUsernameOutput{Error: "username is required"}, nil
	}
	if err := domain.ValidateUsername(username); err != nil {
		return nil, FindUsernameOutput{Username: username, Error: err.Error()}, nil
	}

	report, err := s.toolbox.SearchUsername(ctx, username)
	if errors.Is(err, repo.ErrSearchToolMissing) {
		return nil, FindUsernameOutput{Username: username, Error: "search tool is not installed"}, nil
	}
	if err != nil {
		s.logger.Warn("search failed", zap.String("username", username), zap.Error(err))
		return nil, FindUsernameOutput{Username: username, Error: err.Error()}, nil
	}

	sites := report.Sites
	if sites == nil {
		sites = []string{}
	}
	return nil, FindUsernameOutput{Username: username, Sites: sites}, nil
}
