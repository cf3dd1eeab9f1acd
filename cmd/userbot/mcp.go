package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/biz/usecase"
	"github.com/sleepguard/sleepguard/internal/conf"
	"github.com/sleepguard/sleepguard/internal/data"
	"github.com/sleepguard/sleepguard/internal/infra/genai"
	"github.com/sleepguard/sleepguard/internal/mcp"
)

func newMCPCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the ask, translate and find_username tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := conf.Setup(v, envFile(cmd))
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			genaiClient := genai.NewClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model)
			repos := data.NewRepositories(nil, genaiClient, cfg.ToDataOptions())
			toolbox := usecase.NewCommandUsecase(cfg.ToCommandConfig(), nil, repos.Generator, repos.Searcher, repos.Files, log)

			if err := mcp.NewServer(toolbox, version, log).Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("mcp server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
}
