package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/biz/usecase"
	"github.com/sleepguard/sleepguard/internal/conf"
	"github.com/sleepguard/sleepguard/internal/data"
	"github.com/sleepguard/sleepguard/internal/infra/genai"
	"github.com/sleepguard/sleepguard/internal/infra/telegram"
	"github.com/sleepguard/sleepguard/internal/server"
)

func newRootCmd() *cobra.Command {
	v := conf.NewViper()

	cmd := &cobra.Command{
		Use:          "userbot",
		Short:        "Telegram account automation: dot-commands and quiet-hours auto-replies",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserbot(cmd.Context(), v, envFile(cmd))
		},
	}

	cmd.PersistentFlags().String("env-file", conf.DefaultEnvFile, "Path of the .env file.")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging.")
	cmd.PersistentFlags().String("texts", "", "Path of the texts YAML file.")
	_ = v.BindPFlag(conf.KeyDebug, cmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag(conf.KeyTextsPath, cmd.PersistentFlags().Lookup("texts"))

	cmd.AddCommand(newMCPCmd(v))
	return cmd
}

func envFile(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("env-file")
	return path
}

func runUserbot(ctx context.Context, v *viper.Viper, envPath string) error {
	cfg, log, err := conf.Setup(v, envPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := cfg.ValidateUserbot(); err != nil {
		log.Error("invalid config", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tgClient, err := telegram.NewClient(cfg.ToTelegramConfig(), promptCode, log)
	if err != nil {
		return err
	}
	genaiClient := genai.NewClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model)
	if cfg.Gemini.APIKey == "" {
		log.Warn("GEMINI_API_KEY is not set, AI commands will fail")
	}
	log.Info("text generation configured", zap.String("model", genaiClient.Model()))

	repos := data.NewRepositories(tgClient, genaiClient, cfg.ToDataOptions())

	commandUC := usecase.NewCommandUsecase(cfg.ToCommandConfig(), repos.Messenger, repos.Generator, repos.Searcher, repos.Files, log)
	dispatcher := usecase.NewDispatcher(commandUC.Commands(), repos.Messenger, log)
	autoReplyUC := usecase.NewAutoReplyUsecase(cfg.ToAutoReplyConfig(), repos.Messenger, repos.Notifier, log)

	srv := server.NewUserbotServer(tgClient, dispatcher, autoReplyUC, cfg.Relay.URL, log)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("userbot stopped", zap.Error(err))
		return err
	}
	log.Info("userbot stopped")
	return nil
}

// promptCode reads the login code from the terminal
func promptCode(ctx context.Context) (string, error) {
	fmt.Fprint(os.Stderr, "Enter the login code: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read login code: %w", err)
	}
	return strings.TrimSpace(line), nil
}
