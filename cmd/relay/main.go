package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/api"
	"github.com/sleepguard/sleepguard/internal/biz/usecase"
	"github.com/sleepguard/sleepguard/internal/conf"
	"github.com/sleepguard/sleepguard/internal/data"
	"github.com/sleepguard/sleepguard/internal/infra/botapi"
	"github.com/sleepguard/sleepguard/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := conf.NewViper()

	cmd := &cobra.Command{
		Use:          "relay",
		Short:        "Forward quiet-hours notifications to the operator with a read button",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			envPath, _ := cmd.Flags().GetString("env-file")
			return runRelay(cmd.Context(), v, envPath)
		},
	}

	cmd.Flags().String("env-file", conf.DefaultEnvFile, "Path of the .env file.")
	cmd.Flags().Bool("debug", false, "Enable debug logging.")
	cmd.Flags().String("texts", "", "Path of the texts YAML file.")
	cmd.Flags().String("listen", "", "Listen address, overrides RELAY_LISTEN_ADDR.")
	_ = v.BindPFlag(conf.KeyDebug, cmd.Flags().Lookup("debug"))
	_ = v.BindPFlag(conf.KeyTextsPath, cmd.Flags().Lookup("texts"))
	_ = v.BindPFlag("RELAY_LISTEN_ADDR", cmd.Flags().Lookup("listen"))

	return cmd
}

func runRelay(ctx context.Context, v *viper.Viper, envPath string) error {
	cfg, log, err := conf.Setup(v, envPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := cfg.ValidateRelay(); err != nil {
		log.Error("invalid config", zap.Error(err))
		return err
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := botapi.NewClient(cfg.Relay.BotToken, "", log)
	if err != nil {
		return err
	}
	log.Info("relay bot connected", zap.String("username", bot.Username()), zap.Int64("operator_id", cfg.Relay.OperatorID))

	repos, err := data.NewRelayRepositories(bot, cfg.Relay.OperatorID, cfg.Relay.DBPath)
	if err != nil {
		return err
	}
	defer repos.Acks.Close()

	relayUC := usecase.NewRelayUsecase(cfg.ToRelayTexts(), repos.Operator, repos.Acks, log)
	handler := api.NewHandler(relayUC, log)

	srv := server.NewRelayServer(cfg.Relay.ListenAddr, handler.Router(), bot, relayUC, log)
	if err := srv.Run(ctx); err != nil {
		log.Error("relay stopped", zap.Error(err))
		return err
	}
	log.Info("relay stopped")
	return nil
}
