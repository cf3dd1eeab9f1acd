package conf

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/infra/logger"
)

// Setup loads the env file, builds the root logger and loads the configuration
func Setup(v *viper.Viper, envFile string) (*Config, *zap.Logger, error) {
	loaded, err := LoadEnvFile(envFile)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(v.GetBool(KeyDebug))
	if err != nil {
		return nil, nil, err
	}
	if loaded {
		log.Info("loaded env file", zap.String("path", envFile))
	} else {
		log.Info("no env file found, relying on environment", zap.String("path", envFile))
	}

	cfg, err := Load(v, log)
	if err != nil {
		return nil, log, err
	}
	return cfg, log, nil
}
