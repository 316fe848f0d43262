package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "DESIGNER_LOG_LEVEL")
	viper.BindEnv("mongo.url", "DESIGNER_MONGO_URL")
	viper.BindEnv("mongo.database", "DESIGNER_MONGO_DB")
	viper.BindEnv("registry.url", "DESIGNER_REGISTRY_API_URL")
	viper.BindEnv("registry.superToken", "DESIGNER_REGISTRY_SUPER_TOKEN")
	viper.BindEnv("auth.passwordSalt", "DESIGNER_PASSWORD_SALT")
	viper.BindEnv("cache.enabled", "DESIGNER_CACHE_ENABLED")
	viper.BindEnv("cache.size", "DESIGNER_CACHE_SIZE")
	viper.BindEnv("delivery.queueSize", "DESIGNER_DELIVERY_QUEUE_SIZE")
	viper.BindEnv("delivery.workers", "DESIGNER_DELIVERY_WORKERS")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "StudyDesignerAPI"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
