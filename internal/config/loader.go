package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/edgard/nutriplan/internal/fields"
)

// LoadConfig reads and validates configuration from, in rising priority:
//  1. default values
//  2. the YAML file at path (optional, a missing file is not an error)
//  3. NUTRIPLAN_* environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("NUTRIPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: failed to stat config file: %v", ErrConfiguration, err)
			}
			slog.Debug("Configuration file not found, using defaults", "path", path)
		} else {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := fields.Validator().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.endpoint", DefaultOpenAIEndpoint)
	v.SetDefault("openai.model", DefaultOpenAIModel)
	v.SetDefault("openai.temperature", DefaultOpenAITemperature)
	v.SetDefault("openai.top_p", DefaultOpenAITopP)
	v.SetDefault("openai.max_tokens", DefaultOpenAIMaxTokens)
	v.SetDefault("openai.timeout", DefaultOpenAITimeout)

	v.SetDefault("guide.days", DefaultGuideDays)
	v.SetDefault("guide.meal_tokens", DefaultGuideMealTokens)
	v.SetDefault("guide.list_tokens", DefaultGuideListTokens)
	v.SetDefault("guide.concurrency", DefaultGuideConcurrency)

	v.SetDefault("scheduler.tasks."+TaskGuideRefresh+".enabled", false)
	v.SetDefault("scheduler.tasks."+TaskGuideRefresh+".schedule", DefaultGuideRefreshSchedule)
	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".schedule", DefaultSQLMaintenanceSchedule)

	v.SetDefault("metrics.addr", "")
}
