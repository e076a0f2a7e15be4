// Package config loads the nutriplan configuration from config.yaml,
// NUTRIPLAN_* environment variables and built-in defaults.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration wraps every error returned by LoadConfig.
var ErrConfiguration = errors.New("configuration error")

// Task names understood by the scheduler.
const (
	TaskGuideRefresh   = "guide_refresh"
	TaskSQLMaintenance = "sql_maintenance"
)

// Config is the root of the configuration tree.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Guide     GuideConfig     `mapstructure:"guide"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// OpenAIConfig holds the completion endpoint settings. The API key is only
// required by commands that call the endpoint.
type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Endpoint    string        `mapstructure:"endpoint"    validate:"required,url"`
	Model       string        `mapstructure:"model"       validate:"required"`
	Temperature float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	TopP        float64       `mapstructure:"top_p"       validate:"gte=0,lte=1"`
	MaxTokens   int           `mapstructure:"max_tokens"  validate:"gte=1"`
	Timeout     time.Duration `mapstructure:"timeout"     validate:"min=1s,max=10m"`
}

// GuideConfig sizes a meal guide generation run.
type GuideConfig struct {
	Days        int `mapstructure:"days"        validate:"gte=1,lte=31"`
	MealTokens  int `mapstructure:"meal_tokens" validate:"gte=1"`
	ListTokens  int `mapstructure:"list_tokens" validate:"gte=1"`
	Concurrency int `mapstructure:"concurrency" validate:"gte=1,lte=16"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig schedules one task with a six-field cron expression (seconds first).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MetricsConfig sets the listen address of the /metrics and /healthz
// endpoints served in watch mode. An empty address disables them.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}
