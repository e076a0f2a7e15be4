package config

import "time"

const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultDBPath = "nutriplan.db"

	DefaultOpenAIEndpoint    = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIModel       = "gpt-3.5-turbo"
	DefaultOpenAITemperature = 0.8
	DefaultOpenAITopP        = 1.0
	DefaultOpenAIMaxTokens   = 1000
	DefaultOpenAITimeout     = 2 * time.Minute

	DefaultGuideDays        = 7
	DefaultGuideMealTokens  = 200
	DefaultGuideListTokens  = 1000
	DefaultGuideConcurrency = 3

	DefaultGuideRefreshSchedule   = "0 0 6 * * 1"
	DefaultSQLMaintenanceSchedule = "0 0 3 * * *"
)
