package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Queue  QueueConfig  `mapstructure:"queue"  validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm"    validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// QueueConfig contains the task queue settings.
type QueueConfig struct {
	// Concurrency is the maximum number of simultaneously processing tasks
	Concurrency int `mapstructure:"concurrency" validate:"required,gt=0"`

	// RetryLimit is the number of failures tolerated per task before it
	// settles in failed
	RetryLimit int `mapstructure:"retry_limit" validate:"gte=0"`

	// BackoffSeconds is the delay sequence between retry attempts
	BackoffSeconds []int `mapstructure:"backoff_seconds" validate:"required,min=1,dive,gt=0"`

	// ExecutorTimeoutSeconds bounds a single executor attempt; 0 disables
	ExecutorTimeoutSeconds int `mapstructure:"executor_timeout_seconds" validate:"gte=0"`
}

// Backoff returns the configured delay sequence as durations.
func (q QueueConfig) Backoff() []time.Duration {
	delays := make([]time.Duration, 0, len(q.BackoffSeconds))
	for _, s := range q.BackoffSeconds {
		delays = append(delays, time.Duration(s)*time.Second)
	}
	return delays
}

// ExecutorTimeout returns the per-attempt timeout as a duration.
func (q QueueConfig) ExecutorTimeout() time.Duration {
	return time.Duration(q.ExecutorTimeoutSeconds) * time.Second
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`
}
