package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WAYPOINT_LLM_GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 3, cfg.Queue.Concurrency)
	assert.Equal(t, 2, cfg.Queue.RetryLimit)
	assert.Equal(t, []int{1, 3, 10}, cfg.Queue.BackoffSeconds)
	assert.Equal(t, 120, cfg.Queue.ExecutorTimeoutSeconds)
	assert.Equal(t, "test-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("WAYPOINT_LLM_GEMINI_API_KEY", "test-key")
	t.Setenv("WAYPOINT_SERVER_PORT", "9090")
	t.Setenv("WAYPOINT_SERVER_LOG_LEVEL", "debug")
	t.Setenv("WAYPOINT_QUEUE_CONCURRENCY", "5")
	t.Setenv("WAYPOINT_QUEUE_RETRY_LIMIT", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 5, cfg.Queue.Concurrency)
	assert.Equal(t, 0, cfg.Queue.RetryLimit)
}

func TestLoad_MissingAPIKeyFails(t *testing.T) {
	t.Setenv("WAYPOINT_LLM_GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	t.Run("bad log level", func(t *testing.T) {
		t.Setenv("WAYPOINT_LLM_GEMINI_API_KEY", "test-key")
		t.Setenv("WAYPOINT_SERVER_LOG_LEVEL", "verbose")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("non-positive concurrency", func(t *testing.T) {
		t.Setenv("WAYPOINT_LLM_GEMINI_API_KEY", "test-key")
		t.Setenv("WAYPOINT_QUEUE_CONCURRENCY", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestQueueConfig_Conversions(t *testing.T) {
	t.Parallel()

	q := QueueConfig{
		BackoffSeconds:         []int{1, 3, 10},
		ExecutorTimeoutSeconds: 120,
	}

	assert.Equal(t,
		[]time.Duration{time.Second, 3 * time.Second, 10 * time.Second},
		q.Backoff())
	assert.Equal(t, 2*time.Minute, q.ExecutorTimeout())
}
