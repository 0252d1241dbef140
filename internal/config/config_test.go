package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/mockinterview/internal/followup"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./storage", cfg.StoragePath)
	assert.Equal(t, 24*time.Hour, cfg.StorageTTL)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.EvaluationModel)
	assert.Equal(t, "English", cfg.Language)
	assert.Equal(t, 2, cfg.MaxInterviewers)
	assert.Equal(t, 10, cfg.MaxFollowUps)
	assert.Equal(t, 60*time.Second, cfg.JudgeTimeout)
	assert.Equal(t, 4, cfg.QuestionConcurrency)
	assert.Equal(t, 128, cfg.SessionCacheSize)
	assert.True(t, cfg.RedactPII)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("STORAGE_TTL", "90m")
	t.Setenv("MAX_INTERVIEWERS", "4")
	t.Setenv("FOLLOW_UP_BUDGET", "node")
	t.Setenv("INTERVIEW_LANGUAGE", "Korean")
	t.Setenv("REDACT_PII", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, cfg.StorageTTL)
	assert.Equal(t, 4, cfg.MaxInterviewers)
	assert.Equal(t, "Korean", cfg.LLM().Language)
	assert.False(t, cfg.RedactPII)

	budget, err := cfg.Budget()
	require.NoError(t, err)
	assert.Equal(t, followup.BudgetPerNode, budget)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"MAX_INTERVIEWERS":        "5",
		"FOLLOW_UP_BUDGET":        "session",
		"MAX_FOLLOW_UPS":          "-1",
		"MAX_CONVERSATION_LENGTH": "-2",
		"SESSION_CACHE_SIZE":      "0",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConfig_Level(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, Config{}.Level())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "warn"}.Level())
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "error", LogDebug: true}.Level())
}

func TestConfig_With(t *testing.T) {
	base := Config{StoragePath: "./a", MaxFollowUps: 10}
	next := base.WithStoragePath("/b").WithMaxFollowUps(1).WithMaxInterviewers(3)

	assert.Equal(t, "./a", base.StoragePath)
	assert.Equal(t, "/b", next.StoragePath)
	assert.Equal(t, 1, next.MaxFollowUps)
	assert.Equal(t, 3, next.MaxInterviewers)
	assert.Equal(t, "/b", next.Storage(nil).BasePath)
}

func TestUsage(t *testing.T) {
	usage := Usage()
	assert.Contains(t, usage, "OPENAI_API_KEY")
	assert.Contains(t, usage, "FOLLOW_UP_BUDGET")
}
