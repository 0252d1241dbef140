// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/kfreiman/mockinterview/internal/followup"
	"github.com/kfreiman/mockinterview/internal/generation"
	"github.com/kfreiman/mockinterview/internal/llm"
	"github.com/kfreiman/mockinterview/internal/storage"
)

// Config holds every setting of the server and the terminal interview
type Config struct {
	StoragePath string        `env:"STORAGE_PATH" env-default:"./storage" env-description:"Storage directory path"`
	StorageTTL  time.Duration `env:"STORAGE_TTL" env-default:"24h" env-description:"Default TTL for document cleanup (e.g., 24h, 1h30m)"`
	Port        int           `env:"PORT" env-default:"8080" env-description:"HTTP server port"`
	LogDebug    bool          `env:"DEBUG" env-default:"false" env-description:"Enable debug logging"`
	LogFormat   string        `env:"LOG_FORMAT" env-default:"text" env-description:"Log output format (text or json)"`
	LogLevel    string        `env:"LOG_LEVEL" env-default:"info" env-description:"Log level (debug, info, warn, error)"`

	OpenAIKey       string        `env:"OPENAI_API_KEY" env-description:"API key for the chat completion endpoint"`
	OpenAIBaseURL   string        `env:"OPENAI_BASE_URL" env-description:"Override for OpenAI compatible endpoints"`
	OpenAITimeout   time.Duration `env:"OPENAI_TIMEOUT" env-default:"120s" env-description:"HTTP timeout of a single completion request"`
	Model           string        `env:"OPENAI_MODEL" env-default:"gpt-4o" env-description:"Model for personas, questions and follow-up decisions"`
	EvaluationModel string        `env:"EVALUATION_MODEL" env-default:"gpt-4o-mini" env-description:"Model for the final evaluation"`
	Language        string        `env:"INTERVIEW_LANGUAGE" env-default:"English" env-description:"Language generated text is written in"`

	MaxInterviewers       int           `env:"MAX_INTERVIEWERS" env-default:"2" env-description:"Interviewer personas per interview (1-4)"`
	MaxFollowUps          int           `env:"MAX_FOLLOW_UPS" env-default:"10" env-description:"Follow-up budget"`
	FollowUpBudget        string        `env:"FOLLOW_UP_BUDGET" env-default:"question" env-description:"What the follow-up budget counts against (question or node)"`
	MaxConversationLength int           `env:"MAX_CONVERSATION_LENGTH" env-default:"0" env-description:"Questions per interviewer after which no follow-ups are asked, 0 for no cap"`
	JudgeTimeout          time.Duration `env:"JUDGE_TIMEOUT" env-default:"60s" env-description:"Deadline of one follow-up decision"`
	QuestionConcurrency   int           `env:"QUESTION_CONCURRENCY" env-default:"4" env-description:"Concurrent question generation calls"`
	SessionCacheSize      int           `env:"SESSION_CACHE_SIZE" env-default:"128" env-description:"Live interview sessions kept in memory"`
	RedactPII             bool          `env:"REDACT_PII" env-default:"true" env-description:"Redact contact details from resumes"`
	RenderPages           bool          `env:"RENDER_PAGES" env-default:"false" env-description:"Render job pages with little readable text in headless Chromium (needs the playwright driver)"`
}

// Load reads the configuration from the environment and validates it
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Usage describes every environment variable
func Usage() string {
	var cfg Config
	desc, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return desc
}

// Validate checks ranges and enumerations
func (c Config) Validate() error {
	if err := generation.ValidateInterviewerCount(c.MaxInterviewers); err != nil {
		return err
	}
	if _, err := c.Budget(); err != nil {
		return err
	}
	if c.MaxFollowUps < 0 {
		return fmt.Errorf("MAX_FOLLOW_UPS must not be negative, got %d", c.MaxFollowUps)
	}
	if c.MaxConversationLength < 0 {
		return fmt.Errorf("MAX_CONVERSATION_LENGTH must not be negative, got %d", c.MaxConversationLength)
	}
	if c.SessionCacheSize < 1 {
		return fmt.Errorf("SESSION_CACHE_SIZE must be positive, got %d", c.SessionCacheSize)
	}
	return nil
}

// Budget maps FOLLOW_UP_BUDGET to a followup.Budget
func (c Config) Budget() (followup.Budget, error) {
	switch c.FollowUpBudget {
	case "", "question":
		return followup.BudgetPerQuestion, nil
	case "node":
		return followup.BudgetPerNode, nil
	}
	return 0, fmt.Errorf("FOLLOW_UP_BUDGET must be 'question' or 'node', got %q", c.FollowUpBudget)
}

// Level parses the log level, DEBUG forcing debug
func (c Config) Level() slog.Level {
	if c.LogDebug {
		return slog.LevelDebug
	}
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// LLM returns the model client settings
func (c Config) LLM() llm.Config {
	return llm.Config{
		APIKey:          c.OpenAIKey,
		BaseURL:         c.OpenAIBaseURL,
		Model:           c.Model,
		EvaluationModel: c.EvaluationModel,
		Language:        c.Language,
		Timeout:         c.OpenAITimeout,
	}
}

// Storage returns the storage manager settings
func (c Config) Storage(logger *slog.Logger) storage.StorageConfig {
	return storage.StorageConfig{
		BasePath:   c.StoragePath,
		DefaultTTL: c.StorageTTL,
		Logger:     logger,
	}
}

// WithStoragePath sets the storage path
func (c Config) WithStoragePath(path string) Config {
	c.StoragePath = path
	return c
}

// WithStorageTTL sets the storage TTL
func (c Config) WithStorageTTL(ttl time.Duration) Config {
	c.StorageTTL = ttl
	return c
}

// WithPort sets the server port
func (c Config) WithPort(port int) Config {
	c.Port = port
	return c
}

// WithLogDebug enables or disables debug logging
func (c Config) WithLogDebug(debug bool) Config {
	c.LogDebug = debug
	return c
}

// WithMaxInterviewers sets the number of interviewer personas
func (c Config) WithMaxInterviewers(n int) Config {
	c.MaxInterviewers = n
	return c
}

// WithMaxFollowUps sets the follow-up budget
func (c Config) WithMaxFollowUps(n int) Config {
	c.MaxFollowUps = n
	return c
}
