// Package apptest provides an in-memory model and app for tests.
package apptest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kfreiman/mockinterview/internal/app"
	"github.com/kfreiman/mockinterview/internal/config"
	"github.com/kfreiman/mockinterview/internal/followup"
	"github.com/kfreiman/mockinterview/internal/followup/followuptest"
	"github.com/kfreiman/mockinterview/internal/generation"
	"github.com/kfreiman/mockinterview/internal/interview"
	"github.com/kfreiman/mockinterview/internal/storage"
)

// Model generates fixed personas and questions, judges with a scripted
// judge and returns a canned evaluation
type Model struct {
	*followuptest.ScriptedJudge

	mu         sync.Mutex
	Names      []string
	PerPersona int
	Evaluation string
	Evaluated  []string
}

// NewModel creates a model with one persona per name, each asking
// perPersona questions
func NewModel(perPersona int, names ...string) *Model {
	judge := followuptest.NewScriptedJudge()
	judge.Fallback = followup.Verdict{Evaluation: "Answers the question."}
	return &Model{
		ScriptedJudge: judge,
		Names:         names,
		PerPersona:    perPersona,
		Evaluation:    "Strong fundamentals.",
	}
}

// GeneratePersonas implements generation.PersonaGenerator
func (m *Model) GeneratePersonas(_ context.Context, req generation.PersonaRequest) ([]interview.Persona, error) {
	personas := make([]interview.Persona, 0, len(m.Names))
	for _, name := range m.Names {
		personas = append(personas, interview.Persona{
			Name:               name,
			PositionExperience: "Staff Engineer",
			MainTasks:          "Reviews " + req.JobDescription[:min(len(req.JobDescription), 20)],
		})
	}
	return personas, nil
}

// GenerateQuestions implements generation.QuestionGenerator
func (m *Model) GenerateQuestions(_ context.Context, req generation.Request) (generation.QuestionSet, error) {
	set := generation.QuestionSet{InterviewerName: req.Persona.Name}
	for i := 1; i <= m.PerPersona; i++ {
		set.Questions = append(set.Questions, interview.Question{
			Text:    fmt.Sprintf("%s question %d", req.Persona.Name, i),
			Purpose: fmt.Sprintf("purpose %d", i),
		})
	}
	return set, nil
}

// Evaluate implements evaluation.Evaluator
func (m *Model) Evaluate(_ context.Context, transcript string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Evaluated = append(m.Evaluated, transcript)
	return m.Evaluation, nil
}

// Config returns a valid configuration for tests
func Config() config.Config {
	return config.Config{
		StoragePath:         "/storage",
		StorageTTL:          24 * time.Hour,
		Port:                8080,
		MaxInterviewers:     2,
		MaxFollowUps:        2,
		FollowUpBudget:      "question",
		JudgeTimeout:        time.Second,
		QuestionConcurrency: 2,
		SessionCacheSize:    8,
		RedactPII:           true,
	}
}

// New builds an app over an in-memory filesystem
func New(t *testing.T, model *Model) *app.App {
	t.Helper()
	cfg := Config()
	sm, err := storage.NewStorageManager(storage.StorageConfig{
		BasePath:   cfg.StoragePath,
		DefaultTTL: cfg.StorageTTL,
		FileSystem: storage.NewMemMapFileSystem(),
	})
	require.NoError(t, err)

	a, err := app.NewWithModel(cfg, sm, model, discardLogger())
	require.NoError(t, err)
	return a
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
