// Package app wires storage, ingestion, generation, the turn driver and
// evaluation into one set of components shared by the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kfreiman/mockinterview/internal/analysis"
	"github.com/kfreiman/mockinterview/internal/config"
	"github.com/kfreiman/mockinterview/internal/converter"
	"github.com/kfreiman/mockinterview/internal/driver"
	"github.com/kfreiman/mockinterview/internal/evaluation"
	"github.com/kfreiman/mockinterview/internal/followup"
	"github.com/kfreiman/mockinterview/internal/generation"
	"github.com/kfreiman/mockinterview/internal/ingest"
	"github.com/kfreiman/mockinterview/internal/interview"
	"github.com/kfreiman/mockinterview/internal/llm"
	"github.com/kfreiman/mockinterview/internal/redaction"
	"github.com/kfreiman/mockinterview/internal/storage"
)

// ErrNotComplete is returned when evaluation is requested before every
// interviewer has finished
var ErrNotComplete = errors.New("interview is not complete")

// Model is the language model behind an interview
type Model interface {
	followup.Judge
	generation.PersonaGenerator
	generation.QuestionGenerator
	evaluation.Evaluator
}

// App holds the wired components
type App struct {
	Storage     *storage.StorageManager
	Ingestor    *ingest.DocumentIngestor
	Planner     *generation.Planner
	Analyzer    *analysis.Engine
	Sessions    *driver.Manager
	Evaluations *evaluation.Service
	Config      config.Config

	renderer *converter.PlaywrightRenderer
}

// New builds the components from cfg with the OpenAI client as the model
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	storageManager, err := storage.NewStorageManager(cfg.Storage(logger))
	if err != nil {
		logger.ErrorContext(context.Background(), "failed to initialize storage manager",
			"error", err,
		)
		return nil, fmt.Errorf("storage init: %w", err)
	}
	model := llm.NewClient(cfg.LLM()).WithLogger(logger)

	var renderer *converter.PlaywrightRenderer
	if cfg.RenderPages {
		renderer, err = converter.NewPlaywrightRenderer(nil)
		if err != nil {
			logger.WarnContext(context.Background(), "page rendering unavailable, fetching pages only",
				"error", err,
			)
		}
	}

	a, err := build(cfg, storageManager, model, renderer, logger)
	if err != nil {
		if closeErr := renderer.Close(); closeErr != nil {
			logger.Debug("error stopping page renderer", "error", closeErr)
		}
		return nil, err
	}
	return a, nil
}

// NewWithModel builds the components around an existing store and model
func NewWithModel(cfg config.Config, storageManager *storage.StorageManager, model Model, logger *slog.Logger) (*App, error) {
	return build(cfg, storageManager, model, nil, logger)
}

func build(cfg config.Config, storageManager *storage.StorageManager, model Model, renderer *converter.PlaywrightRenderer, logger *slog.Logger) (*App, error) {
	budget, err := cfg.Budget()
	if err != nil {
		return nil, err
	}

	html := converter.NewHTMLConverter(http.DefaultClient)
	if renderer != nil {
		html = html.WithRenderer(renderer)
	}
	documents := converter.New(
		converter.NewPDFConverter(http.DefaultClient),
		html,
		converter.TextConverter{},
	).WithLogger(logger)

	ingestor := ingest.NewIngestor(storageManager, documents).
		WithLogger(logger)
	if cfg.RedactPII {
		ingestor = ingestor.WithRedaction(redaction.Redact)
	}

	engine := followup.NewEngine(model).
		WithTimeout(cfg.JudgeTimeout).
		WithBudget(budget).
		WithLanguage(cfg.Language).
		WithLogger(logger)
	turns := driver.New(engine).
		WithMaxFollowUps(cfg.MaxFollowUps).
		WithMaxConversationLength(cfg.MaxConversationLength).
		WithLogger(logger)
	sessions, err := driver.NewManager(turns, cfg.SessionCacheSize)
	if err != nil {
		return nil, err
	}

	analyzer := analysis.NewEngine().WithLogger(logger)
	planner := generation.NewPlanner(model, model).
		WithAnalyzer(analyzer).
		WithConcurrency(cfg.QuestionConcurrency).
		WithLogger(logger)

	return &App{
		Storage:     storageManager,
		Ingestor:    ingestor,
		Planner:     planner,
		Analyzer:    analyzer,
		Sessions:    sessions.WithLogger(logger),
		Evaluations: evaluation.NewService(model).WithStore(storageManager).WithLogger(logger),
		Config:      cfg,
		renderer:    renderer,
	}, nil
}

// Close stops the page renderer, if one was started
func (a *App) Close() error {
	return a.renderer.Close()
}

// StartRequest selects the documents and panel of a new interview
type StartRequest struct {
	ResumeURI       string
	JDURI           string
	MaxInterviewers int
	Feedback        string
}

// Started describes a freshly planned interview
type Started struct {
	SessionID  string
	Personas   []interview.Persona
	FocusAreas []string
	First      *driver.CurrentQuestion
}

// Start loads both documents, plans the session and registers it
func (a *App) Start(ctx context.Context, req StartRequest) (*Started, error) {
	resume, err := a.readDocument(req.ResumeURI, storage.DocumentTypeResume)
	if err != nil {
		return nil, err
	}
	jd, err := a.readDocument(req.JDURI, storage.DocumentTypeJD)
	if err != nil {
		return nil, err
	}

	maxInterviewers := req.MaxInterviewers
	if maxInterviewers == 0 {
		maxInterviewers = a.Config.MaxInterviewers
	}

	plan, err := a.Planner.Plan(ctx, generation.PlanRequest{
		Resume:          resume,
		JobDescription:  jd,
		MaxInterviewers: maxInterviewers,
		Feedback:        req.Feedback,
	})
	if err != nil {
		return nil, err
	}

	id := a.Sessions.Start(ctx, plan.Session)
	started := &Started{
		SessionID:  id,
		Personas:   plan.Personas,
		FocusAreas: plan.FocusAreas,
	}
	if q, ok, err := a.Sessions.CurrentQuestion(id); err == nil && ok {
		started.First = &q
	}
	return started, nil
}

// Personas generates interviewer personas for a stored job description
func (a *App) Personas(ctx context.Context, jdURI string, maxInterviewers int, feedback string) ([]interview.Persona, error) {
	jd, err := a.readDocument(jdURI, storage.DocumentTypeJD)
	if err != nil {
		return nil, err
	}
	if maxInterviewers == 0 {
		maxInterviewers = a.Config.MaxInterviewers
	}
	return a.Planner.Personas(ctx, generation.PersonaRequest{
		JobDescription: jd,
		Max:            maxInterviewers,
		Feedback:       feedback,
	})
}

// Gap compares a stored resume against a stored job description
func (a *App) Gap(ctx context.Context, resumeURI, jdURI string) (*analysis.Gap, error) {
	resume, err := a.readDocument(resumeURI, storage.DocumentTypeResume)
	if err != nil {
		return nil, err
	}
	jd, err := a.readDocument(jdURI, storage.DocumentTypeJD)
	if err != nil {
		return nil, err
	}
	return a.Analyzer.Analyze(ctx, resume, jd)
}

// Evaluate assesses a completed session and stores its transcript
func (a *App) Evaluate(ctx context.Context, sessionID string) (*evaluation.Report, error) {
	done, err := a.Sessions.IsComplete(sessionID)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, fmt.Errorf("%w: %s", ErrNotComplete, sessionID)
	}
	entries, err := a.Sessions.Transcript(sessionID)
	if err != nil {
		return nil, err
	}
	return a.Evaluations.Evaluate(ctx, sessionID, entries)
}

// readDocument reads the text of uri, which must be of type want
func (a *App) readDocument(uri string, want storage.DocumentType) (string, error) {
	docType, _, err := storage.ParseURI(uri)
	if err != nil {
		return "", err
	}
	if docType != want {
		return "", &storage.StorageError{
			Operation: "parse URI",
			Path:      uri,
			Err:       fmt.Errorf("expected a %s:// URI", want),
		}
	}
	return a.Storage.ReadContent(uri)
}
