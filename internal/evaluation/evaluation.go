package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kfreiman/mockinterview/internal/interview"
)

// ErrEmptyTranscript is returned when there is nothing to evaluate
var ErrEmptyTranscript = errors.New("transcript is empty")

// Evaluator turns a serialized transcript into a markdown assessment
type Evaluator interface {
	Evaluate(ctx context.Context, transcript string) (string, error)
}

// TranscriptStore persists rendered transcripts
type TranscriptStore interface {
	SaveTranscript(sessionID string, content []byte) (string, error)
}

// Report is the final outcome of an interview
type Report struct {
	SessionID  string    `json:"session_id"`
	Transcript string    `json:"transcript"`
	Evaluation string    `json:"evaluation"`
	URI        string    `json:"uri,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Service evaluates finished interviews and stores their transcripts
type Service struct {
	evaluator Evaluator
	store     TranscriptStore
	logger    *slog.Logger
}

// NewService creates a service backed by evaluator
func NewService(evaluator Evaluator) *Service {
	return &Service{
		evaluator: evaluator,
		logger:    slog.Default(),
	}
}

// WithLogger sets the logger for the service
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	s.logger = logger
	return s
}

// WithStore makes the service save every report
func (s *Service) WithStore(store TranscriptStore) *Service {
	s.store = store
	return s
}

// Evaluate sends the XML transcript to the evaluator and returns the report.
// A storage failure is logged and leaves the report without a URI.
func (s *Service) Evaluate(ctx context.Context, sessionID string, entries []interview.TranscriptEntry) (*Report, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTranscript
	}

	transcript, err := XML(entries)
	if err != nil {
		return nil, err
	}

	evaluation, err := s.evaluator.Evaluate(ctx, transcript)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to evaluate interview",
			"error", err,
			"session_id", sessionID,
			"operation", "evaluate",
		)
		return nil, fmt.Errorf("failed to evaluate interview %s: %w", sessionID, err)
	}

	report := &Report{
		SessionID:  sessionID,
		Transcript: Markdown(entries),
		Evaluation: evaluation,
		CreatedAt:  time.Now().UTC(),
	}

	if s.store != nil {
		uri, err := s.store.SaveTranscript(sessionID, []byte(report.Document()))
		if err != nil {
			s.logger.WarnContext(ctx, "failed to save transcript",
				"error", err,
				"session_id", sessionID,
				"operation", "save_transcript",
			)
		} else {
			report.URI = uri
		}
	}
	return report, nil
}

// Document renders the report as one markdown document
func (r *Report) Document() string {
	var b strings.Builder
	b.WriteString(r.Transcript)
	b.WriteString("\n#### Evaluation\n\n")
	b.WriteString(r.Evaluation)
	b.WriteString("\n")
	return b.String()
}
