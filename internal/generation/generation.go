// Package generation builds interview sessions from generated personas and questions.
package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/kfreiman/mockinterview/internal/interview"
)

const (
	// MinInterviewers is the smallest persona count a plan accepts
	MinInterviewers = 1
	// MaxInterviewers is the largest persona count a plan accepts
	MaxInterviewers = 4
)

// ErrNoPersonas is returned when persona generation produced nothing
var ErrNoPersonas = errors.New("no interviewer personas generated")

// PersonaRequest asks for interviewer personas for a job description
type PersonaRequest struct {
	JobDescription string
	Max            int
	// Feedback is optional editorial guidance for the personas
	Feedback string
}

// PersonaGenerator creates interviewer personas
type PersonaGenerator interface {
	GeneratePersonas(ctx context.Context, req PersonaRequest) ([]interview.Persona, error)
}

// Request asks one persona for questions about a resume
type Request struct {
	Persona interview.Persona
	Resume  string
	// FocusAreas are job requirements the resume does not obviously cover
	FocusAreas []string
}

// QuestionSet is the generated question list of one interviewer
type QuestionSet struct {
	InterviewerName string               `json:"interviewer_name"`
	Questions       []interview.Question `json:"questions"`
}

// QuestionGenerator creates the initial questions for one persona
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req Request) (QuestionSet, error)
}

// ValidationError reports an invalid generation request
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// ValidateInterviewerCount checks n against the supported persona range
func ValidateInterviewerCount(n int) error {
	if n < MinInterviewers || n > MaxInterviewers {
		return &ValidationError{
			Field:  "max_interviewers",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", MinInterviewers, MaxInterviewers, n),
		}
	}
	return nil
}

// BuildSession pairs every persona with the question set carrying its name.
// Personas without a set are skipped; nothing matched is an error.
func BuildSession(personas []interview.Persona, sets []QuestionSet) (*interview.Session, error) {
	byName := make(map[string]QuestionSet, len(sets))
	for _, set := range sets {
		if _, seen := byName[set.InterviewerName]; !seen {
			byName[set.InterviewerName] = set
		}
	}

	var sessions []*interview.InterviewerSession
	for i := range personas {
		set, ok := byName[personas[i].Name]
		if !ok {
			continue
		}
		persona := personas[i]
		sessions = append(sessions, interview.NewInterviewerSession(&persona, set.Questions))
	}
	return interview.NewSession(sessions)
}
