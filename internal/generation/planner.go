package generation

import (
	"context"
	"log/slog"

	"github.com/kfreiman/mockinterview/internal/interview"
)

// FocusAnalyzer finds job requirements a resume leaves uncovered
type FocusAnalyzer interface {
	FocusAreas(ctx context.Context, resume, jobDescription string) ([]string, error)
}

// PlanRequest holds everything needed to set up an interview
type PlanRequest struct {
	Resume          string
	JobDescription  string
	MaxInterviewers int
	Feedback        string
}

// Plan is a ready session plus the personas it was built from
type Plan struct {
	Session    *interview.Session
	Personas   []interview.Persona
	FocusAreas []string
}

// Planner turns a resume and a job description into an interview session
type Planner struct {
	personas    PersonaGenerator
	questions   QuestionGenerator
	analyzer    FocusAnalyzer
	concurrency int
	logger      *slog.Logger
}

// NewPlanner creates a planner over the given generators
func NewPlanner(personas PersonaGenerator, questions QuestionGenerator) *Planner {
	return &Planner{
		personas:    personas,
		questions:   questions,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
}

// WithLogger sets the logger for the planner
func (p *Planner) WithLogger(logger *slog.Logger) *Planner {
	p.logger = logger
	return p
}

// WithAnalyzer sets the analyzer used to steer questions toward gaps
func (p *Planner) WithAnalyzer(analyzer FocusAnalyzer) *Planner {
	p.analyzer = analyzer
	return p
}

// WithConcurrency bounds parallel question generation
func (p *Planner) WithConcurrency(n int) *Planner {
	p.concurrency = n
	return p
}

// Personas generates at most req.Max personas for the job description
func (p *Planner) Personas(ctx context.Context, req PersonaRequest) ([]interview.Persona, error) {
	if err := ValidateInterviewerCount(req.Max); err != nil {
		return nil, err
	}
	personas, err := p.personas.GeneratePersonas(ctx, req)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to generate personas",
			"error", err,
			"operation", "generate_personas",
		)
		return nil, err
	}
	if len(personas) == 0 {
		return nil, ErrNoPersonas
	}
	if len(personas) > req.Max {
		personas = personas[:req.Max]
	}
	return personas, nil
}

// Plan generates personas and their questions and builds the session
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	personas, err := p.Personas(ctx, PersonaRequest{
		JobDescription: req.JobDescription,
		Max:            req.MaxInterviewers,
		Feedback:       req.Feedback,
	})
	if err != nil {
		return nil, err
	}
	return p.PlanWithPersonas(ctx, personas, req.Resume, req.JobDescription)
}

// PlanWithPersonas builds the session for personas that were already generated
func (p *Planner) PlanWithPersonas(ctx context.Context, personas []interview.Persona, resume, jobDescription string) (*Plan, error) {
	focus := p.focusAreas(ctx, resume, jobDescription)

	sets, err := GenerateAll(ctx, p.questions, personas, resume, focus, p.concurrency)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to generate questions",
			"error", err,
			"operation", "generate_questions",
		)
		return nil, err
	}

	session, err := BuildSession(personas, sets)
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "interview planned",
		"session_id", session.ID,
		"interviewers", session.Len(),
		"questions", session.NodeCount(),
		"focus_areas", len(focus),
	)
	return &Plan{Session: session, Personas: personas, FocusAreas: focus}, nil
}

// focusAreas degrades to no focus when analysis fails
func (p *Planner) focusAreas(ctx context.Context, resume, jobDescription string) []string {
	if p.analyzer == nil || jobDescription == "" {
		return nil
	}
	focus, err := p.analyzer.FocusAreas(ctx, resume, jobDescription)
	if err != nil {
		p.logger.WarnContext(ctx, "gap analysis failed, generating questions without focus areas",
			"error", err,
			"operation", "focus_areas",
		)
		return nil
	}
	return focus
}
