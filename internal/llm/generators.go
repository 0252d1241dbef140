package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kfreiman/mockinterview/internal/followup"
	"github.com/kfreiman/mockinterview/internal/generation"
	"github.com/kfreiman/mockinterview/internal/interview"
)

type verdictResponse struct {
	NeedFollowUp     *bool  `json:"need_followup"`
	FollowUpQuestion string `json:"followup_question"`
	Evaluation       string `json:"evaluation"`
}

// Judge implements followup.Judge. Every failure is a *followup.JudgementError.
func (c *Client) Judge(ctx context.Context, req followup.Request) (followup.Verdict, error) {
	var resp verdictResponse
	err := c.completeJSON(ctx, completion{
		model:  c.model,
		system: req.SystemPrompt,
		user:   req.Directive,
	}, &resp)
	if err != nil {
		cause := "transport"
		var parseErr *ParseError
		switch {
		case errors.As(err, &parseErr):
			cause = "parse"
		case errors.Is(err, context.DeadlineExceeded):
			cause = "timeout"
		}
		return followup.Verdict{}, &followup.JudgementError{Cause: cause, Err: err}
	}
	if resp.NeedFollowUp == nil {
		return followup.Verdict{}, &followup.JudgementError{
			Cause: "parse",
			Err:   errors.New("response has no need_followup field"),
		}
	}
	return followup.Verdict{
		NeedFollowUp:     *resp.NeedFollowUp,
		FollowUpQuestion: strings.TrimSpace(resp.FollowUpQuestion),
		Evaluation:       strings.TrimSpace(resp.Evaluation),
	}, nil
}

type personasResponse struct {
	Interviewers []interview.Persona `json:"interviewers"`
}

// GeneratePersonas implements generation.PersonaGenerator
func (c *Client) GeneratePersonas(ctx context.Context, req generation.PersonaRequest) ([]interview.Persona, error) {
	var resp personasResponse
	err := c.completeJSON(ctx, completion{
		model:  c.model,
		system: BuildPersonaPrompt(req.JobDescription, req.Feedback, req.Max, c.language),
		user:   personaDirective,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to generate personas: %w", err)
	}

	personas := make([]interview.Persona, 0, len(resp.Interviewers))
	for _, p := range resp.Interviewers {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		personas = append(personas, p)
	}
	return personas, nil
}

type questionsResponse struct {
	Questions []interview.Question `json:"questions"`
}

// GenerateQuestions implements generation.QuestionGenerator. The set is
// always named after the requesting persona.
func (c *Client) GenerateQuestions(ctx context.Context, req generation.Request) (generation.QuestionSet, error) {
	var resp questionsResponse
	err := c.completeJSON(ctx, completion{
		model:  c.model,
		system: BuildQuestionPrompt(req.Persona, req.Resume, req.FocusAreas, c.language),
		user:   questionDirective,
	}, &resp)
	if err != nil {
		return generation.QuestionSet{}, fmt.Errorf("failed to generate questions: %w", err)
	}

	questions := make([]interview.Question, 0, len(resp.Questions))
	for _, q := range resp.Questions {
		if strings.TrimSpace(q.Text) == "" {
			continue
		}
		questions = append(questions, q)
	}
	return generation.QuestionSet{
		InterviewerName: req.Persona.Name,
		Questions:       questions,
	}, nil
}

// Evaluate implements evaluation.Evaluator using the evaluation model
func (c *Client) Evaluate(ctx context.Context, transcript string) (string, error) {
	out, err := c.complete(ctx, completion{
		model:  c.evaluationModel,
		system: BuildEvaluatePrompt(c.language),
		user:   transcript,
	})
	if err != nil {
		return "", fmt.Errorf("failed to evaluate transcript: %w", err)
	}
	return out, nil
}
