package followup

import (
	"context"
	"errors"
	"fmt"
)

// ErrJudgementUnavailable is matched by every *JudgementError
var ErrJudgementUnavailable = errors.New("judgement unavailable")

// Request is what the judgement capability receives
type Request struct {
	SystemPrompt string
	Directive    string
}

// Verdict is the structured judgement of one answer
type Verdict struct {
	NeedFollowUp     bool   `json:"need_followup"`
	FollowUpQuestion string `json:"followup_question"`
	Evaluation       string `json:"evaluation"`
}

// Judge decides whether an answer warrants a follow-up question
type Judge interface {
	Judge(ctx context.Context, req Request) (Verdict, error)
}

// JudgeFunc adapts a function to the Judge interface
type JudgeFunc func(ctx context.Context, req Request) (Verdict, error)

// Judge calls f
func (f JudgeFunc) Judge(ctx context.Context, req Request) (Verdict, error) {
	return f(ctx, req)
}

// JudgementError reports a transport, timeout or parse failure of the judge
type JudgementError struct {
	Cause string // "transport", "timeout", "parse"
	Err   error
}

func (e *JudgementError) Error() string {
	msg := "judgement unavailable"
	if e.Cause != "" {
		msg += fmt.Sprintf(" (%s)", e.Cause)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *JudgementError) Unwrap() error {
	return e.Err
}

func (e *JudgementError) Is(target error) bool {
	return target == ErrJudgementUnavailable
}
