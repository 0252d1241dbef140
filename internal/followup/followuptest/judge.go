// Package followuptest provides a scripted judge for tests.
package followuptest

import (
	"context"
	"errors"
	"sync"

	"github.com/kfreiman/mockinterview/internal/followup"
)

// ScriptedJudge returns queued verdicts in order, then the fallback verdict
type ScriptedJudge struct {
	mu       sync.Mutex
	script   []Step
	Fallback followup.Verdict
	Requests []followup.Request
}

// Step is one scripted judge response
type Step struct {
	Verdict followup.Verdict
	Err     error
}

// NewScriptedJudge creates a judge that answers with steps in order
func NewScriptedJudge(steps ...Step) *ScriptedJudge {
	return &ScriptedJudge{script: steps}
}

// Evaluate is a step that resolves the node with evaluation
func Evaluate(evaluation string) Step {
	return Step{Verdict: followup.Verdict{Evaluation: evaluation}}
}

// FollowUp is a step that asks for a follow-up question
func FollowUp(question, evaluation string) Step {
	return Step{Verdict: followup.Verdict{NeedFollowUp: true, FollowUpQuestion: question, Evaluation: evaluation}}
}

// Fail is a step that makes the judge unavailable
func Fail() Step {
	return Step{Err: &followup.JudgementError{Cause: "transport", Err: errors.New("connection refused")}}
}

// Judge implements followup.Judge
func (j *ScriptedJudge) Judge(_ context.Context, req followup.Request) (followup.Verdict, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.Requests = append(j.Requests, req)
	if len(j.script) == 0 {
		return j.Fallback, nil
	}
	step := j.script[0]
	j.script = j.script[1:]
	return step.Verdict, step.Err
}

// Calls returns how many judgements were requested
func (j *ScriptedJudge) Calls() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.Requests)
}
