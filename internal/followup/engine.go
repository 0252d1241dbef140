package followup

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kfreiman/mockinterview/internal/interview"
)

// DefaultTimeout bounds a single judgement call
const DefaultTimeout = 60 * time.Second

// Outcome tells the caller what Decide did to the node
type Outcome int

const (
	// OutcomeBudgetExhausted means no judgement was requested
	OutcomeBudgetExhausted Outcome = iota
	// OutcomeEvaluated means the node received its final evaluation
	OutcomeEvaluated
	// OutcomeFollowUp means a follow-up node was inserted after the node
	OutcomeFollowUp
	// OutcomeDegraded means the judge failed and the node was left unresolved
	OutcomeDegraded
	// OutcomeRejected means the node does not belong to the interviewer session
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBudgetExhausted:
		return "budget_exhausted"
	case OutcomeEvaluated:
		return "evaluated"
	case OutcomeFollowUp:
		return "follow_up"
	case OutcomeDegraded:
		return "degraded"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Budget selects which node's counter limits follow-ups
type Budget int

const (
	// BudgetPerQuestion counts follow-ups against the generated question a
	// follow-up descends from, so a chain of follow-ups shares one budget.
	BudgetPerQuestion Budget = iota
	// BudgetPerNode gives every node, follow-ups included, its own counter.
	BudgetPerNode
)

// Engine inserts follow-up questions based on judged answer quality
type Engine struct {
	judge    Judge
	timeout  time.Duration
	budget   Budget
	language string
	logger   *slog.Logger
}

// NewEngine creates an engine backed by judge
func NewEngine(judge Judge) *Engine {
	return &Engine{
		judge:   judge,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
}

// WithLogger sets the logger for the engine
func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	e.logger = logger
	return e
}

// WithTimeout sets the per-call judgement timeout; zero disables it
func (e *Engine) WithTimeout(timeout time.Duration) *Engine {
	e.timeout = timeout
	return e
}

// WithLanguage sets the language the judge writes follow-ups and
// evaluations in
func (e *Engine) WithLanguage(language string) *Engine {
	e.language = language
	return e
}

// WithBudget sets how follow-ups are counted
func (e *Engine) WithBudget(budget Budget) *Engine {
	e.budget = budget
	return e
}

func (e *Engine) counter(node *interview.Node) *interview.Node {
	if e.budget == BudgetPerNode {
		return node
	}
	return node.Origin()
}

// Decide judges the answer recorded on node and either stores the evaluation
// or inserts a follow-up right after it. Judge failures never escape: the
// node is left unresolved so the interview can go on.
func (e *Engine) Decide(ctx context.Context, session *interview.InterviewerSession, node *interview.Node, maxFollowUps int) Outcome {
	counter := e.counter(node)
	if counter.FollowUpCount() >= maxFollowUps {
		e.logger.DebugContext(ctx, "follow-up budget exhausted",
			"interviewer", session.Name(),
			"follow_up_count", counter.FollowUpCount(),
			"max_follow_ups", maxFollowUps,
		)
		return OutcomeBudgetExhausted
	}

	position := session.IndexOf(node)
	if position < 0 {
		e.logger.ErrorContext(ctx, "node does not belong to interviewer session",
			"interviewer", session.Name(),
			"operation", "decide",
		)
		return OutcomeRejected
	}

	answer, _ := node.Answer()
	req := Request{
		SystemPrompt: BuildPrompt(session.Interviewer(), node.Question(), answer, e.language),
		Directive:    Directive,
	}

	verdict, err := e.callJudge(ctx, req)
	if err != nil {
		e.logger.WarnContext(ctx, "judgement unavailable, continuing without evaluation",
			"error", err,
			"interviewer", session.Name(),
			"position", position,
			"operation", "decide",
		)
		return OutcomeDegraded
	}

	if !verdict.NeedFollowUp {
		node.SetEvaluation(verdict.Evaluation)
		return OutcomeEvaluated
	}

	followUp := interview.NewFollowUpNode(node, verdict.FollowUpQuestion, verdict.Evaluation)
	session.AddConversation(followUp, position+1)
	counter.RecordFollowUp()

	e.logger.InfoContext(ctx, "follow-up question inserted",
		"interviewer", session.Name(),
		"position", position+1,
		"follow_up_count", counter.FollowUpCount(),
	)
	return OutcomeFollowUp
}

func (e *Engine) callJudge(ctx context.Context, req Request) (Verdict, error) {
	if e.judge == nil {
		return Verdict{}, &JudgementError{Cause: "transport", Err: errors.New("no judge configured")}
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	verdict, err := e.judge.Judge(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Verdict{}, &JudgementError{Cause: "timeout", Err: err}
		}
		return Verdict{}, err
	}
	if verdict.NeedFollowUp && verdict.FollowUpQuestion == "" {
		return Verdict{}, &JudgementError{Cause: "parse", Err: errors.New("follow-up requested without a question")}
	}
	if !verdict.NeedFollowUp && strings.TrimSpace(verdict.Evaluation) == "" {
		return Verdict{}, &JudgementError{Cause: "parse", Err: errors.New("answer resolved without an evaluation")}
	}
	return verdict, nil
}
