// Package driver runs the turn state machine of an interview session.
package driver

import (
	"context"
	"log/slog"

	"github.com/kfreiman/mockinterview/internal/followup"
	"github.com/kfreiman/mockinterview/internal/interview"
)

// DefaultMaxFollowUps is the follow-up budget used when none is configured
const DefaultMaxFollowUps = 10

// Decider is the follow-up step the driver runs after recording an answer
type Decider interface {
	Decide(ctx context.Context, session *interview.InterviewerSession, node *interview.Node, maxFollowUps int) followup.Outcome
}

// CurrentQuestion is the question the candidate should answer next
type CurrentQuestion struct {
	InterviewerIndex int    `json:"interviewer_index"`
	QuestionIndex    int    `json:"question_index"`
	InterviewerName  string `json:"interviewer_name"`
	Question         string `json:"question_text"`
	FollowUp         bool   `json:"follow_up"`
}

// Submission reports what happened to a submitted answer
type Submission struct {
	Applied bool
	Outcome followup.Outcome
}

// Driver is the only mutator of a session's nodes and indices. It holds no
// session state itself; callers pass the session into every operation.
type Driver struct {
	engine          Decider
	maxFollowUps    int
	maxConversation int
	logger          *slog.Logger
}

// New creates a driver that consults engine after every answer
func New(engine Decider) *Driver {
	return &Driver{
		engine:       engine,
		maxFollowUps: DefaultMaxFollowUps,
		logger:       slog.Default(),
	}
}

// WithLogger sets the logger for the driver
func (d *Driver) WithLogger(logger *slog.Logger) *Driver {
	d.logger = logger
	return d
}

// WithMaxFollowUps sets the follow-up budget passed to the engine
func (d *Driver) WithMaxFollowUps(n int) *Driver {
	if n < 0 {
		n = 0
	}
	d.maxFollowUps = n
	return d
}

// WithMaxConversationLength stops follow-ups for an interviewer once it has
// n questions; zero means no limit.
func (d *Driver) WithMaxConversationLength(n int) *Driver {
	d.maxConversation = n
	return d
}

// Validate checks that both indices address an existing node
func (d *Driver) Validate(s *interview.Session, interviewerIdx, questionIdx int) (*interview.InterviewerSession, *interview.Node, error) {
	is, err := s.Interviewer(interviewerIdx)
	if err != nil {
		return nil, nil, err
	}
	node, err := is.Node(questionIdx)
	if err != nil {
		return nil, nil, err
	}
	return is, node, nil
}

// SubmitAnswer records answer on the addressed node and runs the follow-up
// engine on it. Invalid indices leave the session untouched. Answers for a
// completed interviewer are ignored.
func (d *Driver) SubmitAnswer(ctx context.Context, s *interview.Session, interviewerIdx, questionIdx int, answer string) (Submission, error) {
	is, node, err := d.Validate(s, interviewerIdx, questionIdx)
	if err != nil {
		return Submission{}, err
	}
	if is.IsCompleted() {
		d.logger.DebugContext(ctx, "answer for completed interviewer ignored",
			"session_id", s.ID,
			"interviewer", is.Name(),
		)
		return Submission{}, nil
	}

	if err := node.RecordAnswer(answer); err != nil {
		return Submission{}, err
	}
	is.Start()
	if s.Status() == interview.StatusWaiting {
		s.SetStatus(interview.StatusInProgress)
	}

	outcome := followup.OutcomeBudgetExhausted
	if d.maxConversation <= 0 || is.Len() < d.maxConversation {
		outcome = d.engine.Decide(ctx, is, node, d.maxFollowUps)
	} else {
		d.logger.DebugContext(ctx, "conversation length limit reached",
			"session_id", s.ID,
			"interviewer", is.Name(),
			"nodes", is.Len(),
		)
	}

	if err := is.CheckLinks(); err != nil {
		d.logger.ErrorContext(ctx, "conversation chain check failed",
			"error", err,
			"session_id", s.ID,
			"interviewer", is.Name(),
			"operation", "submit_answer",
		)
		return Submission{}, err
	}

	d.logger.DebugContext(ctx, "answer recorded",
		"session_id", s.ID,
		"interviewer", is.Name(),
		"question_index", questionIdx,
		"outcome", outcome.String(),
		"nodes", is.Len(),
	)
	return Submission{Applied: true, Outcome: outcome}, nil
}

// Advance moves the session past the current question of interviewerIdx.
// Bounds are read after the engine ran, so a follow-up inserted by the last
// answer is asked next.
func (d *Driver) Advance(ctx context.Context, s *interview.Session, interviewerIdx int) error {
	is, err := s.Interviewer(interviewerIdx)
	if err != nil {
		return err
	}

	_, questionIdx := s.Position()
	questionIdx++
	is.AdvanceToNext()

	if questionIdx < is.Len() {
		if want, _ := is.Node(questionIdx); is.Current() != want {
			d.logger.ErrorContext(ctx, "interviewer cursor disagrees with question index",
				"session_id", s.ID,
				"interviewer", is.Name(),
				"question_index", questionIdx,
				"operation", "advance",
			)
		}
		s.SetPosition(interviewerIdx, questionIdx)
		return nil
	}

	is.Complete()
	d.moveTo(ctx, s, interviewerIdx+1)
	return nil
}

// Begin positions a fresh session on its first interviewer with questions
func (d *Driver) Begin(ctx context.Context, s *interview.Session) {
	if s.Status() != interview.StatusWaiting {
		return
	}
	interviewerIdx, _ := s.Position()
	d.moveTo(ctx, s, interviewerIdx)
}

// moveTo sets the position to the first interviewer at or after from that
// has questions, completing the empty ones on the way.
func (d *Driver) moveTo(ctx context.Context, s *interview.Session, from int) {
	next := from
	for next < s.Len() {
		candidate, _ := s.Interviewer(next)
		if candidate.Len() > 0 {
			break
		}
		candidate.Complete()
		next++
	}
	s.SetPosition(next, 0)

	if next >= s.Len() {
		s.SetStatus(interview.StatusCompleted)
		d.logger.InfoContext(ctx, "interview completed",
			"session_id", s.ID,
			"nodes", s.NodeCount(),
		)
	}
}

// Turn answers the current question and advances
func (d *Driver) Turn(ctx context.Context, s *interview.Session, answer string) (Submission, error) {
	interviewerIdx, questionIdx := s.Position()
	sub, err := d.SubmitAnswer(ctx, s, interviewerIdx, questionIdx, answer)
	if err != nil {
		return sub, err
	}
	if !sub.Applied {
		return sub, nil
	}
	return sub, d.Advance(ctx, s, interviewerIdx)
}

// CurrentQuestion returns the question at the session position, false once
// the interview is over.
func (d *Driver) CurrentQuestion(s *interview.Session) (CurrentQuestion, bool) {
	if s.IsCompleted() {
		return CurrentQuestion{}, false
	}
	interviewerIdx, questionIdx := s.Position()
	is, node, err := d.Validate(s, interviewerIdx, questionIdx)
	if err != nil {
		return CurrentQuestion{}, false
	}
	return CurrentQuestion{
		InterviewerIndex: interviewerIdx,
		QuestionIndex:    questionIdx,
		InterviewerName:  is.Name(),
		Question:         node.Question(),
		FollowUp:         node.IsFollowUp(),
	}, true
}
