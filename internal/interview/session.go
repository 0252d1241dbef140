package interview

import (
	"time"

	"github.com/google/uuid"
)

// Session is a complete interview run across all interviewers
type Session struct {
	ID        string
	CreatedAt time.Time

	interviewers       []*InterviewerSession
	currentInterviewer int
	currentQuestion    int
	status             Status
}

// NewSession creates a session over the given interviewer sessions
func NewSession(interviewers []*InterviewerSession) (*Session, error) {
	if len(interviewers) == 0 {
		return nil, ErrEmptySession
	}
	return &Session{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		interviewers: interviewers,
		status:       StatusWaiting,
	}, nil
}

// Len returns the number of interviewer sessions
func (s *Session) Len() int { return len(s.interviewers) }

// Interviewer returns the interviewer session at index i
func (s *Session) Interviewer(i int) (*InterviewerSession, error) {
	if i < 0 || i >= len(s.interviewers) {
		return nil, &IndexError{Kind: "interviewer", Index: i, Len: len(s.interviewers)}
	}
	return s.interviewers[i], nil
}

// Interviewers returns the interviewer sessions in interview order
func (s *Session) Interviewers() []*InterviewerSession {
	out := make([]*InterviewerSession, len(s.interviewers))
	copy(out, s.interviewers)
	return out
}

// Position returns the current interviewer and question indices
func (s *Session) Position() (interviewerIdx, questionIdx int) {
	return s.currentInterviewer, s.currentQuestion
}

// SetPosition moves the position; only the driver calls this
func (s *Session) SetPosition(interviewerIdx, questionIdx int) {
	s.currentInterviewer = interviewerIdx
	s.currentQuestion = questionIdx
}

// CurrentInterviewer returns the active interviewer session, nil past the end
func (s *Session) CurrentInterviewer() *InterviewerSession {
	if s.currentInterviewer < 0 || s.currentInterviewer >= len(s.interviewers) {
		return nil
	}
	return s.interviewers[s.currentInterviewer]
}

// Status returns the recorded session status
func (s *Session) Status() Status { return s.status }

// SetStatus records the session status
func (s *Session) SetStatus(status Status) { s.status = status }

// IsCompleted reports whether every interviewer session is completed. It is
// computed on each call and does not assume left-to-right completion.
func (s *Session) IsCompleted() bool {
	for _, is := range s.interviewers {
		if !is.IsCompleted() {
			return false
		}
	}
	return true
}

// CheckLinks runs the chain invariant check on every interviewer session
func (s *Session) CheckLinks() error {
	for _, is := range s.interviewers {
		if err := is.CheckLinks(); err != nil {
			return err
		}
	}
	return nil
}

// NodeCount returns the number of nodes across all interviewers
func (s *Session) NodeCount() int {
	total := 0
	for _, is := range s.interviewers {
		total += is.Len()
	}
	return total
}
