package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kfreiman/mockinterview/internal/interview"
)

// DefaultCacheSize is the number of sessions kept when none is configured
const DefaultCacheSize = 128

var (
	// ErrSessionNotFound is returned for unknown or evicted session ids
	ErrSessionNotFound = errors.New("interview session not found")
	// ErrStaleTurn is returned when an answer targets a position other than the current one
	ErrStaleTurn = errors.New("answer does not target the current question")
)

// TurnResult is the state after one submitted answer
type TurnResult struct {
	Submission
	Completed bool             `json:"completed"`
	Next      *CurrentQuestion `json:"next,omitempty"`
}

type entry struct {
	mu      sync.Mutex
	session *interview.Session
}

// Manager keeps live sessions and serializes turns on each of them
type Manager struct {
	driver   *Driver
	sessions *lru.Cache[string, *entry]
	logger   *slog.Logger
}

// NewManager creates a manager keeping at most size sessions; the least
// recently used session is dropped when full.
func NewManager(driver *Driver, size int) (*Manager, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	m := &Manager{
		driver: driver,
		logger: slog.Default(),
	}
	cache, err := lru.NewWithEvict[string, *entry](size, func(id string, _ *entry) {
		m.logger.Info("interview session evicted", "session_id", id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	m.sessions = cache
	return m, nil
}

// WithLogger sets the logger for the manager
func (m *Manager) WithLogger(logger *slog.Logger) *Manager {
	m.logger = logger
	return m
}

// Start registers the session and returns its id
func (m *Manager) Start(ctx context.Context, s *interview.Session) string {
	m.driver.Begin(ctx, s)
	m.sessions.Add(s.ID, &entry{session: s})
	m.logger.InfoContext(ctx, "interview session started",
		"session_id", s.ID,
		"interviewers", s.Len(),
		"nodes", s.NodeCount(),
	)
	return s.ID
}

func (m *Manager) lookup(id string) (*entry, error) {
	e, ok := m.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return e, nil
}

// SubmitAnswer applies one turn. Turns on the same session run one at a time
// and must address the current position.
func (m *Manager) SubmitAnswer(ctx context.Context, id string, interviewerIdx, questionIdx int, answer string) (TurnResult, error) {
	e, err := m.lookup(id)
	if err != nil {
		return TurnResult{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if _, _, err := m.driver.Validate(s, interviewerIdx, questionIdx); err != nil {
		return TurnResult{}, err
	}
	curInterviewer, curQuestion := s.Position()
	if interviewerIdx != curInterviewer || questionIdx != curQuestion {
		return TurnResult{}, fmt.Errorf("%w: got (%d, %d), current is (%d, %d)",
			ErrStaleTurn, interviewerIdx, questionIdx, curInterviewer, curQuestion)
	}

	sub, err := m.driver.SubmitAnswer(ctx, s, interviewerIdx, questionIdx, answer)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to submit answer",
			"error", err,
			"session_id", id,
			"operation", "submit_answer",
		)
		return TurnResult{}, err
	}
	if sub.Applied {
		if err := m.driver.Advance(ctx, s, interviewerIdx); err != nil {
			return TurnResult{}, err
		}
	}

	result := TurnResult{Submission: sub, Completed: s.IsCompleted()}
	if next, ok := m.driver.CurrentQuestion(s); ok {
		result.Next = &next
	}
	return result, nil
}

// CurrentQuestion returns the question to answer, false once complete
func (m *Manager) CurrentQuestion(id string) (CurrentQuestion, bool, error) {
	e, err := m.lookup(id)
	if err != nil {
		return CurrentQuestion{}, false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	q, ok := m.driver.CurrentQuestion(e.session)
	return q, ok, nil
}

// IsComplete reports whether every interviewer of the session is done
func (m *Manager) IsComplete(id string) (bool, error) {
	e, err := m.lookup(id)
	if err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.session.IsCompleted(), nil
}

// Transcript exports the session transcript in interview order
func (m *Manager) Transcript(id string) ([]interview.TranscriptEntry, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.session.Transcript(), nil
}

// View runs fn with the session locked. fn must not keep the session.
func (m *Manager) View(id string, fn func(*interview.Session) error) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	return fn(e.session)
}

// Remove drops the session, reporting whether it was present
func (m *Manager) Remove(id string) bool {
	return m.sessions.Remove(id)
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	return m.sessions.Len()
}
