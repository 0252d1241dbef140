package interview

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is matched by every *IndexError
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrEmptySession is returned when no interviewer session could be built
	ErrEmptySession = errors.New("no interviewer session could be built")
	// ErrCycleDetected is matched by every *CycleError
	ErrCycleDetected = errors.New("conversation chain is corrupted")
	// ErrAnswerRecorded is returned when a node already holds an answer
	ErrAnswerRecorded = errors.New("answer already recorded")
)

// IndexError reports an interviewer or question index outside the session bounds
type IndexError struct {
	Kind  string // "interviewer" or "question"
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Kind, e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// CycleError reports a broken node chain inside one interviewer session
type CycleError struct {
	Interviewer string
	Position    int
	Reason      string
}

func (e *CycleError) Error() string {
	msg := "conversation chain corrupted"
	if e.Interviewer != "" {
		msg += fmt.Sprintf(" for %s", e.Interviewer)
	}
	if e.Position >= 0 {
		msg += fmt.Sprintf(" at position %d", e.Position)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCycleDetected
}
