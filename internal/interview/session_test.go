package interview

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterviewerSession(t *testing.T) {
	t.Run("links nodes in list order", func(t *testing.T) {
		s := NewInterviewerSession(&Persona{Name: "Lee"}, questions("q1", "q2", "q3"))

		assert.Equal(t, 3, s.Len())
		assert.Equal(t, []string{"q1", "q2", "q3"}, walk(s))
		assert.Equal(t, "q1", s.Current().Question())
		assert.Equal(t, StatusWaiting, s.Status())
	})

	t.Run("empty question list leaves cursor unset", func(t *testing.T) {
		s := NewInterviewerSession(&Persona{Name: "Lee"}, nil)

		assert.Nil(t, s.Current())
		s.AdvanceToNext()
		assert.True(t, s.IsCompleted())
	})
}

func TestInterviewerSession_AdvanceToNext(t *testing.T) {
	s := NewInterviewerSession(&Persona{Name: "Lee"}, questions("q1", "q2"))

	s.AdvanceToNext()
	assert.Equal(t, "q2", s.Current().Question())
	assert.False(t, s.IsCompleted())

	s.AdvanceToNext()
	assert.True(t, s.IsCompleted())
	assert.Equal(t, "q2", s.Current().Question())
}

func TestInterviewerSession_AddConversation(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{"append with negative index", AppendIndex, []string{"q1", "q2", "q3", "new"}},
		{"append at length", 3, []string{"q1", "q2", "q3", "new"}},
		{"append past length", 10, []string{"q1", "q2", "q3", "new"}},
		{"insert at head", 0, []string{"new", "q1", "q2", "q3"}},
		{"insert in the middle", 1, []string{"q1", "new", "q2", "q3"}},
		{"insert before tail", 2, []string{"q1", "q2", "new", "q3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewInterviewerSession(&Persona{Name: "Lee"}, questions("q1", "q2", "q3"))

			s.AddConversation(NewNode("new", "p"), tt.index)

			assert.Equal(t, tt.want, byIndex(s))
			assert.Equal(t, tt.want, walk(s))
			require.NoError(t, s.CheckLinks())
		})
	}

	t.Run("first node of an empty session becomes current", func(t *testing.T) {
		s := NewInterviewerSession(&Persona{Name: "Lee"}, nil)
		n := NewNode("only", "p")

		s.AddConversation(n, AppendIndex)

		assert.Equal(t, n, s.Current())
	})

	t.Run("moves a node out of its previous chain", func(t *testing.T) {
		other := NewInterviewerSession(&Persona{Name: "Park"}, questions("a", "b"))
		moved, _ := other.Node(0)
		s := NewInterviewerSession(&Persona{Name: "Lee"}, questions("q1"))

		s.AddConversation(moved, AppendIndex)

		assert.Equal(t, []string{"q1", "a"}, walk(s))
		assert.Equal(t, []string{"b"}, walk(other))
		require.NoError(t, s.CheckLinks())
		require.NoError(t, other.CheckLinks())
	})
}

func TestInterviewerSession_InsertionsKeepOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewInterviewerSession(&Persona{Name: "Lee"}, questions("q0", "q1", "q2", "q3", "q4"))
	original := s.Nodes()

	for i := 0; i < 50; i++ {
		pos := rng.Intn(s.Len())
		before := byIndex(s)

		if i%2 == 0 {
			parent, _ := s.Node(pos)
			s.AddConversation(NewFollowUpNode(parent, fmt.Sprintf("f%d", i), "p"), pos+1)
		} else {
			n, _ := s.Node(pos)
			n.InsertAfter(fmt.Sprintf("f%d", i), "p")
		}

		after := byIndex(s)
		// prefix up to pos unchanged, the rest shifted by one
		assert.Equal(t, before[:pos+1], after[:pos+1])
		assert.Equal(t, before[pos+1:], after[pos+2:])
		assert.Equal(t, after, walk(s))
		first, _ := s.Node(0)
		require.False(t, first.HasCycle())
		require.NoError(t, s.CheckLinks())
	}

	// originals keep their relative order
	last := -1
	for _, n := range original {
		idx := s.IndexOf(n)
		require.Greater(t, idx, last)
		last = idx
	}
}

func TestNewSession(t *testing.T) {
	t.Run("fails without interviewer sessions", func(t *testing.T) {
		s, err := NewSession(nil)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, ErrEmptySession)
	})

	t.Run("starts waiting at the first position", func(t *testing.T) {
		s, err := NewSession([]*InterviewerSession{
			NewInterviewerSession(&Persona{Name: "Lee"}, questions("q1")),
		})
		require.NoError(t, err)

		assert.NotEmpty(t, s.ID)
		assert.Equal(t, StatusWaiting, s.Status())
		i, q := s.Position()
		assert.Equal(t, 0, i)
		assert.Equal(t, 0, q)
	})
}

func TestSession_IsCompleted(t *testing.T) {
	a := NewInterviewerSession(&Persona{Name: "A"}, questions("q1"))
	b := NewInterviewerSession(&Persona{Name: "B"}, questions("q1"))
	s, err := NewSession([]*InterviewerSession{a, b})
	require.NoError(t, err)

	assert.False(t, s.IsCompleted())

	// out of order completion
	b.Complete()
	assert.False(t, s.IsCompleted())

	a.Complete()
	assert.True(t, s.IsCompleted())
}

func TestSession_Interviewer(t *testing.T) {
	s, err := NewSession([]*InterviewerSession{
		NewInterviewerSession(&Persona{Name: "A"}, questions("q1")),
	})
	require.NoError(t, err)

	_, err = s.Interviewer(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	var idxErr *IndexError
	require.ErrorAs(t, err, &idxErr)
	assert.Equal(t, "interviewer", idxErr.Kind)
	assert.Equal(t, 1, idxErr.Len)
}

func TestSession_Transcript(t *testing.T) {
	a := NewInterviewerSession(&Persona{Name: "A"}, questions("q1", "q2"))
	b := NewInterviewerSession(&Persona{Name: "B"}, questions("q3"))
	s, err := NewSession([]*InterviewerSession{a, b})
	require.NoError(t, err)

	n, _ := a.Node(0)
	require.NoError(t, n.RecordAnswer("  verbatim answer\n"))
	n.SetEvaluation("good")
	a.AddConversation(NewFollowUpNode(n, "why?", "needs depth"), 1)

	entries := s.Transcript()

	require.Len(t, entries, 4)
	assert.Equal(t, TranscriptEntry{Interviewer: "A", Question: "q1", Answer: "  verbatim answer\n", Answered: true, Purpose: "good"}, entries[0])
	assert.Equal(t, TranscriptEntry{Interviewer: "A", Question: "why?", Purpose: "needs depth", FollowUp: true}, entries[1])
	assert.Equal(t, "q2", entries[2].Question)
	assert.Equal(t, "B", entries[3].Interviewer)
	assert.Equal(t, 1, entries[3].InterviewerIndex)
}
