package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func terms(scores []TermScore) []string {
	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = s.Term
	}
	return out
}

func TestEngine_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("identical documents are fully covered", func(t *testing.T) {
		gap, err := NewEngine().Analyze(ctx, "golang", "golang")
		require.NoError(t, err)

		assert.Equal(t, 1.0, gap.Coverage)
		assert.Equal(t, []string{"golang"}, terms(gap.Matched))
		assert.Empty(t, gap.Missing)
	})

	t.Run("partial overlap", func(t *testing.T) {
		gap, err := NewEngine().Analyze(ctx, "golang python rust", "golang java typescript")
		require.NoError(t, err)

		assert.InDelta(t, 1.0/3.0, gap.Coverage, 1e-9)
		assert.Equal(t, []string{"golang"}, terms(gap.Matched))
		assert.ElementsMatch(t, []string{"java", "typescript"}, terms(gap.Missing))
		assert.NotContains(t, terms(gap.Missing), "python")
	})

	t.Run("matching ignores case", func(t *testing.T) {
		gap, err := NewEngine().Analyze(ctx, "Built services on KUBERNETES", "kubernetes")
		require.NoError(t, err)
		assert.Equal(t, []string{"kubernetes"}, terms(gap.Matched))
	})

	t.Run("repeated terms score higher", func(t *testing.T) {
		gap, err := NewEngine().Analyze(ctx, "go", "postgres postgres postgres kafka")
		require.NoError(t, err)
		require.Len(t, gap.Missing, 2)
		assert.Equal(t, "postgres", gap.Missing[0].Term)
		assert.Greater(t, gap.Missing[0].Score, gap.Missing[1].Score)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := NewEngine().Analyze(ctx, "  ", "golang")
		assert.ErrorIs(t, err, ErrEmptyDocument)

		_, err = NewEngine().Analyze(ctx, "golang", "")
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewEngine().Analyze(cctx, "golang", "golang java")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEngine_FocusAreas(t *testing.T) {
	ctx := context.Background()
	resume := "Five years building REST services in Go with PostgreSQL and Redis."
	jd := `We are looking for a backend engineer with strong experience in Go, Kubernetes and Kafka.
Experience with Kubernetes operators and Kafka streams is required. 5 years of experience preferred.`

	t.Run("returns missing topics only", func(t *testing.T) {
		areas, err := NewEngine().FocusAreas(ctx, resume, jd)
		require.NoError(t, err)

		assert.Contains(t, areas, "kubernetes")
		assert.Contains(t, areas, "kafka")
		assert.NotContains(t, areas, "go")
		assert.NotContains(t, areas, "experience")
		assert.NotContains(t, areas, "5")
	})

	t.Run("respects the cap", func(t *testing.T) {
		areas, err := NewEngine().WithMaxFocusAreas(1).FocusAreas(ctx, resume, jd)
		require.NoError(t, err)
		assert.Len(t, areas, 1)
	})
}

func TestIsTopic(t *testing.T) {
	tests := []struct {
		term string
		want bool
	}{
		{"kubernetes", true},
		{"k8s", true},
		{"2024", false},
		{"x", false},
		{"experience", false},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, isTopic(tt.term))
		})
	}
}
