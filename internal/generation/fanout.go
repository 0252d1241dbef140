package generation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kfreiman/mockinterview/internal/interview"
)

// DefaultConcurrency bounds parallel question generation calls
const DefaultConcurrency = 4

// GenerateAll asks gen for the questions of every persona concurrently and
// returns the sets in persona order. The first failure cancels the rest.
func GenerateAll(ctx context.Context, gen QuestionGenerator, personas []interview.Persona, resume string, focusAreas []string, limit int) ([]QuestionSet, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	sets := make([]QuestionSet, len(personas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, persona := range personas {
		g.Go(func() error {
			set, err := gen.GenerateQuestions(gctx, Request{
				Persona:    persona,
				Resume:     resume,
				FocusAreas: focusAreas,
			})
			if err != nil {
				return fmt.Errorf("failed to generate questions for %s: %w", persona.Name, err)
			}
			sets[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}
