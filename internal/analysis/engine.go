package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	index "github.com/blevesearch/bleve_index_api"
)

const (
	// DefaultMaxFocusAreas caps the gap terms handed to question generation
	DefaultMaxFocusAreas = 8

	bodyField = "body"
	resumeID  = "resume"
	jdID      = "jd"
)

// ErrEmptyDocument is returned when the resume or job description has no text
var ErrEmptyDocument = errors.New("both resume and job description must not be empty")

// genericTerms are frequent in postings but never make a useful question topic
var genericTerms = map[string]bool{
	"experience": true, "years": true, "year": true, "team": true, "teams": true,
	"work": true, "working": true, "role": true, "company": true, "candidate": true,
	"ability": true, "strong": true, "skills": true, "knowledge": true, "including": true,
	"plus": true, "good": true, "understanding": true, "responsibilities": true,
	"requirements": true, "preferred": true, "required": true, "looking": true,
	"join": true, "help": true, "across": true, "new": true, "etc": true,
}

// TermScore represents a term with its BM25 score in the job description
type TermScore struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// Gap compares the vocabulary of a resume against a job description
type Gap struct {
	Coverage float64     `json:"coverage"`
	Matched  []TermScore `json:"matched"`
	Missing  []TermScore `json:"missing"`
}

// Engine ranks job description terms the resume does not mention, using
// bleve BM25 scores over a throwaway in-memory index.
type Engine struct {
	indexMapping mapping.IndexMapping
	maxFocus     int
	logger       *slog.Logger
}

// NewEngine creates an engine indexing a single text field with the
// standard analyzer
func NewEngine() *Engine {
	field := bleve.NewTextFieldMapping()
	field.Analyzer = standard.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(bodyField, field)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	im.DefaultAnalyzer = standard.Name

	return &Engine{
		indexMapping: im,
		maxFocus:     DefaultMaxFocusAreas,
		logger:       slog.Default(),
	}
}

// WithLogger sets the logger
func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	e.logger = logger
	return e
}

// WithMaxFocusAreas caps the number of focus areas returned
func (e *Engine) WithMaxFocusAreas(n int) *Engine {
	if n > 0 {
		e.maxFocus = n
	}
	return e
}

// Analyze indexes both documents and splits the job description terms
// into matched and missing, each sorted by descending score.
func (e *Engine) Analyze(ctx context.Context, resume, jobDescription string) (*Gap, error) {
	if strings.TrimSpace(resume) == "" || strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyDocument
	}

	idx, err := bleve.NewMemOnly(e.indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis index: %w", err)
	}
	defer idx.Close()

	if err := idx.Index(resumeID, map[string]interface{}{bodyField: resume}); err != nil {
		return nil, fmt.Errorf("failed to index resume: %w", err)
	}
	if err := idx.Index(jdID, map[string]interface{}{bodyField: jobDescription}); err != nil {
		return nil, fmt.Errorf("failed to index job description: %w", err)
	}

	dict, err := idx.FieldDict(bodyField)
	if err != nil {
		return nil, fmt.Errorf("failed to read term dictionary: %w", err)
	}
	terms, err := collectTerms(dict)
	if err != nil {
		return nil, fmt.Errorf("failed to read term dictionary: %w", err)
	}

	gap := &Gap{}
	for _, term := range terms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inResume, jdScore, err := e.scoreTerm(idx, term)
		if err != nil {
			return nil, err
		}
		if jdScore == 0 {
			continue
		}
		ts := TermScore{Term: term, Score: jdScore}
		if inResume {
			gap.Matched = append(gap.Matched, ts)
		} else {
			gap.Missing = append(gap.Missing, ts)
		}
	}

	if total := len(gap.Matched) + len(gap.Missing); total > 0 {
		gap.Coverage = float64(len(gap.Matched)) / float64(total)
	}
	sortScores(gap.Matched)
	sortScores(gap.Missing)

	e.logger.DebugContext(ctx, "gap analysis complete",
		"coverage", gap.Coverage,
		"matched", len(gap.Matched),
		"missing", len(gap.Missing),
	)
	return gap, nil
}

// FocusAreas returns the highest scoring job description terms the resume
// lacks. It satisfies generation.FocusAnalyzer.
func (e *Engine) FocusAreas(ctx context.Context, resume, jobDescription string) ([]string, error) {
	gap, err := e.Analyze(ctx, resume, jobDescription)
	if err != nil {
		return nil, err
	}

	areas := make([]string, 0, e.maxFocus)
	for _, ts := range gap.Missing {
		if len(areas) == e.maxFocus {
			break
		}
		if isTopic(ts.Term) {
			areas = append(areas, ts.Term)
		}
	}
	return areas, nil
}

// scoreTerm reports whether the resume contains term and the job
// description's BM25 score for it
func (e *Engine) scoreTerm(idx bleve.Index, term string) (bool, float64, error) {
	q := bleve.NewTermQuery(term)
	q.SetField(bodyField)
	req := bleve.NewSearchRequestOptions(q, 2, 0, false)

	res, err := idx.Search(req)
	if err != nil {
		return false, 0, fmt.Errorf("failed to score term %q: %w", term, err)
	}

	var inResume bool
	var jdScore float64
	for _, hit := range res.Hits {
		switch hit.ID {
		case resumeID:
			inResume = true
		case jdID:
			jdScore = hit.Score
		}
	}
	return inResume, jdScore, nil
}

func collectTerms(dict index.FieldDict) ([]string, error) {
	defer dict.Close()

	var terms []string
	for {
		entry, err := dict.Next()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return terms, nil
		}
		terms = append(terms, entry.Term)
	}
}

// isTopic drops short, numeric and generic terms
func isTopic(term string) bool {
	if len(term) < 2 || genericTerms[term] {
		return false
	}
	for _, r := range term {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func sortScores(scores []TermScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Term < scores[j].Term
	})
}
