package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/mockinterview/internal/analysis"
	"github.com/kfreiman/mockinterview/internal/app"
)

// maxListedTerms caps the terms shown per list
const maxListedTerms = 15

// AnalyzeGapTool compares a resume against a job description with BM25 scores
type AnalyzeGapTool struct {
	app    *app.App
	logger *slog.Logger
}

// NewAnalyzeGapTool creates a new analyze gap tool
func NewAnalyzeGapTool(a *app.App) *AnalyzeGapTool {
	return &AnalyzeGapTool{app: a, logger: slog.Default()}
}

// WithLogger sets the logger for the tool
func (t *AnalyzeGapTool) WithLogger(logger *slog.Logger) *AnalyzeGapTool {
	t.logger = logger
	return t
}

// Call implements the MCP tool interface
func (t *AnalyzeGapTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		ResumeURI string `json:"resume_uri"`
		JDURI     string `json:"jd_uri"`
	}
	if err := parseArgs(request, &args); err != nil {
		return nil, err
	}
	if err := required("resume_uri", args.ResumeURI); err != nil {
		return errorResult(err), nil
	}
	if err := required("jd_uri", args.JDURI); err != nil {
		return errorResult(err), nil
	}

	gap, err := t.app.Gap(ctx, args.ResumeURI, args.JDURI)
	if err != nil {
		t.logger.ErrorContext(ctx, "gap analysis failed",
			"error", err,
			"resume_uri", args.ResumeURI,
			"jd_uri", args.JDURI,
			"operation", "analyze_gap",
		)
		return errorResult(err), nil
	}
	return textResult(renderGap(gap)), nil
}

func renderGap(gap *analysis.Gap) string {
	var b strings.Builder
	b.WriteString("# Resume / Job Description Gap\n\n")
	fmt.Fprintf(&b, "Coverage: %.0f%% of job description terms appear in the resume\n\n", gap.Coverage*100)
	writeTerms(&b, "Missing from the resume", gap.Missing)
	writeTerms(&b, "Covered by the resume", gap.Matched)
	return b.String()
}

func writeTerms(b *strings.Builder, title string, terms []analysis.TermScore) {
	fmt.Fprintf(b, "## %s (%d)\n", title, len(terms))
	for i, ts := range terms {
		if i == maxListedTerms {
			fmt.Fprintf(b, "- ... and %d more\n", len(terms)-maxListedTerms)
			break
		}
		fmt.Fprintf(b, "- %s (%.2f)\n", ts.Term, ts.Score)
	}
	b.WriteString("\n")
}
