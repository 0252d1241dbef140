package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/mockinterview/internal/app"
	"github.com/kfreiman/mockinterview/internal/driver"
	"github.com/kfreiman/mockinterview/internal/evaluation"
)

// ExportTranscriptTool renders the transcript of a session
type ExportTranscriptTool struct {
	sessions *driver.Manager
}

// NewExportTranscriptTool creates a new export transcript tool
func NewExportTranscriptTool(sessions *driver.Manager) *ExportTranscriptTool {
	return &ExportTranscriptTool{sessions: sessions}
}

// Call implements the MCP tool interface
func (t *ExportTranscriptTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
		Format    string `json:"format"`
	}
	if err := parseArgs(request, &args); err != nil {
		return nil, err
	}
	if err := required("session_id", args.SessionID); err != nil {
		return errorResult(err), nil
	}

	entries, err := t.sessions.Transcript(args.SessionID)
	if err != nil {
		return errorResult(err), nil
	}
	text, err := evaluation.Render(entries, evaluation.Format(args.Format))
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(text), nil
}

// EvaluateInterviewTool produces the final assessment of a finished session
type EvaluateInterviewTool struct {
	app    *app.App
	logger *slog.Logger
}

// NewEvaluateInterviewTool creates a new evaluate interview tool
func NewEvaluateInterviewTool(a *app.App) *EvaluateInterviewTool {
	return &EvaluateInterviewTool{app: a, logger: slog.Default()}
}

// WithLogger sets the logger for the tool
func (t *EvaluateInterviewTool) WithLogger(logger *slog.Logger) *EvaluateInterviewTool {
	t.logger = logger
	return t
}

// Call implements the MCP tool interface
func (t *EvaluateInterviewTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
	}
	if err := parseArgs(request, &args); err != nil {
		return nil, err
	}
	if err := required("session_id", args.SessionID); err != nil {
		return errorResult(err), nil
	}

	report, err := t.app.Evaluate(ctx, args.SessionID)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to evaluate interview",
			"error", err,
			"session_id", args.SessionID,
			"operation", "evaluate_interview",
		)
		return errorResult(err), nil
	}

	text := report.Document()
	if report.URI != "" {
		text += "\nTranscript stored as " + report.URI + "\n"
	}
	return textResult(text), nil
}
