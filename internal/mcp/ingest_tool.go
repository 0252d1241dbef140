package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/mockinterview/internal/ingest"
)

// IngestDocumentTool stores a resume or job description
type IngestDocumentTool struct {
	ingestor ingest.Ingestor
	logger   *slog.Logger
}

// NewIngestDocumentTool creates a new ingest document tool
func NewIngestDocumentTool(ingestor ingest.Ingestor) *IngestDocumentTool {
	return &IngestDocumentTool{
		ingestor: ingestor,
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger for the tool
func (t *IngestDocumentTool) WithLogger(logger *slog.Logger) *IngestDocumentTool {
	t.logger = logger
	return t
}

// Call implements the MCP tool interface
func (t *IngestDocumentTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Path string `json:"path"`
		Type string `json:"type"`
	}
	if err := parseArgs(request, &args); err != nil {
		return nil, err
	}
	if err := required("path", args.Path); err != nil {
		return errorResult(err), nil
	}
	if args.Type == "" {
		args.Type = "resume"
	}

	result, err := t.ingestor.Ingest(ctx, args.Path, args.Type)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to ingest document",
			"error", err,
			"type", args.Type,
			"operation", "ingest_document",
		)
		return errorResult(err), nil
	}

	var b strings.Builder
	b.WriteString("Document ingested successfully!\n\n")
	fmt.Fprintf(&b, "URI: %s\nType: %s\nLength: %d\nRedacted: %t\n", result.URI, result.Type, result.Length, result.Redacted)
	if result.Degraded != nil {
		fmt.Fprintf(&b, "\nNote: %v. The document was stored without conversion.\n", result.Degraded)
	}
	b.WriteString("\nPass this URI to start_interview or generate_personas.")
	return textResult(b.String()), nil
}
