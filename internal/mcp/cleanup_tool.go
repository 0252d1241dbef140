package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/mockinterview/internal/storage"
)

// CleanupStorageTool handles storage cleanup
type CleanupStorageTool struct {
	storageManager *storage.StorageManager
	logger         *slog.Logger
}

// NewCleanupStorageTool creates a new cleanup storage tool
func NewCleanupStorageTool(storageManager *storage.StorageManager) *CleanupStorageTool {
	return &CleanupStorageTool{
		storageManager: storageManager,
		logger:         slog.Default(),
	}
}

// WithLogger sets the logger for the tool
func (t *CleanupStorageTool) WithLogger(logger *slog.Logger) *CleanupStorageTool {
	t.logger = logger
	return t
}

// ParseTTL accepts a Go duration ("36h"), days ("7d") or whole hours ("24")
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if ttl, err := time.ParseDuration(s); err == nil {
		return ttl, nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n >= 0 {
			return time.Duration(n) * 24 * time.Hour, nil
		}
	}
	if hours, err := strconv.Atoi(s); err == nil && hours >= 0 {
		return time.Duration(hours) * time.Hour, nil
	}
	return 0, &ValidationError{
		Field:  "ttl",
		Value:  s,
		Reason: "use a duration string (e.g. '24h'), days (e.g. '7d') or hours as a number",
	}
}

// Call implements the MCP tool interface
func (t *CleanupStorageTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		TTL string `json:"ttl"`
	}
	if err := parseArgs(request, &args); err != nil {
		return nil, err
	}

	ttl, err := ParseTTL(args.TTL)
	if err != nil {
		t.logger.ErrorContext(ctx, "invalid TTL format",
			"error", err,
			"ttl_input", args.TTL,
			"operation", "cleanup_storage",
		)
		return errorResult(err), nil
	}

	removed, err := t.storageManager.Cleanup(ttl)
	if err != nil {
		t.logger.ErrorContext(ctx, "cleanup operation failed",
			"error", err,
			"ttl", ttl,
			"operation", "cleanup_storage",
		)
		return errorResult(err), nil
	}

	docs, err := t.storageManager.ListDocuments()
	if err != nil {
		return errorResult(err), nil
	}

	ttlDisplay := "default"
	if ttl > 0 {
		ttlDisplay = ttl.String()
	}

	t.logger.InfoContext(ctx, "storage cleanup completed via tool",
		"ttl", ttlDisplay,
		"removed", removed,
	)

	var b strings.Builder
	b.WriteString("Storage cleanup completed!\n\n")
	fmt.Fprintf(&b, "TTL used: %s\nFiles removed: %d\n\nRemaining documents:\n", ttlDisplay, removed)
	for _, docType := range storage.DocumentTypes {
		fmt.Fprintf(&b, "- %s: %d\n", docType, len(docs[docType]))
	}
	return textResult(b.String()), nil
}
