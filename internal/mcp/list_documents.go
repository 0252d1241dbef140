package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/mockinterview/internal/storage"
)

// ListDocumentsTool lists stored documents by URI
type ListDocumentsTool struct {
	storageManager *storage.StorageManager
}

// NewListDocumentsTool creates a new list documents tool
func NewListDocumentsTool(storageManager *storage.StorageManager) *ListDocumentsTool {
	return &ListDocumentsTool{
		storageManager: storageManager,
	}
}

// Call implements the MCP tool interface
func (t *ListDocumentsTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Type string `json:"type"`
	}
	if err := parseArgs(request, &args); err != nil {
		return nil, err
	}

	types := storage.DocumentTypes
	if args.Type != "" {
		docType := storage.DocumentType(args.Type)
		if !docType.Valid() {
			return errorResult(&ValidationError{
				Field:  "type",
				Value:  args.Type,
				Reason: "use 'resume', 'jd', 'transcript' or leave empty for all documents",
			}), nil
		}
		types = []storage.DocumentType{docType}
	}

	docs, err := t.storageManager.ListDocuments()
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(renderDocumentList(docs, types)), nil
}

// renderDocumentList formats the URIs of the selected types as markdown
func renderDocumentList(docs map[storage.DocumentType][]string, types []storage.DocumentType) string {
	var b strings.Builder
	total := 0
	for _, docType := range types {
		ids := docs[docType]
		if len(ids) == 0 {
			continue
		}
		total += len(ids)
		fmt.Fprintf(&b, "## %s (%d)\n", docType, len(ids))
		for _, id := range ids {
			fmt.Fprintf(&b, "- %s\n", docType.URI(id))
		}
		b.WriteString("\n")
	}
	if total == 0 {
		return "No documents found in storage."
	}
	return "# Stored Documents\n\n" + b.String()
}
