package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/mockinterview/internal/storage"
)

// documentsURI lists every stored document
const documentsURI = "storage://documents"

// StorageResourceHandler serves resume://, jd:// and transcript:// resources
type StorageResourceHandler struct {
	storageManager *storage.StorageManager
	logger         *slog.Logger
}

// NewStorageResourceHandler creates a new storage resource handler
func NewStorageResourceHandler(storageManager *storage.StorageManager) *StorageResourceHandler {
	return &StorageResourceHandler{
		storageManager: storageManager,
		logger:         slog.Default(),
	}
}

// WithLogger sets the logger for the handler
func (h *StorageResourceHandler) WithLogger(logger *slog.Logger) *StorageResourceHandler {
	h.logger = logger
	return h
}

// ReadResource returns a stored document without its frontmatter
func (h *StorageResourceHandler) ReadResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI

	if uri == documentsURI {
		docs, err := h.storageManager.ListDocuments()
		if err != nil {
			return nil, err
		}
		return markdownResource(uri, renderDocumentList(docs, storage.DocumentTypes)), nil
	}

	if _, _, err := storage.ParseURI(uri); err != nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	content, err := h.storageManager.ReadContent(uri)
	if err != nil {
		h.logger.DebugContext(ctx, "resource not found",
			"error", err,
			"uri", uri,
		)
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return markdownResource(uri, content), nil
}

func markdownResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     text,
		}},
	}
}
