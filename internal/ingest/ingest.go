package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kfreiman/mockinterview/internal/converter"
	"github.com/kfreiman/mockinterview/internal/retry"
	"github.com/kfreiman/mockinterview/internal/storage"
)

// Ingestor defines the interface for document ingestion
type Ingestor interface {
	// Ingest stores the text of input (raw text, file path or URL) and
	// returns its URI, e.g. "resume://<id>" or "jd://<id>"
	Ingest(ctx context.Context, input string, docType string) (*Result, error)
}

// Store persists ingested documents
type Store interface {
	SaveDocument(docType storage.DocumentType, content []byte, originalFilename string) (string, error)
}

// Result describes an ingested document
type Result struct {
	URI      string               `json:"uri"`
	Type     storage.DocumentType `json:"type"`
	Length   int                  `json:"length"`
	Redacted bool                 `json:"redacted"`
	Degraded *DegradedError       `json:"-"`
}

// DocumentIngestor converts, redacts and stores resumes and job descriptions
type DocumentIngestor struct {
	store     Store
	converter converter.DocumentConverter
	redact    func([]byte) []byte
	retry     retry.Config
	logger    *slog.Logger
}

// NewIngestor creates a new document ingestor. A nil converter stores
// raw text and reads local files as is.
func NewIngestor(store Store, documentConverter converter.DocumentConverter) *DocumentIngestor {
	cfg := retry.Exponential(3, 500*time.Millisecond)
	cfg.Retryable = IsRetryable
	return &DocumentIngestor{
		store:     store,
		converter: documentConverter,
		retry:     cfg,
		logger:    slog.Default(),
	}
}

// WithLogger sets a custom logger for the ingestor
func (i *DocumentIngestor) WithLogger(logger *slog.Logger) *DocumentIngestor {
	i.logger = logger
	return i
}

// WithRedaction applies redact to resumes before they are stored
func (i *DocumentIngestor) WithRedaction(redact func([]byte) []byte) *DocumentIngestor {
	i.redact = redact
	return i
}

// WithRetry replaces the retry policy for conversion and storage
func (i *DocumentIngestor) WithRetry(cfg retry.Config) *DocumentIngestor {
	if cfg.Retryable == nil {
		cfg.Retryable = IsRetryable
	}
	i.retry = cfg
	return i
}

// ParseDocumentType maps a user supplied type to a storage type; "cv" is
// accepted for resumes
func ParseDocumentType(docType string) (storage.DocumentType, error) {
	switch strings.ToLower(strings.TrimSpace(docType)) {
	case "resume", "cv":
		return storage.DocumentTypeResume, nil
	case "jd", "job", "job_description":
		return storage.DocumentTypeJD, nil
	}
	return "", &ValidationError{
		Field:  "type",
		Value:  docType,
		Reason: "must be 'resume' or 'jd'",
	}
}

// Ingest implements the Ingestor interface
func (i *DocumentIngestor) Ingest(ctx context.Context, input string, docType string) (*Result, error) {
	storageType, err := ParseDocumentType(docType)
	if err != nil {
		return nil, err
	}

	if err := validatePath(input); err != nil {
		return nil, err
	}

	content, degraded, err := i.content(ctx, input)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, &ValidationError{Field: "input", Reason: "document has no text"}
	}

	data := []byte(content)
	redacted := false
	if storageType == storage.DocumentTypeResume && i.redact != nil {
		data = i.redact(data)
		redacted = true
	}

	filename := extractFilename(input)
	if filename == "" {
		filename = "document.md"
	}

	var uri string
	err = retry.Do(ctx, i.retry, func(attempt int) error {
		var saveErr error
		uri, saveErr = i.store.SaveDocument(storageType, data, filename)
		if saveErr != nil {
			i.logger.WarnContext(ctx, "failed to save document",
				"error", saveErr,
				"attempt", attempt,
				"operation", "ingest",
			)
		}
		return saveErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", storageType, err)
	}

	i.logger.InfoContext(ctx, "document ingested",
		"uri", uri,
		"type", storageType,
		"length", len(data),
		"redacted", redacted,
		"degraded", degraded != nil,
	)
	return &Result{
		URI:      uri,
		Type:     storageType,
		Length:   len(data),
		Redacted: redacted,
		Degraded: degraded,
	}, nil
}

// content converts input to text. When conversion of a local file fails
// and the file is valid UTF-8 it is stored as is.
func (i *DocumentIngestor) content(ctx context.Context, input string) (string, *DegradedError, error) {
	info := converter.ParseInput(input)

	if i.converter == nil || !i.converter.Supports(input) {
		switch info.Type {
		case converter.InputTypeText:
			return input, nil, nil
		case converter.InputTypeURL:
			return "", nil, &ConversionError{Input: input, Hint: "no converter supports this input"}
		}
		text, err := readText(info.Path)
		if err != nil {
			return "", nil, &ConversionError{
				Input: input,
				Err:   err,
				Hint:  "no converter available and direct read failed",
			}
		}
		return text, nil, nil
	}

	var text string
	err := retry.Do(ctx, i.retry, func(attempt int) error {
		var convErr error
		text, convErr = i.converter.Convert(ctx, input)
		return convErr
	})
	if err == nil {
		return text, nil, nil
	}

	if info.Type == converter.InputTypeFile {
		if fallback, readErr := readText(info.Path); readErr == nil {
			degraded := &DegradedError{Component: "converter", Err: err, Fallback: "read as text"}
			i.logger.WarnContext(ctx, "conversion failed, stored raw file",
				"error", err,
				"path", info.Path,
				"operation", "ingest",
			)
			return fallback, degraded, nil
		}
	}

	i.logger.ErrorContext(ctx, "document conversion failed",
		"error", err,
		"operation", "ingest",
	)
	return "", nil, &ConversionError{Input: input, Err: err}
}

func readText(path string) (string, error) {
	// #nosec G304 - path has been validated for traversal and null bytes
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.New("file is not valid UTF-8 text")
	}
	return string(data), nil
}

// IsRetryable reports whether a conversion or storage failure may succeed
// on another attempt
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var secErr *SecurityError
	var valErr *ValidationError
	if errors.As(err, &secErr) || errors.As(err, &valErr) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return retry.IsRetryable(err)
}

// extractFilename extracts the filename from a path or URL
func extractFilename(input string) string {
	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		name := filepath.Base(u.Path)
		if name == "." || name == "/" {
			return ""
		}
		return name
	}
	if strings.HasPrefix(input, "file://") {
		return filepath.Base(strings.TrimPrefix(input, "file://"))
	}
	if converter.ParseInput(input).Type != converter.InputTypeFile {
		return ""
	}
	return filepath.Base(input)
}

// looksLikePath reports whether input is a single path-like token rather
// than prose
func looksLikePath(input string) bool {
	return !strings.ContainsAny(input, " \t\n") &&
		(strings.ContainsAny(input, `/\`) || strings.HasPrefix(input, "file:"))
}

// validatePath rejects traversal sequences and null bytes in paths
func validatePath(input string) error {
	if strings.Contains(input, "\x00") {
		return &SecurityError{
			Type:    "null_byte",
			Details: "input contains null bytes",
		}
	}
	if looksLikePath(input) && strings.Contains(input, "..") {
		return &SecurityError{
			Type:    "path_traversal",
			Details: fmt.Sprintf("path contains traversal sequence: %s", input),
		}
	}
	return nil
}
