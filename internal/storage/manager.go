package storage

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// StorageError represents a storage-related failure
type StorageError struct {
	Operation string
	Path      string
	Err       error
}

func (e *StorageError) Error() string {
	msg := fmt.Sprintf("storage error during %s", e.Operation)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path: %s)", e.Path)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the operation may help; lookups and
// URI parsing never change on retry.
func (e *StorageError) Retryable() bool {
	switch e.Operation {
	case "parse URI", "find document":
		return false
	}
	return true
}

// DocumentType represents the type of document being stored
type DocumentType string

const (
	DocumentTypeResume     DocumentType = "resume"
	DocumentTypeJD         DocumentType = "jd"
	DocumentTypeTranscript DocumentType = "transcript"
)

// DocumentTypes lists every stored document type
var DocumentTypes = []DocumentType{DocumentTypeResume, DocumentTypeJD, DocumentTypeTranscript}

// Valid reports whether t is a known document type
func (t DocumentType) Valid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// URI returns the storage URI for id
func (t DocumentType) URI(id string) string {
	return fmt.Sprintf("%s://%s", t, id)
}

// StorageConfig holds configuration for the storage manager
type StorageConfig struct {
	BasePath   string
	DefaultTTL time.Duration
	Logger     *slog.Logger // Optional: defaults to a discarding logger
	FileSystem FileSystem   // Optional: defaults to the OS filesystem
}

// StorageManager stores resumes, job descriptions and transcripts as
// markdown files with a frontmatter header.
type StorageManager struct {
	basePath   string
	defaultTTL time.Duration
	logger     *slog.Logger
	fs         FileSystem
}

// NewStorageManager creates the storage directories and returns a manager
func NewStorageManager(config StorageConfig) (*StorageManager, error) {
	ctx := context.Background()

	if config.BasePath == "" {
		config.BasePath = "./storage"
	}
	if config.DefaultTTL == 0 {
		config.DefaultTTL = 24 * time.Hour
	}
	if config.FileSystem == nil {
		config.FileSystem = NewOSFileSystem()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	for _, docType := range DocumentTypes {
		path := filepath.Join(config.BasePath, string(docType))
		if err := config.FileSystem.MkdirAll(path, 0755); err != nil {
			config.Logger.ErrorContext(ctx, "failed to create storage directory",
				"error", err,
				"path", path,
				"operation", "init",
			)
			return nil, &StorageError{
				Operation: "init - create directory",
				Path:      path,
				Err:       err,
			}
		}
	}

	config.Logger.InfoContext(ctx, "storage manager initialized",
		"base_path", config.BasePath,
		"default_ttl", config.DefaultTTL,
	)

	return &StorageManager{
		basePath:   config.BasePath,
		defaultTTL: config.DefaultTTL,
		logger:     config.Logger,
		fs:         config.FileSystem,
	}, nil
}

// GetPath returns the storage directory for a document type
func (sm *StorageManager) GetPath(docType DocumentType) string {
	return filepath.Join(sm.basePath, string(docType))
}

// GenerateID returns the hex SHA-256 of content
func GenerateID(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// SaveDocument stores content under its content hash. Saving the same
// content twice returns the existing URI.
func (sm *StorageManager) SaveDocument(docType DocumentType, content []byte, originalFilename string) (string, error) {
	ctx := context.Background()
	id := GenerateID(content)
	path := sm.documentPath(docType, id, originalFilename)

	if _, err := sm.fs.Stat(path); err == nil {
		sm.logger.DebugContext(ctx, "document already exists (deduplication)",
			"doc_type", docType,
			"id", id,
			"path", path,
		)
		return docType.URI(id), nil
	}

	if err := sm.write(ctx, docType, id, path, content, originalFilename); err != nil {
		return "", err
	}
	return docType.URI(id), nil
}

// SaveDocumentWithID stores content under id, replacing any previous version
func (sm *StorageManager) SaveDocumentWithID(docType DocumentType, id string, content []byte, originalFilename string) (string, error) {
	ctx := context.Background()
	if err := validateID(id); err != nil {
		return "", err
	}
	path := sm.documentPath(docType, id, originalFilename)
	if err := sm.write(ctx, docType, id, path, content, originalFilename); err != nil {
		return "", err
	}
	return docType.URI(id), nil
}

// SaveDocumentWithRedaction saves a document with PII redaction applied
func (sm *StorageManager) SaveDocumentWithRedaction(docType DocumentType, content []byte, originalFilename string, redactFunc func([]byte) []byte) (string, error) {
	return sm.SaveDocument(docType, redactFunc(content), originalFilename)
}

// SaveTranscript stores a rendered interview transcript for a session
func (sm *StorageManager) SaveTranscript(sessionID string, content []byte) (string, error) {
	return sm.SaveDocumentWithID(DocumentTypeTranscript, sessionID, content, sessionID+".md")
}

func (sm *StorageManager) documentPath(docType DocumentType, id, originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	if ext == "" || strings.ContainsAny(ext, " /") {
		ext = ".md"
	}
	return filepath.Join(sm.GetPath(docType), id+ext)
}

// write stores the frontmatter and content through a temporary file so
// readers never see a partial document.
func (sm *StorageManager) write(ctx context.Context, docType DocumentType, id, path string, content []byte, originalFilename string) error {
	frontmatter := fmt.Sprintf(`---
id: %s
original_filename: %s
ingested_at: %s
type: %s
---
`, id, originalFilename, time.Now().UTC().Format(time.RFC3339), docType)

	tmp := path + ".tmp"
	if err := sm.fs.WriteFile(tmp, append([]byte(frontmatter), content...), 0644); err != nil {
		sm.logger.ErrorContext(ctx, "failed to save document",
			"error", err,
			"doc_type", docType,
			"id", id,
			"path", path,
			"operation", "save",
		)
		return &StorageError{Operation: "save document", Path: path, Err: err}
	}
	if err := sm.fs.Rename(tmp, path); err != nil {
		_ = sm.fs.Remove(tmp)
		return &StorageError{Operation: "save document", Path: path, Err: err}
	}

	sm.logger.InfoContext(ctx, "document saved",
		"doc_type", docType,
		"id", id,
		"path", path,
		"filename", originalFilename,
	)
	return nil
}

func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return &StorageError{Operation: "parse URI", Err: fmt.Errorf("invalid document id: %q", id)}
	}
	return nil
}

// ParseURI splits a URI like resume://<id> into its type and id
func ParseURI(uri string) (DocumentType, string, error) {
	scheme, id, ok := strings.Cut(uri, "://")
	if !ok {
		return "", "", &StorageError{
			Operation: "parse URI",
			Err:       fmt.Errorf("missing scheme: %s", uri),
		}
	}
	docType := DocumentType(scheme)
	if !docType.Valid() {
		return "", "", &StorageError{
			Operation: "parse URI",
			Err:       fmt.Errorf("unsupported URI scheme: %s", scheme),
		}
	}
	if err := validateID(id); err != nil {
		return "", "", err
	}
	return docType, id, nil
}

// GetDocumentPath returns the file path for a given URI
func (sm *StorageManager) GetDocumentPath(uri string) (string, error) {
	docType, id, err := ParseURI(uri)
	if err != nil {
		return "", err
	}

	dir := sm.GetPath(docType)
	entries, err := sm.fs.ReadDir(dir)
	if err != nil {
		return "", &StorageError{
			Operation: "read directory",
			Path:      dir,
			Err:       err,
		}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".tmp" && strings.TrimSuffix(name, ext) == id {
			return filepath.Join(dir, name), nil
		}
	}

	return "", &StorageError{
		Operation: "find document",
		Err:       fmt.Errorf("document not found: %s", uri),
	}
}

// ReadDocument reads a stored document including its frontmatter
func (sm *StorageManager) ReadDocument(uri string) ([]byte, error) {
	ctx := context.Background()
	path, err := sm.GetDocumentPath(uri)
	if err != nil {
		sm.logger.ErrorContext(ctx, "failed to get document path",
			"error", err,
			"uri", uri,
			"operation", "read",
		)
		return nil, err
	}

	content, err := sm.fs.ReadFile(path)
	if err != nil {
		sm.logger.ErrorContext(ctx, "failed to read document",
			"error", err,
			"path", path,
			"uri", uri,
			"operation", "read",
		)
		return nil, &StorageError{
			Operation: "read document",
			Path:      path,
			Err:       err,
		}
	}

	sm.logger.DebugContext(ctx, "document read",
		"uri", uri,
		"path", path,
	)
	return content, nil
}

// ReadContent reads a stored document without its frontmatter
func (sm *StorageManager) ReadContent(uri string) (string, error) {
	data, err := sm.ReadDocument(uri)
	if err != nil {
		return "", err
	}
	return StripFrontmatter(string(data)), nil
}

// StripFrontmatter removes a leading --- delimited header
func StripFrontmatter(doc string) string {
	rest, ok := strings.CutPrefix(doc, "---\n")
	if !ok {
		return doc
	}
	_, body, found := strings.Cut(rest, "\n---\n")
	if !found {
		return doc
	}
	return body
}

// DocumentExists checks if a document exists in storage
func (sm *StorageManager) DocumentExists(uri string) bool {
	path, err := sm.GetDocumentPath(uri)
	if err != nil {
		return false
	}
	_, err = sm.fs.Stat(path)
	return err == nil
}

// Cleanup removes documents older than ttl, the default TTL when zero
func (sm *StorageManager) Cleanup(ttl time.Duration) (int64, error) {
	ctx := context.Background()
	if ttl == 0 {
		ttl = sm.defaultTTL
	}

	cutoff := time.Now().Add(-ttl)
	var removed int64

	for _, docType := range DocumentTypes {
		dir := sm.GetPath(docType)
		entries, err := sm.fs.ReadDir(dir)
		if err != nil {
			sm.logger.ErrorContext(ctx, "failed to read directory for cleanup",
				"error", err,
				"dir", dir,
				"doc_type", docType,
			)
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				if err := sm.fs.Remove(filepath.Join(dir, entry.Name())); err == nil {
					removed++
				}
			}
		}
	}

	sm.logger.InfoContext(ctx, "storage cleanup completed",
		"removed", removed,
		"ttl", ttl,
	)
	return removed, nil
}

// ListDocuments returns the stored ids per document type
func (sm *StorageManager) ListDocuments() (map[DocumentType][]string, error) {
	ctx := context.Background()
	out := make(map[DocumentType][]string, len(DocumentTypes))
	for _, docType := range DocumentTypes {
		dir := sm.GetPath(docType)
		entries, err := sm.fs.ReadDir(dir)
		if err != nil {
			sm.logger.ErrorContext(ctx, "failed to read directory for listing",
				"error", err,
				"dir", dir,
				"doc_type", docType,
			)
			return nil, &StorageError{
				Operation: "list documents",
				Path:      dir,
				Err:       err,
			}
		}

		for _, entry := range entries {
			name := entry.Name()
			ext := filepath.Ext(name)
			if entry.IsDir() || ext == "" || ext == ".tmp" {
				continue
			}
			out[docType] = append(out[docType], strings.TrimSuffix(name, ext))
		}
	}
	return out, nil
}

// IsAccessible checks that the base path and every type directory exist
func (sm *StorageManager) IsAccessible() bool {
	if _, err := sm.fs.Stat(sm.basePath); err != nil {
		return false
	}
	for _, docType := range DocumentTypes {
		if _, err := sm.fs.Stat(sm.GetPath(docType)); err != nil {
			return false
		}
	}
	return true
}
