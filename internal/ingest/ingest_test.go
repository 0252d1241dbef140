package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/mockinterview/internal/converter"
	"github.com/kfreiman/mockinterview/internal/redaction"
	"github.com/kfreiman/mockinterview/internal/retry"
	"github.com/kfreiman/mockinterview/internal/storage"
)

var fastRetry = retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond, Backoff: retry.BackoffFixed}

func newStorage(t *testing.T) *storage.StorageManager {
	t.Helper()
	sm, err := storage.NewStorageManager(storage.StorageConfig{
		BasePath:   "/data",
		FileSystem: storage.NewMemMapFileSystem(),
	})
	require.NoError(t, err)
	return sm
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		shouldErr bool
	}{
		{"valid relative path", "test.md", false},
		{"valid path with subdirectory", "docs/test.md", false},
		{"path traversal attempt", "../../../etc/passwd", true},
		{"file url traversal", "file:///tmp/../etc/passwd", true},
		{"path with null byte", "test.md\x00malicious", true},
		{"URL should pass", "https://example.com/test.pdf", false},
		{"text content should pass", "Some text content", false},
		{"prose with ellipsis should pass", "Led migrations... and mentoring / hiring", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePath(tt.path)
			if tt.shouldErr {
				var secErr *SecurityError
				assert.ErrorAs(t, err, &secErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExtractFilename(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "resume.md")
	require.NoError(t, os.WriteFile(local, []byte("x"), 0o600))

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"local file", local, "resume.md"},
		{"file url", "file://" + local, "resume.md"},
		{"URL with filename", "https://example.com/jobs/test.pdf", "test.pdf"},
		{"URL without explicit filename", "https://example.com/", ""},
		{"raw text content", "Some text content with multiple lines", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractFilename(tt.input))
		})
	}
}

func TestParseDocumentType(t *testing.T) {
	for _, in := range []string{"resume", "CV", " cv "} {
		got, err := ParseDocumentType(in)
		require.NoError(t, err)
		assert.Equal(t, storage.DocumentTypeResume, got)
	}
	got, err := ParseDocumentType("jd")
	require.NoError(t, err)
	assert.Equal(t, storage.DocumentTypeJD, got)

	_, err = ParseDocumentType("transcript")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "type", valErr.Field)
}

func TestDocumentIngestor_Ingest(t *testing.T) {
	ctx := context.Background()
	sm := newStorage(t)
	ingestor := NewIngestor(sm, converter.NewDefault(http.DefaultClient)).
		WithRedaction(redaction.Redact).
		WithRetry(fastRetry)

	t.Run("raw text resume is redacted", func(t *testing.T) {
		res, err := ingestor.Ingest(ctx, "# Resume\n\nName: John Doe\nEmail: john@example.com\n", "resume")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.URI, "resume://"))
		assert.True(t, res.Redacted)

		content, err := sm.ReadContent(res.URI)
		require.NoError(t, err)
		assert.Contains(t, content, "John Doe")
		assert.NotContains(t, content, "john@example.com")
	})

	t.Run("job descriptions are not redacted", func(t *testing.T) {
		res, err := ingestor.Ingest(ctx, "Looking for a Go developer, apply at jobs@acme.io", "jd")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.URI, "jd://"))
		assert.False(t, res.Redacted)

		content, err := sm.ReadContent(res.URI)
		require.NoError(t, err)
		assert.Contains(t, content, "jobs@acme.io")
	})

	t.Run("markdown file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "resume.md")
		require.NoError(t, os.WriteFile(path, []byte("# Resume\n\nName: Jane Smith\n"), 0o600))

		res, err := ingestor.Ingest(ctx, path, "cv")
		require.NoError(t, err)
		assert.Nil(t, res.Degraded)

		content, err := sm.ReadContent(res.URI)
		require.NoError(t, err)
		assert.Contains(t, content, "Jane Smith")
	})

	t.Run("html job posting over http", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html><body><article><h1>Platform Engineer</h1>
<p>Operate Kubernetes clusters and build internal developer tooling in Go for hundreds of engineers across the company.</p>
<p>Own the observability stack, on-call rotations and capacity planning for our data platform services.</p>
</article></body></html>`))
		}))
		defer srv.Close()

		res, err := NewIngestor(sm, converter.NewDefault(srv.Client())).WithRetry(fastRetry).
			Ingest(ctx, srv.URL+"/jobs/7", "jd")
		require.NoError(t, err)

		content, err := sm.ReadContent(res.URI)
		require.NoError(t, err)
		assert.Contains(t, content, "Kubernetes")
	})

	t.Run("invalid document type", func(t *testing.T) {
		_, err := ingestor.Ingest(ctx, "# Resume", "invalid")
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "type", valErr.Field)
	})

	t.Run("path traversal attempt", func(t *testing.T) {
		_, err := ingestor.Ingest(ctx, "../../../etc/passwd", "resume")
		var secErr *SecurityError
		require.ErrorAs(t, err, &secErr)
		assert.Equal(t, "path_traversal", secErr.Type)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ingestor.Ingest(ctx, "   ", "resume")
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "input", valErr.Field)
	})
}

func TestDocumentIngestor_Deduplication(t *testing.T) {
	sm := newStorage(t)
	ingestor := NewIngestor(sm, nil)
	content := "# Duplicate Resume\n\nName: Same Person\n"

	first, err := ingestor.Ingest(context.Background(), content, "resume")
	require.NoError(t, err)
	second, err := ingestor.Ingest(context.Background(), content, "resume")
	require.NoError(t, err)

	assert.Equal(t, first.URI, second.URI)
	docs, err := sm.ListDocuments()
	require.NoError(t, err)
	assert.Len(t, docs[storage.DocumentTypeResume], 1)
}

type failingConverter struct {
	err   error
	calls int
}

func (f *failingConverter) Supports(string) bool { return true }

func (f *failingConverter) Convert(context.Context, string) (string, error) {
	f.calls++
	return "", f.err
}

func TestDocumentIngestor_ConversionFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("text files fall back to a raw read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "posting.html")
		require.NoError(t, os.WriteFile(path, []byte("<p>Go engineer</p>"), 0o600))
		conv := &failingConverter{err: &converter.ConversionError{Hint: "no readable content found in page"}}

		res, err := NewIngestor(newStorage(t), conv).WithRetry(fastRetry).Ingest(ctx, path, "jd")
		require.NoError(t, err)
		require.NotNil(t, res.Degraded)
		assert.Equal(t, "converter", res.Degraded.Component)
		assert.Equal(t, 1, conv.calls)
	})

	t.Run("binary files fail", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "resume.pdf")
		require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x81}, 0o600))
		conv := &failingConverter{err: errors.New("malformed PDF")}

		_, err := NewIngestor(newStorage(t), conv).WithRetry(fastRetry).Ingest(ctx, path, "resume")
		var convErr *ConversionError
		require.ErrorAs(t, err, &convErr)
	})

	t.Run("retryable failures are retried", func(t *testing.T) {
		conv := &failingConverter{err: &converter.HTTPError{StatusCode: http.StatusServiceUnavailable}}

		_, err := NewIngestor(newStorage(t), conv).WithRetry(fastRetry).Ingest(ctx, "https://example.com/jd", "jd")
		require.Error(t, err)
		assert.Equal(t, 3, conv.calls)
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"storage write", &storage.StorageError{Operation: "save document"}, true},
		{"storage lookup", &storage.StorageError{Operation: "find document"}, false},
		{"server error", &converter.HTTPError{StatusCode: http.StatusBadGateway}, true},
		{"not found", &converter.HTTPError{StatusCode: http.StatusNotFound}, false},
		{"security", &SecurityError{Type: "null_byte"}, false},
		{"cancelled", context.Canceled, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
