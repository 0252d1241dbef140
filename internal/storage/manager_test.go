package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basePath = "/test-storage"

func newTestManager(t *testing.T) (*StorageManager, afero.Fs) {
	t.Helper()
	af := afero.NewMemMapFs()
	sm, err := NewStorageManager(StorageConfig{
		BasePath:   basePath,
		DefaultTTL: time.Hour,
		FileSystem: NewAferoFileSystem(af),
	})
	require.NoError(t, err)
	return sm, af
}

func TestStorageManager_NewStorageManager(t *testing.T) {
	t.Run("creates with defaults when config is empty", func(t *testing.T) {
		dir := t.TempDir()
		sm, err := NewStorageManager(StorageConfig{BasePath: dir})
		require.NoError(t, err)

		assert.Equal(t, 24*time.Hour, sm.defaultTTL)
		assert.NotNil(t, sm.logger)
		assert.NotNil(t, sm.fs)
		for _, docType := range DocumentTypes {
			assert.DirExists(t, filepath.Join(dir, string(docType)))
		}
	})

	t.Run("uses provided config values", func(t *testing.T) {
		sm, err := NewStorageManager(StorageConfig{
			BasePath:   basePath,
			DefaultTTL: 48 * time.Hour,
			FileSystem: NewMemMapFileSystem(),
		})
		require.NoError(t, err)

		assert.Equal(t, basePath, sm.basePath)
		assert.Equal(t, 48*time.Hour, sm.defaultTTL)
	})
}

func TestStorageManager_IsAccessible(t *testing.T) {
	t.Run("accessible when all directories exist", func(t *testing.T) {
		sm, _ := newTestManager(t)
		assert.True(t, sm.IsAccessible())
	})

	t.Run("inaccessible after removing base path", func(t *testing.T) {
		sm, af := newTestManager(t)
		require.NoError(t, af.RemoveAll(basePath))
		assert.False(t, sm.IsAccessible())
	})

	for _, docType := range DocumentTypes {
		t.Run("inaccessible after removing "+string(docType)+" directory", func(t *testing.T) {
			sm, af := newTestManager(t)
			require.NoError(t, af.Remove(filepath.Join(basePath, string(docType))))
			assert.False(t, sm.IsAccessible())
		})
	}
}

func TestStorageManager_SaveDocument(t *testing.T) {
	t.Run("saves document with frontmatter", func(t *testing.T) {
		sm, _ := newTestManager(t)

		content := []byte("# Resume\n\nJane Doe\nSoftware Engineer")
		uri, err := sm.SaveDocument(DocumentTypeResume, content, "resume.md")
		require.NoError(t, err)
		assert.Equal(t, "resume://"+GenerateID(content), uri)

		raw, err := sm.ReadDocument(uri)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "original_filename: resume.md")
		assert.Contains(t, string(raw), "type: resume")
	})

	t.Run("deduplicates existing documents", func(t *testing.T) {
		sm, _ := newTestManager(t)

		content := []byte("# Resume\n\nJane Doe")
		uri1, err := sm.SaveDocument(DocumentTypeResume, content, "resume.md")
		require.NoError(t, err)
		uri2, err := sm.SaveDocument(DocumentTypeResume, content, "resume.md")
		require.NoError(t, err)

		assert.Equal(t, uri1, uri2)
		docs, err := sm.ListDocuments()
		require.NoError(t, err)
		assert.Len(t, docs[DocumentTypeResume], 1)
	})

	t.Run("handles missing extension", func(t *testing.T) {
		sm, _ := newTestManager(t)

		uri, err := sm.SaveDocument(DocumentTypeJD, []byte("# JD"), "posting")
		require.NoError(t, err)

		path, err := sm.GetDocumentPath(uri)
		require.NoError(t, err)
		assert.Equal(t, ".md", filepath.Ext(path))
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		sm, af := newTestManager(t)

		_, err := sm.SaveDocument(DocumentTypeJD, []byte("# JD"), "jd.md")
		require.NoError(t, err)

		matches, err := afero.Glob(af, filepath.Join(basePath, "jd", "*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestStorageManager_SaveTranscript(t *testing.T) {
	sm, _ := newTestManager(t)

	uri, err := sm.SaveTranscript("session-1", []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, "transcript://session-1", uri)

	_, err = sm.SaveTranscript("session-1", []byte("second"))
	require.NoError(t, err)

	content, err := sm.ReadContent(uri)
	require.NoError(t, err)
	assert.Equal(t, "second", content)

	t.Run("rejects path traversal ids", func(t *testing.T) {
		_, err := sm.SaveTranscript("../escape", []byte("x"))
		var sErr *StorageError
		require.ErrorAs(t, err, &sErr)
		assert.False(t, sErr.Retryable())
	})
}

func TestStorageManager_ReadContent(t *testing.T) {
	sm, _ := newTestManager(t)

	uri, err := sm.SaveDocument(DocumentTypeResume, []byte("# Resume\n\n---\n\nJane"), "resume.md")
	require.NoError(t, err)

	content, err := sm.ReadContent(uri)
	require.NoError(t, err)
	assert.Equal(t, "# Resume\n\n---\n\nJane", content)
}

func TestStripFrontmatter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"with header", "---\nid: x\n---\nbody", "body"},
		{"without header", "body", "body"},
		{"unterminated header", "---\nid: x\nbody", "---\nid: x\nbody"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFrontmatter(tt.in))
		})
	}
}

func TestStorageManager_ReadDocument(t *testing.T) {
	t.Run("returns error for non-existent document", func(t *testing.T) {
		sm, _ := newTestManager(t)

		_, err := sm.ReadDocument("resume://non-existent")
		var sErr *StorageError
		require.ErrorAs(t, err, &sErr)
		assert.False(t, sErr.Retryable())
	})
}

func TestStorageManager_DocumentExists(t *testing.T) {
	sm, _ := newTestManager(t)

	uri, err := sm.SaveDocument(DocumentTypeResume, []byte("# Resume"), "resume.md")
	require.NoError(t, err)

	assert.True(t, sm.DocumentExists(uri))
	assert.False(t, sm.DocumentExists("resume://non-existent"))
	assert.False(t, sm.DocumentExists("bogus"))
}

func TestStorageManager_ListDocuments(t *testing.T) {
	t.Run("lists documents per type", func(t *testing.T) {
		sm, _ := newTestManager(t)

		_, err := sm.SaveDocument(DocumentTypeResume, []byte("Resume 1"), "r1.md")
		require.NoError(t, err)
		_, err = sm.SaveDocument(DocumentTypeResume, []byte("Resume 2"), "r2.md")
		require.NoError(t, err)
		_, err = sm.SaveDocument(DocumentTypeJD, []byte("JD 1"), "jd1.md")
		require.NoError(t, err)
		_, err = sm.SaveTranscript("abc", []byte("t"))
		require.NoError(t, err)

		docs, err := sm.ListDocuments()
		require.NoError(t, err)
		assert.Len(t, docs[DocumentTypeResume], 2)
		assert.Len(t, docs[DocumentTypeJD], 1)
		assert.Equal(t, []string{"abc"}, docs[DocumentTypeTranscript])
	})

	t.Run("returns empty when no documents exist", func(t *testing.T) {
		sm, _ := newTestManager(t)

		docs, err := sm.ListDocuments()
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestStorageManager_GetPath(t *testing.T) {
	sm := &StorageManager{basePath: "/test"}
	assert.Equal(t, "/test/resume", sm.GetPath(DocumentTypeResume))
	assert.Equal(t, "/test/jd", sm.GetPath(DocumentTypeJD))
	assert.Equal(t, "/test/transcript", sm.GetPath(DocumentTypeTranscript))
}

func TestGenerateID(t *testing.T) {
	t.Run("generates consistent IDs for same content", func(t *testing.T) {
		assert.Equal(t, GenerateID([]byte("test content")), GenerateID([]byte("test content")))
	})

	t.Run("generates different IDs for different content", func(t *testing.T) {
		assert.NotEqual(t, GenerateID([]byte("content 1")), GenerateID([]byte("content 2")))
	})
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri      string
		wantType DocumentType
		wantID   string
		wantErr  bool
	}{
		{uri: "resume://12345-67890", wantType: DocumentTypeResume, wantID: "12345-67890"},
		{uri: "jd://abc", wantType: DocumentTypeJD, wantID: "abc"},
		{uri: "transcript://s-1", wantType: DocumentTypeTranscript, wantID: "s-1"},
		{uri: "resume:/", wantErr: true},
		{uri: "xx://12345", wantErr: true},
		{uri: "jd://", wantErr: true},
		{uri: "jd://../../etc/passwd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			docType, id, err := ParseURI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, docType)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestStorageManager_GetDocumentPath(t *testing.T) {
	t.Run("returns path for existing document", func(t *testing.T) {
		sm, _ := newTestManager(t)

		uri, err := sm.SaveDocument(DocumentTypeResume, []byte("# Resume"), "resume.pdf")
		require.NoError(t, err)

		path, err := sm.GetDocumentPath(uri)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(basePath, "resume", GenerateID([]byte("# Resume"))+".pdf"), path)
	})

	t.Run("ids shorter than stored names do not match by prefix", func(t *testing.T) {
		sm, _ := newTestManager(t)

		uri, err := sm.SaveDocument(DocumentTypeResume, []byte("# Resume"), "resume.md")
		require.NoError(t, err)
		_, id, err := ParseURI(uri)
		require.NoError(t, err)

		_, err = sm.GetDocumentPath("resume://" + id[:8])
		require.Error(t, err)
	})
}

func TestStorageError(t *testing.T) {
	t.Run("formats error message", func(t *testing.T) {
		err := &StorageError{
			Operation: "save document",
			Path:      "/path/to/file.md",
			Err:       os.ErrNotExist,
		}
		assert.Contains(t, err.Error(), "save document")
		assert.Contains(t, err.Error(), "/path/to/file.md")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("retryable by operation", func(t *testing.T) {
		assert.True(t, (&StorageError{Operation: "save document"}).Retryable())
		assert.True(t, (&StorageError{Operation: "read document"}).Retryable())
		assert.False(t, (&StorageError{Operation: "parse URI"}).Retryable())
		assert.False(t, (&StorageError{Operation: "find document"}).Retryable())
	})
}

func TestStorageManager_Cleanup(t *testing.T) {
	t.Run("removes documents older than the ttl", func(t *testing.T) {
		sm, af := newTestManager(t)

		oldURI, err := sm.SaveDocument(DocumentTypeResume, []byte("old"), "old.md")
		require.NoError(t, err)
		newURI, err := sm.SaveTranscript("fresh", []byte("new"))
		require.NoError(t, err)

		oldPath, err := sm.GetDocumentPath(oldURI)
		require.NoError(t, err)
		past := time.Now().Add(-2 * time.Hour)
		require.NoError(t, af.Chtimes(oldPath, past, past))

		removed, err := sm.Cleanup(0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
		assert.False(t, sm.DocumentExists(oldURI))
		assert.True(t, sm.DocumentExists(newURI))
	})

	t.Run("explicit ttl overrides the default", func(t *testing.T) {
		sm, af := newTestManager(t)

		uri, err := sm.SaveDocument(DocumentTypeJD, []byte("jd"), "jd.md")
		require.NoError(t, err)
		path, err := sm.GetDocumentPath(uri)
		require.NoError(t, err)
		past := time.Now().Add(-10 * time.Minute)
		require.NoError(t, af.Chtimes(path, past, past))

		removed, err := sm.Cleanup(time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})
}

func TestStorageManager_SaveDocumentWithRedaction(t *testing.T) {
	sm, _ := newTestManager(t)

	redactFunc := func(content []byte) []byte {
		return []byte("[REDACTED]")
	}

	uri, err := sm.SaveDocumentWithRedaction(DocumentTypeResume, []byte("PII data"), "resume.md", redactFunc)
	require.NoError(t, err)

	content, err := sm.ReadContent(uri)
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]", content)
}
