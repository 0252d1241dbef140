package converter

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DocumentConverter defines the interface for document conversion
type DocumentConverter interface {
	// Convert converts a document to plain text or markdown
	Convert(ctx context.Context, input string) (string, error)
	// Supports checks if the converter supports the given input
	Supports(input string) bool
}

// InputType represents the type of input
type InputType string

const (
	InputTypeFile InputType = "file"
	InputTypeURL  InputType = "url"
	InputTypeText InputType = "text"
)

// InputInfo contains parsed input information
type InputInfo struct {
	Type InputType
	Path string
	URL  *url.URL
	Ext  string
}

// ParseInput parses an input string and returns its type and info
func ParseInput(input string) InputInfo {
	info := InputInfo{}

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		if parsedURL, err := url.Parse(input); err == nil {
			info.Type = InputTypeURL
			info.URL = parsedURL
			info.Ext = strings.ToLower(filepath.Ext(parsedURL.Path))
			return info
		}
	}

	if !strings.ContainsAny(input, "\n\x00") {
		if _, err := os.Stat(input); err == nil {
			info.Type = InputTypeFile
			info.Path = input
			info.Ext = strings.ToLower(filepath.Ext(input))
			return info
		}
	}

	info.Type = InputTypeText
	return info
}

// IsSupportedExtension checks if the extension is supported
func IsSupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".txt", ".md", ".html", ".htm":
		return true
	}
	return false
}

// IsMarkdownFile checks if the extension is a native markdown/text format
func IsMarkdownFile(ext string) bool {
	return strings.EqualFold(ext, ".md") || strings.EqualFold(ext, ".txt")
}

// validatePath rejects traversal and null bytes and resolves path
func validatePath(path string) (string, error) {
	if strings.Contains(path, "..") {
		return "", &PathValidationError{Path: path, Reason: "path traversal not allowed"}
	}
	if strings.Contains(path, "\x00") {
		return "", &PathValidationError{Path: path, Reason: "null bytes not allowed"}
	}
	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", &FileNotFoundError{Path: path}
	}
	if _, err := os.Stat(resolved); err != nil {
		return "", &FileNotFoundError{Path: path}
	}
	return resolved, nil
}

// TextConverter passes raw text through and reads markdown or text files
type TextConverter struct{}

// Supports accepts raw text and .md/.txt files
func (TextConverter) Supports(input string) bool {
	info := ParseInput(input)
	switch info.Type {
	case InputTypeText:
		return true
	case InputTypeFile:
		return IsMarkdownFile(info.Ext)
	}
	return false
}

// Convert returns the text or the file content
func (TextConverter) Convert(_ context.Context, input string) (string, error) {
	info := ParseInput(input)
	if info.Type != InputTypeFile {
		return input, nil
	}
	path, err := validatePath(info.Path)
	if err != nil {
		return "", err
	}
	// #nosec G304 - path has been validated for traversal and null bytes
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ConversionError{OriginalError: err, Path: input, Hint: "failed to read file"}
	}
	return string(data), nil
}

// Converter dispatches an input to the first converter that supports it
type Converter struct {
	converters []DocumentConverter
	logger     *slog.Logger
}

// New returns a Converter trying converters in order
func New(converters ...DocumentConverter) *Converter {
	return &Converter{
		converters: converters,
		logger:     slog.Default(),
	}
}

// NewDefault returns the PDF, HTML and text converters sharing client
func NewDefault(client *http.Client) *Converter {
	return New(NewPDFConverter(client), NewHTMLConverter(client), TextConverter{})
}

// WithLogger sets the logger
func (c *Converter) WithLogger(logger *slog.Logger) *Converter {
	c.logger = logger
	return c
}

// Supports reports whether any converter accepts input
func (c *Converter) Supports(input string) bool {
	for _, conv := range c.converters {
		if conv.Supports(input) {
			return true
		}
	}
	return false
}

// Convert runs the first supporting converter and trims the result
func (c *Converter) Convert(ctx context.Context, input string) (string, error) {
	for _, conv := range c.converters {
		if !conv.Supports(input) {
			continue
		}
		out, err := conv.Convert(ctx, input)
		if err != nil {
			c.logger.ErrorContext(ctx, "document conversion failed",
				"error", err,
				"converter", converterName(conv),
				"operation", "convert",
			)
			return "", err
		}
		return strings.TrimSpace(out), nil
	}
	return "", &UnsupportedInputError{Input: input}
}

func converterName(conv DocumentConverter) string {
	switch conv.(type) {
	case *PDFConverter:
		return "pdf"
	case *HTMLConverter:
		return "html"
	case TextConverter:
		return "text"
	}
	return "custom"
}

// DownloadFile downloads a URL into a temp file in tempDir and returns its path
func DownloadFile(ctx context.Context, client *http.Client, url string, tempDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	f, err := os.CreateTemp(tempDir, "download_*"+filepath.Ext(req.URL.Path))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
