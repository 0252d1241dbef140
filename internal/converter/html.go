package converter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
)

const (
	// maxPageSize caps the bytes read from a fetched page
	maxPageSize = 10 << 20
	// minReadableText is the text length below which a fetched page is
	// rendered in a browser, if one is configured
	minReadableText = 200
)

// HTMLConverter extracts the readable text of HTML files and pages
type HTMLConverter struct {
	client   *http.Client
	renderer Renderer
}

// NewHTMLConverter creates an HTMLConverter; client fetches pages
func NewHTMLConverter(client *http.Client) *HTMLConverter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTMLConverter{client: client}
}

// WithRenderer sets the browser used for pages whose fetched HTML carries
// too little text, such as script-built job boards
func (c *HTMLConverter) WithRenderer(renderer Renderer) *HTMLConverter {
	c.renderer = renderer
	return c
}

// canRender reports whether a renderer is set and running
func (c *HTMLConverter) canRender() bool {
	if c.renderer == nil {
		return false
	}
	if a, ok := c.renderer.(interface{ IsAvailable() bool }); ok {
		return a.IsAvailable()
	}
	return true
}

// Supports accepts http(s) URLs other than PDFs and .html/.htm files
func (c *HTMLConverter) Supports(input string) bool {
	info := ParseInput(input)
	switch info.Type {
	case InputTypeURL:
		return info.Ext != ".pdf"
	case InputTypeFile:
		return info.Ext == ".html" || info.Ext == ".htm"
	}
	return false
}

// Convert extracts text from an HTML file or URL
func (c *HTMLConverter) Convert(ctx context.Context, input string) (string, error) {
	if filePath, ok := strings.CutPrefix(input, "file://"); ok {
		return c.convertFile(filePath)
	}

	info := ParseInput(input)
	switch info.Type {
	case InputTypeFile:
		return c.convertFile(info.Path)
	case InputTypeURL:
		return c.convertPage(ctx, info.URL)
	default:
		return "", &ConversionError{
			Hint: fmt.Sprintf("unsupported input type: %s", info.Type),
		}
	}
}

func (c *HTMLConverter) convertFile(path string) (string, error) {
	resolvedPath, err := validatePath(path)
	if err != nil {
		return "", err
	}

	// #nosec G304 - path has been validated for traversal and null bytes
	htmlBytes, err := os.ReadFile(resolvedPath)
	if err != nil {
		return "", &ConversionError{
			OriginalError: err,
			Path:          path,
			Hint:          "failed to read HTML file",
		}
	}

	pageURL := &url.URL{Scheme: "file", Path: filepath.ToSlash(resolvedPath)}
	content, cErr := extract(htmlBytes, pageURL)
	if cErr != nil {
		cErr.Path = path
		return "", cErr
	}
	return content, nil
}

// convertPage fetches pageURL and falls back to rendering it when the
// fetched document fails or yields less than minReadableText characters.
// A failed render returns the outcome of the fetch.
func (c *HTMLConverter) convertPage(ctx context.Context, pageURL *url.URL) (string, error) {
	content, err := c.convertURL(ctx, pageURL)
	if !c.canRender() || (err == nil && len(content) >= minReadableText) {
		return content, err
	}

	html, renderErr := c.renderer.Render(ctx, pageURL.String())
	if renderErr != nil {
		slog.DebugContext(ctx, "page rendering failed, keeping fetched content",
			"error", renderErr,
			"url", pageURL.String(),
		)
		return content, err
	}
	rendered, cErr := extract(html, pageURL)
	if cErr != nil || len(rendered) <= len(content) {
		return content, err
	}
	return rendered, nil
}

func (c *HTMLConverter) convertURL(ctx context.Context, pageURL *url.URL) (string, error) {
	if pageURL.Scheme != "http" && pageURL.Scheme != "https" {
		return "", &ConversionError{
			Hint: fmt.Sprintf("unsupported URL scheme: %s", pageURL.Scheme),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", &ConversionError{OriginalError: err, Hint: "failed to build request"}
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	// #nosec G107 - URL has been validated for http/https scheme only
	resp, err := c.client.Do(req)
	if err != nil {
		return "", &ConversionError{
			OriginalError: err,
			Hint:          fmt.Sprintf("failed to fetch %s", pageURL),
		}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("error closing response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &ConversionError{
			OriginalError: &HTTPError{StatusCode: resp.StatusCode, URL: pageURL.String()},
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", &ConversionError{OriginalError: err, Hint: "failed to read response body"}
	}

	content, cErr := extract(body, pageURL)
	if cErr != nil {
		return "", cErr
	}
	return content, nil
}

// extract runs readability over an HTML document
func extract(html []byte, pageURL *url.URL) (string, *ConversionError) {
	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err != nil {
		return "", &ConversionError{
			OriginalError: err,
			Hint:          "failed to parse HTML with go-readability",
		}
	}
	if article.Node == nil {
		return "", &ConversionError{Hint: "no readable content found in page"}
	}

	var buf bytes.Buffer
	if err := article.RenderText(&buf); err != nil {
		return "", &ConversionError{
			OriginalError: err,
			Hint:          "failed to render readable content",
		}
	}

	content := strings.TrimSpace(buf.String())
	if content == "" {
		return "", &ConversionError{Hint: "no readable content found in page"}
	}
	return content, nil
}
