package converter

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFConverter extracts text from local or remote PDF files
type PDFConverter struct {
	client *http.Client
}

// NewPDFConverter creates a PDFConverter; client fetches remote PDFs
func NewPDFConverter(client *http.Client) *PDFConverter {
	if client == nil {
		client = http.DefaultClient
	}
	return &PDFConverter{client: client}
}

// Supports accepts existing .pdf files and .pdf URLs
func (c *PDFConverter) Supports(input string) bool {
	info := ParseInput(input)
	if info.Type == InputTypeText {
		return false
	}
	return info.Ext == ".pdf"
}

// Convert extracts the plain text of every page
func (c *PDFConverter) Convert(ctx context.Context, input string) (string, error) {
	info := ParseInput(input)

	switch info.Type {
	case InputTypeFile:
		return c.convertFile(info.Path)
	case InputTypeURL:
		path, err := DownloadFile(ctx, c.client, info.URL.String(), os.TempDir())
		if err != nil {
			return "", &ConversionError{OriginalError: err, Path: input, Hint: "failed to download PDF"}
		}
		defer os.Remove(path)
		return c.convertFile(path)
	default:
		return input, nil
	}
}

func (c *PDFConverter) convertFile(path string) (string, error) {
	resolvedPath, err := validatePath(path)
	if err != nil {
		return "", err
	}

	f, reader, err := pdf.Open(resolvedPath)
	if err != nil {
		return "", &ConversionError{
			OriginalError: err,
			Path:          path,
			Hint:          "failed to open PDF",
		}
	}
	defer f.Close()

	text, err := reader.GetPlainText()
	if err != nil {
		return "", &ConversionError{
			OriginalError: err,
			Path:          path,
			Hint:          "failed to extract text from PDF",
		}
	}

	content, err := io.ReadAll(text)
	if err != nil {
		return "", &ConversionError{
			OriginalError: err,
			Path:          path,
			Hint:          "failed to read PDF text",
		}
	}

	return strings.TrimSpace(string(content)), nil
}
