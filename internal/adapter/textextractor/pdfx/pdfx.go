// Package pdfx extracts plain text from uploaded resume files.
package pdfx

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// Extractor converts uploaded bytes to text. PDF content goes through the
// pdf parser; anything else, or a failed parse, degrades to a best-effort
// sanitized decode of the raw bytes. ExtractBytes never returns an error by
// contract: the worst case is an empty string.
type Extractor struct{}

// New constructs an Extractor.
func New() *Extractor { return &Extractor{} }

// ExtractBytes returns the text content of an uploaded file.
func (e *Extractor) ExtractBytes(_ domain.Context, filename string, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	mime := mimetype.Detect(data)
	if mime.Is("application/pdf") || strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		if text, err := extractPDFText(data); err == nil {
			return text
		} else {
			slog.Warn("pdf extraction failed, falling back to raw decode",
				slog.String("filename", filename), slog.Any("error", err))
		}
	}
	return textx.SanitizeText(string(data))
}

func extractPDFText(data []byte) (text string, err error) {
	// The pdf library panics on some malformed documents; convert to error
	// so the caller can take the raw-decode path.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf parse panic: %v", rec)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("no text content in pdf")
	}
	return b.String(), nil
}
