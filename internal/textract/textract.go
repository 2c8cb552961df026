// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textract reads the plain text of a paper from a PDF or a text
// file. No OCR is attempted: image-only PDFs come back empty or nearly so,
// which CheckLength reports as ErrInputTooShort.
package textract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// MinLength is the default minimum number of characters of extracted text
// needed before any extraction runs.
const MinLength = 80

// ErrInputTooShort reports text too short to analyze, typically a scanned
// or empty document.
var ErrInputTooShort = errors.New("extracted text too short: document may be empty or scanned (image-based); run OCR first")

// Extract returns the text of the file at path. Files ending in .pdf are
// parsed page by page; anything else is read as UTF-8 text. The result is
// NFC-normalized and trimmed.
func Extract(path string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return readText(path)
	}
	text, err := extractPDF(path)
	if err != nil {
		return "", err
	}
	return normalize(text), nil
}

// ErrNotText is returned for plain-text input that is not valid UTF-8.
var ErrNotText = errors.New("not UTF-8 text")

// FromReader reads UTF-8 text from r, normalized as Extract does.
func FromReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading text: %w", err)
	}
	if !utf8.Valid(data) {
		return "", ErrNotText
	}
	return normalize(string(data)), nil
}

func normalize(text string) string {
	return strings.TrimSpace(norm.NFC.String(text))
}

// CheckLength returns ErrInputTooShort when text, trimmed, has fewer than
// min characters. A min of zero or less selects MinLength.
func CheckLength(text string, min int) error {
	if min <= 0 {
		min = MinLength
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < min {
		return fmt.Errorf("%w (%d of %d characters)", ErrInputTooShort, n, min)
	}
	return nil
}

func readText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	text, err := FromReader(f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return text, nil
}

// extractPDF concatenates the plain text of every page, one newline after
// each. Null pages and pages that fail to decode are skipped. The PDF
// library panics on some malformed files; that is reported as an error.
func extractPDF(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parsing %s: malformed PDF: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil || pageText == "" {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
