// Package extract turns uploaded PDF and DOCX documents into plain text.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file type. Please upload a PDF or DOCX file")
	ErrEmptyInput        = errors.New("file is empty")
)

// ParseError reports a document that has a supported extension but could not be read
type ParseError struct {
	FileName string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.FileName, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extractor returns best-effort plain text for a document
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract reads r fully and dispatches on the (case-insensitive) extension of fileName
func (e *Extractor) Extract(fileName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".pdf" && ext != ".docx" {
		return "", fmt.Errorf("%s: %w", fileName, ErrUnsupportedFormat)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", fileName, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", fileName, ErrEmptyInput)
	}

	var text string
	switch ext {
	case ".pdf":
		text, err = extractPDFText(data)
	case ".docx":
		text, err = extractDocxText(data)
	}
	if err != nil {
		return "", &ParseError{FileName: fileName, Err: err}
	}

	log.Debug().
		Str("filename", fileName).
		Int("bytes", len(data)).
		Int("textLen", len(text)).
		Msg("Document text extracted")

	return text, nil
}

// ── PDF ────────────────────────────────────────────────

func extractPDFText(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Int("page", i).Err(err).Msg("Failed to extract text from PDF page")
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageText)
	}

	return sb.String(), nil
}

// ── DOCX ───────────────────────────────────────────────

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	lineBreak    = regexp.MustCompile(`<w:(br|cr)[^>]*/>`)
	tab          = regexp.MustCompile(`<w:tab[^>]*/>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening DOCX: %w", err)
	}
	defer doc.Close()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

// docxXMLToText flattens word/document.xml into one line per paragraph
func docxXMLToText(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = lineBreak.ReplaceAllString(content, "\n")
	content = tab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return strings.TrimSpace(html.UnescapeString(content))
}
