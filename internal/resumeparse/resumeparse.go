// Package resumeparse extracts plain text from an uploaded resume
// file so ResumeFileService can persist something C10's tailoring
// pass can read without re-fetching and re-rendering the original
// document. PDF extraction uses ledongthuc/pdf; DOCX extraction uses
// gomutex/godocx — both readers need a path, so extraction spools the
// upload to a temp file first.
package resumeparse

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/ledongthuc/pdf"
)

// MaxExtractedChars bounds how much text is kept; resumes run a few
// pages and the extracted text only feeds keyword/signal matching, not
// full-document tailoring.
const MaxExtractedChars = 20_000

// Extract dispatches on fileType ("PDF" or "DOCX") and returns the
// document's plain text, truncated to MaxExtractedChars.
func Extract(r io.Reader, fileType string) (string, error) {
	switch strings.ToUpper(fileType) {
	case "PDF":
		return extractPDF(r)
	case "DOCX":
		return extractDOCX(r)
	default:
		return "", fmt.Errorf("resumeparse: unsupported file type %q", fileType)
	}
}

func extractPDF(r io.Reader) (string, error) {
	path, cleanup, err := spoolToTemp(r, "resume-*.pdf")
	if err != nil {
		return "", err
	}
	defer cleanup()

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("resumeparse: open pdf: %w", err)
	}
	defer f.Close()

	textReader, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("resumeparse: extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", fmt.Errorf("resumeparse: read pdf text: %w", err)
	}
	return truncate(buf.String()), nil
}

func extractDOCX(r io.Reader) (string, error) {
	path, cleanup, err := spoolToTemp(r, "resume-*.docx")
	if err != nil {
		return "", err
	}
	defer cleanup()

	doc, err := godocx.OpenDocument(path)
	if err != nil {
		return "", fmt.Errorf("resumeparse: open docx: %w", err)
	}

	var b strings.Builder
	for _, child := range doc.Document.Body.Children {
		if child.Para == nil {
			continue
		}
		text := child.Para.Text()
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return truncate(b.String()), nil
}

func spoolToTemp(r io.Reader, pattern string) (path string, cleanup func(), err error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("resumeparse: create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("resumeparse: spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("resumeparse: close temp file: %w", err)
	}
	name := tmp.Name()
	return name, func() { os.Remove(name) }, nil
}

func truncate(s string) string {
	if len(s) <= MaxExtractedChars {
		return s
	}
	return s[:MaxExtractedChars]
}
