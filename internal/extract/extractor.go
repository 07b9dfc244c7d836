package extract

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mikey/email-triage/internal/utils"
	"go.uber.org/zap"
)

var (
	// ErrUnsupportedFormat is returned for uploads that are neither .txt nor .pdf
	ErrUnsupportedFormat = errors.New("unsupported file format: only .txt and .pdf are accepted")
	// ErrEmptyContent is returned when no usable text remains after extraction
	ErrEmptyContent = errors.New("no email content provided")
)

// Extractor converts uploaded files or inline text into email content
type Extractor struct {
	pages         PageReader
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewExtractor creates a new extractor
func NewExtractor(pages PageReader, textProcessor *utils.TextProcessor, logger *zap.Logger) *Extractor {
	return &Extractor{
		pages:         pages,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// FromFile extracts the text of an uploaded file, picking the parser by the
// filename extension
func (e *Extractor) FromFile(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".txt" && ext != ".pdf" {
		e.logger.Debug("Rejected upload", zap.String("filename", filename))
		return "", ErrUnsupportedFormat
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}

	var content string
	switch ext {
	case ".txt":
		content = e.textProcessor.DecodeUTF8(data)
	case ".pdf":
		content = e.pdfText(filename, data)
	}

	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	return content, nil
}

// FromText trims inline text
func (e *Extractor) FromText(text string) (string, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return "", ErrEmptyContent
	}
	return content, nil
}

// pdfText concatenates the text of every page. A document that cannot be
// opened yields an empty string.
func (e *Extractor) pdfText(filename string, data []byte) string {
	pages, err := e.pages.PageTexts(data)
	if err != nil {
		e.logger.Warn("Failed to read PDF",
			zap.String("filename", filename),
			zap.Int("size", len(data)),
			zap.Error(err))
		return ""
	}

	var sb strings.Builder
	for _, page := range pages {
		sb.WriteString(page)
	}
	return sb.String()
}
