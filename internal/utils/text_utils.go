package utils

import (
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
)

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText safely truncates text to the specified maximum size
// and ensures the result is valid UTF-8
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]

	// Drop bytes of a rune cut in half
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	return truncated + "..."
}

// DecodeUTF8 decodes raw bytes as UTF-8. Valid input is returned unchanged;
// invalid sequences are replaced with U+FFFD.
func (tp *TextProcessor) DecodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	decoded, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		tp.logger.Warn("Failed to decode text as UTF-8", zap.Error(err))
		return string(data)
	}

	tp.logger.Debug("Text contained invalid UTF-8",
		zap.Int("original_size", len(data)),
		zap.Int("decoded_size", len(decoded)))

	return string(decoded)
}
