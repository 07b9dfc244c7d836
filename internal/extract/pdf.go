package extract

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// PageReader returns the text of each page of a PDF document, in order
type PageReader interface {
	PageTexts(document []byte) ([]string, error)
}

// FitzPageReader reads PDFs with MuPDF
type FitzPageReader struct {
	logger *zap.Logger
}

// NewFitzPageReader creates a new MuPDF backed page reader
func NewFitzPageReader(logger *zap.Logger) *FitzPageReader {
	return &FitzPageReader{logger: logger}
}

// PageTexts returns one entry per page; a page whose text cannot be
// extracted yields an empty entry
func (r *FitzPageReader) PageTexts(document []byte) ([]string, error) {
	doc, err := fitz.NewFromMemory(document)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, doc.NumPage())
	for i := range pages {
		text, err := doc.Text(i)
		if err != nil {
			r.logger.Warn("Failed to extract PDF page text", zap.Int("page", i), zap.Error(err))
			continue
		}
		pages[i] = text
	}
	return pages, nil
}
