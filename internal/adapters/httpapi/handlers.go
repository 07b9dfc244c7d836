package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/extract"
	"go.uber.org/zap"
)

const (
	emptyContentMessage      = "Por favor, insira o conteúdo do email ou faça upload de um arquivo para análise."
	unsupportedFormatMessage = "Formato de arquivo não suportado (.txt ou .pdf)."
	uploadTooLargeMessage    = "Arquivo excede o tamanho máximo permitido."
)

// TriageService is the application service behind the API
type TriageService interface {
	Process(ctx context.Context, content string) *core.Classification
	History(ctx context.Context) ([]core.HistoryEntry, error)
}

// ProcessRequest is the JSON body accepted by POST /api/processar
type ProcessRequest struct {
	EmailContent string `json:"email_content"`
}

// ProcessResponse is returned for every classification, including sentinel ones
type ProcessResponse struct {
	Category          string `json:"categoria"`
	SuggestedResponse string `json:"resposta_sugerida"`
	TitleSummary      string `json:"titulo_resumo"`
}

// Handlers serves the triage endpoints
type Handlers struct {
	service        TriageService
	extractor      *extract.Extractor
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewHandlers creates the API handlers
func NewHandlers(service TriageService, extractor *extract.Extractor, maxUploadBytes int64, logger *zap.Logger) *Handlers {
	return &Handlers{
		service:        service,
		extractor:      extractor,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Process classifies an uploaded file or inline text
func (h *Handlers) Process(r *http.Request) (any, error) {
	content, err := h.content(r)
	if err != nil {
		return nil, err
	}

	result := h.service.Process(r.Context(), content)
	return ProcessResponse{
		Category:          result.Category,
		SuggestedResponse: result.SuggestedResponse,
		TitleSummary:      result.TitleSummary,
	}, nil
}

// History returns the stored classifications, newest first
func (h *Handlers) History(r *http.Request) (any, error) {
	entries, err := h.service.History(r.Context())
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to load history: %w", err)
	}
	return entries, nil
}

// Health reports that the process is serving
func (h *Handlers) Health(r *http.Request) (any, error) {
	return map[string]string{"status": "ok"}, nil
}

// content picks the uploaded file when one with a name was sent, otherwise
// the email_content field of a JSON body
func (h *Handlers) content(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)
	}

	switch {
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return "", h.uploadError(err)
		}
		file, header, err := r.FormFile("file")
		if err == nil && header.Filename != "" {
			defer file.Close()
			content, err := h.extractor.FromFile(header.Filename, file)
			return content, h.extractError(err)
		}
		if file != nil {
			file.Close()
		}
		// a form without a file may still carry the text field
		return h.text(r.FormValue("email_content"))

	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		var req ProcessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", h.uploadError(err)
		}
		return h.text(req.EmailContent)
	}

	return "", CodedErrorf(http.StatusBadRequest, emptyContentMessage)
}

func (h *Handlers) text(s string) (string, error) {
	content, err := h.extractor.FromText(s)
	return content, h.extractError(err)
}

func (h *Handlers) extractError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return CodedErrorf(http.StatusBadRequest, unsupportedFormatMessage)
	case errors.Is(err, extract.ErrEmptyContent):
		return CodedErrorf(http.StatusBadRequest, emptyContentMessage)
	default:
		return h.uploadError(err)
	}
}

func (h *Handlers) uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return CodedErrorf(http.StatusRequestEntityTooLarge, uploadTooLargeMessage)
	}
	h.logger.Debug("error reading upload", zap.Error(err))
	return CodedErrorf(http.StatusBadRequest, emptyContentMessage)
}
