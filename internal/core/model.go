package core

import (
	"time"
)

// Category labels returned by the model or used as error sentinels
const (
	CategoryProductive      = "Produtivo"
	CategoryUnproductive    = "Improdutivo"
	CategoryUnclassified    = "Não Classificado"
	CategoryError           = "Erro"
	CategoryConfigError     = "Erro de Configuração da IA"
	CategoryProcessingError = "Erro de Processamento"
)

// Fallback values used when the model omits a field
const (
	DefaultSuggestedResponse = "Não foi possível gerar uma resposta."
	DefaultTitleSummary      = "Sem Título"
	FailureTitleSummary      = "Falha na IA"
	ConfigErrorResponse      = "Verifique a configuração de credenciais."
)

// MaxHistoryEntries is the size cap of the history log
const MaxHistoryEntries = 50

// Outcome tells how a classification was produced
type Outcome int

const (
	OutcomeClassified Outcome = iota
	OutcomeConfigurationError
	OutcomeProcessingError
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClassified:
		return "classified"
	case OutcomeConfigurationError:
		return "configuration_error"
	case OutcomeProcessingError:
		return "processing_error"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Classification represents the result of triaging one email
type Classification struct {
	Category          string
	SuggestedResponse string
	TitleSummary      string
	Outcome           Outcome
	ModelUsed         string
	AnalyzedAt        time.Time
}

// HistoryEntry is one persisted classification. The JSON keys are the ones
// the web UI reads.
type HistoryEntry struct {
	ID                string `json:"id"`
	Timestamp         string `json:"timestamp"`
	Category          string `json:"categoria"`
	TitleSummary      string `json:"titulo_resumo"`
	OriginalContent   string `json:"email_original"`
	SuggestedResponse string `json:"resposta_sugerida"`
}

// IsErrorCategory reports whether a category marks a failed classification
func IsErrorCategory(category string) bool {
	switch category {
	case CategoryError, CategoryConfigError, CategoryProcessingError:
		return true
	}
	return false
}
