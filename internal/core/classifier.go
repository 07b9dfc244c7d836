package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const promptFormat = `
Você é um assistente de triagem de e-mails para uma empresa.
Sua tarefa é analisar o e-mail abaixo e fazer três coisas:

1. CLASSIFICAÇÃO: Categorizar o e-mail como 'Produtivo' (requer ação imediata, solicitação, dúvida sobre sistema/caso) ou 'Improdutivo' (saudações, agradecimentos, mensagens não acionáveis).
2. RESPOSTA SUGERIDA: Gerar uma resposta profissional, concisa e em português baseada na classificação.
3. TÍTULO RESUMO: Gerar um título conciso (máximo 5 palavras) que resuma o assunto principal do email.

E-MAIL A SER ANALISADO:
---
%s
---

Sua resposta DEVE ser um objeto JSON no seguinte formato, e NADA MAIS:
{
  "categoria": "[Produtivo ou Improdutivo]",
  "resposta_sugerida": "[Sua resposta automática gerada]",
  "titulo_resumo": "[Título conciso do email]"
}
`

// classificationResponse is the JSON object the model is asked to return
type classificationResponse struct {
	Category          *string `json:"categoria"`
	SuggestedResponse *string `json:"resposta_sugerida"`
	TitleSummary      *string `json:"titulo_resumo"`
}

// Classifier turns email text into a Classification using the LLM
type Classifier struct {
	llm     LLMHandle
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewClassifier creates a new classifier. A zero timeout disables the deadline.
func NewClassifier(llm LLMHandle, timeout time.Duration, logger *zap.Logger) *Classifier {
	return &Classifier{
		llm:     llm,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// BuildPrompt embeds the email text in the triage instructions
func BuildPrompt(emailText string) string {
	return fmt.Sprintf(promptFormat, emailText)
}

// Classify never returns an error: failures are reported through the
// Outcome and the sentinel category of the result.
func (c *Classifier) Classify(ctx context.Context, emailText string) *Classification {
	client, err := c.llm.Client()
	if err != nil {
		c.logger.Warn("LLM client unavailable", zap.Error(err))
		return &Classification{
			Category:          CategoryConfigError,
			SuggestedResponse: ConfigErrorResponse,
			TitleSummary:      FailureTitleSummary,
			Outcome:           OutcomeConfigurationError,
			AnalyzedAt:        c.now(),
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	startTime := c.now()
	responseText, err := client.GenerateJSON(ctx, BuildPrompt(emailText))
	if err == nil {
		var result *Classification
		result, err = parseClassification(responseText)
		if err == nil {
			result.ModelUsed = client.ModelName()
			result.AnalyzedAt = c.now()
			c.logger.Info("Email classified",
				zap.String("category", result.Category),
				zap.String("model", result.ModelUsed),
				zap.Duration("duration", result.AnalyzedAt.Sub(startTime)))
			return result
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		c.logger.Error("LLM call timed out",
			zap.Duration("timeout", c.timeout),
			zap.String("model", client.ModelName()))
		return &Classification{
			Category:          CategoryProcessingError,
			SuggestedResponse: fmt.Sprintf("Tempo limite de %s excedido na chamada da IA.", c.timeout),
			TitleSummary:      FailureTitleSummary,
			Outcome:           OutcomeTimeout,
			ModelUsed:         client.ModelName(),
			AnalyzedAt:        c.now(),
		}
	}

	c.logger.Error("LLM call failed", zap.Error(err), zap.String("model", client.ModelName()))
	return &Classification{
		Category:          CategoryProcessingError,
		SuggestedResponse: fmt.Sprintf("Falha na API: %v", err),
		TitleSummary:      FailureTitleSummary,
		Outcome:           OutcomeProcessingError,
		ModelUsed:         client.ModelName(),
		AnalyzedAt:        c.now(),
	}
}

// parseClassification decodes the model reply, falling back to the outermost
// {...} block when the reply carries extra text around the JSON object
func parseClassification(responseText string) (*Classification, error) {
	var resp classificationResponse
	if err := json.Unmarshal([]byte(responseText), &resp); err != nil {
		jsonStart := strings.Index(responseText, "{")
		jsonEnd := strings.LastIndex(responseText, "}")
		if jsonStart < 0 || jsonEnd <= jsonStart {
			return nil, fmt.Errorf("failed to extract JSON from LLM response: %w", err)
		}
		resp = classificationResponse{}
		if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd+1]), &resp); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}

	return &Classification{
		Category:          valueOr(resp.Category, CategoryUnclassified),
		SuggestedResponse: valueOr(resp.SuggestedResponse, DefaultSuggestedResponse),
		TitleSummary:      valueOr(resp.TitleSummary, DefaultTitleSummary),
		Outcome:           OutcomeClassified,
	}, nil
}

func valueOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}
