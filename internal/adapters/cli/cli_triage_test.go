package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikey/email-triage/internal/adapters/history"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/extract"
	"github.com/mikey/email-triage/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClassifier struct {
	result *core.Classification
	texts  []string
}

func (s *stubClassifier) Classify(_ context.Context, text string) *core.Classification {
	s.texts = append(s.texts, text)
	return s.result
}

type noPages struct{}

func (noPages) PageTexts([]byte) ([]string, error) { return nil, nil }

func newTriage(classifier Classifier, repo core.HistoryRepository, verbose bool) (*CliTriage, *bytes.Buffer) {
	logger := zap.NewNop()
	tp := utils.NewTextProcessor(logger)
	out := &bytes.Buffer{}
	return NewCliTriage(classifier, extract.NewExtractor(noPages{}, tp, logger), repo, tp, logger, out, verbose), out
}

func productive() *core.Classification {
	return &core.Classification{
		Category:          "Produtivo",
		SuggestedResponse: "Vamos verificar.",
		TitleSummary:      "Status do chamado",
		Outcome:           core.OutcomeClassified,
		ModelUsed:         "fake",
	}
}

func TestRun_TextPrintsResult(t *testing.T) {
	classifier := &stubClassifier{result: productive()}
	triage, out := newTriage(classifier, nil, true)

	result, err := triage.Run(context.Background(), Input{Text: "  Qual o status do chamado 42?  "})

	require.NoError(t, err)
	assert.Equal(t, "Produtivo", result.Category)
	assert.Equal(t, []string{"Qual o status do chamado 42?"}, classifier.texts)
	assert.Contains(t, out.String(), "Categoria: Produtivo")
	assert.Contains(t, out.String(), "Preview:\nQual o status do chamado 42?")
	assert.NotContains(t, out.String(), "Saved to history")
}

func TestRun_FileAndHistory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "email.txt")
	require.NoError(t, os.WriteFile(path, []byte("Preciso de suporte.\n"), 0644))
	store := history.NewJSONStore(filepath.Join(dir, "history.json"), zap.NewNop())
	triage, out := newTriage(&stubClassifier{result: productive()}, store, false)

	_, err := triage.Run(context.Background(), Input{File: path})
	require.NoError(t, err)

	entries, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Preciso de suporte.\n", entries[0].OriginalContent)
	assert.Contains(t, out.String(), "Saved to history: "+entries[0].ID)
}

func TestRun_SentinelIsNotSaved(t *testing.T) {
	store := history.NewJSONStore(filepath.Join(t.TempDir(), "history.json"), zap.NewNop())
	failed := &core.Classification{
		Category:          core.CategoryProcessingError,
		SuggestedResponse: "Falha na API: boom",
		TitleSummary:      core.FailureTitleSummary,
		Outcome:           core.OutcomeProcessingError,
	}
	triage, _ := newTriage(&stubClassifier{result: failed}, store, false)

	_, err := triage.Run(context.Background(), Input{Stdin: strings.NewReader("email")})
	require.NoError(t, err)

	entries, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_InputErrors(t *testing.T) {
	classifier := &stubClassifier{result: productive()}
	triage, _ := newTriage(classifier, nil, false)

	_, err := triage.Run(context.Background(), Input{Stdin: strings.NewReader("   ")})
	assert.ErrorIs(t, err, extract.ErrEmptyContent)

	path := filepath.Join(t.TempDir(), "email.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	_, err = triage.Run(context.Background(), Input{File: path})
	assert.ErrorIs(t, err, extract.ErrUnsupportedFormat)

	_, err = triage.Run(context.Background(), Input{File: filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)

	assert.Empty(t, classifier.texts)
}
