package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/extract"
	"github.com/mikey/email-triage/internal/utils"
	"go.uber.org/zap"
)

const previewSize = 500

// Classifier classifies one email
type Classifier interface {
	Classify(ctx context.Context, emailText string) *core.Classification
}

// Input selects where the email is read from. File wins over Text; with
// neither set the email is read from Stdin.
type Input struct {
	File  string
	Text  string
	Stdin io.Reader
}

// CliTriage classifies a single email from the command line and prints the result
type CliTriage struct {
	classifier    Classifier
	extractor     *extract.Extractor
	history       core.HistoryRepository
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	out           io.Writer
	verbose       bool
}

// NewCliTriage creates a new CLI triage runner. A nil history disables saving.
func NewCliTriage(
	classifier Classifier,
	extractor *extract.Extractor,
	history core.HistoryRepository,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	out io.Writer,
	verbose bool,
) *CliTriage {
	return &CliTriage{
		classifier:    classifier,
		extractor:     extractor,
		history:       history,
		textProcessor: textProcessor,
		logger:        logger,
		out:           out,
		verbose:       verbose,
	}
}

// Run reads, classifies and prints one email
func (c *CliTriage) Run(ctx context.Context, in Input) (*core.Classification, error) {
	source, content, err := c.read(in)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Processing email", zap.String("source", source))

	fmt.Fprintf(c.out, "\n=== Email Summary ===\n")
	fmt.Fprintf(c.out, "Source: %s\n", source)
	fmt.Fprintf(c.out, "Length: %d bytes\n", len(content))
	if c.verbose {
		fmt.Fprintf(c.out, "\nPreview:\n%s\n", c.textProcessor.TruncateText(content, previewSize))
	}
	fmt.Fprintf(c.out, "\n")

	fmt.Fprintf(c.out, "=== Analysis ===\n")
	fmt.Fprintf(c.out, "Classifying email with LLM...\n")
	startTime := time.Now()
	result := c.classifier.Classify(ctx, content)
	duration := time.Since(startTime)

	fmt.Fprintf(c.out, "\n=== Results ===\n")
	fmt.Fprintf(c.out, "Categoria: %s\n", result.Category)
	fmt.Fprintf(c.out, "Título: %s\n", result.TitleSummary)
	fmt.Fprintf(c.out, "Resposta sugerida:\n%s\n", result.SuggestedResponse)
	fmt.Fprintf(c.out, "Outcome: %s\n", result.Outcome)
	if result.ModelUsed != "" {
		fmt.Fprintf(c.out, "Model used: %s\n", result.ModelUsed)
	}
	fmt.Fprintf(c.out, "Processing time: %v\n", duration)

	if c.history != nil && !core.IsErrorCategory(result.Category) {
		entry, err := c.history.Save(ctx, content, result)
		if err != nil {
			c.logger.Error("Failed to save classification to history", zap.Error(err))
		} else {
			fmt.Fprintf(c.out, "Saved to history: %s\n", entry.ID)
		}
	}

	return result, nil
}

func (c *CliTriage) read(in Input) (string, string, error) {
	switch {
	case in.File != "":
		f, err := os.Open(in.File)
		if err != nil {
			return "", "", fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		content, err := c.extractor.FromFile(filepath.Base(in.File), f)
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s: %w", in.File, err)
		}
		return in.File, content, nil

	case in.Text != "":
		content, err := c.extractor.FromText(in.Text)
		if err != nil {
			return "", "", err
		}
		return "-text", content, nil

	default:
		if in.Stdin == nil {
			return "", "", extract.ErrEmptyContent
		}
		data, err := io.ReadAll(in.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		content, err := c.extractor.FromText(c.textProcessor.DecodeUTF8(data))
		if err != nil {
			return "", "", err
		}
		return "stdin", content, nil
	}
}
