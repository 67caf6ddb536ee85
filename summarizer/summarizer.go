// Package summarizer produces the article summary: an abstractive summary of
// the page text followed by the Markdown of every extracted table.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/use-agent/newsscrape/config"
	"github.com/use-agent/newsscrape/models"
)

// Options are passed to the model on every call.
type Options struct {
	// MinLength and MaxLength bound the summary length in tokens.
	MinLength int
	MaxLength int

	// Deterministic disables sampling.
	Deterministic bool
}

// Model is an abstractive summarization capability.
type Model interface {
	Summarize(ctx context.Context, input string, opts Options) (string, error)
}

// Summarizer builds model input from the extracted fields and appends the
// table renderings to the model's output.
type Summarizer struct {
	model  Model
	budget int
	opts   Options
}

// New creates a Summarizer that calls model.
func New(model Model, cfg config.SummarizerConfig) *Summarizer {
	return &Summarizer{
		model:  model,
		budget: cfg.InputBudget,
		opts: Options{
			MinLength:     cfg.MinLength,
			MaxLength:     cfg.MaxLength,
			Deterministic: true,
		},
	}
}

// BuildInput joins the fields as "{title}. {heading}. {articleText}".
func BuildInput(title, heading, articleText string) string {
	return title + ". " + heading + ". " + articleText
}

// Truncate returns the first budget characters of s. Cuts are not aligned to
// word or sentence boundaries. A budget <= 0 disables truncation.
func Truncate(s string, budget int) string {
	if budget <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == budget {
			return s[:i]
		}
		n++
	}
	return s
}

// TableBlock is the labeled block appended to the summary for table i
// (zero-based).
func TableBlock(i int, markdown string) string {
	return fmt.Sprintf("\n\nTable %d:\n%s", i+1, markdown)
}

// Summarize summarizes the article text and appends one TableBlock per
// table, in order, separated by single spaces. Any model failure is fatal.
//
// The model is not called when both title and articleText are empty.
func (s *Summarizer) Summarize(ctx context.Context, title, heading, articleText string, tables []models.ArticleTable) (string, error) {
	var body string
	if title != "" || articleText != "" {
		full := BuildInput(title, heading, articleText)
		input := Truncate(full, s.budget)
		if dropped := full[len(input):]; dropped != "" {
			slog.Info("summary input truncated",
				"budget_chars", s.budget,
				"kept_tokens_est", EstimateTokens(input),
				"dropped_tokens_est", EstimateTokens(dropped),
			)
		}

		out, err := s.model.Summarize(ctx, input, s.opts)
		if err != nil {
			if models.CodeOf(err) == models.ErrCodeSummarization {
				return "", err
			}
			return "", models.NewScrapeError(models.ErrCodeSummarization, "summarization failed", err)
		}
		if strings.TrimSpace(out) == "" {
			return "", models.NewScrapeError(models.ErrCodeSummarization, "model returned an empty summary", nil)
		}
		body = out
	}

	parts := make([]string, 0, len(tables)+1)
	parts = append(parts, body)
	for i, t := range tables {
		parts = append(parts, TableBlock(i, t.Markdown))
	}
	return strings.Join(parts, " "), nil
}
