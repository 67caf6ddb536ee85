// Package pipeline runs one news-scrape request end to end:
// search → render → extract → summarize.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/newsscrape/config"
	"github.com/use-agent/newsscrape/extractor"
	"github.com/use-agent/newsscrape/models"
	"github.com/use-agent/newsscrape/scraper"
)

// State is a step of a pipeline run.
type State string

const (
	StateStart         State = "start"
	StateQueryResolved State = "query_resolved"
	StateRendered      State = "rendered"
	StateExtracted     State = "extracted"
	StateSummarized    State = "summarized"
	StateDone          State = "done"
	StateFailed        State = "failed"

	// StateNotFound ends a run whose search had no result. It is an empty
	// outcome, not a failure.
	StateNotFound State = "not_found"
)

// Resolver turns a query into the top article URL.
type Resolver interface {
	Configured() bool
	Resolve(ctx context.Context, query string) (link string, found bool, err error)
}

// Renderer loads a URL in a browser.
type Renderer interface {
	Render(ctx context.Context, url string) (*scraper.Document, error)
}

// Extractor pulls fields out of a rendered document.
type Extractor interface {
	Extract(doc *scraper.Document, opts extractor.Options) (*extractor.Fields, error)
}

// Summarizer produces the summary string.
type Summarizer interface {
	Summarize(ctx context.Context, title, heading, articleText string, tables []models.ArticleTable) (string, error)
}

// RunOptions are per-request switches.
type RunOptions struct {
	// IncludeContent adds the readability body as Markdown.
	IncludeContent bool
}

// Pipeline wires the components. It holds no per-request state and is safe
// for concurrent use as long as its components are.
type Pipeline struct {
	resolver   Resolver
	renderer   Renderer
	extractor  Extractor
	summarizer Summarizer
	extractCfg config.ExtractConfig
}

// New creates a Pipeline. A nil summarizer skips summarization and leaves
// the summary empty.
func New(resolver Resolver, renderer Renderer, ext Extractor, sum Summarizer, extractCfg config.ExtractConfig) *Pipeline {
	return &Pipeline{
		resolver:   resolver,
		renderer:   renderer,
		extractor:  ext,
		summarizer: sum,
		extractCfg: extractCfg,
	}
}

// Run executes one request. Errors are *models.ScrapeError values:
// CONFIG_MISSING when the search key is absent, NOT_FOUND when the search
// has no result, and the failing component's error otherwise. Nothing is
// retried and no partial result is returned.
func (p *Pipeline) Run(ctx context.Context, query string, opts RunOptions) (*models.ScrapedArticle, error) {
	start := time.Now()
	log := slog.With("query", query)
	state := StateStart

	fail := func(err error) (*models.ScrapedArticle, error) {
		log.Warn("pipeline failed",
			"state", StateFailed,
			"from", state,
			"code", models.CodeOf(err),
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}
	advance := func(next State, args ...any) {
		state = next
		log.Info("pipeline state", append([]any{"state", next}, args...)...)
	}

	// ── Start ───────────────────────────────────────────────────────
	if !p.resolver.Configured() {
		return fail(models.NewScrapeError(
			models.ErrCodeConfigMissing,
			config.SearchKeyEnv+" environment variable not set.",
			nil,
		))
	}

	link, found, err := p.resolver.Resolve(ctx, query)
	if err != nil {
		return fail(err)
	}
	if !found {
		advance(StateNotFound, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, models.NewScrapeError(models.ErrCodeNotFound, "No news found", nil)
	}
	advance(StateQueryResolved, "url", link)

	// ── Render ──────────────────────────────────────────────────────
	renderStart := time.Now()
	doc, err := p.renderer.Render(ctx, link)
	if err != nil {
		return fail(err)
	}
	advance(StateRendered, "fetch_method", doc.FetchMethod, "render_ms", time.Since(renderStart).Milliseconds())

	// ── Extract ─────────────────────────────────────────────────────
	fields, err := p.extractor.Extract(doc, extractor.Options{
		ExcludeFooter:  p.extractCfg.ExcludeFooter,
		IncludeContent: opts.IncludeContent,
	})
	if err != nil {
		return fail(err)
	}

	tables := make([]models.ArticleTable, len(fields.Tables))
	for i, t := range fields.Tables {
		tables[i] = models.ArticleTable{Raw: t, Markdown: extractor.FormatTable(t)}
	}
	advance(StateExtracted, "tables", len(tables))

	article := &models.ScrapedArticle{
		URL:         link,
		Title:       fields.Title,
		Heading:     fields.Heading,
		ImageURL:    fields.ImageURL,
		ArticleText: fields.ArticleText,
		Tables:      tables,
		Metadata:    fields.Metadata,
		Content:     fields.Content,
	}

	// ── Summarize ───────────────────────────────────────────────────
	if p.summarizer != nil {
		summaryStart := time.Now()
		article.Summary, err = p.summarizer.Summarize(ctx, fields.Title, fields.Heading, fields.ArticleText, tables)
		if err != nil {
			return fail(err)
		}
		advance(StateSummarized, "summary_ms", time.Since(summaryStart).Milliseconds())
	}

	advance(StateDone, "elapsed_ms", time.Since(start).Milliseconds())
	return article, nil
}
