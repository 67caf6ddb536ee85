package pipeline

import (
	"log/slog"
	"net/http"

	"github.com/use-agent/newsscrape/config"
	"github.com/use-agent/newsscrape/extractor"
	"github.com/use-agent/newsscrape/scraper"
	"github.com/use-agent/newsscrape/search"
	"github.com/use-agent/newsscrape/summarizer"
)

// FromConfig wires the production components described by cfg.
//
// Summarization is skipped when it is disabled, or when it would call the
// hosted default API without a key: the search key stays the only secret
// a deployment must provide.
func FromConfig(cfg *config.Config) *Pipeline {
	resolver := search.NewClient(cfg.Search, &http.Client{Timeout: cfg.Search.Timeout})
	renderer := scraper.NewRenderer(cfg.Browser, cfg.Scraper)

	// Left as a nil interface when off so Run skips the step.
	var sum Summarizer
	switch {
	case !cfg.Summarizer.Enabled:
		slog.Info("summarizer disabled")
	case cfg.Summarizer.Keyless():
		slog.Warn("summarizer disabled: no LLM API key for the hosted endpoint",
			"base_url", cfg.Summarizer.BaseURL,
			"hint", "set NEWSSCRAPE_LLM_API_KEY or point NEWSSCRAPE_LLM_BASE_URL at a local server",
		)
	default:
		model := summarizer.NewOpenAIModel(cfg.Summarizer, &http.Client{Timeout: cfg.Summarizer.Timeout})
		sum = summarizer.New(model, cfg.Summarizer)
	}

	return New(resolver, renderer, extractor.New(), sum, cfg.Extract)
}
