package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/use-agent/newsscrape/config"
	"github.com/use-agent/newsscrape/models"
)

// Fetch modes.
const (
	FetchModeBrowser = "browser"
	FetchModeHTTP    = "http"
)

// minVisibleText is the body text length below which an http-mode page is
// reported as a likely script-rendered shell.
const minVisibleText = 200

// Document is a rendered page ready for field extraction.
type Document struct {
	// URL is the URL that was requested.
	URL string

	// FinalURL is the URL after redirects, as reported by the page.
	FinalURL string

	// Title is document.title in browser mode and the first <title>
	// element in http mode.
	Title string

	// HTML is the serialized DOM after client-side scripts have run.
	HTML string

	// FetchMethod records how the page was fetched: "browser" or "http".
	FetchMethod string
}

// Renderer loads pages. Each Render call owns its own browser instance,
// so a Renderer is safe for concurrent use.
type Renderer struct {
	browserCfg  config.BrowserConfig
	scraperCfg  config.ScraperConfig
	httpFetcher *httpFetcher
}

// NewRenderer creates a Renderer. No browser is started until Render.
func NewRenderer(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig) *Renderer {
	return &Renderer{
		browserCfg:  browserCfg,
		scraperCfg:  scraperCfg,
		httpFetcher: newHTTPFetcher(browserCfg.DefaultProxy),
	}
}

// Render loads url and returns the resulting document.
// Any failure is returned as a *models.ScrapeError.
func (r *Renderer) Render(ctx context.Context, url string) (*Document, error) {
	switch r.scraperCfg.FetchMode {
	case FetchModeHTTP:
		return r.renderHTTP(ctx, url)
	case FetchModeBrowser, "":
		return r.renderBrowser(ctx, url)
	default:
		return nil, models.NewScrapeError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("unknown fetch mode %q", r.scraperCfg.FetchMode),
			nil,
		)
	}
}

// renderHTTP fetches url without a browser. Client-side scripts do not run.
func (r *Renderer) renderHTTP(ctx context.Context, url string) (*Document, error) {
	body, err := r.httpFetcher.fetch(ctx, url, "")
	if err != nil {
		return nil, categorizeError(err, "http fetch of target URL failed")
	}
	if visibleTextLen(body) < minVisibleText {
		slog.Warn("http mode: page has almost no server-rendered text, it probably needs the browser",
			"url", url)
	}
	return &Document{
		URL:         url,
		FinalURL:    url,
		Title:       extractTitle(body),
		HTML:        string(body),
		FetchMethod: FetchModeHTTP,
	}, nil
}
