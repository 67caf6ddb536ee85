package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/newsscrape/models"
	"github.com/ysmood/gson"
)

// renderBrowser launches a browser scoped to this call, renders url and
// returns the DOM.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Launch                 – start Chromium via the launcher
//  2. DEFER: teardown        – kill the process, remove the profile dir
//  3. Connect + open page    – DEFER: close the browser over CDP
//  4. Stealth injection      – before navigation
//  5. Extra headers + hijack – before navigation
//  6. Navigate               – bounded by NavigationTimeout when set
//  7. Settle                 – readiness predicate or fixed sleep
//  8. Extract                – page.HTML() + document.title + location.href
//
// Step 2 is registered before anything that can fail after launch, so the
// Chromium process is reaped on every exit path, including a failure in
// step 8.
func (r *Renderer) renderBrowser(ctx context.Context, targetURL string) (*Document, error) {
	// ── 1. Launch ─────────────────────────────────────────────────────
	l := r.newLauncher()
	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}

	// ── 2. CRITICAL DEFER: never leak a Chromium process ─────────────
	defer func() {
		l.Kill()
		l.Cleanup()
		slog.Debug("teardown: browser process released", "url", targetURL)
	}()

	// ── 3. Connect + open page ────────────────────────────────────────
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			slog.Debug("teardown: browser close failed", "error", closeErr)
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to open page",
			err,
		)
	}

	// ── 4. Stealth injection ──────────────────────────────────────────
	if r.browserCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── 5. Referer header + hijack router ─────────────────────────────
	if u, parseErr := url.Parse(targetURL); parseErr == nil && u.Hostname() != "" {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{
				"Referer": "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname()),
			}),
		}.Call(page)
	}

	router := setupHijack(page, r.scraperCfg.BlockedResourceTypes, r.scraperCfg.BlockAds)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)

	// ── 6. Navigate ───────────────────────────────────────────────────
	nav := p
	if r.scraperCfg.NavigationTimeout > 0 {
		navCtx, cancel := context.WithTimeout(ctx, r.scraperCfg.NavigationTimeout)
		defer cancel()
		nav = page.Context(navCtx)
	}
	if err := nav.Navigate(targetURL); err != nil {
		return nil, categorizeError(err, "navigation to target URL failed")
	}

	// ── 7. Settle ─────────────────────────────────────────────────────
	settleStart := time.Now()
	r.settle(ctx, page)
	slog.Debug("page settled", "url", targetURL, "mode", r.scraperCfg.SettleMode,
		"settle_ms", time.Since(settleStart).Milliseconds())

	// ── 8. Extract rendered DOM ───────────────────────────────────────
	rawHTML, err := p.HTML()
	if err != nil {
		return nil, categorizeError(err, "failed to extract page HTML")
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = targetURL
	}

	return &Document{
		URL:         targetURL,
		FinalURL:    finalURL,
		Title:       evalStringOrEmpty(p, `() => document.title`),
		HTML:        rawHTML,
		FetchMethod: FetchModeBrowser,
	}, nil
}

// newLauncher builds the Chromium launcher from the browser config.
func (r *Renderer) newLauncher() *launcher.Launcher {
	l := launcher.New().
		Headless(r.browserCfg.Headless).
		NoSandbox(r.browserCfg.NoSandbox)

	if r.browserCfg.BrowserBin != "" {
		l = l.Bin(r.browserCfg.BrowserBin)
	}
	if r.browserCfg.DefaultProxy != "" {
		l = l.Proxy(r.browserCfg.DefaultProxy)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("no-first-run"))
	return l
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed ScrapeErrors so the API layer
// can report them uniformly.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
