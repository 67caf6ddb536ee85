package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/utils"
)

// Settle modes.
const (
	SettleModeReady = "ready"
	SettleModeFixed = "fixed"
)

// readyJS is the readiness predicate polled after navigation.
const readyJS = `() => document.readyState === "complete" && !!document.body`

// settle waits for the page to be ready for extraction. It never fails:
// when the bound elapses the DOM is read as-is.
//
// "ready" polls readyJS every SettlePoll and then waits for the DOM to stop
// changing, both within SettleTimeout. "fixed" sleeps SettleTimeout.
func (r *Renderer) settle(ctx context.Context, page *rod.Page) {
	bound := r.scraperCfg.SettleTimeout
	if bound <= 0 {
		return
	}

	if r.scraperCfg.SettleMode == SettleModeFixed {
		select {
		case <-ctx.Done():
		case <-time.After(bound):
		}
		return
	}

	settleCtx, cancel := context.WithTimeout(ctx, bound)
	defer cancel()
	p := page.Context(settleCtx)

	err := pollUntil(settleCtx, r.scraperCfg.SettlePoll, func() bool {
		res, evalErr := p.Eval(readyJS)
		return evalErr == nil && res.Value.Bool()
	})
	if err != nil {
		slog.Debug("readiness predicate not met within bound, using current DOM",
			"bound", bound, "error", err)
		return
	}

	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}
}

// pollUntil calls cond immediately and then every interval until it returns
// true or ctx is done.
func pollUntil(ctx context.Context, interval time.Duration, cond func() bool) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	// Equal init and max intervals make the backoff a fixed tick.
	sleeper := utils.BackoffSleeper(interval, interval, nil)
	return utils.Retry(ctx, sleeper, func() (bool, error) {
		return cond(), nil
	})
}
