package pipeline

import (
	"testing"
	"time"

	"github.com/use-agent/newsscrape/config"
)

func TestFromConfig_Summarizer(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SummarizerConfig
		enabled bool
	}{
		{
			name:    "disabled",
			cfg:     config.SummarizerConfig{Enabled: false, APIKey: "k", BaseURL: config.DefaultLLMBaseURL},
			enabled: false,
		},
		{
			name:    "hosted default without key",
			cfg:     config.SummarizerConfig{Enabled: true, BaseURL: config.DefaultLLMBaseURL},
			enabled: false,
		},
		{
			name:    "hosted default with trailing slash and no key",
			cfg:     config.SummarizerConfig{Enabled: true, BaseURL: config.DefaultLLMBaseURL + "/"},
			enabled: false,
		},
		{
			name:    "hosted default with key",
			cfg:     config.SummarizerConfig{Enabled: true, APIKey: "k", BaseURL: config.DefaultLLMBaseURL},
			enabled: true,
		},
		{
			name:    "local server without key",
			cfg:     config.SummarizerConfig{Enabled: true, BaseURL: "http://127.0.0.1:11434/v1"},
			enabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromConfig(&config.Config{
				Search:     config.SearchConfig{APIKey: "k"},
				Summarizer: tt.cfg,
			})
			if got := p.summarizer != nil; got != tt.enabled {
				t.Errorf("summarizer wired = %v, want %v", got, tt.enabled)
			}
		})
	}
}

func TestFromConfig_OnlySearchKeyRequired(t *testing.T) {
	t.Setenv(config.SearchKeyEnv, "k")
	t.Setenv("NEWSSCRAPE_LLM_API_KEY", "")
	t.Setenv("NEWSSCRAPE_LLM_BASE_URL", "")
	t.Setenv("NEWSSCRAPE_SUMMARIZE", "")

	p := FromConfig(config.Load())
	if !p.resolver.Configured() {
		t.Error("resolver should report the configured key")
	}
	if p.summarizer != nil {
		t.Error("default config without an LLM key must not wire a summarizer that would fail every request")
	}
	if !p.extractCfg.ExcludeFooter {
		t.Error("extract config not carried through")
	}
}

func TestFromConfig_TimeoutsDefaultUnbounded(t *testing.T) {
	t.Setenv("NEWSSCRAPE_SEARCH_TIMEOUT", "")
	t.Setenv("NEWSSCRAPE_SUMMARY_TIMEOUT", "")

	cfg := config.Load()
	if cfg.Search.Timeout != 0 || cfg.Summarizer.Timeout != 0 {
		t.Errorf("timeouts = %v / %v, want unbounded", cfg.Search.Timeout, cfg.Summarizer.Timeout)
	}

	t.Setenv("NEWSSCRAPE_SEARCH_TIMEOUT", "5s")
	t.Setenv("NEWSSCRAPE_SUMMARY_TIMEOUT", "90s")
	cfg = config.Load()
	if cfg.Search.Timeout != 5*time.Second || cfg.Summarizer.Timeout != 90*time.Second {
		t.Errorf("timeouts = %v / %v, want 5s / 90s", cfg.Search.Timeout, cfg.Summarizer.Timeout)
	}
}
