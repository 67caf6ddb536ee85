package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(SearchKeyEnv, "")
	t.Setenv("NEWSSCRAPE_SETTLE_TIMEOUT", "")

	cfg := Load()

	if cfg.Search.Endpoint != "https://google.serper.dev/news" {
		t.Errorf("Search.Endpoint = %q", cfg.Search.Endpoint)
	}
	if cfg.Search.Location != "United States" {
		t.Errorf("Search.Location = %q", cfg.Search.Location)
	}
	if cfg.Scraper.SettleTimeout != 3*time.Second {
		t.Errorf("Scraper.SettleTimeout = %v, want 3s", cfg.Scraper.SettleTimeout)
	}
	if cfg.Summarizer.InputBudget != 4000 {
		t.Errorf("Summarizer.InputBudget = %d, want 4000", cfg.Summarizer.InputBudget)
	}
	if cfg.Summarizer.MinLength != 500 || cfg.Summarizer.MaxLength != 1500 {
		t.Errorf("summary bounds = %d..%d, want 500..1500", cfg.Summarizer.MinLength, cfg.Summarizer.MaxLength)
	}
	if !cfg.Extract.ExcludeFooter {
		t.Error("Extract.ExcludeFooter should default to true")
	}
	for _, rt := range cfg.Scraper.BlockedResourceTypes {
		if rt == "Image" {
			t.Error("images must not be blocked by default")
		}
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(SearchKeyEnv, "secret")
	t.Setenv("NEWSSCRAPE_PORT", "9090")
	t.Setenv("NEWSSCRAPE_SUMMARIZE", "false")
	t.Setenv("NEWSSCRAPE_SETTLE_TIMEOUT", "750ms")
	t.Setenv("NEWSSCRAPE_BLOCKED_RESOURCES", " Font , ,Media")

	cfg := Load()

	if cfg.Search.APIKey != "secret" {
		t.Errorf("Search.APIKey = %q, want secret", cfg.Search.APIKey)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Summarizer.Enabled {
		t.Error("Summarizer.Enabled should be false")
	}
	if cfg.Scraper.SettleTimeout != 750*time.Millisecond {
		t.Errorf("Scraper.SettleTimeout = %v, want 750ms", cfg.Scraper.SettleTimeout)
	}
	want := []string{"Font", "Media"}
	if len(cfg.Scraper.BlockedResourceTypes) != len(want) {
		t.Fatalf("BlockedResourceTypes = %v, want %v", cfg.Scraper.BlockedResourceTypes, want)
	}
	for i := range want {
		if cfg.Scraper.BlockedResourceTypes[i] != want[i] {
			t.Errorf("BlockedResourceTypes[%d] = %q, want %q", i, cfg.Scraper.BlockedResourceTypes[i], want[i])
		}
	}
}

func TestEnvHelpers_InvalidFallsBack(t *testing.T) {
	t.Setenv("X_INT", "nope")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	if got := envIntOr("X_INT", 7); got != 7 {
		t.Errorf("envIntOr = %d, want 7", got)
	}
	if got := envBoolOr("X_BOOL", true); !got {
		t.Error("envBoolOr should fall back to true")
	}
	if got := envDurationOr("X_DUR", time.Second); got != time.Second {
		t.Errorf("envDurationOr = %v, want 1s", got)
	}
}

func TestSummarizerConfig_Keyless(t *testing.T) {
	tests := []struct {
		name string
		cfg  SummarizerConfig
		want bool
	}{
		{"hosted without key", SummarizerConfig{BaseURL: DefaultLLMBaseURL}, true},
		{"hosted with key", SummarizerConfig{BaseURL: DefaultLLMBaseURL, APIKey: "k"}, false},
		{"local without key", SummarizerConfig{BaseURL: "http://localhost:8000/v1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Keyless(); got != tt.want {
				t.Errorf("Keyless() = %v, want %v", got, tt.want)
			}
		})
	}
}
