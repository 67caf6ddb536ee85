package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Browser    BrowserConfig
	Scraper    ScraperConfig
	Search     SearchConfig
	Summarizer SummarizerConfig
	Extract    ExtractConfig
	Log        LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the per-request Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// DefaultProxy is the proxy URL for all page loads.
	DefaultProxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Stealth masks navigator.webdriver and friends before navigation.
	Stealth bool // default: false
}

// ScraperConfig controls page rendering.
type ScraperConfig struct {
	// FetchMode is "browser" (headless Chrome) or "http" (plain HTTP, no JS).
	FetchMode string // default: "browser"

	// NavigationTimeout bounds page.Navigate. Zero means no bound.
	NavigationTimeout time.Duration // default: 0

	// SettleMode is "ready" (poll for a DOM readiness predicate) or
	// "fixed" (blind sleep of SettleTimeout).
	SettleMode string // default: "ready"

	// SettleTimeout bounds the readiness wait after navigation.
	SettleTimeout time.Duration // default: 3s

	// SettlePoll is the interval between readiness checks.
	SettlePoll time.Duration // default: 100ms

	// BlockedResourceTypes lists resource types to block.
	// Images are never blocked: the lead image src must survive.
	// default: ["Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string

	// BlockAds drops requests to known ad and tracking domains.
	BlockAds bool // default: true
}

// SearchConfig controls the news search upstream.
type SearchConfig struct {
	// APIKey is the search API key. It is the only required secret.
	APIKey string

	// Endpoint is the news search URL.
	Endpoint string // default: "https://google.serper.dev/news"

	// Location is the fixed search region.
	Location string // default: "United States"

	// Timeout bounds one search request. Zero means no bound.
	Timeout time.Duration // default: 0
}

// SummarizerConfig controls the abstractive summarizer.
type SummarizerConfig struct {
	// Enabled toggles summarization. When false the summary field is omitted.
	Enabled bool // default: true

	// BaseURL is the OpenAI-compatible API root.
	BaseURL string // default: DefaultLLMBaseURL

	// APIKey authenticates against BaseURL. Without it the hosted default
	// cannot be used and summarization is switched off at wiring time.
	APIKey string

	// Timeout bounds one model call. Zero means no bound.
	Timeout time.Duration // default: 0

	// Model is the model name sent with every request.
	Model string // default: "gpt-4o-mini"

	// InputBudget is the maximum number of characters sent to the model.
	InputBudget int // default: 4000

	// MinLength and MaxLength bound the summary length in tokens.
	MinLength int // default: 500
	MaxLength int // default: 1500
}

// ExtractConfig controls field extraction.
type ExtractConfig struct {
	// ExcludeFooter drops paragraphs nested anywhere inside a <footer>.
	ExcludeFooter bool // default: true
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// SearchKeyEnv is the environment variable holding the search API key.
const SearchKeyEnv = "SERPER_API_KEY"

// DefaultLLMBaseURL is the hosted OpenAI API root.
const DefaultLLMBaseURL = "https://api.openai.com/v1"

// Keyless reports whether summarization would hit the hosted default
// without credentials. Local OpenAI-compatible servers need no key.
func (c SummarizerConfig) Keyless() bool {
	return c.APIKey == "" && strings.TrimRight(c.BaseURL, "/") == DefaultLLMBaseURL
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is loaded first if present; real
// environment variables take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: envOr("NEWSSCRAPE_HOST", "0.0.0.0"),
			Port: envIntOr("NEWSSCRAPE_PORT", 8080),
			Mode: envOr("NEWSSCRAPE_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("NEWSSCRAPE_HEADLESS", true),
			DefaultProxy: os.Getenv("NEWSSCRAPE_PROXY"),
			NoSandbox:    envBoolOr("NEWSSCRAPE_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("NEWSSCRAPE_BROWSER_BIN"),
			Stealth:      envBoolOr("NEWSSCRAPE_STEALTH", false),
		},
		Scraper: ScraperConfig{
			FetchMode:         envOr("NEWSSCRAPE_FETCH_MODE", "browser"),
			NavigationTimeout: envDurationOr("NEWSSCRAPE_NAV_TIMEOUT", 0),
			SettleMode:        envOr("NEWSSCRAPE_SETTLE_MODE", "ready"),
			SettleTimeout:     envDurationOr("NEWSSCRAPE_SETTLE_TIMEOUT", 3*time.Second),
			SettlePoll:        envDurationOr("NEWSSCRAPE_SETTLE_POLL", 100*time.Millisecond),
			BlockedResourceTypes: envSliceOr("NEWSSCRAPE_BLOCKED_RESOURCES", []string{
				"Stylesheet", "Font", "Media",
			}),
			BlockAds: envBoolOr("NEWSSCRAPE_BLOCK_ADS", true),
		},
		Search: SearchConfig{
			APIKey:   os.Getenv(SearchKeyEnv),
			Endpoint: envOr("NEWSSCRAPE_SEARCH_URL", "https://google.serper.dev/news"),
			Location: envOr("NEWSSCRAPE_SEARCH_LOCATION", "United States"),
			Timeout:  envDurationOr("NEWSSCRAPE_SEARCH_TIMEOUT", 0),
		},
		Summarizer: SummarizerConfig{
			Enabled:     envBoolOr("NEWSSCRAPE_SUMMARIZE", true),
			BaseURL:     envOr("NEWSSCRAPE_LLM_BASE_URL", DefaultLLMBaseURL),
			APIKey:      os.Getenv("NEWSSCRAPE_LLM_API_KEY"),
			Model:       envOr("NEWSSCRAPE_LLM_MODEL", "gpt-4o-mini"),
			InputBudget: envIntOr("NEWSSCRAPE_SUMMARY_INPUT_CHARS", 4000),
			MinLength:   envIntOr("NEWSSCRAPE_SUMMARY_MIN", 500),
			MaxLength:   envIntOr("NEWSSCRAPE_SUMMARY_MAX", 1500),
			Timeout:     envDurationOr("NEWSSCRAPE_SUMMARY_TIMEOUT", 0),
		},
		Extract: ExtractConfig{
			ExcludeFooter: envBoolOr("NEWSSCRAPE_EXCLUDE_FOOTER", true),
		},
		Log: LogConfig{
			Level:  envOr("NEWSSCRAPE_LOG_LEVEL", "info"),
			Format: envOr("NEWSSCRAPE_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
