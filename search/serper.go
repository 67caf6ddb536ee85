// Package search resolves a free-text query to the top news article URL.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/use-agent/newsscrape/config"
	"github.com/use-agent/newsscrape/models"
)

// maxErrorBody caps how much of an upstream error body ends up in messages.
const maxErrorBody = 512

// Client queries a Serper-compatible news search endpoint.
type Client struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
	location   string
}

// NewClient creates a search client from cfg. Pass a nil httpClient to use
// a default one.
func NewClient(cfg config.SearchConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		location:   cfg.Location,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// newsRequest is the search request body. Only one result is ever requested.
type newsRequest struct {
	Q        string `json:"q"`
	Location string `json:"location"`
	Num      int    `json:"num"`
	Page     int    `json:"page"`
}

// newsResponse is the subset of the search response we read.
type newsResponse struct {
	News []struct {
		Title  string `json:"title"`
		Link   string `json:"link"`
		Source string `json:"source"`
	} `json:"news"`
}

// Resolve returns the link of the first news result for query.
// found is false when the search succeeded but returned nothing.
func (c *Client) Resolve(ctx context.Context, query string) (link string, found bool, err error) {
	if !c.Configured() {
		return "", false, models.NewScrapeError(
			models.ErrCodeConfigMissing,
			config.SearchKeyEnv+" environment variable not set.",
			nil,
		)
	}

	bodyBytes, err := json.Marshal(newsRequest{
		Q:        query,
		Location: c.location,
		Num:      1,
		Page:     1,
	})
	if err != nil {
		return "", false, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", false, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, models.NewScrapeError(models.ErrCodeSearchUpstream, "search request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, models.NewScrapeError(models.ErrCodeSearchUpstream, "failed to read search response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := respBody
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return "", false, models.NewScrapeError(
			models.ErrCodeSearchUpstream,
			fmt.Sprintf("search API returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet)),
			nil,
		)
	}

	var parsed newsResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, models.NewScrapeError(models.ErrCodeSearchUpstream, "failed to parse search response", err)
	}

	if len(parsed.News) == 0 || parsed.News[0].Link == "" {
		slog.Info("search returned no news", "query", query)
		return "", false, nil
	}

	first := parsed.News[0]
	slog.Debug("search resolved", "query", query, "link", first.Link, "source", first.Source)
	return first.Link, true, nil
}
