package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// articleResponse mirrors the newsscrape API success body.
type articleResponse struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Heading     string `json:"heading"`
	ImageURL    string `json:"image_url"`
	ArticleText string `json:"article_text"`
	Tables      []struct {
		Markdown string `json:"markdown"`
	} `json:"tables"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	Metadata *struct {
		SiteName string `json:"site_name"`
		Author   string `json:"author"`
	} `json:"metadata"`
}

// errorResponse covers both error shapes the API returns.
type errorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

func main() {
	apiURL := os.Getenv("NEWSSCRAPE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}

	s := server.NewMCPServer(
		"newsscrape",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	newsTool := mcp.NewTool("news_scrape",
		mcp.WithDescription("Find the top news article for a search query, render it in a headless browser and return its title, heading, lead image, body text, tables and a summary."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text news search query, e.g. 'latest technology trends'"),
		),
		mcp.WithBoolean("include_content",
			mcp.Description("Also return the main article body as Markdown (default: false)"),
		),
	)
	s.AddTool(newsTool, handleNewsScrape(strings.TrimRight(apiURL, "/")))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleNewsScrape(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 180 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		params := url.Values{}
		params.Set("q", query)
		if request.GetBool("include_content", false) {
			params.Set("content", "true")
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/news_scrape?"+params.Encode(), nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		article, errMsg := decodeArticle(resp.StatusCode, respBody)
		if errMsg != "" {
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(formatArticle(article)), nil
	}
}

// maxErrorBody caps how much of a non-JSON error body is echoed back.
const maxErrorBody = 512

// decodeArticle interprets an API response. A non-empty errMsg means the
// call failed; the status code is checked before the body is parsed, so
// proxies answering with HTML or plain text still yield a useful message.
func decodeArticle(status int, body []byte) (article *articleResponse, errMsg string) {
	if status != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
			return nil, fmt.Sprintf("[%d] %s", status, errResp.Detail)
		}
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		if snippet == "" {
			snippet = http.StatusText(status)
		}
		return nil, fmt.Sprintf("[%d] %s", status, snippet)
	}

	// The API answers 200 with {"error": ...} when its search key is missing.
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return nil, fmt.Sprintf("failed to parse response: %v", err)
	}
	if errResp.Error != "" {
		return nil, errResp.Error
	}

	article = &articleResponse{}
	if err := json.Unmarshal(body, article); err != nil {
		return nil, fmt.Sprintf("failed to parse response: %v", err)
	}
	return article, ""
}

// formatArticle renders an article as plain text for the model.
func formatArticle(a *articleResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\nSource: %s\n", a.Title, a.URL)
	if a.Metadata != nil {
		if a.Metadata.SiteName != "" {
			fmt.Fprintf(&sb, "Site: %s\n", a.Metadata.SiteName)
		}
		if a.Metadata.Author != "" {
			fmt.Fprintf(&sb, "Author: %s\n", a.Metadata.Author)
		}
	}
	fmt.Fprintf(&sb, "Heading: %s\nImage: %s\n", a.Heading, a.ImageURL)

	if a.Summary != "" {
		sb.WriteString("\n## Summary\n\n")
		sb.WriteString(a.Summary)
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Article\n\n")
	sb.WriteString(a.ArticleText)
	sb.WriteString("\n")

	for i, t := range a.Tables {
		fmt.Fprintf(&sb, "\n## Table %d\n\n%s\n", i+1, t.Markdown)
	}

	if a.Content != "" {
		sb.WriteString("\n## Content\n\n")
		sb.WriteString(a.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
