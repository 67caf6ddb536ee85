package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/use-agent/newsscrape/config"
	"github.com/use-agent/newsscrape/models"
)

// OpenAIModel is a lightweight OpenAI-compatible chat completions client
// used as the summarization Model. It uses net/http directly.
type OpenAIModel struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// NewOpenAIModel creates a model client from cfg. Pass a nil httpClient to
// use a default one.
func NewOpenAIModel(cfg config.SummarizerConfig, httpClient *http.Client) *OpenAIModel {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenAIModel{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
	}
}

// chatRequest is the OpenAI chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the minimal OpenAI chat completion response we need.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// chatErrorResponse captures an API error from the provider.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Summarize implements Model.
func (m *OpenAIModel) Summarize(ctx context.Context, input string, opts Options) (string, error) {
	reqBody := chatRequest{
		Model: m.model,
		Messages: []chatMessage{
			{Role: "system", Content: buildSystemPrompt(opts)},
			{Role: "user", Content: input},
		},
		MaxTokens: opts.MaxLength,
	}
	if opts.Deterministic {
		reqBody.Temperature = 0
		reqBody.TopP = 1
	} else {
		reqBody.Temperature = 0.7
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(m.baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeSummarization, "summarization request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeSummarization, "failed to read summarization response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyModelError(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", models.NewScrapeError(models.ErrCodeSummarization, "failed to parse summarization response", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", models.NewScrapeError(models.ErrCodeSummarization, "model returned no choices", nil)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// buildSystemPrompt asks for an abstractive summary within the length bounds.
func buildSystemPrompt(opts Options) string {
	return fmt.Sprintf(`You are a news summarization assistant. Write an abstractive summary of the article the user sends.

Rules:
- Write between %d and %d tokens of plain prose.
- Use only facts stated in the article.
- Do not add headings, bullet points, or commentary about the task.`, opts.MinLength, opts.MaxLength)
}

// classifyModelError turns a non-200 provider response into a ScrapeError.
func classifyModelError(statusCode int, body []byte) *models.ScrapeError {
	msg := "summarization API error"
	var errResp chatErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}
	return models.NewScrapeError(
		models.ErrCodeSummarization,
		fmt.Sprintf("summarization API returned %d: %s", statusCode, msg),
		nil,
	)
}
