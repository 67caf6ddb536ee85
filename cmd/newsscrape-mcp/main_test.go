package main

import (
	"strings"
	"testing"
)

func TestDecodeArticle(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{
			name:    "gateway html page",
			status:  502,
			body:    "<html><body>Bad Gateway</body></html>",
			wantErr: "[502] <html><body>Bad Gateway</body></html>",
		},
		{
			name:    "empty error body",
			status:  503,
			body:    "",
			wantErr: "[503] Service Unavailable",
		},
		{
			name:    "api detail",
			status:  404,
			body:    `{"detail":"No news found"}`,
			wantErr: "[404] No news found",
		},
		{
			name:    "missing search key",
			status:  200,
			body:    `{"error":"SERPER_API_KEY environment variable not set."}`,
			wantErr: "SERPER_API_KEY environment variable not set.",
		},
		{
			name:    "garbled success body",
			status:  200,
			body:    "not json",
			wantErr: "failed to parse response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article, errMsg := decodeArticle(tt.status, []byte(tt.body))
			if article != nil {
				t.Errorf("article = %+v, want nil", article)
			}
			if !strings.HasPrefix(errMsg, tt.wantErr) {
				t.Errorf("errMsg = %q, want prefix %q", errMsg, tt.wantErr)
			}
		})
	}
}

func TestDecodeArticle_OK(t *testing.T) {
	body := `{"url":"https://news.example/a","title":"T","heading":"H","image_url":"No image found",
		"article_text":"P1","tables":[{"raw":[["A"]],"markdown":"A\n-"}],"summary":"S"}`

	article, errMsg := decodeArticle(200, []byte(body))
	if errMsg != "" {
		t.Fatalf("errMsg = %q", errMsg)
	}

	text := formatArticle(article)
	for _, want := range []string{"Title: T", "Source: https://news.example/a", "## Summary\n\nS", "## Table 1\n\nA\n-"} {
		if !strings.Contains(text, want) {
			t.Errorf("formatted article missing %q:\n%s", want, text)
		}
	}
}
