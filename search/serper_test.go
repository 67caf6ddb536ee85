package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/use-agent/newsscrape/config"
	"github.com/use-agent/newsscrape/models"
)

func newTestClient(t *testing.T, apiKey string, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.SearchConfig{
		APIKey:   apiKey,
		Endpoint: srv.URL,
		Location: "United States",
	}, srv.Client())
}

func TestResolve_FirstResult(t *testing.T) {
	var gotBody newsRequest
	var gotKey, gotCT, gotMethod string

	c := newTestClient(t, "k-123", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotKey = r.Header.Get("X-API-KEY")
		gotCT = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"news":[{"title":"a","link":"https://news.example/a"},{"title":"b","link":"https://news.example/b"}]}`))
	})

	link, found, err := c.Resolve(context.Background(), "latest technology trends")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !found || link != "https://news.example/a" {
		t.Errorf("Resolve = (%q, %v), want first link", link, found)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotKey != "k-123" {
		t.Errorf("X-API-KEY = %q", gotKey)
	}
	if gotCT != "application/json" {
		t.Errorf("Content-Type = %q", gotCT)
	}
	want := newsRequest{Q: "latest technology trends", Location: "United States", Num: 1, Page: 1}
	if gotBody != want {
		t.Errorf("request body = %+v, want %+v", gotBody, want)
	}
}

func TestResolve_NoResults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty array", `{"news":[]}`},
		{"missing key", `{"searchParameters":{}}`},
		{"empty link", `{"news":[{"title":"x","link":""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			link, found, err := c.Resolve(context.Background(), "q")
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if found || link != "" {
				t.Errorf("Resolve = (%q, %v), want not found", link, found)
			}
		})
	}
}

func TestResolve_UpstreamError(t *testing.T) {
	c := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})

	_, _, err := c.Resolve(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error for 403")
	}
	if code := models.CodeOf(err); code != models.ErrCodeSearchUpstream {
		t.Errorf("code = %s, want %s", code, models.ErrCodeSearchUpstream)
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error should carry status and body, got %q", err.Error())
	}
}

func TestResolve_MalformedJSON(t *testing.T) {
	c := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"news":`))
	})

	_, _, err := c.Resolve(context.Background(), "q")
	if models.CodeOf(err) != models.ErrCodeSearchUpstream {
		t.Errorf("expected %s, got %v", models.ErrCodeSearchUpstream, err)
	}
}

func TestResolve_MissingKey(t *testing.T) {
	called := false
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	if c.Configured() {
		t.Error("client without key should not be configured")
	}
	_, _, err := c.Resolve(context.Background(), "q")
	var se *models.ScrapeError
	if !errors.As(err, &se) || se.Code != models.ErrCodeConfigMissing {
		t.Fatalf("expected %s, got %v", models.ErrCodeConfigMissing, err)
	}
	if called {
		t.Error("upstream must not be called without a key")
	}
}
