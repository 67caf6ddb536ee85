package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/use-agent/newsscrape/config"
	"github.com/use-agent/newsscrape/models"
)

// fakeModel records its input and returns a canned result.
type fakeModel struct {
	out   string
	err   error
	calls int
	input string
	opts  Options
}

func (f *fakeModel) Summarize(_ context.Context, input string, opts Options) (string, error) {
	f.calls++
	f.input = input
	f.opts = opts
	return f.out, f.err
}

func testConfig() config.SummarizerConfig {
	return config.SummarizerConfig{InputBudget: 4000, MinLength: 500, MaxLength: 1500}
}

func TestBuildInput(t *testing.T) {
	if got := BuildInput("T", "H", "P1\nP2"); got != "T. H. P1\nP2" {
		t.Errorf("BuildInput = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		budget int
		want   string
	}{
		{"shorter", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"cut mid word", "hello world", 7, "hello w"},
		{"multibyte", "héllo wörld", 8, "héllo wö"},
		{"disabled", "abc", 0, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.budget); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.budget, got, tt.want)
			}
		})
	}
}

func TestSummarize_TruncatesToBudgetPrefix(t *testing.T) {
	m := &fakeModel{out: "summary"}
	s := New(m, testConfig())

	text := strings.Repeat("lorem ipsum ", 1000)
	if _, err := s.Summarize(context.Background(), "Title", "Heading", text, nil); err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	full := BuildInput("Title", "Heading", text)
	if got := utf8.RuneCountInString(m.input); got != 4000 {
		t.Errorf("model input has %d characters, want 4000", got)
	}
	if !strings.HasPrefix(full, m.input) {
		t.Error("model input is not a prefix of the full input")
	}
}

func TestSummarize_PassesLengthBounds(t *testing.T) {
	m := &fakeModel{out: "summary"}
	s := New(m, testConfig())

	if _, err := s.Summarize(context.Background(), "T", "H", "body", nil); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := Options{MinLength: 500, MaxLength: 1500, Deterministic: true}
	if m.opts != want {
		t.Errorf("opts = %+v, want %+v", m.opts, want)
	}
	if m.input != "T. H. body" {
		t.Errorf("input = %q", m.input)
	}
}

func TestSummarize_AppendsTables(t *testing.T) {
	m := &fakeModel{out: "Body summary."}
	s := New(m, testConfig())

	tables := []models.ArticleTable{
		{Markdown: "A | B\n- | -\n1 | 22"},
		{Markdown: "X\n-"},
	}
	got, err := s.Summarize(context.Background(), "T", "H", "text", tables)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	want := "Body summary. \n\nTable 1:\nA | B\n- | -\n1 | 22 \n\nTable 2:\nX\n-"
	if got != want {
		t.Errorf("summary =\n%q\nwant\n%q", got, want)
	}
}

func TestSummarize_ModelFailureIsFatal(t *testing.T) {
	m := &fakeModel{err: errors.New("model unavailable")}
	s := New(m, testConfig())

	_, err := s.Summarize(context.Background(), "T", "H", "text", nil)
	if models.CodeOf(err) != models.ErrCodeSummarization {
		t.Fatalf("expected %s, got %v", models.ErrCodeSummarization, err)
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Errorf("error should carry the cause: %v", err)
	}
}

func TestSummarize_EmptyModelOutput(t *testing.T) {
	s := New(&fakeModel{out: "  \n"}, testConfig())

	_, err := s.Summarize(context.Background(), "T", "H", "text", nil)
	if models.CodeOf(err) != models.ErrCodeSummarization {
		t.Fatalf("expected %s, got %v", models.ErrCodeSummarization, err)
	}
}

func TestSummarize_NothingToSummarize(t *testing.T) {
	m := &fakeModel{out: "unused"}
	s := New(m, testConfig())

	got, err := s.Summarize(context.Background(), "", "No heading found", "", nil)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if m.calls != 0 {
		t.Errorf("model called %d times, want 0", m.calls)
	}
	if got != "" {
		t.Errorf("summary = %q, want empty", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcdef", 2},
		{"日本語日本語", 2},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
