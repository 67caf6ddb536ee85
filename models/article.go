package models

// ExtractedTable is one <table> as an ordered list of rows, each an ordered
// list of cell strings. Row 0 is treated as the header when formatting.
// Rows may have different lengths.
type ExtractedTable [][]string

// ArticleTable pairs a raw extracted table with its Markdown rendering.
type ArticleTable struct {
	Raw      ExtractedTable `json:"raw" yaml:"raw"`
	Markdown string         `json:"markdown" yaml:"markdown"`
}

// ScrapedArticle is the result of one /news_scrape request.
// It is built once and never mutated afterwards.
type ScrapedArticle struct {
	URL         string         `json:"url" yaml:"url"`
	Title       string         `json:"title" yaml:"title"`
	Heading     string         `json:"heading" yaml:"heading"`
	ImageURL    string         `json:"image_url" yaml:"image_url"`
	ArticleText string         `json:"article_text" yaml:"article_text"`
	Tables      []ArticleTable `json:"tables" yaml:"tables"`

	// Summary is omitted when summarization is disabled.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Metadata holds readability-derived page metadata.
	Metadata *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Content is the main article body as Markdown, only when requested.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// Metadata holds page-level information extracted by readability.
type Metadata struct {
	FinalURL string `json:"final_url,omitempty" yaml:"final_url,omitempty"`
	SiteName string `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Author   string `json:"author,omitempty" yaml:"author,omitempty"`
	Excerpt  string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}
