// Package extractor pulls the article fields out of a rendered page and
// formats extracted tables as Markdown.
package extractor

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/newsscrape/models"
	"github.com/use-agent/newsscrape/scraper"
)

// Placeholders used when the page has no heading or image.
const (
	NoHeading = "No heading found"
	NoImage   = "No image found"
)

// Options controls optional extraction behaviour.
type Options struct {
	// ExcludeFooter drops paragraphs that sit anywhere inside a <footer>.
	ExcludeFooter bool

	// IncludeContent adds the readability main body as Markdown.
	IncludeContent bool
}

// Fields is everything extracted from one page.
type Fields struct {
	Title       string
	Heading     string
	ImageURL    string
	ArticleText string
	Tables      []models.ExtractedTable
	Metadata    *models.Metadata
	Content     string
}

// Extractor turns rendered documents into Fields. The Markdown converter is
// created once and shared, so an Extractor is safe for concurrent use.
type Extractor struct {
	mdConverter *converter.Converter
}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{mdConverter: newMarkdownConverter()}
}

// Extract walks doc and returns its fields. Missing elements never fail:
// heading and image fall back to placeholders, everything else to empty
// values. Only an unparsable document is an error.
func (e *Extractor) Extract(doc *scraper.Document, opts Options) (*Fields, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeExtraction, "failed to parse rendered page", err)
	}

	baseURL := doc.FinalURL
	if baseURL == "" {
		baseURL = doc.URL
	}

	f := &Fields{
		Title:       doc.Title,
		Heading:     NoHeading,
		ImageURL:    NoImage,
		ArticleText: articleText(d, opts.ExcludeFooter),
		Tables:      tables(d),
	}

	if f.Title == "" {
		f.Title = elementText(d.FindMatcher(matchTitle).First())
	}
	if h := d.FindMatcher(matchHeading).First(); h.Length() > 0 {
		f.Heading = elementText(h)
	}
	if img := d.FindMatcher(matchImage).First(); img.Length() > 0 {
		src, _ := img.Attr("src")
		f.ImageURL = resolveURL(baseURL, strings.TrimSpace(src))
	}

	article, ok := readArticle(doc.HTML, baseURL)
	f.Metadata = &models.Metadata{
		FinalURL: doc.FinalURL,
		SiteName: article.SiteName,
		Author:   article.Byline,
		Excerpt:  article.Excerpt,
		Language: article.Language,
	}

	if opts.IncludeContent {
		body := article.Content
		if !ok {
			body = doc.HTML
		}
		f.Content, err = toMarkdown(e.mdConverter, body, baseURL)
		if err != nil {
			return nil, models.NewScrapeError(models.ErrCodeExtraction, "markdown conversion failed", err)
		}
	}

	slog.Debug("fields extracted",
		"url", baseURL,
		"paragraph_chars", len(f.ArticleText),
		"tables", len(f.Tables),
		"readability", ok,
	)
	return f, nil
}

// articleText joins the text of every <p> in document order with "\n".
// With excludeFooter, paragraphs nested at any depth inside a <footer>
// are skipped.
func articleText(d *goquery.Document, excludeFooter bool) string {
	var paras []string
	d.FindMatcher(matchPara).Each(func(_ int, p *goquery.Selection) {
		if excludeFooter && hasAncestor(p.Get(0), matchFooter) {
			return
		}
		paras = append(paras, elementText(p))
	})
	return strings.Join(paras, "\n")
}

// tables extracts every <table> in document order. For each <tr> the <td>
// texts are taken; a row with no <td> falls back to its <th> texts.
func tables(d *goquery.Document) []models.ExtractedTable {
	out := []models.ExtractedTable{}
	d.FindMatcher(matchTable).Each(func(_ int, t *goquery.Selection) {
		rows := models.ExtractedTable{}
		t.FindMatcher(matchRow).Each(func(_ int, tr *goquery.Selection) {
			cells := cellTexts(tr.FindMatcher(matchCell))
			if len(cells) == 0 {
				cells = cellTexts(tr.FindMatcher(matchHead))
			}
			rows = append(rows, cells)
		})
		out = append(out, rows)
	})
	return out
}

// resolveURL resolves ref against base the way a browser reports an
// element's src property. ref is returned unchanged if either side does
// not parse.
func resolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := b.Parse(ref)
	if err != nil {
		return ref
	}
	return r.String()
}
