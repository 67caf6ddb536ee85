package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Tag matchers, compiled once.
var (
	matchTitle   = cascadia.MustCompile("title")
	matchHeading = cascadia.MustCompile("h1")
	matchImage   = cascadia.MustCompile("img")
	matchPara    = cascadia.MustCompile("p")
	matchTable   = cascadia.MustCompile("table")
	matchRow     = cascadia.MustCompile("tr")
	matchCell    = cascadia.MustCompile("td")
	matchHead    = cascadia.MustCompile("th")
	matchFooter  = cascadia.MustCompile("footer")
)

// hasAncestor walks parent pointers from n up to the document root and
// reports whether any element on the way matches m. n itself is not tested.
func hasAncestor(n *html.Node, m cascadia.Matcher) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && m.Match(p) {
			return true
		}
	}
	return false
}

// elementText returns the selection's text with runs of whitespace
// collapsed to single spaces and the ends trimmed.
func elementText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// cellTexts returns the text of every element in s, in document order.
// The result is never nil.
func cellTexts(s *goquery.Selection) []string {
	out := make([]string, 0, s.Length())
	s.Each(func(_ int, c *goquery.Selection) {
		out = append(out, elementText(c))
	})
	return out
}
