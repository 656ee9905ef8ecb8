package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks collects detail-page URLs from a fully loaded listing page.
// Query strings are stripped and every path is prefixed with baseURL.
// Links keep document order and are deliberately not deduplicated.
func ExtractLinks(html, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	var links []string
	doc.Find(titleLinkSelector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		if i := strings.IndexByte(href, '?'); i >= 0 {
			href = href[:i]
		}
		links = append(links, baseURL+href)
	})
	return links, nil
}
