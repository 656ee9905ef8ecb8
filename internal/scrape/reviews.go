package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ExtractReviews builds one Review per container found in the rendered
// reviews page. Containers are processed independently: one that cannot be
// parsed (no body element) is skipped without aborting the batch. The
// page-level metadata snapshot is shared read-only across all records.
func ExtractReviews(doc *goquery.Document, meta MovieMetadata) []Review {
	var reviews []Review
	doc.Find(ReviewContainerSelector).Each(func(_ int, container *goquery.Selection) {
		body := container.Find(reviewBodySelector).First()
		if body.Length() == 0 {
			return
		}

		rating := Sentinel
		if raw, ok := text(container, userRatingSelector); ok {
			if tok, ok := firstToken(raw); ok {
				rating = tok
			}
		}

		reviews = append(reviews, Review{
			Movie:      meta,
			UserRating: rating,
			Text:       strings.TrimSpace(plainText(body)),
			Helpful:    ParseHelpfulness(container),
		})
	})
	return reviews
}

// plainText flattens rich review markup to plain text, preserving paragraph
// breaks introduced by br, p, and div elements.
func plainText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		flatten(node, &b)
	}
	return collapseBreaks(b.String())
}

func flatten(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	if n.Type == html.ElementNode && n.Data == "br" {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flatten(c, b)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p":
			b.WriteString("\n\n")
		case "div":
			b.WriteString("\n")
		}
	}
}

// collapseBreaks trims trailing space per line and squeezes runs of blank
// lines down to one.
func collapseBreaks(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
