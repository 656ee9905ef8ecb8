package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// ExtractMetadata pulls the page-level movie fields out of a rendered
// detail page. Every field degrades independently: a missing or malformed
// element yields its sentinel without disturbing the other fields.
func ExtractMetadata(doc *goquery.Document) MovieMetadata {
	root := doc.Selection
	meta := MovieMetadata{
		Title:    textOr(root, titleSelector, Sentinel),
		Year:     Sentinel,
		Rating:   Sentinel,
		Director: Sentinel,
		Genres:   texts(root, genreSelector, 0),
		Cast:     texts(root, castSelector, maxCast),
	}

	if raw, ok := text(root, yearSelector); ok {
		if y := yearPattern.FindString(raw); y != "" {
			meta.Year = y
		}
	}

	// The rating element renders as "8.8/10"; only the numerator matters.
	if raw, ok := text(root, ratingSelector); ok {
		meta.Rating = strings.SplitN(raw, "/", 2)[0]
	}

	if d, ok := director(root); ok {
		meta.Director = d
	}

	return meta
}

// director finds the credit entry labeled "Director" and returns the linked
// name. IMDB renders principal credits as list items whose label span
// carries the role.
func director(root *goquery.Selection) (string, bool) {
	var name string
	root.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		if !hasSpanText(li, "Director") {
			return true
		}
		link := li.Find("a[href*='/name/']").First()
		if link.Length() == 0 {
			return true
		}
		name = strings.TrimSpace(link.Text())
		return name == ""
	})
	return name, name != ""
}

func hasSpanText(sel *goquery.Selection, label string) bool {
	found := false
	sel.Find("span").EachWithBreak(func(_ int, sp *goquery.Selection) bool {
		if strings.TrimSpace(sp.Text()) == label {
			found = true
			return false
		}
		return true
	})
	return found
}
