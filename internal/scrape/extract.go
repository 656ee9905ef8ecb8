package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field lookups in this file never fail outward: a missing, empty, or
// ambiguous element reports !ok and the caller substitutes its default.

// text returns the trimmed text of the first node matching sel.
func text(root *goquery.Selection, sel string) (string, bool) {
	node := root.Find(sel).First()
	if node.Length() == 0 {
		return "", false
	}
	v := strings.TrimSpace(node.Text())
	if v == "" {
		return "", false
	}
	return v, true
}

// textOr applies the sentinel policy to a single-field lookup.
func textOr(root *goquery.Selection, sel, def string) string {
	v, ok := text(root, sel)
	if !ok {
		return def
	}
	return v
}

// texts returns the trimmed text of every node matching sel, up to max
// entries (max <= 0 means unbounded). Empty nodes are skipped.
func texts(root *goquery.Selection, sel string, max int) []string {
	var out []string
	root.Find(sel).EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if max > 0 && len(out) >= max {
			return false
		}
		if v := strings.TrimSpace(node.Text()); v != "" {
			out = append(out, v)
		}
		return true
	})
	return out
}

// firstToken returns the first whitespace-delimited token of s.
func firstToken(s string) (string, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// truncate shortens a message for log output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
