package scrape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noVotes is the sentinel emitted when vote elements are missing or
// unparseable.
const noVotes = "0/0"

// ConvertK parses a displayed vote count that may carry a K multiplier,
// e.g. "1.2K" -> 1200, "500" -> 500.
func ConvertK(value string) (int, error) {
	v := strings.TrimSpace(value)
	if strings.Contains(v, "K") {
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, "K", ""), 64)
		if err != nil {
			return 0, fmt.Errorf("parse vote count %q: %w", value, err)
		}
		return int(f * 1000), nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse vote count %q: %w", value, err)
	}
	return n, nil
}

// ParseHelpfulness formats one review's votes as "up/total" where total is
// up + down. Any missing or malformed vote element yields "0/0"; the
// failure never propagates past this boundary.
func ParseHelpfulness(container *goquery.Selection) string {
	up, ok := voteCount(container, upVoteSelector)
	if !ok {
		return noVotes
	}
	down, ok := voteCount(container, downVoteSelector)
	if !ok {
		return noVotes
	}
	return fmt.Sprintf("%d/%d", up, up+down)
}

func voteCount(container *goquery.Selection, sel string) (int, bool) {
	raw, ok := text(container, sel)
	if !ok {
		return 0, false
	}
	n, err := ConvertK(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
