package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const reviewsPage = `<html><body>
	<article class="user-review-item">
		<span class="ipc-rating-star--rating">8</span>
		<div class="ipc-html-content-inner-div">Great film.<br>Watched it twice.</div>
		<span class="ipc-voting__label__count--up">10</span>
		<span class="ipc-voting__label__count--down">2</span>
	</article>
	<article class="user-review-item">
		<div class="ipc-html-content-inner-div"><p>First paragraph.</p><p>Second paragraph.</p></div>
	</article>
	<article class="user-review-item">
		<span class="ipc-rating-star--rating">3</span>
	</article>
</body></html>`

func TestExtractReviews(t *testing.T) {
	t.Parallel()

	meta := MovieMetadata{Title: "Some Movie", Year: "2001"}
	reviews := ExtractReviews(parseDoc(t, reviewsPage), meta)

	// The third container has no body element and is skipped, not fatal.
	require.Len(t, reviews, 2)

	first := reviews[0]
	require.Equal(t, meta, first.Movie)
	require.Equal(t, "8", first.UserRating)
	require.Equal(t, "Great film.\nWatched it twice.", first.Text)
	require.Equal(t, "10/12", first.Helpful)

	second := reviews[1]
	require.Equal(t, meta, second.Movie)
	require.Equal(t, Sentinel, second.UserRating)
	require.Equal(t, "First paragraph.\n\nSecond paragraph.", second.Text)
	require.Equal(t, "0/0", second.Helpful)
}

func TestExtractReviewsMetadataSharedAcrossRecords(t *testing.T) {
	t.Parallel()

	meta := MovieMetadata{
		Title:  "Consistent",
		Genres: []string{"Drama"},
	}
	reviews := ExtractReviews(parseDoc(t, reviewsPage), meta)
	for _, r := range reviews {
		require.Equal(t, meta, r.Movie)
	}
}

func TestExtractReviewsRatingFirstToken(t *testing.T) {
	t.Parallel()

	html := `<html><body><article class="user-review-item">
		<span class="ipc-rating-star--rating">7 /10</span>
		<div class="ipc-html-content-inner-div">ok</div>
	</article></body></html>`

	reviews := ExtractReviews(parseDoc(t, html), MovieMetadata{})
	require.Len(t, reviews, 1)
	require.Equal(t, "7", reviews[0].UserRating)
}

func TestPlainTextPreservesParagraphBreaks(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body><div id="body"><p>one</p><p>two<br>three</p></div></body></html>`)
	got := strings.TrimSpace(plainText(doc.Find("#body")))
	require.Equal(t, "one\n\ntwo\nthree", got)
}
