package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const detailPage = `<html><body>
	<h1 data-testid="hero__pageTitle">The Shawshank Redemption</h1>
	<a href="/title/tt0111161/releaseinfo?ref_=tt_ov_rdat">1994</a>
	<div data-testid="hero-rating-bar__aggregate-rating__score"><span>9.3/10</span></div>
	<a class="ipc-chip" href="/g1"><span class="ipc-chip__text">Drama</span></a>
	<a class="ipc-chip" href="/g2"><span class="ipc-chip__text">Crime</span></a>
	<ul>
		<li data-testid="title-pc-principal-credit">
			<span>Director</span>
			<a href="/name/nm0001104/">Frank Darabont</a>
		</li>
	</ul>
	<a data-testid="title-cast-item__actor" href="/name/nm0000209/">Tim Robbins</a>
	<a data-testid="title-cast-item__actor" href="/name/nm0000151/">Morgan Freeman</a>
	<a data-testid="title-cast-item__actor" href="/name/nm0348409/">Bob Gunton</a>
	<a data-testid="title-cast-item__actor" href="/name/nm0006669/">William Sadler</a>
</body></html>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractMetadataFullPage(t *testing.T) {
	t.Parallel()

	meta := ExtractMetadata(parseDoc(t, detailPage))
	require.Equal(t, "The Shawshank Redemption", meta.Title)
	require.Equal(t, "1994", meta.Year)
	require.Equal(t, []string{"Drama", "Crime"}, meta.Genres)
	require.Equal(t, "9.3", meta.Rating)
	require.Equal(t, "Frank Darabont", meta.Director)
	// Cast is capped at three entries.
	require.Equal(t, []string{"Tim Robbins", "Morgan Freeman", "Bob Gunton"}, meta.Cast)
}

func TestExtractMetadataMissingDirector(t *testing.T) {
	t.Parallel()

	html := strings.Replace(detailPage, "<span>Director</span>", "<span>Producer</span>", 1)
	meta := ExtractMetadata(parseDoc(t, html))

	// The director lookup fails alone; every other field still populates.
	require.Equal(t, Sentinel, meta.Director)
	require.Equal(t, "The Shawshank Redemption", meta.Title)
	require.Equal(t, "1994", meta.Year)
	require.Equal(t, "9.3", meta.Rating)
	require.Len(t, meta.Genres, 2)
	require.Len(t, meta.Cast, 3)
}

func TestExtractMetadataEmptyPage(t *testing.T) {
	t.Parallel()

	meta := ExtractMetadata(parseDoc(t, "<html><body><p>nothing here</p></body></html>"))
	require.Equal(t, Sentinel, meta.Title)
	require.Equal(t, Sentinel, meta.Year)
	require.Equal(t, Sentinel, meta.Rating)
	require.Equal(t, Sentinel, meta.Director)
	require.Empty(t, meta.Genres)
	require.Empty(t, meta.Cast)
}

func TestExtractMetadataYearNeedsFourDigits(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<h1 data-testid="hero__pageTitle">Short</h1>
		<a href="/releaseinfo">TBA</a>
	</body></html>`
	meta := ExtractMetadata(parseDoc(t, html))
	require.Equal(t, Sentinel, meta.Year)
}

func TestExtractMetadataRatingWithoutDenominator(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<div data-testid="hero-rating-bar__aggregate-rating__score"><span>8.8</span></div>
	</body></html>`
	meta := ExtractMetadata(parseDoc(t, html))
	require.Equal(t, "8.8", meta.Rating)
}
