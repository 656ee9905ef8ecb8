package scrape

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const imdbBase = "https://www.imdb.com"

func TestExtractLinksListing(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, `<li><a class="ipc-title-link-wrapper" href="/title/tt%07d/?ref_=sr_t_%d">Movie %d</a></li>`, i, i, i)
	}
	b.WriteString("</ul></body></html>")

	links, err := ExtractLinks(b.String(), imdbBase)
	require.NoError(t, err)
	require.Len(t, links, 40)
	for i, link := range links {
		require.Equal(t, fmt.Sprintf("https://www.imdb.com/title/tt%07d/", i), link)
		require.NotContains(t, link, "?")
	}
}

func TestExtractLinksIgnoresOtherAnchors(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<a class="ipc-title-link-wrapper" href="/title/tt0111161/?ref_=x">Good</a>
		<a class="ipc-title-link-wrapper" href="/name/nm0000151/">Actor, not a title</a>
		<a href="/title/tt0068646/">No wrapper class</a>
	</body></html>`

	links, err := ExtractLinks(html, imdbBase)
	require.NoError(t, err)
	require.Equal(t, []string{"https://www.imdb.com/title/tt0111161/"}, links)
}

func TestExtractLinksKeepsDuplicates(t *testing.T) {
	t.Parallel()

	// The listing can surface the same title twice; dedup is deliberately
	// not applied.
	html := `<html><body>
		<a class="ipc-title-link-wrapper" href="/title/tt0111161/">A</a>
		<a class="ipc-title-link-wrapper" href="/title/tt0111161/">A again</a>
	</body></html>`

	links, err := ExtractLinks(html, imdbBase)
	require.NoError(t, err)
	require.Len(t, links, 2)
	require.Equal(t, links[0], links[1])
}

func TestExtractLinksEmptyDocument(t *testing.T) {
	t.Parallel()

	links, err := ExtractLinks("<html><body></body></html>", imdbBase)
	require.NoError(t, err)
	require.Empty(t, links)
}
