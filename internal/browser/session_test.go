package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/require"
)

func TestQueryOption(t *testing.T) {
	t.Parallel()

	xpath := queryOption("//button[.//span[contains(., 'All Reviews')]]")
	require.Equal(t, fmt.Sprintf("%p", chromedp.BySearch), fmt.Sprintf("%p", xpath))

	css := queryOption("article.user-review-item")
	require.Equal(t, fmt.Sprintf("%p", chromedp.ByQuery), fmt.Sprintf("%p", css))
}

func TestCloseNilSession(t *testing.T) {
	t.Parallel()

	var s *Session
	s.Close() // must not panic
}

func TestForwardCancelNilParent(t *testing.T) {
	t.Parallel()

	stop := forwardCancel(nil, func() {})
	stop()
}

func TestForwardCancelPropagates(t *testing.T) {
	t.Parallel()

	parent, cancelParent := context.WithCancel(context.Background())
	child, cancelChild := context.WithCancel(context.Background())
	stop := forwardCancel(parent, cancelChild)
	defer stop()

	cancelParent()
	select {
	case <-child.Done():
	case <-time.After(time.Second):
		t.Fatal("child context was not canceled")
	}
}

// TestSessionAgainstLocalServer exercises the full session lifecycle when a
// Chrome binary is available, and skips otherwise.
func TestSessionAgainstLocalServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<!doctype html><html><body>
			<h1>Fixture</h1>
			<div class="item">a</div><div class="item">b</div>
			<script>document.body.insertAdjacentHTML('beforeend', '<div class="item">c</div>');</script>
		</body></html>`)
	}))
	defer srv.Close()

	sess, err := New(context.Background(), Options{
		Headless:   true,
		UserAgent:  "session-test",
		NavTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Skipf("chrome unavailable: %v", err)
	}
	defer sess.Close()

	ctx := context.Background()
	require.NoError(t, sess.Navigate(ctx, srv.URL))
	require.NoError(t, sess.WaitVisible(ctx, "h1", 5*time.Second))

	count, err := sess.Count(ctx, "div.item")
	require.NoError(t, err)
	require.Equal(t, 3, count)

	html, err := sess.HTML(ctx)
	require.NoError(t, err)
	require.True(t, strings.Contains(html, "Fixture"))

	require.NoError(t, sess.ScrollBottom(ctx))
}
