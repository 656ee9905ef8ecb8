// Package browser manages headless Chrome sessions via chromedp.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// ErrStartup indicates the underlying browser engine could not launch,
// typically a missing Chrome binary or an incompatible driver.
var ErrStartup = errors.New("browser startup failed")

// Options configure a Session.
type Options struct {
	Headless   bool
	UserAgent  string
	NavTimeout time.Duration
}

// Factory creates sessions. Each worker owns exactly one session at a time;
// sessions are never shared across goroutines.
type Factory func(ctx context.Context) (*Session, error)

// Session owns one Chrome process and one tab context. Callers must Close
// it on every exit path to avoid orphaned browser processes.
type Session struct {
	opts        Options
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
}

// New launches a browser process and opens a tab. Image loading is disabled
// to save bandwidth; the user agent is overridden for every request.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 45 * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Warm up eagerly so a missing binary surfaces here, not on the
	// first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", ErrStartup, err)
	}

	return &Session{
		opts:        opts,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}, nil
}

// Close releases the tab and the browser process. Safe on a nil receiver.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.tabCancel()
	s.allocCancel()
}

// Navigate loads a URL under the session's navigation timeout.
func (s *Session) Navigate(ctx context.Context, rawURL string) error {
	actions := []chromedp.Action{network.Enable()}
	if s.opts.UserAgent != "" {
		actions = append(actions, emulation.SetUserAgentOverride(s.opts.UserAgent))
	}
	actions = append(actions, chromedp.Navigate(rawURL))
	if err := s.run(ctx, s.opts.NavTimeout, actions...); err != nil {
		return fmt.Errorf("navigate %s: %w", rawURL, err)
	}
	return nil
}

// WaitVisible blocks until sel is visible or the timeout expires.
func (s *Session) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	if err := s.run(ctx, timeout, chromedp.WaitVisible(sel, queryOption(sel))); err != nil {
		return fmt.Errorf("wait for %s: %w", sel, err)
	}
	return nil
}

// Click clicks the first element matching sel, waiting up to timeout for it
// to become clickable. sel may be a CSS selector or an XPath expression.
func (s *Session) Click(ctx context.Context, sel string, timeout time.Duration) error {
	if err := s.run(ctx, timeout, chromedp.Click(sel, queryOption(sel))); err != nil {
		return fmt.Errorf("click %s: %w", sel, err)
	}
	return nil
}

// HTML returns the full rendered document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, s.opts.NavTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("snapshot document: %w", err)
	}
	return html, nil
}

// Count reports how many elements currently match the CSS selector.
func (s *Session) Count(ctx context.Context, sel string) (int, error) {
	var count int
	script := fmt.Sprintf("document.querySelectorAll(%q).length", sel)
	if err := s.run(ctx, s.opts.NavTimeout, chromedp.Evaluate(script, &count)); err != nil {
		return 0, fmt.Errorf("count %s: %w", sel, err)
	}
	return count, nil
}

// ScrollBottom scrolls the page to the bottom of the document.
func (s *Session) ScrollBottom(ctx context.Context) error {
	script := "window.scrollTo(0, document.body.scrollHeight)"
	if err := s.run(ctx, s.opts.NavTimeout, chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("scroll to bottom: %w", err)
	}
	return nil
}

// ClickLast scrolls the last element matching sel into view and clicks it,
// reporting whether such an element existed.
func (s *Session) ClickLast(ctx context.Context, sel string) (bool, error) {
	var clicked bool
	script := fmt.Sprintf(`(() => {
		const els = document.querySelectorAll(%q);
		if (els.length === 0) { return false; }
		const el = els[els.length - 1];
		el.scrollIntoView({behavior: 'smooth'});
		el.click();
		return true;
	})()`, sel)
	if err := s.run(ctx, s.opts.NavTimeout, chromedp.Evaluate(script, &clicked)); err != nil {
		return false, fmt.Errorf("click last %s: %w", sel, err)
	}
	return clicked, nil
}

// ClickAll clicks every element matching sel and reports how many were hit.
func (s *Session) ClickAll(ctx context.Context, sel string) (int, error) {
	var clicked int
	script := fmt.Sprintf(`(() => {
		const els = document.querySelectorAll(%q);
		els.forEach((el) => el.click());
		return els.length;
	})()`, sel)
	if err := s.run(ctx, s.opts.NavTimeout, chromedp.Evaluate(script, &clicked)); err != nil {
		return 0, fmt.Errorf("click all %s: %w", sel, err)
	}
	return clicked, nil
}

// run executes actions on the session tab under timeout, honoring
// cancellation of the caller's context.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	taskCtx, cancel := context.WithTimeout(s.tabCtx, timeout)
	defer cancel()

	stop := forwardCancel(ctx, cancel)
	defer stop()

	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return fmt.Errorf("chromedp run: %w", err)
	}
	return nil
}

// queryOption picks XPath or CSS matching based on the selector shape.
func queryOption(sel string) chromedp.QueryOption {
	if strings.HasPrefix(sel, "//") || strings.HasPrefix(sel, "(") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
