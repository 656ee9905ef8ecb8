package scrape

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/filberthamijoyo/CinematicAI/internal/browser"
)

// Loader drives infinite-scroll pages until the item count stabilizes.
type Loader struct {
	retries int
	wait    time.Duration
	jitter  time.Duration
	logger  *zap.Logger
}

// NewLoader builds a Loader. retries bounds the stability loop; each scroll
// step waits wait plus a random duration up to jitter so the site sees
// human-ish pacing.
func NewLoader(retries int, wait, jitter time.Duration, logger *zap.Logger) *Loader {
	if retries <= 0 {
		retries = 5
	}
	if wait <= 0 {
		wait = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		retries: retries,
		wait:    wait,
		jitter:  jitter,
		logger:  logger,
	}
}

// LoadAll scrolls sess until no new itemSel elements appear for the
// configured number of attempts, clicking moreSel whenever it is present.
// The effect is observed only through the session's rendered state; the
// returned count is informational.
func (l *Loader) LoadAll(ctx context.Context, sess *browser.Session, itemSel, moreSel string) int {
	st := newStability(l.retries)
	for ctx.Err() == nil {
		count, err := sess.Count(ctx, itemSel)
		if err != nil {
			l.logger.Warn("item count failed", zap.String("error", truncate(err.Error(), 60)))
			count = st.Count()
		}
		if !st.Observe(count) {
			break
		}
		if err := l.step(ctx, sess, moreSel); err != nil {
			l.logger.Warn("scroll step failed", zap.String("error", truncate(err.Error(), 60)))
			if !st.Observe(st.Count()) {
				break
			}
		}
	}
	l.logger.Info("listing stabilized", zap.Int("items", st.Count()))
	return st.Count()
}

// LoadReviews scroll-loads review containers, stopping early once max
// containers are present (max <= 0 disables the cap).
func (l *Loader) LoadReviews(ctx context.Context, sess *browser.Session, itemSel string, max int) int {
	st := newStability(l.retries)
	for ctx.Err() == nil {
		if err := sess.ScrollBottom(ctx); err != nil {
			l.logger.Warn("review scroll failed", zap.String("error", truncate(err.Error(), 60)))
		}
		l.pause(ctx)

		count, err := sess.Count(ctx, itemSel)
		if err != nil {
			l.logger.Warn("review count failed", zap.String("error", truncate(err.Error(), 60)))
			count = st.Count()
		}
		more := st.Observe(count)
		if max > 0 && count >= max {
			break
		}
		if !more {
			break
		}
	}
	return st.Count()
}

func (l *Loader) step(ctx context.Context, sess *browser.Session, moreSel string) error {
	if err := sess.ScrollBottom(ctx); err != nil {
		return err
	}
	l.pause(ctx)

	clicked, err := sess.ClickLast(ctx, moreSel)
	if err != nil {
		return err
	}
	if clicked {
		l.pause(ctx)
	}
	return nil
}

// pause sleeps for the configured wait plus random jitter, waking early on
// context cancellation.
func (l *Loader) pause(ctx context.Context) {
	d := l.wait
	if l.jitter > 0 {
		d += time.Duration(rand.Int63n(int64(l.jitter)))
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
