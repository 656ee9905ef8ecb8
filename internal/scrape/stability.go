package scrape

// stability implements the scroll-stability heuristic: the retry counter
// resets whenever the observed element count strictly grows, and increments
// otherwise. Polling stops once the counter reaches its limit. This is a
// heuristic stability check, not a correctness guarantee: a slow network can
// end the loop before the feed is exhausted.
type stability struct {
	limit   int
	retries int
	last    int
}

func newStability(limit int) *stability {
	return &stability{limit: limit}
}

// Observe records a fresh element count and reports whether polling should
// continue.
func (s *stability) Observe(count int) bool {
	if count > s.last {
		s.last = count
		s.retries = 0
	} else {
		s.retries++
	}
	return s.retries < s.limit
}

// Count returns the highest element count seen so far.
func (s *stability) Count() int {
	return s.last
}
