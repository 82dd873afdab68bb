package fetch

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// lowWatermark is the remaining-call count at which API tiers are skipped
// preemptively instead of attempting a request and waiting on a 403.
const lowWatermark = 2

// Quota tracks the shared GitHub API rate-limit budget. One instance is
// injected everywhere API calls are made, so the state is observable in
// tests instead of living in a package-level singleton.
type Quota struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	known     bool
}

func NewQuota() *Quota {
	return &Quota{}
}

// Record updates the tracker from a response's X-RateLimit headers.
// Responses without the headers are ignored.
func (q *Quota) Record(h http.Header) {
	remaining := h.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return
	}
	n, err := strconv.Atoi(remaining)
	if err != nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.remaining = n
	q.known = true
	if reset := h.Get("X-RateLimit-Reset"); reset != "" {
		if sec, err := strconv.ParseInt(reset, 10, 64); err == nil {
			q.reset = time.Unix(sec, 0)
		}
	}
}

// Low reports whether the remaining quota is near zero and the reset
// window has not yet passed.
func (q *Quota) Low() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.known || q.remaining > lowWatermark {
		return false
	}
	if !q.reset.IsZero() && time.Now().After(q.reset) {
		q.known = false
		return false
	}
	return true
}

// Remaining returns the last observed remaining-call count and whether
// anything has been observed at all.
func (q *Quota) Remaining() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.remaining, q.known
}
