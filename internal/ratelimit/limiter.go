package ratelimit

import (
	"sync"
	"time"
)

// Policy is a fixed request budget over a rolling window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Limiter is consulted by the rate-limit middleware. Route handlers never
// see it; swapping in Unlimited disengages limiting without touching them.
type Limiter interface {
	Allow(key string, p Policy) bool
}

// Unlimited admits every request.
type Unlimited struct{}

func (Unlimited) Allow(string, Policy) bool { return true }

// SlidingWindow counts request timestamps per key and admits a request while
// fewer than p.Limit fall inside the window. Safe for concurrent use.
type SlidingWindow struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
	stopCh  chan struct{}
}

type bucket struct {
	requests []time.Time
	lastSeen time.Time
}

func NewSlidingWindow() *SlidingWindow {
	return NewSlidingWindowWithClock(time.Now)
}

// NewSlidingWindowWithClock lets tests control window rollover.
func NewSlidingWindowWithClock(now func() time.Time) *SlidingWindow {
	l := &SlidingWindow{
		buckets: make(map[string]*bucket),
		now:     now,
		stopCh:  make(chan struct{}),
	}
	go l.cleanupOldBuckets()
	return l
}

func (l *SlidingWindow) Allow(key string, p Policy) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, exists := l.buckets[key]
	if !exists {
		b = &bucket{}
		l.buckets[key] = b
	}

	cutoff := now.Add(-p.Window)
	var reqs []time.Time
	for _, t := range b.requests {
		if t.After(cutoff) {
			reqs = append(reqs, t)
		}
	}
	b.requests = reqs
	b.lastSeen = now

	if len(b.requests) >= p.Limit {
		return false
	}

	b.requests = append(b.requests, now)
	return true
}

func (l *SlidingWindow) cleanupOldBuckets() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			stale := l.now().Add(-2 * time.Hour)
			for key, b := range l.buckets {
				if b.lastSeen.Before(stale) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		case <-l.stopCh:
			return
		}
	}
}

func (l *SlidingWindow) Stop() {
	close(l.stopCh)
}
