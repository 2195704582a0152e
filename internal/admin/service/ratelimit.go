package service

import (
	"sync"
	"time"
)

// sweepThreshold caps how many per-IP windows we carry before an attempt
// triggers an inline sweep of stale entries.
const sweepThreshold = 4096

type ipWindow struct {
	start time.Time
	count int
}

// LoginLimiter is a fixed-window per-IP counter for login attempts. Every
// attempt counts, successful or not, so a credential-stuffing run cannot
// stay under the radar by mixing in valid logins.
//
// Fixed windows allow up to 2x the limit across a window boundary. That is
// accepted; the limiter is a blunt brake in front of the per-account
// lockout, not a precise traffic shaper.
type LoginLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	buckets map[string]*ipWindow
}

// NewLoginLimiter creates a limiter allowing max attempts per window for
// each IP. now is injectable for tests; nil means time.Now.
func NewLoginLimiter(max int, window time.Duration, now func() time.Time) *LoginLimiter {
	if now == nil {
		now = time.Now
	}
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &LoginLimiter{
		max:     max,
		window:  window,
		now:     now,
		buckets: make(map[string]*ipWindow),
	}
}

// RecordAttempt counts one attempt for ip and reports whether the attempt
// exceeds the window's budget, plus how many attempts remain.
func (l *LoginLimiter) RecordAttempt(ip string) (limited bool, remaining int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if len(l.buckets) > sweepThreshold {
		l.sweepLocked(now)
	}

	w, ok := l.buckets[ip]
	if !ok || now.Sub(w.start) >= l.window {
		w = &ipWindow{start: now}
		l.buckets[ip] = w
	}

	w.count++
	remaining = l.max - w.count
	if remaining < 0 {
		remaining = 0
	}
	return w.count > l.max, remaining
}

// Sweep drops windows that ended in the past. Called from housekeeping.
func (l *LoginLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked(l.now())
}

func (l *LoginLimiter) sweepLocked(now time.Time) {
	for ip, w := range l.buckets {
		if now.Sub(w.start) >= l.window {
			delete(l.buckets, ip)
		}
	}
}
