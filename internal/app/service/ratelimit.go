package service

import (
	"sync"
	"time"
)

// userLimiter deja pasar una acción por usuario cada `win`.
type userLimiter struct {
	mu   sync.Mutex
	next map[string]time.Time
	win  time.Duration
	now  func() time.Time
}

func newUserLimiter(window time.Duration, now func() time.Time) *userLimiter {
	if now == nil {
		now = time.Now
	}
	return &userLimiter{next: map[string]time.Time{}, win: window, now: now}
}

func (l *userLimiter) Allow(userID string) bool {
	if l.win <= 0 {
		return true
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.next[userID]; ok && now.Before(until) {
		return false
	}
	l.next[userID] = now.Add(l.win)
	return true
}
