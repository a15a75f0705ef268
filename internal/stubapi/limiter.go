package stubapi

import (
	"sync"
	"time"
)

// loginLimiter blocks repeated failed logins per (email, ip) for a cooldown
// window. Purely in-memory; counters vanish on restart.
type loginLimiter struct {
	mu        sync.Mutex
	failures  map[string]int
	blockedAt map[string]time.Time

	threshold int
	cooldown  time.Duration
	now       func() time.Time
}

func newLoginLimiter(threshold int, cooldown time.Duration) *loginLimiter {
	if threshold <= 0 {
		threshold = 5
	}
	return &loginLimiter{
		failures:  map[string]int{},
		blockedAt: map[string]time.Time{},
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

func limiterKey(email, ip string) string { return email + "|" + ip }

// allow reports whether a login attempt may proceed.
func (l *loginLimiter) allow(email, ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := limiterKey(email, ip)
	at, blocked := l.blockedAt[key]
	if !blocked {
		return true
	}
	if l.now().Sub(at) >= l.cooldown {
		delete(l.blockedAt, key)
		delete(l.failures, key)
		return true
	}
	return false
}

// failure records a failed attempt and reports whether the key is now
// blocked.
func (l *loginLimiter) failure(email, ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := limiterKey(email, ip)
	l.failures[key]++
	if l.failures[key] >= l.threshold {
		l.blockedAt[key] = l.now()
		return true
	}
	return false
}

// success resets counters for the key.
func (l *loginLimiter) success(email, ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := limiterKey(email, ip)
	delete(l.failures, key)
	delete(l.blockedAt, key)
}
