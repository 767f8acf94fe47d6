// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters  map[K]*rate.Limiter
	mu        sync.RWMutex
	rate      rate.Limit
	burst     int
	lastSweep time.Time
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the rate limiter for a key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// sweepIfDue clears all entries when the cache has grown past maxSize,
// checking at most once per interval. Runs on the request path, so the cache
// needs no background goroutine.
func (lc *limiterCache[K]) sweepIfDue(maxSize int, interval time.Duration) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	now := time.Now()
	if now.Sub(lc.lastSweep) < interval {
		return false
	}
	lc.lastSweep = now

	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
		return true
	}
	return false
}

// maxTrackedIPs bounds the limiter cache before it is reset wholesale.
const maxTrackedIPs = 10000

// sweepInterval is how often the limiter cache size is checked.
const sweepInterval = 10 * time.Minute

// RateLimitByIP limits each client IP to rps requests per second with the
// given burst. Used on write endpoints (comment submission, contact form,
// login) to slow abuse.
func RateLimitByIP(rps float64, burst int) func(http.Handler) http.Handler {
	cache := newLimiterCache[string](rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cache.sweepIfDue(maxTrackedIPs, sweepInterval)

			ip := clientIP(r)
			if !cache.get(ip).Allow() {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client address without the port. chi's RealIP
// middleware has already resolved proxy headers into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
