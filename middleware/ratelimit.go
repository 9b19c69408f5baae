/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/fatih/structs"
	"github.com/gin-gonic/gin"

	"github.com/nethesis/memorial-api/response"
)

// RateLimiter is an in-process per-client-address token bucket. Each bucket
// holds perMinute tokens and refills at perMinute tokens per minute.
type RateLimiter struct {
	perMinute int
	mutex     sync.Mutex
	buckets   map[string]*bucket
}

type bucket struct {
	tokens float64
	last   time.Time
}

func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiter{
		perMinute: perMinute,
		buckets:   make(map[string]*bucket),
	}
}

// Middleware enforces the limit per client address, short-circuiting with
// 429 before the handler runs.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, structs.Map(response.StatusTooManyRequests{
				Success: false,
				Message: "too many requests",
				Data:    nil,
			}))
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	b, exists := rl.buckets[key]
	if !exists {
		rl.buckets[key] = &bucket{tokens: float64(rl.perMinute) - 1, last: now}
		return true
	}

	// refill
	b.tokens += now.Sub(b.last).Minutes() * float64(rl.perMinute)
	if b.tokens > float64(rl.perMinute) {
		b.tokens = float64(rl.perMinute)
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// PruneStale drops buckets idle longer than maxIdle, so the map does not
// keep one entry per client address ever seen.
func (rl *RateLimiter) PruneStale(maxIdle time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for key, b := range rl.buckets {
		if b.last.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}
