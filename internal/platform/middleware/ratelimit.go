// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"math"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/respond"
)

// bucket is one client's token bucket.
type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// buckets keys token buckets by client IP. Idle entries are swept so a scan
// across many addresses cannot grow memory without bound.
type buckets struct {
	mu      sync.Mutex
	byIP    map[string]*bucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
}

// take consumes a token for ip at now. When the bucket is empty it returns
// how long until the next token, and consumes nothing.
func (set *buckets) take(ip string, now time.Time) time.Duration {
	set.mu.Lock()
	entry, found := set.byIP[ip]
	if !found {
		entry = &bucket{limiter: rate.NewLimiter(set.limit, set.burst)}
		set.byIP[ip] = entry
	}
	entry.lastSeen = now
	set.mu.Unlock()

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return time.Second
	}

	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
	}
	return delay
}

func (set *buckets) sweep(now time.Time) {
	set.mu.Lock()
	defer set.mu.Unlock()

	for ip, entry := range set.byIP {
		if now.Sub(entry.lastSeen) > set.idleTTL {
			delete(set.byIP, ip)
		}
	}
}

/*
RateLimit answers 429 with Retry-After once a client IP exceeds rps with the
given burst.

Each call owns its buckets, so the global limit and the stricter login limit
are counted separately. The idle sweeper stops when ctx is done.
*/
func RateLimit(ctx context.Context, rps float64, burst int) func(http.Handler) http.Handler {
	set := &buckets{
		byIP:    make(map[string]*bucket),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: constants.RateLimitClientTTL,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				set.sweep(now)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if wait := set.take(RealIP(request), time.Now()); wait > 0 {
				respond.Error(writer, request, apperr.RateLimited(int(math.Ceil(wait.Seconds()))))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
