// Package ratelimiter provides per-key token bucket rate limiting backed by
// golang.org/x/time/rate.
//
// Each key (typically a client IP) gets its own bucket holding Burst tokens
// that refill at RPS tokens per second. Buckets are created lazily and removed
// by a background cleanup loop once idle.
//
//	limiter, err := ratelimiter.New(ratelimiter.Config{RPS: 20, Burst: 40})
//	if err != nil {
//		return err
//	}
//	g.Go(limiter.Run(ctx))
//
//	res, err := limiter.Allow(ctx, clientip.GetIP(r))
//	if err == nil && !res.Allowed() {
//		w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter().Seconds())))
//		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
//		return
//	}
package ratelimiter
