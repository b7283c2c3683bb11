// AngelaMos | 2026
// ratelimit.go

package stub

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/Yashraj9595/edumentor-session/internal/config"
	"github.com/Yashraj9595/edumentor-session/internal/core"
)

// limiter throttles the credential endpoints per client IP. With a redis URL
// configured the window is shared across stub instances via redis_rate;
// otherwise, or whenever redis is unreachable, it degrades to an in-process
// token bucket and fails open rather than blocking development.
type limiter struct {
	remote *redis_rate.Limiter
	local  *localLimiter
	perMin int
	burst  int
}

func newLimiter(cfg config.StubConfig) *limiter {
	l := &limiter{
		local:  newLocalLimiter(cfg.RateLimitPerMin, cfg.RateLimitBurst),
		perMin: cfg.RateLimitPerMin,
		burst:  cfg.RateLimitBurst,
	}

	if cfg.RedisURL != "" {
		if opts, err := redis.ParseURL(cfg.RedisURL); err == nil {
			l.remote = redis_rate.NewLimiter(redis.NewClient(opts))
		} else {
			slog.Warn("invalid stub redis url, using local rate limiting", "error", err)
		}
	}

	return l
}

func (l *limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)

		if !l.allow(r, key) {
			core.JSONError(w, core.NewAppError(
				nil,
				"too many attempts, slow down",
				http.StatusTooManyRequests,
				"RATE_LIMITED",
			))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *limiter) allow(r *http.Request, key string) bool {
	if l.remote != nil {
		res, err := l.remote.Allow(
			r.Context(),
			"authstub:"+key,
			redis_rate.Limit{Rate: l.perMin, Period: time.Minute, Burst: l.burst},
		)
		if err == nil {
			return res.Allowed > 0
		}
		slog.Warn("redis rate limit check failed, using local fallback", "error", err)
	}

	return l.local.allow(key)
}

// localLimiter keeps one token bucket per key, capped so a scan of spoofed
// addresses cannot grow it without bound.
type localLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

const maxLocalBuckets = 10000

func newLocalLimiter(perMin, burst int) *localLimiter {
	return &localLimiter{
		buckets: map[string]*rate.Limiter{},
		limit:   rate.Limit(float64(perMin) / 60.0),
		burst:   burst,
	}
}

func (l *localLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= maxLocalBuckets {
			l.buckets = map[string]*rate.Limiter{}
		}
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = bucket
	}

	return bucket.Allow()
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[len(parts)-1])
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
