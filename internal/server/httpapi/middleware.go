package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/dmitrijs2005/cardtrack/internal/logging"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

type ctxKey string

const callerIDKey ctxKey = "callerID"

// callerID returns the id stored by authenticate. Handlers mounted behind
// authenticate can rely on ok being true.
func callerID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(callerIDKey).(int64)
	return id, ok
}

// requestID propagates the client's X-Request-ID or assigns a new one, and
// attaches it to the logging context.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logging.ContextWith(r.Context(), "request_id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *HTTPServer) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}

// authenticate requires "Authorization: Bearer <token>" and stores the
// caller id in the request context.
func (s *HTTPServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Missing Authorization Header")
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, common.BearerScheme) || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "Invalid Authorization header format. Use: Bearer <token>")
			return
		}

		id, err := s.deps.Auth.ResolveCaller(token)
		if err != nil {
			s.logger.Debug(r.Context(), "token rejected", "error", err)
			writeError(w, http.StatusUnauthorized, tokenMessage(err))
			return
		}

		ctx := context.WithValue(r.Context(), callerIDKey, id)
		ctx = logging.ContextWith(ctx, "user_id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ipRateLimiter keeps one token bucket per client IP. The key is the peer
// address, which chimw.RealIP rewrites only when the proxy is trusted.
// Past maxTracked addresses, idle buckets are evicted; if none are idle,
// untracked addresses share the overflow bucket.
type ipRateLimiter struct {
	mu         sync.RWMutex
	limiters   map[string]*rate.Limiter
	overflow   *rate.Limiter
	rate       rate.Limit
	burst      int
	maxTracked int
}

const maxTrackedIPs = 10000

func newIPRateLimiter(rps float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters:   make(map[string]*rate.Limiter),
		overflow:   rate.NewLimiter(rate.Limit(rps), burst),
		rate:       rate.Limit(rps),
		burst:      burst,
		maxTracked: maxTrackedIPs,
	}
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[ip]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok = l.limiters[ip]; ok {
		return limiter
	}
	if len(l.limiters) >= l.maxTracked {
		l.evictIdle()
		if len(l.limiters) >= l.maxTracked {
			return l.overflow
		}
	}
	limiter = rate.NewLimiter(l.rate, l.burst)
	l.limiters[ip] = limiter
	return limiter
}

// evictIdle drops buckets that have refilled completely; forgetting them
// loses no state. Callers hold l.mu.
func (l *ipRateLimiter) evictIdle() {
	full := float64(l.burst)
	for ip, limiter := range l.limiters {
		if limiter.Tokens() >= full {
			delete(l.limiters, ip)
		}
	}
}

// Middleware rejects requests beyond the per-IP budget with 429. A
// non-positive rate disables limiting.
func (l *ipRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.rate <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		if !l.get(clientIP(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "Too many requests, please slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
