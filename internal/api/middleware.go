package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/cors"
)

// realIP resolves the caller's address from X-Forwarded-For/X-Real-IP
// (set by an upstream proxy) before falling back to RemoteAddr, so the
// rate limiter keys on the actual client rather than the proxy.
func realIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if idx := strings.Index(xff, ","); idx != -1 {
				xff = xff[:idx]
			}
			xff = strings.TrimSpace(xff)
			if net.ParseIP(xff) != nil {
				r.RemoteAddr = xff
				next.ServeHTTP(w, r)
				return
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			if net.ParseIP(xri) != nil {
				r.RemoteAddr = xri
				next.ServeHTTP(w, r)
				return
			}
		}
		if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			r.RemoteAddr = ip
		}
		next.ServeHTTP(w, r)
	})
}

// securityHeaders sets a conservative baseline of response headers for
// the admin surface.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// ipRateLimiter throttles requests per client IP to a fixed per-second
// budget using a fixed one-second window that restarts on the first
// request arriving more than a second after the window opened. Stale visitors are swept on
// each request rather than by a background goroutine — the admin
// surface takes too little traffic to warrant a dedicated cleanup loop.
type ipRateLimiter struct {
	perSecond int
	mu        sync.Mutex
	visitors  map[string]*visitorState
}

type visitorState struct {
	windowStart time.Time
	count       int
}

func newIPRateLimiter(perSecond int) *ipRateLimiter {
	if perSecond <= 0 {
		perSecond = 10
	}
	return &ipRateLimiter{perSecond: perSecond, visitors: make(map[string]*visitorState)}
}

func (l *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}

		l.mu.Lock()
		now := time.Now()
		v, ok := l.visitors[ip]
		if !ok || now.Sub(v.windowStart) > time.Second {
			v = &visitorState{windowStart: now, count: 0}
			l.visitors[ip] = v
		}
		v.count++
		exceeded := v.count > l.perSecond
		l.sweepLocked(now)
		l.mu.Unlock()

		if exceeded {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sweepLocked drops visitors whose window has long since closed.
// Callers must hold l.mu.
func (l *ipRateLimiter) sweepLocked(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.windowStart) > time.Minute {
			delete(l.visitors, ip)
		}
	}
}

// corsMiddleware permits cross-origin requests from allowedOrigins; a
// single "*" entry permits any origin.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})
}
