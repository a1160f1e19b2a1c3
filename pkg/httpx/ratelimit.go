package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/otpauth/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket: Requests refill over Window, and up to
// Burst may be spent at once.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Burst    int
}

// Every returns the refill interval of a single token.
func (c RateLimitConfig) Every() time.Duration {
	if c.Requests <= 0 {
		return c.Window
	}
	return c.Window / time.Duration(c.Requests)
}

var (
	// StrictLimit guards the unauthenticated auth endpoints.
	StrictLimit = RateLimitConfig{Requests: 5, Window: time.Minute, Burst: 5}

	// DeliveryLimit caps how often one phone number can be sent a code.
	DeliveryLimit = RateLimitConfig{Requests: 3, Window: 10 * time.Minute, Burst: 3}

	// StandardLimit is for session gated reads.
	StandardLimit = RateLimitConfig{Requests: 60, Window: time.Minute, Burst: 60}
)

func init() {
	StrictLimit = RateLimitFromEnv("STRICT", StrictLimit)
	DeliveryLimit = RateLimitFromEnv("DELIVERY", DeliveryLimit)
	StandardLimit = RateLimitFromEnv("STANDARD", StandardLimit)
}

// RateLimitFromEnv overlays RATELIMIT_<NAME>_REQUESTS, _WINDOW_SEC and _BURST
// onto def. Unparseable or non-positive values are ignored.
func RateLimitFromEnv(name string, def RateLimitConfig) RateLimitConfig {
	positive := func(suffix string) (int, bool) {
		n, err := strconv.Atoi(os.Getenv("RATELIMIT_" + name + "_" + suffix))
		return n, err == nil && n > 0
	}

	cfg := def
	if n, ok := positive("REQUESTS"); ok {
		cfg.Requests = n
	}
	if n, ok := positive("WINDOW_SEC"); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positive("BURST"); ok {
		cfg.Burst = n
	}
	return cfg
}

// KeyFunc picks the bucket a request is charged to. An empty key skips the
// limiter.
type KeyFunc func(*http.Request) string

// ClientIP uses the first X-Forwarded-For hop, then X-Real-IP, then the peer
// address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// IdentityKey charges the authenticated identity. Must run behind SessionGate.
func IdentityKey(r *http.Request) string {
	id, _ := IdentityIDFromContext(r.Context())
	return id
}

const maxPeekBytes = 64 << 10

// JSONFieldKey reads a top level field from a JSON request body without
// consuming it. Strings are used verbatim; numbers use their literal text.
func JSONFieldKey(field string) KeyFunc {
	return func(r *http.Request) string {
		if r.Body == nil || r.Body == http.NoBody {
			return ""
		}

		head, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
		r.Body = readCloser{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
		if err != nil {
			return ""
		}

		var fields map[string]json.RawMessage
		if json.Unmarshal(head, &fields) != nil {
			return ""
		}
		raw, ok := fields[field]
		if !ok {
			return ""
		}

		var s string
		if json.Unmarshal(raw, &s) == nil {
			return strings.TrimSpace(s)
		}
		if bytes.Equal(raw, []byte("null")) {
			return ""
		}
		return string(bytes.TrimSpace(raw))
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

// JoinKeys concatenates the non-empty keys from fns with sep.
func JoinKeys(sep string, fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if k := fn(r); k != "" {
				parts = append(parts, k)
			}
		}
		return strings.Join(parts, sep)
	}
}

const idleSweepInterval = 5 * time.Minute

// buckets holds one limiter per key. Full buckets are idle and get swept.
type buckets struct {
	cfg RateLimitConfig

	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	lastSweep time.Time
}

func newBuckets(cfg RateLimitConfig) *buckets {
	return &buckets{
		cfg:       cfg,
		limiters:  make(map[string]*rate.Limiter),
		lastSweep: time.Now(),
	}
}

func (b *buckets) get(key string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now := time.Now(); now.Sub(b.lastSweep) >= idleSweepInterval {
		b.lastSweep = now
		for k, l := range b.limiters {
			if l.TokensAt(now) >= float64(b.cfg.Burst) {
				delete(b.limiters, k)
			}
		}
	}

	l, ok := b.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(b.cfg.Every()), b.cfg.Burst)
		b.limiters[key] = l
	}
	return l
}

// RateLimit rejects requests with 429 once the bucket for key(r) is empty.
func RateLimit(cfg RateLimitConfig, key KeyFunc) Middleware {
	b := newBuckets(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			lim := b.get(k)
			now := time.Now()
			if lim.AllowN(now, 1) {
				next.ServeHTTP(w, r)
				return
			}

			res := lim.ReserveN(now, 1)
			wait := res.DelayFrom(now)
			res.CancelAt(now)
			retryAfter := max(int((wait+time.Second-1)/time.Second), 1)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			w.Header().Set("X-RateLimit-Window", cfg.Window.String())

			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"path", r.URL.Path,
				"retry_after", retryAfter,
			)
			WriteError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		})
	}
}

// RateLimitByIP charges the client address.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, ClientIP)
}

// RateLimitByJSONField charges a body field, e.g. the phone number a code is
// being sent to, regardless of which address asks.
func RateLimitByJSONField(cfg RateLimitConfig, field string) Middleware {
	return RateLimit(cfg, JSONFieldKey(field))
}

// RateLimitByIdentity charges the session subject, falling back to the
// client address.
func RateLimitByIdentity(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, func(r *http.Request) string {
		if id := IdentityKey(r); id != "" {
			return "id:" + id
		}
		return "ip:" + ClientIP(r)
	})
}
