package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/skillnest/internal/apierrors"
	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	principalKey
)

// Principal is the authenticated caller, loaded fresh on every request.
type Principal struct {
	UserID    int64
	Username  string
	Role      string
	IsStaff   bool
	TokenID   string
	ExpiresAt time.Time
}

func (p *Principal) IsAdmin() bool {
	return p.Role == auth.RoleAdmin || p.IsStaff
}

func principalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		ctx = logger.WithContext(ctx, s.logger.With(zap.String(logger.FieldRequestID, requestID)))

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		log := logger.FromContext(r.Context(), s.logger)
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.statusCode),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		switch {
		case rw.statusCode >= 500:
			log.Error("request failed with server error", fields...)
		case rw.statusCode >= 400:
			log.Warn("request failed with client error", fields...)
		default:
			log.Info("request completed", fields...)
		}
	})
}

func (s *Server) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				requestID := requestIDFrom(r.Context())
				logger.FromContext(r.Context(), s.logger).Error("panic recovered",
					zap.Any("error", rec),
					zap.String("path", r.URL.Path),
					zap.Stack("stack"),
				)
				respondWithError(w, apierrors.ErrInternalServer("Unexpected server error occurred").WithRequestID(requestID))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the bearer token into a Principal. It returns nil, nil when no token is sent.
func (s *Server) authenticate(r *http.Request) (*Principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return nil, apierrors.ErrUnauthorizedReq("malformed authorization header")
	}
	claims, err := s.issuer.Parse(tokenStr)
	if err != nil {
		return nil, apierrors.ErrUnauthorizedReq("invalid or expired token")
	}
	revoked, err := s.cache.IsRevoked(r.Context(), claims.Id)
	if err != nil {
		return nil, fmt.Errorf("failed to check token denylist: %w", err)
	}
	if revoked {
		return nil, apierrors.ErrUnauthorizedReq("token has been revoked")
	}

	userID, _ := claims.UserID()
	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(database.Normalize(err), database.ErrNotFound) {
			return nil, apierrors.ErrUnauthorizedReq("user no longer exists")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apierrors.ErrForbiddenReq("account is disabled")
	}
	profile, err := s.store.GetProfile(r.Context(), user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &Principal{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      profile.Role,
		IsStaff:   user.IsStaff,
		TokenID:   claims.Id,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}

func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := s.authenticate(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if p == nil {
			s.fail(w, r, apierrors.ErrUnauthorizedReq("authentication required"))
			return
		}
		ctx := context.WithValue(r.Context(), principalKey, p)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx, s.logger).With(zap.Int64("user_id", p.UserID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches the caller when a valid token is sent and ignores bad ones.
func (s *Server) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := s.authenticate(r)
		if err == nil && p != nil {
			r = r.WithContext(context.WithValue(r.Context(), principalKey, p))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := principalFrom(r.Context())
			for _, role := range roles {
				if p != nil && p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			s.fail(w, r, apierrors.ErrForbiddenReq("you do not have access to this page"))
		})
	}
}

func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := principalFrom(r.Context()); p == nil || !p.IsAdmin() {
			s.fail(w, r, apierrors.ErrForbiddenReq("admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limiterIdle is how long a client's limiter survives without requests.
const limiterIdle = 10 * time.Minute

type limiterEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

type clientLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	limiters  map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*limiterEntry),
		now:      time.Now,
	}
}

func (c *clientLimiter) get(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if now.Sub(c.lastSweep) >= limiterIdle {
		for k, e := range c.limiters {
			if now.Sub(e.seen) >= limiterIdle {
				delete(c.limiters, k)
			}
		}
		c.lastSweep = now
	}
	e, ok := c.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.limiters[key] = e
	}
	e.seen = now
	return e.limiter
}

func (c *clientLimiter) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.limiters)
}

// ParseTrustedProxies accepts IP addresses and CIDR prefixes.
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func trusted(proxies []netip.Prefix, host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range proxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// clientKey identifies the caller by its socket address. X-Forwarded-For is
// only read when the socket belongs to a trusted proxy, and then the rightmost
// hop that is not itself a trusted proxy wins.
func clientKey(r *http.Request, proxies []netip.Prefix) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	fwd := r.Header.Get("X-Forwarded-For")
	if fwd == "" || !trusted(proxies, host) {
		return host
	}
	hops := strings.Split(fwd, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !trusted(proxies, hop) {
			return hop
		}
		host = hop
	}
	return host
}

func (s *Server) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.get(clientKey(r, s.proxies)).Allow() {
			s.fail(w, r, apierrors.ErrTooManyRequests("slow down and try again shortly"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
