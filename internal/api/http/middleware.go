package http

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"pamoja-backend/internal/config"
	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/security"
	"pamoja-backend/internal/service"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// AuthMiddleware enforces the security level configured for each named route.
type AuthMiddleware struct {
	tokenManager security.TokenManager
	authSvc      service.AuthService
}

func NewAuthMiddleware(tm security.TokenManager, authSvc service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm, authSvc: authSvc}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}
		level := config.GetSecurityLevel(name)

		token := extractToken(r)
		if level == config.SecurityPublic {
			// Signed-in callers of public routes are still identified.
			if token != "" {
				if claims, err := m.tokenManager.ValidateToken(token); err == nil && claims.Type == security.TokenTypeAccess {
					r = r.WithContext(withClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
			return
		}

		if token == "" {
			writeError(w, r, domain.NewError(domain.ErrUnauthorized, "authorization token is not provided"))
			return
		}
		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeError(w, r, domain.NewError(domain.ErrUnauthorized, "invalid token: %v", err))
			return
		}
		if err := checkSecurityLevel(level, claims); err != nil {
			writeError(w, r, err)
			return
		}

		if level == config.SecurityActivated && !claims.IsStaff {
			_, decision, err := m.authSvc.Access(r.Context(), claims.UserID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if !decision.Allowed {
				logger.Debug("Activation gate blocked request", "route", name, "userID", claims.UserID, "reason", decision.Reason)
				writeGateError(w, decision)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func extractToken(r *http.Request) string {
	token := r.Header.Get("Authorization")
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		return token[7:]
	}
	return ""
}

func checkSecurityLevel(level config.SecurityLevel, claims *security.UserClaims) error {
	switch level {
	case config.SecurityRefresh:
		if claims.Type != security.TokenTypeRefresh {
			return domain.NewError(domain.ErrUnauthorized, "refresh token required")
		}
	case config.SecurityAdmin:
		if claims.Type != security.TokenTypeAccess {
			return domain.NewError(domain.ErrUnauthorized, "access token required")
		}
		if !claims.IsStaff {
			return domain.NewError(domain.ErrForbidden, "administrator access required")
		}
	default:
		if claims.Type != security.TokenTypeAccess {
			return domain.NewError(domain.ErrUnauthorized, "access token required")
		}
	}
	return nil
}

// LoginLimiter throttles login attempts per client IP.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLoginLimiter(perMinute, burst int) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 5
	}
	return &LoginLimiter{
		limiters: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
	}
}

// Allow reports whether ip may attempt another login now.
func (l *LoginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, v := range l.limiters {
		if now.Sub(v.lastSeen) > 10*time.Minute {
			delete(l.limiters, key)
		}
	}
	v, ok := l.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

func (l *LoginLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.Allow(ip) {
			logger.Warn("Login rate limit exceeded", "ip", ip)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many login attempts, try again later", Kind: domain.KindValidation})
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
