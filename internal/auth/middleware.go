package auth

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// ErrorWriter renders an error response.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Gate authenticates bearer requests and applies the per-user rate limit.
type Gate struct {
	issuer  *Issuer
	limiter *RateLimiter
	onError ErrorWriter
	logger  *slog.Logger
}

func NewGate(issuer *Issuer, limiter *RateLimiter, onError ErrorWriter, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{issuer: issuer, limiter: limiter, onError: onError, logger: logger}
}

// Require rejects requests without a valid access token and puts the user id
// in the request context.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			g.onError(w, r, Unauthorized("authentication credentials were not provided"))
			return
		}

		userID, err := g.issuer.Verify(token, TokenAccess)
		if err != nil {
			g.onError(w, r, err)
			return
		}

		if allowed, retryAfter := g.limiter.Allow(userID); !allowed {
			g.logger.WarnContext(r.Context(), "rate limit exceeded", "user_id", userID, "path", r.URL.Path)
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			g.onError(w, r, RateLimited())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
