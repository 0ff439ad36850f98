package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator validates session tokens minted at login verification.
type TokenValidator interface {
	ValidateToken(tokenString string) (*TokenClaims, error)
}

// TokenClaims carries the caller identity we trust from a validated token.
type TokenClaims struct {
	Phone     string
	SessionID string
}

type contextKeyCallerPhone struct{}

// ContextKeyCallerPhone is exported for handler tests.
var ContextKeyCallerPhone = contextKeyCallerPhone{}

// GetCallerPhone retrieves the authenticated caller's phone from the context.
func GetCallerPhone(ctx context.Context) string {
	if phone, ok := ctx.Value(ContextKeyCallerPhone).(string); ok {
		return phone
	}
	return ""
}

// WithCallerPhone injects a caller phone; used by tests that skip the chain.
func WithCallerPhone(ctx context.Context, phone string) context.Context {
	return context.WithValue(ctx, ContextKeyCallerPhone, phone)
}

// RequireIdentity gates routes on a caller identity. A Bearer session token is
// the trusted path. The bare X-User-Phone header is accepted only when
// allowLegacyHeader is set: it carries no proof of possession and exists for
// clients that predate token issuance.
func RequireIdentity(validator TokenValidator, allowLegacyHeader bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				claims, err := validator.ValidateToken(token)
				if err != nil {
					logger.WarnContext(ctx, "unauthorized - invalid session token",
						"request_id", GetRequestID(ctx),
						"error", err,
					)
					writeUnauthorized(w, "Invalid or expired token")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithCallerPhone(ctx, claims.Phone)))
				return
			}

			if allowLegacyHeader {
				if phone := r.Header.Get("X-User-Phone"); phone != "" {
					next.ServeHTTP(w, r.WithContext(WithCallerPhone(ctx, phone)))
					return
				}
			}

			logger.WarnContext(ctx, "unauthorized - missing caller identity",
				"request_id", GetRequestID(ctx),
			)
			writeUnauthorized(w, "Missing or invalid Authorization header")
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"` + description + `"}`))
}
