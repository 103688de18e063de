package middleware

import (
	"errors"
	"net/http"
	"strings"

	"blog-platform/pkg/token"
	"blog-platform/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate checks the bearer token on every request and attaches the
// caller to the context. It never reads storage: a missing or malformed
// header is 401, a token that fails verification is 403.
func Authenticate(verifier token.Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				if !errors.Is(err, token.ErrExpired) && !errors.Is(err, token.ErrInvalid) {
					logger.Error("Token verification failed", zap.Error(err))
				} else {
					logger.Debug("Rejected token", zap.Error(err), zap.String("path", r.URL.Path))
				}
				utils.ResponseForbidden(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetPrincipal(r.Context(), utils.Principal{
				AccountID: claims.AccountID(),
				Role:      claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only when the authenticated caller
// carries role. It must run after Authenticate.
func RequireRole(role string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := utils.GetPrincipal(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if p.Role != role {
				logger.Warn("Role check: access denied",
					zap.String("user_id", p.AccountID.String()),
					zap.String("role", p.Role),
					zap.String("required", role),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
