package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/NextOxyOfficial/LyriczFashion/api/responses"
	pkgAuth "github.com/NextOxyOfficial/LyriczFashion/pkg/auth"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/config"
	pkgerrors "github.com/NextOxyOfficial/LyriczFashion/pkg/errors"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithClaims(r, claims, logg)))
		})
	}
}

// OptionalAuth seeds the context when a valid token is present and lets the
// request through as a guest otherwise. A malformed token is still rejected
// so callers cannot silently lose their identity.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithClaims(r, claims, logg)))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

func contextWithClaims(r *http.Request, claims *pkgAuth.AccessTokenClaims, logg *logger.Logger) context.Context {
	ctx := WithUserID(r.Context(), claims.UserID)
	ctx = WithRole(ctx, string(claims.Role))
	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"user_id":    claims.UserID,
			"actor_role": string(claims.Role),
		})
	}
	return ctx
}
