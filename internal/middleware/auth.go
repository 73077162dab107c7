package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/myflix-backend/internal/apperr"
	"github.com/AnshRaj112/myflix-backend/internal/models"
)

type contextKey string

// UserContextKey is the context key for the authenticated identity.
const UserContextKey contextKey = "myflix_user"

// IdentityResolver turns a bearer token into a live identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth is the access guard for protected routes. A request without a
// valid token for an existing identity never reaches next.
func RequireAuth(resolver IdentityResolver, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="myflix"`)
				writeError(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
				return
			}

			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				var appErr *apperr.Error
				if errors.As(err, &appErr) && appErr.Kind == apperr.KindUnauthenticated {
					w.Header().Set("WWW-Authenticate", `Bearer realm="myflix", error="invalid_token"`)
					writeError(w, http.StatusUnauthorized, appErr.Message)
					return
				}
				log.WithError(err).Error("Access guard failed to resolve identity")
				writeError(w, http.StatusInternalServerError, apperr.Internal(err).Message)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, u)
}

// UserFromContext returns the identity attached by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*models.User)
	return u, ok && u != nil
}
