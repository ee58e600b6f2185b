package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/http/response"
	"github.com/sandeepkv93/catalog-service/internal/service"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// AuthMiddleware resolves the bearer token into an active user and stores
// it on the request context.
func AuthMiddleware(resolver service.UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}
			user, err := resolver.ResolveUser(r.Context(), raw)
			if err != nil {
				status, code := http.StatusUnauthorized, "UNAUTHORIZED"
				if errors.Is(err, service.ErrInternal) {
					status, code = http.StatusInternalServerError, "INTERNAL"
				}
				response.Error(w, r, status, code, service.Message(err), nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

func ContextWithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*domain.User)
	return u, ok && u != nil
}

// ActorFromContext returns the acting user as seen by the catalog service.
func ActorFromContext(ctx context.Context) (service.Actor, bool) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return service.Actor{}, false
	}
	return service.ActorFromUser(u), true
}
