package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sandeepkv93/catalog-service/internal/http/response"
)

// RequireRole admits users holding at least one of roles. An empty role
// list only requires authentication. Must run after AuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "User not found (request)", nil)
				return
			}
			if len(roles) == 0 || user.HasAnyRole(roles...) {
				next.ServeHTTP(w, r)
				return
			}
			msg := fmt.Sprintf("User %s need a valid role: [%s]", user.FullName, strings.Join(roles, ","))
			response.Error(w, r, http.StatusForbidden, "FORBIDDEN", msg, map[string][]string{"required": roles})
		})
	}
}
