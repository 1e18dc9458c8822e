package middleware

import (
	"net/http"
	"slices"

	"sunushop-backend/internal/domain"
	"sunushop-backend/pkg/utils"
)

// RoleMiddleware lets the request through only when the authenticated user
// holds one of roles. MUST be used AFTER AuthMiddleware.
func RoleMiddleware(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := domain.UserFromContext(r.Context())
			if !ok {
				utils.WriteAppError(w, domain.NewUnauthorizedError("Authentification requise"))
				return
			}
			if !slices.Contains(roles, user.Role) {
				utils.WriteAppError(w, domain.NewForbiddenError("Accès réservé"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminMiddleware ensures the authenticated user has the 'admin' role.
func AdminMiddleware(next http.Handler) http.Handler {
	return RoleMiddleware(domain.RoleAdmin)(next)
}
