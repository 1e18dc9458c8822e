package middleware

import (
	"context"
	"net/http"

	"sunushop-backend/internal/domain"
	"sunushop-backend/pkg/utils"
)

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := utils.TokenFromRequest(r)
		if tokenString == "" {
			utils.WriteAppError(w, domain.NewUnauthorizedError("Authentification requise"))
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			utils.WriteAppError(w, domain.NewUnauthorizedError("Session invalide ou expirée"))
			return
		}

		// Built from the token claims, no database hit per request.
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), claims)))
	})
}

// OptionalAuthMiddleware attaches the user when a valid token is present and
// otherwise lets the request through anonymously. Used by guest checkout.
func OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := utils.ExtractClaims(r); err == nil {
			r = r.WithContext(withUser(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

func withUser(ctx context.Context, claims *utils.Claims) context.Context {
	user := &domain.User{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}
	return context.WithValue(ctx, domain.UserContextKey, user)
}
