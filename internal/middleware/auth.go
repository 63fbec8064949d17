package middleware

import (
	"errors"
	"net/http"

	"phonedeal-be/internal/auth"
	"phonedeal-be/internal/logger"
	"phonedeal-be/internal/utils"

	"go.uber.org/zap"
)

// AuthMiddleware reads an optional access token. Requests without a token
// pass through anonymously, a token that fails verification is rejected.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(tokenStr, secret)
			if errors.Is(err, auth.ErrMissingSecret) {
				logger.FromCtx(r.Context()).Warn("token ignored, JWT_SECRET not set")
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				utils.WriteJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
			logger.FromCtx(ctx).Debug("authenticated", zap.Uint("user_id", claims.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects anonymous requests. It must run after AuthMiddleware.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			utils.WriteJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
