package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Stasoks/HR-Site/utils"
)

// AuthMiddleware validates the bearer token and injects the user id and
// role into the request context. Admin tokens are rejected here, admin
// traffic goes through AdminAuthMiddleware instead.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, err := utils.BearerToken(r)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		_, claims, err := utils.ValidateAccessToken(tokenStr)
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				utils.WriteError(w, http.StatusUnauthorized, "Session expired, please log in again")
				return
			}
			utils.WriteError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		userID := claimUserID(claims)
		role, _ := claims["role"].(string)

		if role == "admin" {
			utils.WriteError(w, http.StatusForbidden, "Access denied")
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDKey, userID)
		ctx = context.WithValue(ctx, utils.UserRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimUserID(claims map[string]interface{}) uint {
	rawID, ok := claims["id"]
	if !ok {
		return 0
	}
	switch v := rawID.(type) {
	case float64:
		return uint(v)
	case int:
		return uint(v)
	case string:
		var n uint
		_, _ = fmt.Sscanf(v, "%d", &n)
		return n
	}
	return 0
}
