package middleware

import (
	"context"
	"net/http"

	"github.com/Stasoks/HR-Site/database"
	"github.com/Stasoks/HR-Site/models"
	"github.com/Stasoks/HR-Site/utils"
)

// AdminAuthMiddleware verifies that the request carries a valid admin
// token and that the account still has the admin flag set. The acting
// admin id is stored in context for audit trails.
func AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, err := utils.BearerToken(r)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}

		_, claims, err := utils.ValidateAccessToken(tokenStr)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != "admin" {
			utils.WriteError(w, http.StatusForbidden, "Forbidden: Admin access required")
			return
		}

		adminID := claimUserID(claims)

		// Token role is not enough, the flag must still be set in the DB.
		var admin models.User
		if err := database.DB.First(&admin, adminID).Error; err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Admin not found")
			return
		}
		if !admin.IsAdmin {
			utils.WriteError(w, http.StatusForbidden, "Forbidden")
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDKey, adminID)
		ctx = context.WithValue(ctx, utils.UserRoleKey, role)
		ctx = context.WithValue(ctx, utils.AdminIDKey, adminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
