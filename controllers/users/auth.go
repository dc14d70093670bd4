package users

import (
	"log"
	"net/http"
	"time"

	"github.com/Stasoks/HR-Site/utils"
)

// POST /v1/logout
//
// Blacklists the presented token's jti until its natural expiry. When
// no revocation store is configured the token simply ages out; logout
// still reports success.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	token, err := utils.BearerToken(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	_, claims, err := utils.ValidateAccessToken(token)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jti, _ := claims["jti"].(string)
	ttl := 15 * time.Minute
	if exp, ok := claims["exp"].(float64); ok {
		if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
			ttl = until
		}
	}
	if err := utils.RevokeJTI(jti, ttl); err != nil {
		log.Printf("[USERS] token revocation skipped: %v", err)
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}
