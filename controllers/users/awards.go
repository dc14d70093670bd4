package users

import (
	"net/http"
	"strconv"

	"github.com/Stasoks/HR-Site/database"
	"github.com/Stasoks/HR-Site/service"
	"github.com/Stasoks/HR-Site/utils"
)

// GET /v1/awards?limit=10
//
// Combined leaderboard view for the landing page.
func AwardsHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	boards := service.NewLeaderboardService(database.DB, utils.RedisClient)
	awards, err := boards.Awards(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: awards})
}
