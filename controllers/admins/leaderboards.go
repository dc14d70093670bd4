package admins

import (
	"net/http"
	"strconv"

	"github.com/Stasoks/HR-Site/database"
	"github.com/Stasoks/HR-Site/service"
	"github.com/Stasoks/HR-Site/utils"
)

func boardHandler(compute func(*service.LeaderboardService, *http.Request, int) (interface{}, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := adminCaller(r); !ok {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		boards := service.NewLeaderboardService(database.DB, utils.RedisClient)
		data, err := compute(boards, r, limit)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: data})
	}
}

// GET /v1/admin/leaderboards/top-earners
var TopEarnersHandler = boardHandler(func(s *service.LeaderboardService, r *http.Request, limit int) (interface{}, error) {
	return s.TopEarners(r.Context(), limit)
})

// GET /v1/admin/leaderboards/most-productive
var MostProductiveHandler = boardHandler(func(s *service.LeaderboardService, r *http.Request, limit int) (interface{}, error) {
	return s.MostProductive(r.Context(), limit)
})

// GET /v1/admin/leaderboards/quality-leaders
var QualityLeadersHandler = boardHandler(func(s *service.LeaderboardService, r *http.Request, limit int) (interface{}, error) {
	return s.QualityLeaders(r.Context(), limit)
})
