package users

import (
	"net/http"

	"github.com/Stasoks/HR-Site/database"
	"github.com/Stasoks/HR-Site/models"
	"github.com/Stasoks/HR-Site/utils"
)

// GET /v1/news
func NewsListHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerFrom(r); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var items []models.News
	if err := database.DB.Where("is_active = ?", true).
		Order("created_at DESC").Find(&items).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: items})
}
