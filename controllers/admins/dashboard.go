package admins

import (
	"net/http"

	"github.com/Stasoks/HR-Site/database"
	"github.com/Stasoks/HR-Site/models"
	"github.com/Stasoks/HR-Site/utils"
)

// GET /v1/admin/dashboard
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminCaller(r); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	db := database.DB

	// Seeded leaderboard accounts are not real workers and are kept out
	// of the user count.
	var totalUsers, totalTasks, activeTasks, pendingModeration int64
	if err := db.Model(&models.User{}).
		Where("is_admin = ? AND is_fake = ?", false, false).Count(&totalUsers).Error; err != nil {
		respondServiceError(w, r, err)
		return
	}
	if err := db.Model(&models.Task{}).Count(&totalTasks).Error; err != nil {
		respondServiceError(w, r, err)
		return
	}
	if err := db.Model(&models.Task{}).Where("is_active = ?", true).Count(&activeTasks).Error; err != nil {
		respondServiceError(w, r, err)
		return
	}
	if err := db.Model(&models.Assignment{}).
		Where("status = ?", models.StatusSubmitted).Count(&pendingModeration).Error; err != nil {
		respondServiceError(w, r, err)
		return
	}

	var totalPaid float64
	row := db.Model(&models.Transaction{}).
		Where("type = ? AND flow = ?", models.TxTypeTaskReward, "credit").
		Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&totalPaid); err != nil {
		respondServiceError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"total_users":        totalUsers,
			"total_tasks":        totalTasks,
			"active_tasks":       activeTasks,
			"pending_moderation": pendingModeration,
			"total_rewards_paid": totalPaid,
		},
	})
}
