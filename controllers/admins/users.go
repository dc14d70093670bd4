package admins

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Stasoks/HR-Site/database"
	"github.com/Stasoks/HR-Site/service"
	"github.com/Stasoks/HR-Site/utils"
)

// GET /v1/admin/users?page=1&limit=20&search=
func UserListHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := adminCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := r.URL.Query().Get("search")

	ledger := service.NewLedgerService(database.DB)
	result, err := ledger.ListUsers(caller, page, limit, search)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: result})
}

// GET /v1/admin/users/{id}
func UserGetHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := adminCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ledger := service.NewLedgerService(database.DB)
	user, err := ledger.GetUser(caller, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: user})
}

// POST /v1/admin/users/{id}/balance
//
// Applies a signed delta to the user's balance.
func UserBalanceHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := adminCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
		Note   string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ledger := service.NewLedgerService(database.DB)
	user, err := ledger.AdjustBalance(caller, userID, req.Amount, req.Note)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Balance updated", Data: user})
}

// POST /v1/admin/users/{id}/update
//
// Sets account fields to absolute values.
func UserUpdateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := adminCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req struct {
		Balance        *float64 `json:"balance"`
		Level          *string  `json:"level"`
		TasksCompleted *int     `json:"tasks_completed"`
		ApprovalRate   *float64 `json:"approval_rate"`
		IsVerified     *bool    `json:"is_verified"`
		IsFake         *bool    `json:"is_fake"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ledger := service.NewLedgerService(database.DB)
	user, err := ledger.UpdateUser(caller, userID, service.UserUpdate{
		Balance:        req.Balance,
		Level:          req.Level,
		TasksCompleted: req.TasksCompleted,
		ApprovalRate:   req.ApprovalRate,
		IsVerified:     req.IsVerified,
		IsFake:         req.IsFake,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "User updated", Data: user})
}
