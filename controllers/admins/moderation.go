package admins

import (
	"encoding/json"
	"net/http"

	"github.com/Stasoks/HR-Site/database"
	"github.com/Stasoks/HR-Site/service"
	"github.com/Stasoks/HR-Site/utils"
)

// GET /v1/admin/moderation
func ModerationListHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := adminCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	moderation := service.NewModerationService(database.DB)
	items, err := moderation.Pending(caller)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"items": items},
	})
}

// GET /v1/admin/moderation/{id}/proof
func ModerationProofHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := adminCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	assignmentID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid assignment id")
		return
	}

	moderation := service.NewModerationService(database.DB)
	view, err := moderation.Proof(caller, assignmentID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	// Swap stored keys for fetchable URLs before handing to the UI.
	urls := make([]string, 0, len(view.ProofFiles))
	for _, key := range view.ProofFiles {
		url, err := utils.ProofFileURL(key, 3600)
		if err != nil {
			url = key
		}
		urls = append(urls, url)
	}
	view.ProofFiles = urls

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: view})
}

// POST /v1/admin/moderation/{id}/approve
func ModerationApproveHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := adminCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	assignmentID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid assignment id")
		return
	}

	moderation := service.NewModerationService(database.DB)
	assignment, err := moderation.Approve(caller, assignmentID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Submission approved", Data: assignment})
}

// POST /v1/admin/moderation/{id}/reject
func ModerationRejectHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := adminCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	assignmentID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid assignment id")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	moderation := service.NewModerationService(database.DB)
	assignment, err := moderation.Reject(caller, assignmentID, req.Reason)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Submission rejected", Data: assignment})
}

// POST /v1/admin/moderation/{id}/revision
func ModerationRevisionHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := adminCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	assignmentID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid assignment id")
		return
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	moderation := service.NewModerationService(database.DB)
	assignment, err := moderation.RequestRevision(caller, assignmentID, req.Comment)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Revision requested", Data: assignment})
}

// POST /v1/admin/moderation/approve-all
func ModerationApproveAllHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := adminCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	moderation := service.NewModerationService(database.DB)
	result, err := moderation.ApproveAll(caller)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: result})
}
