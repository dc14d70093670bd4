package admins

import (
	"encoding/json"
	"net/http"

	"github.com/Stasoks/HR-Site/database"
	"github.com/Stasoks/HR-Site/service"
	"github.com/Stasoks/HR-Site/utils"
)

// GET /v1/admin/tasks
func TaskListHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminCaller(r); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	catalog := service.NewCatalogService(database.DB)
	data, err := catalog.AdminList()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: data})
}

// GET /v1/admin/tasks/{id}
func TaskGetHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminCaller(r); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	catalog := service.NewCatalogService(database.DB)
	task, err := catalog.Get(taskID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: task})
}

// POST /v1/admin/tasks
func TaskCreateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := adminCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var spec service.TaskSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	catalog := service.NewCatalogService(database.DB)
	task, err := catalog.Create(caller, spec)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Task created", Data: task})
}

// PUT /v1/admin/tasks/{id}
func TaskUpdateHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminCaller(r); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var spec service.TaskSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	catalog := service.NewCatalogService(database.DB)
	task, err := catalog.Update(taskID, spec)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task updated", Data: task})
}

// PATCH /v1/admin/tasks/{id}/toggle
func TaskToggleHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminCaller(r); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	catalog := service.NewCatalogService(database.DB)
	task, err := catalog.Toggle(taskID, req.IsActive)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task updated", Data: task})
}

// DELETE /v1/admin/tasks/{id}
func TaskDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminCaller(r); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	catalog := service.NewCatalogService(database.DB)
	if err := catalog.Delete(taskID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task deleted"})
}
