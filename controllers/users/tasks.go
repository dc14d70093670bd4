package users

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Stasoks/HR-Site/database"
	"github.com/Stasoks/HR-Site/service"
	"github.com/Stasoks/HR-Site/utils"
)

const maxProofUploadBytes = 32 << 20 // 32 MiB across all proof files

// GET /v1/tasks?filter=available|my_tasks|revision|done
func TaskListHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter := r.URL.Query().Get("filter")
	if filter == "" || filter == "available" {
		catalog := service.NewCatalogService(database.DB)
		groups, err := catalog.ListAvailable(caller)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: groups})
		return
	}

	catalog := service.NewCatalogService(database.DB)
	views, err := catalog.ListMine(caller, filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: views})
}

// GET /v1/tasks/stats
func TaskStatsHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	catalog := service.NewCatalogService(database.DB)
	stats, err := catalog.Stats(caller)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: stats})
}

// POST /v1/tasks/{id}/take
func TakeTaskHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	assignments := service.NewAssignmentService(database.DB)
	assignment, err := assignments.Take(caller, taskID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task taken", Data: assignment})
}

// POST /v1/tasks/{id}/submit
//
// Submission is keyed by task id; the service resolves the caller's
// open assignment for it. Accepts multipart form data with proof text,
// uploaded files and links, or a plain JSON body when no files are
// attached.
func SubmitTaskHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var sub service.Submission
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxProofUploadBytes); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		sub.Proof = r.FormValue("proof")
		for _, link := range r.MultipartForm.Value["links"] {
			if link = strings.TrimSpace(link); link != "" {
				sub.Links = append(sub.Links, link)
			}
		}
		for _, hdr := range r.MultipartForm.File["files"] {
			f, err := hdr.Open()
			if err != nil {
				utils.WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
				return
			}
			key := fmt.Sprintf("proofs/%d/%d/%d_%s",
				caller.UserID, taskID, time.Now().UnixNano(), filepath.Base(hdr.Filename))
			stored, err := utils.SaveProofFile(key, f)
			f.Close()
			if err != nil {
				utils.WriteError(w, http.StatusInternalServerError, "Failed to store uploaded file")
				return
			}
			sub.Files = append(sub.Files, stored)
		}
	} else {
		var req struct {
			Proof string   `json:"proof"`
			Links []string `json:"links"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		sub.Proof = req.Proof
		sub.Links = req.Links
	}

	assignments := service.NewAssignmentService(database.DB)
	assignment, err := assignments.SubmitForTask(caller, taskID, sub)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Submission received", Data: assignment})
}

func pathID(r *http.Request, key string) (uint, error) {
	raw := mux.Vars(r)[key]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
