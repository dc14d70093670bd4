package admins

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/Stasoks/HR-Site/database"
	"github.com/Stasoks/HR-Site/models"
	"github.com/Stasoks/HR-Site/utils"
)

// GET /v1/admin/news
func NewsListHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminCaller(r); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var items []models.News
	if err := database.DB.Order("created_at DESC").Find(&items).Error; err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: items})
}

// POST /v1/admin/news
func NewsCreateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := adminCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		utils.WriteError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	item := models.News{
		Title:     req.Title,
		Content:   req.Content,
		IsActive:  true,
		CreatedBy: caller.UserID,
	}
	if err := database.DB.Create(&item).Error; err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "News created", Data: item})
}

// PUT /v1/admin/news/{id}
func NewsUpdateHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminCaller(r); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	newsID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid news id")
		return
	}

	var req struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		IsActive *bool   `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var item models.News
	if err := database.DB.First(&item, newsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, http.StatusNotFound, "News not found")
			return
		}
		respondServiceError(w, r, err)
		return
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Content != nil {
		item.Content = *req.Content
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if err := database.DB.Save(&item).Error; err != nil {
		respondServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "News updated", Data: item})
}

// DELETE /v1/admin/news/{id}
func NewsDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminCaller(r); !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	newsID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid news id")
		return
	}

	res := database.DB.Delete(&models.News{}, newsID)
	if res.Error != nil {
		respondServiceError(w, r, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteError(w, http.StatusNotFound, "News not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "News deleted"})
}
