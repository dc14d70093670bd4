package users

import (
	"errors"
	"log"
	"net/http"

	"github.com/Stasoks/HR-Site/service"
	"github.com/Stasoks/HR-Site/utils"
)

func callerFrom(r *http.Request) (service.Caller, bool) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		return service.Caller{}, false
	}
	role, _ := utils.GetUserRole(r)
	return service.Caller{UserID: uid, Role: role}, true
}

// respondServiceError maps engine errors onto the response envelope.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	var cErr *service.CapacityError
	switch {
	case errors.As(err, &vErr):
		utils.WriteError(w, http.StatusBadRequest, vErr.Msg)
	case errors.Is(err, service.ErrNotOwner):
		utils.WriteError(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrUserNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyTaken),
		errors.Is(err, service.ErrLevelTooLow),
		errors.Is(err, service.ErrTaskInactive),
		errors.Is(err, service.ErrInvalidState),
		errors.As(err, &cErr):
		utils.WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("[USERS] %s %s failed: %v", r.Method, r.URL.Path, err)
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
