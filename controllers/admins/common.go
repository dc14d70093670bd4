package admins

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Stasoks/HR-Site/service"
	"github.com/Stasoks/HR-Site/utils"
)

func adminCaller(r *http.Request) (service.Caller, bool) {
	adminID, ok := utils.GetAdminID(r)
	if !ok || adminID == 0 {
		return service.Caller{}, false
	}
	return service.Caller{UserID: adminID, Role: service.RoleAdmin}, true
}

func pathID(r *http.Request, key string) (uint, error) {
	raw := mux.Vars(r)[key]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
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
		log.Printf("[ADMINS] %s %s failed: %v", r.Method, r.URL.Path, err)
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
