package service

import (
	"errors"
	"fmt"

	"github.com/Stasoks/HR-Site/models"
)

// Not-found conditions.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrUserNotFound       = errors.New("user not found")
)

// Eligibility conditions. These are expected, recoverable client
// outcomes and are not logged as failures.
var (
	ErrLevelTooLow  = errors.New("user level is too low for this task")
	ErrTaskInactive = errors.New("task is not active")
	ErrAlreadyTaken = errors.New("task already taken")
)

// State conflicts. Expected under concurrent moderation; clients should
// refresh rather than alarm the user.
var (
	ErrInvalidState = errors.New("assignment is not in a valid state for this operation")
	ErrNotOwner     = errors.New("assignment belongs to another user")
)

// ValidationError rejects malformed input synchronously with no state
// change. Distinct from eligibility and state-conflict errors so
// handlers can map each class to its own status.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErr(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// CapacityError is returned when task creation would exceed the active
// task cap for a level. It names the offending level for the admin UI.
type CapacityError struct {
	Level models.Level
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("level %s already has the maximum of %d active tasks", e.Level, models.MaxActiveTasksPerLevel)
}
