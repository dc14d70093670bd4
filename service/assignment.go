package service

import (
	"errors"
	"strings"
	"time"

	"github.com/Stasoks/HR-Site/models"
	"gorm.io/gorm"
)

// AssignmentService owns the worker half of the lifecycle: taking a
// task and submitting proof. Moderation lives in ModerationService.
type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// Take creates an assignment in `taken` after the eligibility checks.
// The per-(user,task) lock plus the re-check inside the transaction
// guarantee that two racing calls for the same pair produce exactly one
// assignment and one ErrAlreadyTaken.
func (s *AssignmentService) Take(caller Caller, taskID uint) (*models.Assignment, error) {
	unlock := lockPair(caller.UserID, taskID)
	defer unlock()

	var assignment *models.Assignment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if !task.IsActive {
			return ErrTaskInactive
		}

		var user models.User
		if err := tx.First(&user, caller.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if !user.Level.AtLeast(task.LevelRequired) {
			return ErrLevelTooLow
		}

		var open int64
		if err := tx.Model(&models.Assignment{}).
			Where("user_id = ? AND task_id = ? AND status IN ?", caller.UserID, taskID, models.NonTerminalStatuses()).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrAlreadyTaken
		}

		now := time.Now().UTC()
		assignment = &models.Assignment{
			UserID:  caller.UserID,
			TaskID:  taskID,
			Status:  models.StatusTaken,
			TakenAt: now,
		}
		if task.TimeLimitHours != nil {
			expires := now.Add(time.Duration(*task.TimeLimitHours) * time.Hour)
			assignment.ExpiresAt = &expires
		}
		return tx.Create(assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// Submission carries the proof payload. Files are storage keys already
// uploaded through the file-storage collaborator.
type Submission struct {
	Proof string
	Files []string
	Links []string
}

// Submit transitions taken or revision to submitted. Expiry is advisory:
// an expired assignment may still be submitted, the countdown is purely
// a display concern. A prior admin_comment is kept for audit.
func (s *AssignmentService) Submit(caller Caller, assignmentID uint, sub Submission) (*models.Assignment, error) {
	if strings.TrimSpace(sub.Proof) == "" && len(sub.Files) == 0 && len(sub.Links) == 0 {
		return nil, validationErr("proof text, files or links are required")
	}

	unlock := lockAssignment(assignmentID)
	defer unlock()

	var assignment models.Assignment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&assignment, assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}
		if assignment.UserID != caller.UserID {
			return ErrNotOwner
		}
		if assignment.Status != models.StatusTaken && assignment.Status != models.StatusRevision {
			return ErrInvalidState
		}

		now := time.Now().UTC()
		assignment.Status = models.StatusSubmitted
		assignment.Proof = sub.Proof
		assignment.SetProofFiles(sub.Files)
		assignment.SetProofLinks(sub.Links)
		assignment.SubmittedAt = &now
		return tx.Save(&assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// SubmitForTask submits proof by task id, the shape clients use. It
// resolves the caller's open assignment for the task and delegates to
// Submit, so the state and ownership checks apply unchanged.
func (s *AssignmentService) SubmitForTask(caller Caller, taskID uint, sub Submission) (*models.Assignment, error) {
	var open models.Assignment
	err := s.db.Where("user_id = ? AND task_id = ? AND status IN ?",
		caller.UserID, taskID, models.NonTerminalStatuses()).
		Order("id DESC").First(&open).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return s.Submit(caller, open.ID, sub)
}

// Get loads an assignment owned by the caller.
func (s *AssignmentService) Get(caller Caller, assignmentID uint) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := s.db.First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if assignment.UserID != caller.UserID && !caller.Admin() {
		return nil, ErrNotOwner
	}
	return &assignment, nil
}
