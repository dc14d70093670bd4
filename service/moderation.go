package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Stasoks/HR-Site/models"
	"github.com/Stasoks/HR-Site/utils"
	"gorm.io/gorm"
)

// ModerationService reviews submitted work. Approval is the only path
// that credits a reward, and it does so exactly once per assignment.
type ModerationService struct {
	db *gorm.DB
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// ModerationItem is one row of the review queue.
type ModerationItem struct {
	ID          uint    `json:"id"`
	UserID      uint    `json:"user_id"`
	UserName    string  `json:"user_name"`
	TaskID      uint    `json:"task_id"`
	TaskTitle   string  `json:"task_title"`
	Reward      float64 `json:"reward"`
	SubmittedAt *string `json:"submitted_at"`
}

// Pending lists submitted assignments oldest first.
func (s *ModerationService) Pending(caller Caller) ([]ModerationItem, error) {
	if !caller.Admin() {
		return nil, ErrNotOwner
	}

	var rows []struct {
		ID          uint
		UserID      uint
		FirstName   string
		LastName    string
		TaskID      uint
		Title       string
		Reward      float64
		SubmittedAt *time.Time
	}
	err := s.db.Table("assignments").
		Select("assignments.id, assignments.user_id, users.first_name, users.last_name, assignments.task_id, tasks.title, tasks.reward, assignments.submitted_at").
		Joins("JOIN users ON users.id = assignments.user_id").
		Joins("JOIN tasks ON tasks.id = assignments.task_id").
		Where("assignments.status = ?", models.StatusSubmitted).
		Order("assignments.submitted_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]ModerationItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, ModerationItem{
			ID:          r.ID,
			UserID:      r.UserID,
			UserName:    strings.TrimSpace(r.FirstName + " " + r.LastName),
			TaskID:      r.TaskID,
			TaskTitle:   r.Title,
			Reward:      r.Reward,
			SubmittedAt: formatUTCPtr(r.SubmittedAt),
		})
	}
	return items, nil
}

// ProofView is the full submission as a reviewer sees it.
type ProofView struct {
	ID            uint     `json:"id"`
	UserName      string   `json:"user_name"`
	TaskTitle     string   `json:"task_title"`
	RequiredProof string   `json:"required_proof"`
	Status        string   `json:"status"`
	Proof         string   `json:"proof"`
	ProofFiles    []string `json:"proof_files"`
	ProofLinks    []string `json:"proof_links"`
	AdminComment  string   `json:"admin_comment,omitempty"`
	SubmittedAt   *string  `json:"submitted_at"`
}

// Proof returns the submission payload for review.
func (s *ModerationService) Proof(caller Caller, assignmentID uint) (*ProofView, error) {
	if !caller.Admin() {
		return nil, ErrNotOwner
	}

	var assignment models.Assignment
	if err := s.db.First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, assignment.UserID).Error; err != nil {
		return nil, err
	}
	var task models.Task
	if err := s.db.First(&task, assignment.TaskID).Error; err != nil {
		return nil, err
	}

	return &ProofView{
		ID:            assignment.ID,
		UserName:      user.Name(),
		TaskTitle:     task.Title,
		RequiredProof: task.RequiredProof,
		Status:        string(assignment.Status),
		Proof:         assignment.Proof,
		ProofFiles:    assignment.ProofFileList(),
		ProofLinks:    assignment.ProofLinkList(),
		AdminComment:  assignment.AdminComment,
		SubmittedAt:   formatUTCPtr(assignment.SubmittedAt),
	}, nil
}

// Approve moves a submitted assignment to approved and credits the task
// reward. Balance, completion counter, approval rate, ledger entry and
// audit event all commit in one transaction, so a crash mid-way never
// leaves a half-credited user.
func (s *ModerationService) Approve(caller Caller, assignmentID uint) (*models.Assignment, error) {
	if !caller.Admin() {
		return nil, ErrNotOwner
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
		if assignment.Status != models.StatusSubmitted {
			return ErrInvalidState
		}

		var task models.Task
		if err := tx.First(&task, assignment.TaskID).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		assignment.Status = models.StatusApproved
		assignment.ReviewedAt = &now
		if err := tx.Save(&assignment).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", assignment.UserID).
			Updates(map[string]interface{}{
				"balance":         gorm.Expr("balance + ?", task.Reward),
				"tasks_completed": gorm.Expr("tasks_completed + 1"),
			}).Error; err != nil {
			return err
		}
		if err := recomputeApprovalRate(tx, assignment.UserID); err != nil {
			return err
		}

		msg := fmt.Sprintf("Reward for task: %s", task.Title)
		txn := models.Transaction{
			UserID:      assignment.UserID,
			Amount:      task.Reward,
			ReferenceID: utils.GenerateReferenceID(assignment.UserID),
			Flow:        "credit",
			Type:        models.TxTypeTaskReward,
			Message:     &msg,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		return recordEvent(tx, assignment.UserID, "task_approved",
			fmt.Sprintf("Task %q approved, reward %.2f credited", task.Title, task.Reward), caller.UserID)
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Reject moves a submitted assignment to rejected. The reason is
// mandatory and stored on the assignment for the worker to read.
func (s *ModerationService) Reject(caller Caller, assignmentID uint, reason string) (*models.Assignment, error) {
	if !caller.Admin() {
		return nil, ErrNotOwner
	}
	if strings.TrimSpace(reason) == "" {
		return nil, validationErr("rejection reason is required")
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
		if assignment.Status != models.StatusSubmitted {
			return ErrInvalidState
		}

		now := time.Now().UTC()
		assignment.Status = models.StatusRejected
		assignment.AdminComment = reason
		assignment.ReviewedAt = &now
		if err := tx.Save(&assignment).Error; err != nil {
			return err
		}
		if err := recomputeApprovalRate(tx, assignment.UserID); err != nil {
			return err
		}
		return recordEvent(tx, assignment.UserID, "task_rejected",
			fmt.Sprintf("Submission #%d rejected: %s", assignment.ID, reason), caller.UserID)
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// RequestRevision sends a submitted assignment back to the worker with a
// comment. Revision does not touch the approval rate, only terminal
// reviews count.
func (s *ModerationService) RequestRevision(caller Caller, assignmentID uint, comment string) (*models.Assignment, error) {
	if !caller.Admin() {
		return nil, ErrNotOwner
	}
	if strings.TrimSpace(comment) == "" {
		return nil, validationErr("revision comment is required")
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
		if assignment.Status != models.StatusSubmitted {
			return ErrInvalidState
		}

		now := time.Now().UTC()
		assignment.Status = models.StatusRevision
		assignment.AdminComment = comment
		assignment.ReviewedAt = &now
		return tx.Save(&assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ApproveAllResult reports how many of the snapshot were approved and
// the total reward paid out.
type ApproveAllResult struct {
	Approved    int     `json:"approved"`
	TotalReward float64 `json:"total_reward"`
}

// ApproveAll approves every assignment that was in submitted at the
// moment of the call. Each approval is its own transaction, a failure
// on one does not roll back the others, and items that left submitted
// between the snapshot and their turn are skipped.
func (s *ModerationService) ApproveAll(caller Caller) (*ApproveAllResult, error) {
	if !caller.Admin() {
		return nil, ErrNotOwner
	}

	var ids []uint
	if err := s.db.Model(&models.Assignment{}).
		Where("status = ?", models.StatusSubmitted).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	result := &ApproveAllResult{}
	for _, id := range ids {
		var assignment models.Assignment
		if err := s.db.First(&assignment, id).Error; err != nil {
			continue
		}
		var task models.Task
		if err := s.db.First(&task, assignment.TaskID).Error; err != nil {
			continue
		}
		if _, err := s.Approve(caller, id); err != nil {
			continue
		}
		result.Approved++
		result.TotalReward += task.Reward
	}
	result.TotalReward = utils.RoundFloat(result.TotalReward, 2)
	return result, nil
}

// recomputeApprovalRate derives the rate from terminal reviews. With no
// approved or rejected assignments the rate stays at zero, which the
// quality leaderboard treats as undefined.
func recomputeApprovalRate(tx *gorm.DB, userID uint) error {
	var approved, rejected int64
	if err := tx.Model(&models.Assignment{}).
		Where("user_id = ? AND status = ?", userID, models.StatusApproved).
		Count(&approved).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Assignment{}).
		Where("user_id = ? AND status = ?", userID, models.StatusRejected).
		Count(&rejected).Error; err != nil {
		return err
	}
	total := approved + rejected
	if total == 0 {
		return nil
	}
	rate := utils.RoundFloat(float64(approved)/float64(total)*100, 2)
	return tx.Model(&models.User{}).Where("id = ?", userID).
		Update("approval_rate", rate).Error
}

// recordEvent appends an audit row attributing the change to the acting
// admin.
func recordEvent(tx *gorm.DB, userID uint, eventType, description string, adminID uint) error {
	data := fmt.Sprintf(`{"admin_id":%d}`, adminID)
	event := models.UserEvent{
		UserID:      userID,
		EventType:   eventType,
		Description: description,
		EventData:   &data,
	}
	return tx.Create(&event).Error
}
