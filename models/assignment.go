package models

import (
	"encoding/json"
	"time"
)

// AssignmentStatus is the closed set of lifecycle states. Transitions:
// taken -> submitted -> {revision, approved, rejected}, revision -> submitted.
// approved and rejected are terminal.
type AssignmentStatus string

const (
	StatusTaken     AssignmentStatus = "taken"
	StatusSubmitted AssignmentStatus = "submitted"
	StatusRevision  AssignmentStatus = "revision"
	StatusApproved  AssignmentStatus = "approved"
	StatusRejected  AssignmentStatus = "rejected"
)

// Terminal reports whether no further transition is permitted.
func (s AssignmentStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// NonTerminalStatuses is used for the one-open-assignment-per-pair check.
func NonTerminalStatuses() []AssignmentStatus {
	return []AssignmentStatus{StatusTaken, StatusSubmitted, StatusRevision}
}

// Assignment binds one user to one task for a single attempt. Proof files
// and links are stored as references only; the bytes live with the file
// storage collaborator.
type Assignment struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	UserID       uint             `gorm:"not null;index:idx_assignments_user_task" json:"user_id"`
	TaskID       uint             `gorm:"not null;index:idx_assignments_user_task" json:"task_id"`
	Status       AssignmentStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	Proof        string           `gorm:"type:text" json:"proof"`
	ProofFiles   string           `gorm:"type:text" json:"-"`
	ProofLinks   string           `gorm:"type:text" json:"-"`
	AdminComment string           `gorm:"type:text" json:"admin_comment"`
	TakenAt      time.Time        `json:"taken_at"`
	ExpiresAt    *time.Time       `json:"expires_at"`
	SubmittedAt  *time.Time       `json:"submitted_at"`
	ReviewedAt   *time.Time       `json:"reviewed_at"`
}

func (Assignment) TableName() string {
	return "assignments"
}

func (a *Assignment) SetProofFiles(keys []string) {
	a.ProofFiles = marshalStringList(keys)
}

func (a *Assignment) SetProofLinks(links []string) {
	a.ProofLinks = marshalStringList(links)
}

func (a *Assignment) ProofFileList() []string {
	return unmarshalStringList(a.ProofFiles)
}

func (a *Assignment) ProofLinkList() []string {
	return unmarshalStringList(a.ProofLinks)
}

func marshalStringList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	b, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return string(b)
}

func unmarshalStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}
