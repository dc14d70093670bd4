package models

import "time"

// MaxActiveTasksPerLevel caps how many active tasks a single level may
// carry. The cap is enforced at creation time only; deactivating and
// reactivating tasks never re-checks it.
const MaxActiveTasksPerLevel = 5

type Task struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	RequiredProof  string    `gorm:"type:text;not null" json:"required_proof"`
	Reward         float64   `gorm:"type:decimal(15,2);not null" json:"reward"`
	LevelRequired  Level     `gorm:"type:varchar(16);not null;default:'basic';index" json:"level_required"`
	TimeLimitHours *int      `json:"time_limit_hours"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedBy      uint      `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}
