package models

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FirstName      string    `gorm:"size:100;not null" json:"first_name"`
	LastName       string    `gorm:"size:100;not null" json:"last_name"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Level          Level     `gorm:"type:varchar(16);not null;default:'basic'" json:"level"`
	Balance        float64   `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	TasksCompleted int64     `gorm:"not null;default:0" json:"tasks_completed"`
	ApprovalRate   float64   `gorm:"type:decimal(5,2);not null;default:0" json:"approval_rate"`
	IsAdmin        bool      `gorm:"not null;default:false" json:"is_admin"`
	IsVerified     bool      `gorm:"not null;default:false" json:"is_verified"`
	IsFake         bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Name is the display name used in moderation views and leaderboards.
func (u User) Name() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
