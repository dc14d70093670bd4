package models

import "time"

// UserEvent is the audit trail. Every ledger override records one of
// these with the acting admin id in EventData so mutations stay
// attributable even without a dedicated audit store.
type UserEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	EventType   string    `gorm:"type:varchar(50);not null" json:"event_type"`
	Description string    `gorm:"type:text;not null" json:"description"`
	EventData   *string   `gorm:"type:text" json:"event_data,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (UserEvent) TableName() string {
	return "user_events"
}
