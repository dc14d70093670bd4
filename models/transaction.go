package models

import "time"

// Ledger entry types. task_reward entries are produced only by approval;
// the admin_* types record operator overrides.
const (
	TxTypeTaskReward  = "task_reward"
	TxTypeAdminAdjust = "admin_adjust"
	TxTypeAdminSet    = "admin_set"
)

// Transaction is an append-only reward ledger entry. Entries are created
// inside the same database transaction as the balance mutation they
// describe and are never updated afterwards.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Amount      float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	ReferenceID string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"reference_id"`
	Flow        string    `gorm:"type:varchar(10);not null" json:"flow"`
	Type        string    `gorm:"type:varchar(50);not null" json:"type"`
	Message     *string   `gorm:"type:text" json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
