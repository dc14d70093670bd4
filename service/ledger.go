package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Stasoks/HR-Site/models"
	"github.com/Stasoks/HR-Site/utils"
	"gorm.io/gorm"
)

// LedgerService handles admin-side balance overrides and user account
// management. Every balance change writes a ledger row and an audit
// event naming the acting admin.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// AdjustBalance applies a signed delta to a user's balance. A positive
// delta is a credit, negative a debit. The balance may not go below
// zero.
func (s *LedgerService) AdjustBalance(caller Caller, userID uint, delta float64, note string) (*models.User, error) {
	if !caller.Admin() {
		return nil, ErrNotOwner
	}
	if delta == 0 {
		return nil, validationErr("amount must be non-zero")
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The delta is applied as a SQL expression with the non-negative
		// guard in the WHERE clause, so a credit committed between read
		// and write (an approval, say) is never overwritten.
		res := tx.Model(&models.User{}).
			Where("id = ? AND balance + ? >= 0", userID, delta).
			Update("balance", gorm.Expr("balance + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&user, userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return err
			}
			return validationErr("balance cannot go negative")
		}
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		flow := "credit"
		amount := delta
		if delta < 0 {
			flow = "debit"
			amount = -delta
		}
		msg := note
		if strings.TrimSpace(msg) == "" {
			msg = "Balance adjustment by administrator"
		}
		txn := models.Transaction{
			UserID:      userID,
			Amount:      amount,
			ReferenceID: utils.GenerateReferenceID(userID),
			Flow:        flow,
			Type:        models.TxTypeAdminAdjust,
			Message:     &msg,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		return recordEvent(tx, userID, "balance_adjusted",
			fmt.Sprintf("Balance adjusted by %+.2f to %.2f", delta, user.Balance), caller.UserID)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserUpdate carries the absolute-value overrides for an account. Nil
// fields are left untouched.
type UserUpdate struct {
	Balance        *float64
	Level          *string
	TasksCompleted *int
	ApprovalRate   *float64
	IsVerified     *bool
	IsFake         *bool
}

// UpdateUser sets account fields to absolute values. A balance override
// is recorded in the ledger as the difference from the previous value.
func (s *LedgerService) UpdateUser(caller Caller, userID uint, upd UserUpdate) (*models.User, error) {
	if !caller.Admin() {
		return nil, ErrNotOwner
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		changes := map[string]interface{}{}
		var notes []string

		if upd.Balance != nil {
			target := utils.RoundFloat(*upd.Balance, 2)
			if target < 0 {
				return validationErr("balance cannot go negative")
			}
			delta := utils.RoundFloat(target-user.Balance, 2)
			if delta != 0 {
				// The override is applied as a delta against the balance
				// read in this transaction; a credit racing in from an
				// approval shifts the final value but is never lost, and
				// the ledger row always matches what was applied.
				res := tx.Model(&models.User{}).
					Where("id = ? AND balance + ? >= 0", userID, delta).
					Update("balance", gorm.Expr("balance + ?", delta))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return validationErr("balance cannot go negative")
				}

				flow := "credit"
				amount := delta
				if delta < 0 {
					flow = "debit"
					amount = -delta
				}
				msg := fmt.Sprintf("Balance set to %.2f by administrator", target)
				txn := models.Transaction{
					UserID:      userID,
					Amount:      amount,
					ReferenceID: utils.GenerateReferenceID(userID),
					Flow:        flow,
					Type:        models.TxTypeAdminSet,
					Message:     &msg,
				}
				if err := tx.Create(&txn).Error; err != nil {
					return err
				}
			}
			notes = append(notes, fmt.Sprintf("balance=%.2f", target))
		}
		if upd.Level != nil {
			level, ok := models.ParseLevel(*upd.Level)
			if !ok {
				return validationErr("invalid level %q", *upd.Level)
			}
			changes["level"] = level
			notes = append(notes, "level="+string(level))
		}
		if upd.TasksCompleted != nil {
			if *upd.TasksCompleted < 0 {
				return validationErr("tasks_completed cannot be negative")
			}
			changes["tasks_completed"] = *upd.TasksCompleted
			notes = append(notes, fmt.Sprintf("tasks_completed=%d", *upd.TasksCompleted))
		}
		if upd.ApprovalRate != nil {
			if *upd.ApprovalRate < 0 || *upd.ApprovalRate > 100 {
				return validationErr("approval_rate must be between 0 and 100")
			}
			rate := utils.RoundFloat(*upd.ApprovalRate, 2)
			changes["approval_rate"] = rate
			notes = append(notes, fmt.Sprintf("approval_rate=%.2f", rate))
		}
		if upd.IsVerified != nil {
			changes["is_verified"] = *upd.IsVerified
			notes = append(notes, fmt.Sprintf("is_verified=%t", *upd.IsVerified))
		}
		if upd.IsFake != nil {
			changes["is_fake"] = *upd.IsFake
			notes = append(notes, fmt.Sprintf("is_fake=%t", *upd.IsFake))
		}

		if len(notes) == 0 {
			return validationErr("no fields to update")
		}
		if len(changes) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				Updates(changes).Error; err != nil {
				return err
			}
		}
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		return recordEvent(tx, userID, "account_updated",
			"Account updated by administrator: "+strings.Join(notes, ", "), caller.UserID)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users      []models.User `json:"users"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
}

// ListUsers pages through accounts, optionally filtering by name or
// email substring.
func (s *LedgerService) ListUsers(caller Caller, page, limit int, search string) (*UserPage, error) {
	if !caller.Admin() {
		return nil, ErrNotOwner
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.Model(&models.User{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := query.Order("id ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &UserPage{Users: users, Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

// GetUser loads one account.
func (s *LedgerService) GetUser(caller Caller, userID uint) (*models.User, error) {
	if !caller.Admin() && caller.UserID != userID {
		return nil, ErrNotOwner
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Transactions lists a user's ledger entries newest first.
func (s *LedgerService) Transactions(caller Caller, userID uint, page, limit int) ([]models.Transaction, int64, error) {
	if !caller.Admin() && caller.UserID != userID {
		return nil, 0, ErrNotOwner
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&models.Transaction{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []models.Transaction
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
