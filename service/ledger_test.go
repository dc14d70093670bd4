package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stasoks/HR-Site/models"
)

func TestAdjustBalanceDelta(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)

	worker := createUser(t, db, models.LevelBasic)
	admin := createAdmin(t, db)

	user, err := ledger.AdjustBalance(asCaller(admin), worker.ID, 150, "signup bonus")
	require.NoError(t, err)
	assert.Equal(t, float64(150), user.Balance)

	user, err = ledger.AdjustBalance(asCaller(admin), worker.ID, -50, "correction")
	require.NoError(t, err)
	assert.Equal(t, float64(100), user.Balance)

	// The ledger has a credit and a debit row.
	var txns []models.Transaction
	require.NoError(t, db.Where("user_id = ?", worker.ID).Order("id ASC").Find(&txns).Error)
	require.Len(t, txns, 2)
	assert.Equal(t, "credit", txns[0].Flow)
	assert.Equal(t, float64(150), txns[0].Amount)
	assert.Equal(t, "debit", txns[1].Flow)
	assert.Equal(t, float64(50), txns[1].Amount)
	assert.Equal(t, models.TxTypeAdminAdjust, txns[0].Type)

	// Audit events name the acting admin.
	var events []models.UserEvent
	require.NoError(t, db.Where("user_id = ?", worker.ID).Find(&events).Error)
	require.Len(t, events, 2)
	require.NotNil(t, events[0].EventData)
	assert.Contains(t, *events[0].EventData, "admin_id")
}

func TestAdjustBalanceGuards(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)

	worker := createUser(t, db, models.LevelBasic)
	admin := createAdmin(t, db)

	var vErr *ValidationError
	_, err := ledger.AdjustBalance(asCaller(admin), worker.ID, 0, "")
	require.ErrorAs(t, err, &vErr)

	_, err = ledger.AdjustBalance(asCaller(admin), worker.ID, -10, "into the red")
	require.ErrorAs(t, err, &vErr)

	_, err = ledger.AdjustBalance(asCaller(admin), 99999, 10, "")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = ledger.AdjustBalance(asCaller(worker), worker.ID, 10, "")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestUpdateUserAbsoluteOverrides(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)

	worker := createUser(t, db, models.LevelBasic)
	admin := createAdmin(t, db)

	balance := 200.0
	level := "gold"
	completed := 7
	rate := 85.5
	user, err := ledger.UpdateUser(asCaller(admin), worker.ID, UserUpdate{
		Balance:        &balance,
		Level:          &level,
		TasksCompleted: &completed,
		ApprovalRate:   &rate,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(200), user.Balance)
	assert.Equal(t, models.LevelGold, user.Level)
	assert.Equal(t, int64(7), user.TasksCompleted)
	assert.Equal(t, 85.5, user.ApprovalRate)

	// A balance override is recorded as the difference.
	var txns []models.Transaction
	require.NoError(t, db.Where("user_id = ?", worker.ID).Find(&txns).Error)
	require.Len(t, txns, 1)
	assert.Equal(t, models.TxTypeAdminSet, txns[0].Type)
	assert.Equal(t, float64(200), txns[0].Amount)
	assert.Equal(t, "credit", txns[0].Flow)
}

func TestUpdateUserValidation(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)

	worker := createUser(t, db, models.LevelBasic)
	admin := createAdmin(t, db)

	var vErr *ValidationError

	bogus := "diamond"
	_, err := ledger.UpdateUser(asCaller(admin), worker.ID, UserUpdate{Level: &bogus})
	require.ErrorAs(t, err, &vErr)

	over := 150.0
	_, err = ledger.UpdateUser(asCaller(admin), worker.ID, UserUpdate{ApprovalRate: &over})
	require.ErrorAs(t, err, &vErr)

	_, err = ledger.UpdateUser(asCaller(admin), worker.ID, UserUpdate{})
	require.ErrorAs(t, err, &vErr)
}

func TestListUsersPagingAndSearch(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)
	admin := createAdmin(t, db)

	for i := 0; i < 5; i++ {
		createUser(t, db, models.LevelBasic)
	}
	special := models.User{
		FirstName: "Greta",
		LastName:  "Unique",
		Email:     "greta@example.com",
		Level:     models.LevelBasic,
	}
	require.NoError(t, db.Create(&special).Error)

	page, err := ledger.ListUsers(asCaller(admin), 1, 4, "")
	require.NoError(t, err)
	assert.Len(t, page.Users, 4)
	assert.Equal(t, int64(7), page.Total) // admin included
	assert.Equal(t, 2, page.TotalPages)

	page, err = ledger.ListUsers(asCaller(admin), 1, 10, "greta")
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "Greta", page.Users[0].FirstName)
}

func TestTransactionsVisibility(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)

	worker := createUser(t, db, models.LevelBasic)
	other := createUser(t, db, models.LevelBasic)
	admin := createAdmin(t, db)

	_, err := ledger.AdjustBalance(asCaller(admin), worker.ID, 25, "")
	require.NoError(t, err)

	txns, total, err := ledger.Transactions(asCaller(worker), worker.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, txns, 1)

	// One user cannot read another user's ledger, admins can.
	_, _, err = ledger.Transactions(asCaller(other), worker.ID, 1, 10)
	assert.ErrorIs(t, err, ErrNotOwner)
	_, total, err = ledger.Transactions(asCaller(admin), worker.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestAdjustBalancePreservesConcurrentCredits(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)
	assignments := NewAssignmentService(db)
	moderation := NewModerationService(db)

	worker := createUser(t, db, models.LevelBasic)
	admin := createAdmin(t, db)
	task := createTask(t, db, models.LevelBasic, 10)

	a, err := assignments.Take(asCaller(worker), task.ID)
	require.NoError(t, err)
	_, err = assignments.Submit(asCaller(worker), a.ID, Submission{Proof: "done"})
	require.NoError(t, err)

	// An approval credit and an admin adjustment racing each other must
	// both land.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := moderation.Approve(asCaller(admin), a.ID)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := ledger.AdjustBalance(asCaller(admin), worker.ID, 5, "bonus")
		assert.NoError(t, err)
	}()
	wg.Wait()

	var user models.User
	require.NoError(t, db.First(&user, worker.ID).Error)
	assert.Equal(t, float64(15), user.Balance)

	// The balance equals the signed sum of the ledger rows.
	var txns []models.Transaction
	require.NoError(t, db.Where("user_id = ?", worker.ID).Find(&txns).Error)
	var sum float64
	for _, txn := range txns {
		if txn.Flow == "credit" {
			sum += txn.Amount
		} else {
			sum -= txn.Amount
		}
	}
	assert.Equal(t, user.Balance, sum)
}

func TestUpdateUserMarksSeededAccount(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)

	worker := createUser(t, db, models.LevelBasic)
	admin := createAdmin(t, db)

	fake := true
	user, err := ledger.UpdateUser(asCaller(admin), worker.ID, UserUpdate{IsFake: &fake})
	require.NoError(t, err)
	assert.True(t, user.IsFake)

	var stored models.User
	require.NoError(t, db.First(&stored, worker.ID).Error)
	assert.True(t, stored.IsFake)
}
