package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Stasoks/HR-Site/models"
)

func seedRanked(t *testing.T, db *gorm.DB, balance float64, completed int64, rate float64) models.User {
	t.Helper()
	u := createUser(t, db, models.LevelBasic)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"balance":         balance,
			"tasks_completed": completed,
			"approval_rate":   rate,
		}).Error)
	u.Balance = balance
	u.TasksCompleted = completed
	u.ApprovalRate = rate
	return u
}

func TestTopEarnersOrderAndTies(t *testing.T) {
	db := openTestDB(t)
	boards := NewLeaderboardService(db, nil)

	a := seedRanked(t, db, 100, 0, 0)
	b := seedRanked(t, db, 300, 0, 0)
	c := seedRanked(t, db, 100, 0, 0)

	entries, err := boards.TopEarners(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, b.ID, entries[0].UserID)
	// Equal balances break ties by id ascending.
	assert.Equal(t, a.ID, entries[1].UserID)
	assert.Equal(t, c.ID, entries[2].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestMostProductiveExcludesAdmins(t *testing.T) {
	db := openTestDB(t)
	boards := NewLeaderboardService(db, nil)

	worker := seedRanked(t, db, 0, 12, 0)
	admin := createAdmin(t, db)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", admin.ID).
		Update("tasks_completed", 99).Error)

	entries, err := boards.MostProductive(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, worker.ID, entries[0].UserID)
}

func TestQualityLeadersExcludeUndefinedRate(t *testing.T) {
	db := openTestDB(t)
	assignments := NewAssignmentService(db)
	moderation := NewModerationService(db)
	boards := NewLeaderboardService(db, nil)

	admin := createAdmin(t, db)
	// No reviews, no seeded rate: undefined, excluded.
	createUser(t, db, models.LevelBasic)
	// Seeded rate counts as defined even without reviews.
	seeded := seedRanked(t, db, 0, 0, 90)
	// Reviewed worker with a real rate.
	reviewed := createUser(t, db, models.LevelBasic)
	task := createTask(t, db, models.LevelBasic, 10)
	a, err := assignments.Take(asCaller(reviewed), task.ID)
	require.NoError(t, err)
	_, err = assignments.Submit(asCaller(reviewed), a.ID, Submission{Proof: "done"})
	require.NoError(t, err)
	_, err = moderation.Approve(asCaller(admin), a.ID)
	require.NoError(t, err)

	entries, err := boards.QualityLeaders(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, reviewed.ID, entries[0].UserID) // 100 > 90
	assert.Equal(t, seeded.ID, entries[1].UserID)
}

func TestAwardsBundlesAllBoards(t *testing.T) {
	db := openTestDB(t)
	boards := NewLeaderboardService(db, nil)

	seedRanked(t, db, 500, 3, 75)

	awards, err := boards.Awards(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, awards.TopEarners, 1)
	assert.Len(t, awards.MostProductive, 1)
	assert.Len(t, awards.QualityLeaders, 1)
}

func TestBoardLimitClamping(t *testing.T) {
	db := openTestDB(t)
	boards := NewLeaderboardService(db, nil)

	for i := 0; i < 12; i++ {
		seedRanked(t, db, float64(i), 0, 0)
	}

	entries, err := boards.TopEarners(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, defaultBoardSize)

	entries, err = boards.TopEarners(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
