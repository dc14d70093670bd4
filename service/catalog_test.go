package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stasoks/HR-Site/models"
	"github.com/Stasoks/HR-Site/utils"
)

func taskSpec(level models.Level) TaskSpec {
	return TaskSpec{
		Title:         "Survey local businesses",
		Description:   "Visit five businesses and record their details",
		RequiredProof: "Photos and a filled spreadsheet",
		Reward:        25,
		LevelRequired: level.String(),
	}
}

func TestCreateEnforcesActiveCap(t *testing.T) {
	db := openTestDB(t)
	catalog := NewCatalogService(db)
	admin := createAdmin(t, db)

	for i := 0; i < models.MaxActiveTasksPerLevel; i++ {
		_, err := catalog.Create(asCaller(admin), taskSpec(models.LevelSilver))
		require.NoError(t, err)
	}

	_, err := catalog.Create(asCaller(admin), taskSpec(models.LevelSilver))
	var cErr *CapacityError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, models.LevelSilver, cErr.Level)

	// Other levels are unaffected by a full silver tier.
	_, err = catalog.Create(asCaller(admin), taskSpec(models.LevelGold))
	require.NoError(t, err)
}

func TestCapIgnoresInactiveTasks(t *testing.T) {
	db := openTestDB(t)
	catalog := NewCatalogService(db)
	admin := createAdmin(t, db)

	var first *models.Task
	for i := 0; i < models.MaxActiveTasksPerLevel; i++ {
		task, err := catalog.Create(asCaller(admin), taskSpec(models.LevelBasic))
		require.NoError(t, err)
		if first == nil {
			first = task
		}
	}

	_, err := catalog.Toggle(first.ID, false)
	require.NoError(t, err)

	// Deactivating one frees a creation slot.
	_, err = catalog.Create(asCaller(admin), taskSpec(models.LevelBasic))
	require.NoError(t, err)

	// Reactivation is allowed even though it pushes the level past the
	// cap; the cap binds at creation only.
	reactivated, err := catalog.Toggle(first.ID, true)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)
}

func TestCreateValidation(t *testing.T) {
	db := openTestDB(t)
	catalog := NewCatalogService(db)
	admin := createAdmin(t, db)

	bad := taskSpec(models.LevelBasic)
	bad.Title = "  "
	_, err := catalog.Create(asCaller(admin), bad)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	bad = taskSpec(models.LevelBasic)
	bad.Reward = -1
	_, err = catalog.Create(asCaller(admin), bad)
	require.ErrorAs(t, err, &vErr)

	bad = taskSpec(models.LevelBasic)
	bad.LevelRequired = "diamond"
	_, err = catalog.Create(asCaller(admin), bad)
	require.ErrorAs(t, err, &vErr)

	negative := -2
	bad = taskSpec(models.LevelBasic)
	bad.TimeLimitHours = &negative
	_, err = catalog.Create(asCaller(admin), bad)
	require.ErrorAs(t, err, &vErr)
}

func TestListAvailableGroupsAndCanTake(t *testing.T) {
	db := openTestDB(t)
	catalog := NewCatalogService(db)
	assignments := NewAssignmentService(db)

	worker := createUser(t, db, models.LevelSilver)
	basicTask := createTask(t, db, models.LevelBasic, 10)
	createTask(t, db, models.LevelSilver, 20)
	createTask(t, db, models.LevelGold, 30)

	groups, err := catalog.ListAvailable(asCaller(worker))
	require.NoError(t, err)

	// All four levels are present even when empty.
	require.Len(t, groups, 4)
	assert.Empty(t, groups["platinum"].Tasks)

	assert.True(t, groups["basic"].CanTake)
	assert.True(t, groups["silver"].CanTake)
	assert.False(t, groups["gold"].CanTake)
	assert.False(t, groups["gold"].Tasks[0].CanTake)

	// Holding an open assignment clears the per-task flag.
	_, err = assignments.Take(asCaller(worker), basicTask.ID)
	require.NoError(t, err)

	groups, err = catalog.ListAvailable(asCaller(worker))
	require.NoError(t, err)
	assert.False(t, groups["basic"].Tasks[0].CanTake)
	assert.True(t, groups["basic"].CanTake)
}

func TestStatsCountersFollowLifecycle(t *testing.T) {
	db := openTestDB(t)
	catalog := NewCatalogService(db)
	assignments := NewAssignmentService(db)
	moderation := NewModerationService(db)

	worker := createUser(t, db, models.LevelBasic)
	admin := createAdmin(t, db)
	task := createTask(t, db, models.LevelBasic, 10)
	createTask(t, db, models.LevelBasic, 15)

	stats, err := catalog.Stats(asCaller(worker))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Available)
	assert.Zero(t, stats.MyTasks)

	a, err := assignments.Take(asCaller(worker), task.ID)
	require.NoError(t, err)

	stats, err = catalog.Stats(asCaller(worker))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Available)
	assert.Equal(t, int64(1), stats.MyTasks)

	_, err = assignments.Submit(asCaller(worker), a.ID, Submission{Proof: "done"})
	require.NoError(t, err)

	stats, err = catalog.Stats(asCaller(worker))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.MyTasks)

	_, err = moderation.RequestRevision(asCaller(admin), a.ID, "photo is blurry")
	require.NoError(t, err)

	stats, err = catalog.Stats(asCaller(worker))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Revision)
	assert.Zero(t, stats.MyTasks)

	_, err = assignments.Submit(asCaller(worker), a.ID, Submission{Proof: "retaken photo"})
	require.NoError(t, err)
	_, err = moderation.Approve(asCaller(admin), a.ID)
	require.NoError(t, err)

	stats, err = catalog.Stats(asCaller(worker))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Done)
	assert.Zero(t, stats.Revision)
	// Terminal assignment frees the task for taking again.
	assert.Equal(t, int64(2), stats.Available)
}

func TestListMineReturnsJoinedViews(t *testing.T) {
	db := openTestDB(t)
	catalog := NewCatalogService(db)
	assignments := NewAssignmentService(db)

	worker := createUser(t, db, models.LevelBasic)
	task := createTask(t, db, models.LevelBasic, 12.5)

	a, err := assignments.Take(asCaller(worker), task.ID)
	require.NoError(t, err)

	views, err := catalog.ListMine(asCaller(worker), FilterMyTasks)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, a.ID, views[0].AssignmentID)
	assert.Equal(t, task.Title, views[0].Title)
	assert.Equal(t, 12.5, views[0].Reward)
	assert.Equal(t, models.StatusTaken, views[0].Status)
	assert.NotEmpty(t, views[0].TakenAt)

	_, err = catalog.ListMine(asCaller(worker), "bogus")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestAdminListAggregates(t *testing.T) {
	db := openTestDB(t)
	catalog := NewCatalogService(db)
	assignments := NewAssignmentService(db)
	moderation := NewModerationService(db)

	admin := createAdmin(t, db)
	alice := createUser(t, db, models.LevelBasic)
	bob := createUser(t, db, models.LevelBasic)
	task := createTask(t, db, models.LevelBasic, 40)

	for _, worker := range []models.User{alice, bob} {
		a, err := assignments.Take(asCaller(worker), task.ID)
		require.NoError(t, err)
		_, err = assignments.Submit(asCaller(worker), a.ID, Submission{Proof: "done"})
		require.NoError(t, err)
		_, err = moderation.Approve(asCaller(admin), a.ID)
		require.NoError(t, err)
	}

	data, err := catalog.AdminList()
	require.NoError(t, err)
	require.Len(t, data.Tasks, 1)
	assert.Equal(t, int64(2), data.Tasks[0].TotalAssignments)
	assert.Equal(t, int64(2), data.Tasks[0].TotalApproved)
	assert.Equal(t, float64(80), data.TotalPaid)
}

func TestDeleteCascadesAssignments(t *testing.T) {
	db := openTestDB(t)
	catalog := NewCatalogService(db)
	assignments := NewAssignmentService(db)

	worker := createUser(t, db, models.LevelBasic)
	task := createTask(t, db, models.LevelBasic, 10)
	_, err := assignments.Take(asCaller(worker), task.ID)
	require.NoError(t, err)

	require.NoError(t, catalog.Delete(task.ID))

	var count int64
	require.NoError(t, db.Model(&models.Assignment{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, catalog.Delete(task.ID), ErrTaskNotFound)
}

func TestDeleteRemovesStoredProofFiles(t *testing.T) {
	db := openTestDB(t)
	catalog := NewCatalogService(db)
	assignments := NewAssignmentService(db)

	dir := t.TempDir()
	t.Setenv("UPLOADS_DIR", dir)

	worker := createUser(t, db, models.LevelBasic)
	task := createTask(t, db, models.LevelBasic, 10)

	key, err := utils.SaveProofFile("proofs/1/1/screenshot.png", strings.NewReader("png bytes"))
	require.NoError(t, err)

	a, err := assignments.Take(asCaller(worker), task.ID)
	require.NoError(t, err)
	_, err = assignments.Submit(asCaller(worker), a.ID, Submission{Proof: "done", Files: []string{key}})
	require.NoError(t, err)

	require.NoError(t, catalog.Delete(task.ID))

	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))
}
