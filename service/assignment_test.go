package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Stasoks/HR-Site/models"
)

// Eligibility is a pure function of the two levels: any user rank at or
// above the task rank may take, everything else is rejected.
func TestTakeEligibilityMatrix(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		db := openTestDB(t)
		assignments := NewAssignmentService(db)

		userLevel := rapid.SampledFrom(models.Levels()).Draw(rt, "userLevel")
		taskLevel := rapid.SampledFrom(models.Levels()).Draw(rt, "taskLevel")

		worker := createUser(t, db, userLevel)
		task := createTask(t, db, taskLevel, 10)

		a, err := assignments.Take(asCaller(worker), task.ID)
		if userLevel.Rank() >= taskLevel.Rank() {
			if err != nil {
				rt.Fatalf("expected take to succeed for %s >= %s: %v", userLevel, taskLevel, err)
			}
			if a.Status != models.StatusTaken {
				rt.Fatalf("expected status taken, got %s", a.Status)
			}
		} else if err != ErrLevelTooLow {
			rt.Fatalf("expected ErrLevelTooLow for %s < %s, got %v", userLevel, taskLevel, err)
		}
	})
}

func TestTakeRejectsInactiveAndMissing(t *testing.T) {
	db := openTestDB(t)
	assignments := NewAssignmentService(db)
	catalog := NewCatalogService(db)

	worker := createUser(t, db, models.LevelPlatinum)
	task := createTask(t, db, models.LevelBasic, 10)

	_, err := catalog.Toggle(task.ID, false)
	require.NoError(t, err)
	_, err = assignments.Take(asCaller(worker), task.ID)
	assert.ErrorIs(t, err, ErrTaskInactive)

	_, err = assignments.Take(asCaller(worker), 99999)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTakeAtMostOneOpenAssignment(t *testing.T) {
	db := openTestDB(t)
	assignments := NewAssignmentService(db)

	worker := createUser(t, db, models.LevelBasic)
	task := createTask(t, db, models.LevelBasic, 10)

	a, err := assignments.Take(asCaller(worker), task.ID)
	require.NoError(t, err)

	// A second take is blocked through every non-terminal state.
	_, err = assignments.Take(asCaller(worker), task.ID)
	assert.ErrorIs(t, err, ErrAlreadyTaken)

	_, err = assignments.Submit(asCaller(worker), a.ID, Submission{Proof: "done"})
	require.NoError(t, err)
	_, err = assignments.Take(asCaller(worker), task.ID)
	assert.ErrorIs(t, err, ErrAlreadyTaken)
}

func TestRetakeAfterTerminalReview(t *testing.T) {
	db := openTestDB(t)
	assignments := NewAssignmentService(db)
	moderation := NewModerationService(db)

	worker := createUser(t, db, models.LevelBasic)
	admin := createAdmin(t, db)
	task := createTask(t, db, models.LevelBasic, 10)

	a, err := assignments.Take(asCaller(worker), task.ID)
	require.NoError(t, err)
	_, err = assignments.Submit(asCaller(worker), a.ID, Submission{Proof: "v1"})
	require.NoError(t, err)
	_, err = moderation.Reject(asCaller(admin), a.ID, "not good enough")
	require.NoError(t, err)

	// Rejection is terminal, the pair is free again.
	second, err := assignments.Take(asCaller(worker), task.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, second.ID)
}

func TestConcurrentTakeCreatesOneAssignment(t *testing.T) {
	db := openTestDB(t)
	assignments := NewAssignmentService(db)

	worker := createUser(t, db, models.LevelBasic)
	task := createTask(t, db, models.LevelBasic, 10)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = assignments.Take(asCaller(worker), task.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyTaken)
		}
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, db.Model(&models.Assignment{}).
		Where("user_id = ? AND task_id = ?", worker.ID, task.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTakeSetsExpiryFromTimeLimit(t *testing.T) {
	db := openTestDB(t)
	assignments := NewAssignmentService(db)

	worker := createUser(t, db, models.LevelBasic)
	hours := 48
	task := models.Task{
		Title:          "Timed collection run",
		Description:    "Collect signatures within two days",
		RequiredProof:  "Scanned signature sheet",
		Reward:         30,
		LevelRequired:  models.LevelBasic,
		TimeLimitHours: &hours,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&task).Error)

	a, err := assignments.Take(asCaller(worker), task.ID)
	require.NoError(t, err)
	require.NotNil(t, a.ExpiresAt)
	assert.WithinDuration(t, a.TakenAt.Add(48*time.Hour), *a.ExpiresAt, time.Second)

	// Tasks without a limit have no expiry.
	untimed := createTask(t, db, models.LevelBasic, 10)
	b, err := assignments.Take(asCaller(worker), untimed.ID)
	require.NoError(t, err)
	assert.Nil(t, b.ExpiresAt)
}

func TestSubmitOwnershipAndState(t *testing.T) {
	db := openTestDB(t)
	assignments := NewAssignmentService(db)

	owner := createUser(t, db, models.LevelBasic)
	other := createUser(t, db, models.LevelBasic)
	task := createTask(t, db, models.LevelBasic, 10)

	a, err := assignments.Take(asCaller(owner), task.ID)
	require.NoError(t, err)

	_, err = assignments.Submit(asCaller(other), a.ID, Submission{Proof: "not mine"})
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = assignments.Submit(asCaller(owner), a.ID, Submission{})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	sub, err := assignments.Submit(asCaller(owner), a.ID, Submission{
		Proof: "all done",
		Links: []string{"https://example.com/result"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, sub.Status)
	require.NotNil(t, sub.SubmittedAt)
	assert.Equal(t, []string{"https://example.com/result"}, sub.ProofLinkList())

	// Submitting an already-submitted assignment is a state conflict.
	_, err = assignments.Submit(asCaller(owner), a.ID, Submission{Proof: "again"})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = assignments.Submit(asCaller(owner), 99999, Submission{Proof: "x"})
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestSubmitAfterExpiryStillAccepted(t *testing.T) {
	db := openTestDB(t)
	assignments := NewAssignmentService(db)

	worker := createUser(t, db, models.LevelBasic)
	task := createTask(t, db, models.LevelBasic, 10)

	a, err := assignments.Take(asCaller(worker), task.ID)
	require.NoError(t, err)

	// Force the deadline into the past; expiry is advisory only.
	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Model(&models.Assignment{}).
		Where("id = ?", a.ID).Update("expires_at", past).Error)

	sub, err := assignments.Submit(asCaller(worker), a.ID, Submission{Proof: "late but done"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, sub.Status)
}

func TestAdminCommentSurvivesResubmit(t *testing.T) {
	db := openTestDB(t)
	assignments := NewAssignmentService(db)
	moderation := NewModerationService(db)

	worker := createUser(t, db, models.LevelBasic)
	admin := createAdmin(t, db)
	task := createTask(t, db, models.LevelBasic, 10)

	a, err := assignments.Take(asCaller(worker), task.ID)
	require.NoError(t, err)
	_, err = assignments.Submit(asCaller(worker), a.ID, Submission{Proof: "v1"})
	require.NoError(t, err)
	_, err = moderation.RequestRevision(asCaller(admin), a.ID, "add the receipt")
	require.NoError(t, err)

	resubmitted, err := assignments.Submit(asCaller(worker), a.ID, Submission{Proof: "v2 with receipt"})
	require.NoError(t, err)
	assert.Equal(t, "add the receipt", resubmitted.AdminComment)
	assert.Equal(t, "v2 with receipt", resubmitted.Proof)
}

func TestSubmitKeyedByTask(t *testing.T) {
	db := openTestDB(t)
	assignments := NewAssignmentService(db)
	moderation := NewModerationService(db)

	worker := createUser(t, db, models.LevelBasic)
	admin := createAdmin(t, db)
	task := createTask(t, db, models.LevelBasic, 10)

	// Nothing taken yet: there is no assignment to address by task.
	_, err := assignments.SubmitForTask(asCaller(worker), task.ID, Submission{Proof: "done"})
	require.ErrorIs(t, err, ErrAssignmentNotFound)

	taken, err := assignments.Take(asCaller(worker), task.ID)
	require.NoError(t, err)

	submitted, err := assignments.SubmitForTask(asCaller(worker), task.ID, Submission{Proof: "done"})
	require.NoError(t, err)
	assert.Equal(t, taken.ID, submitted.ID)
	assert.Equal(t, models.StatusSubmitted, submitted.Status)

	// The open assignment is found but already submitted.
	_, err = assignments.SubmitForTask(asCaller(worker), task.ID, Submission{Proof: "again"})
	assert.ErrorIs(t, err, ErrInvalidState)

	// A revision round resolves to the same assignment.
	_, err = moderation.RequestRevision(asCaller(admin), taken.ID, "add a screenshot")
	require.NoError(t, err)
	resubmitted, err := assignments.SubmitForTask(asCaller(worker), task.ID, Submission{Proof: "with screenshot"})
	require.NoError(t, err)
	assert.Equal(t, taken.ID, resubmitted.ID)

	// Terminal assignments are no longer addressable by task.
	_, err = moderation.Approve(asCaller(admin), taken.ID)
	require.NoError(t, err)
	_, err = assignments.SubmitForTask(asCaller(worker), task.ID, Submission{Proof: "late"})
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}
