package service

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Stasoks/HR-Site/models"
)

// openTestDB returns an isolated in-memory database. A single
// connection keeps gorm transactions from seeing separate :memory:
// instances.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Assignment{},
		&models.Transaction{},
		&models.UserEvent{},
		&models.News{},
	))
	return db
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB, level models.Level) models.User {
	t.Helper()
	userSeq++
	user := models.User{
		FirstName: "Worker",
		LastName:  fmt.Sprintf("Number%d", userSeq),
		Email:     fmt.Sprintf("worker%d@example.com", userSeq),
		Level:     level,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createAdmin(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	userSeq++
	admin := models.User{
		FirstName: "Admin",
		LastName:  fmt.Sprintf("Number%d", userSeq),
		Email:     fmt.Sprintf("admin%d@example.com", userSeq),
		Level:     models.LevelPlatinum,
		IsAdmin:   true,
	}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func createTask(t *testing.T, db *gorm.DB, level models.Level, reward float64) models.Task {
	t.Helper()
	task := models.Task{
		Title:         fmt.Sprintf("Write a %s report", level),
		Description:   "Prepare and upload the report",
		RequiredProof: "PDF of the finished report",
		Reward:        reward,
		LevelRequired: level,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func asCaller(u models.User) Caller {
	role := ""
	if u.IsAdmin {
		role = RoleAdmin
	}
	return Caller{UserID: u.ID, Role: role}
}
