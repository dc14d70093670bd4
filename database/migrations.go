package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"gorm.io/gorm"
)

// BackupDatabase dumps the configured database with mysqldump before a
// schema migration touches it. Connection parameters come from the same
// DB_* variables the pool uses; the password travels via MYSQL_PWD so
// it never shows up in the process list. Extra flags can be appended
// through DB_BACKUP_FLAGS.
func BackupDatabase(outPath string) error {
	if _, err := exec.LookPath("mysqldump"); err != nil {
		return fmt.Errorf("mysqldump not found in PATH: %w", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "3306"
	}
	user := os.Getenv("DB_USER")
	name := os.Getenv("DB_NAME")
	if host == "" || user == "" || name == "" {
		return fmt.Errorf("DB_HOST, DB_USER and DB_NAME must be set for a backup")
	}

	args := []string{
		"--host=" + host,
		"--port=" + port,
		"--user=" + user,
		"--single-transaction",
		"--skip-lock-tables",
	}
	args = append(args, strings.Fields(os.Getenv("DB_BACKUP_FLAGS"))...)
	args = append(args, name)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	cmd := exec.CommandContext(ctx, "mysqldump", args...)
	cmd.Env = append(os.Environ(), "MYSQL_PWD="+os.Getenv("DB_PASS"))
	cmd.Stdout = outFile
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("mysqldump failed: %w", err)
	}
	return nil
}

// RunMigrationsWithBackup migrates the given models, taking a dump
// first when DB_BACKUP_PATH is set. A failed backup is logged and does
// not block the migration; it is a safety net, not a gate.
func RunMigrationsWithBackup(db *gorm.DB, models ...interface{}) error {
	if backupPath := os.Getenv("DB_BACKUP_PATH"); backupPath != "" {
		if err := BackupDatabase(backupPath); err != nil {
			log.Printf("[DB] pre-migration backup failed: %v", err)
		} else {
			log.Printf("[DB] pre-migration backup written to %s", backupPath)
		}
	}
	return db.AutoMigrate(models...)
}
