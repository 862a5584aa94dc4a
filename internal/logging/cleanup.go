package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"gorm.io/gorm"
)

// LogRetention is how long system_logs rows are kept.
const LogRetention = 30 * 24 * time.Hour

// StartCleanup runs a daily goroutine that deletes system_logs older than LogRetention.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				PurgeLogs(db, time.Now())
			case <-done:
				return
			}
		}
	}()
}

// PurgeLogs deletes system_logs rows older than LogRetention relative to now.
func PurgeLogs(db *gorm.DB, now time.Time) int64 {
	cutoff := now.Add(-LogRetention)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "action", "logging.cleanup", "error", result.Error.Error())
		return 0
	}
	if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}
	return result.RowsAffected
}
