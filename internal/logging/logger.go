package logging

import (
	"log/slog"
	"os"

	"gorm.io/gorm"
)

// Setup installs the global slog logger: JSON to stdout, plus ERROR+ records
// persisted to system_logs when db is given. The returned handler must be
// stopped on shutdown; it is nil without db.
func Setup(db *gorm.DB) *DBHandler {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	if db == nil {
		slog.SetDefault(slog.New(stdout))
		return nil
	}

	dbHandler := NewDBHandler(db)
	slog.SetDefault(slog.New(NewMultiHandler(stdout, dbHandler)))
	return dbHandler
}
