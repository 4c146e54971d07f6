package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"resume-service/pkg/logger"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies the embedded SQL migrations on startup. A nil
// database is a no-op, which is the case for file content with memory stats.
func RunMigrations(ctx context.Context, db *sql.DB, log logger.Logger) error {
	if db == nil {
		return nil
	}
	if log == nil {
		log = logger.NewNop()
	}
	log.Info("Starting database migrations")

	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		log.Error("Migration failed", err)
		return err
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return err
	}
	log.Info(fmt.Sprintf("All migrations completed successfully (version %d)", version))
	return nil
}

// gooseLogger routes goose progress output into the service logger.
type gooseLogger struct {
	log logger.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
}
