package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed *.sql
var migrationsFS embed.FS

// Apply brings the schema up to date. The SQL files are embedded, so the
// binary migrates itself regardless of working directory.
func Apply(db *sql.DB, logger *zap.SugaredLogger) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("database schema up to date")
	return nil
}
