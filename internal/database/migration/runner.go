package migration

import (
	"context"
	"database/sql"
	"errors"

	"blog-api/migrations"

	"github.com/pressly/goose/v3"
)

// Run applies the embedded migrations to the connected database.
func Run(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("nil db")
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
