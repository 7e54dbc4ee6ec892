package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrations holds the catalog schema. Each file registers one table; bun names a
// migration after the file that calls MustRegister.
var Migrations = migrate.NewMigrations()

func exec(query string) migrate.MigrationFunc {
	return func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, query)
		return err
	}
}
