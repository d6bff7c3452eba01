package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Migrate creates the schema when missing. The sqlite file is disposable
// development state, so table creation replaces a migration history.
func Migrate(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*User)(nil),
		(*Notebook)(nil),
		(*Note)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	return nil
}
