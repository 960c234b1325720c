package postgresql

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/oopspresent/attendance-backend-go/internal/pkg/database"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", database.Classify(err))
	}
	slog.Info("database schema applied")
	return nil
}
