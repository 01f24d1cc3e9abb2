package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// RunAtomically executes fn inside one transaction. Every operation issued
// through the handle passed to fn commits or rolls back as a unit; the
// transaction is released on every exit path, including panic and context
// cancellation. A cancelled transaction rolls back the same way a failed one
// does.
func RunAtomically(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction not started: %w", err)
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}
