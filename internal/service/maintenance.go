package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/moneydash/internal/database"
)

// MaintenanceService houses destructive actions run outside the dashboard.
type MaintenanceService struct {
	DB *sql.DB
	// Methods are seeded again after a reset.
	Methods []string
}

// Reset wipes all user data and reseeds the default methods. The schema is
// kept so the app can start straight away.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"tx_tags", "transactions", "tags", "tx_methods", "activities"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return database.SeedMethods(ctx, s.DB, s.Methods)
}
