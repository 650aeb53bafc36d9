package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/moneydash/internal/database/repository"
)

// SeedMethods creates the given transaction methods when the database has none.
// It is idempotent and safe to run on every startup.
func SeedMethods(ctx context.Context, db *sql.DB, names []string) error {
	methods := repository.NewMethodRepo(db)
	existing, err := methods.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		repo := repository.NewMethodRepo(tx)
		pos := 0
		for _, raw := range names {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("method:"+strings.ToLower(name))).String()
			if err := repo.Insert(ctx, repository.TxMethod{ID: id, Name: name, Position: pos}); err != nil {
				return err
			}
			pos++
		}
		return nil
	})
}
