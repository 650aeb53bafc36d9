package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/moneydash/internal/database/repository"
)

func TestMigrationsAreIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tx_methods`).Scan(&n))
	require.Zero(t, n)
}

func TestSeedMethods(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(db))

	require.NoError(t, SeedMethods(ctx, db, []string{" Super Special Bank ", "", "Cash Cow"}))
	require.NoError(t, SeedMethods(ctx, db, []string{"Ignored"}))

	methods, err := repository.NewMethodRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, methods, 2)
	require.Equal(t, "Super Special Bank", methods[0].Name)
	require.Equal(t, "Cash Cow", methods[1].Name)
	require.Equal(t, 1, methods[1].Position)

	// ids are derived from the name so reseeding gives the same rows
	other, err := Open(filepath.Join(t.TempDir(), "other.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.Close() })
	require.NoError(t, RunMigrations(other))
	require.NoError(t, SeedMethods(ctx, other, []string{"super special bank"}))
	again, err := repository.NewMethodRepo(other).List(ctx)
	require.NoError(t, err)
	require.Equal(t, methods[0].ID, again[0].ID)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(db))

	boom := errors.New("boom")
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := repository.NewMethodRepo(tx).Insert(ctx, repository.TxMethod{ID: "x", Name: "X"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	methods, err := repository.NewMethodRepo(db).List(ctx)
	require.NoError(t, err)
	require.Empty(t, methods)
}
