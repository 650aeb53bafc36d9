package repository

import (
	"context"
	"time"
)

// ActivityRepo handles the audit log.
type ActivityRepo struct {
	db DBTX
}

func NewActivityRepo(db DBTX) *ActivityRepo { return &ActivityRepo{db: db} }

func (r *ActivityRepo) Add(ctx context.Context, a Activity) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO activities(id, at, kind, description) VALUES (?, ?, ?, ?)`,
		a.ID, a.At.UTC().Format(time.RFC3339), a.Kind, a.Description)
	return err
}

// List returns activities with from <= at < to, newest first. Empty bounds are open.
func (r *ActivityRepo) List(ctx context.Context, from, to string) ([]Activity, error) {
	query := `SELECT id, at, kind, description FROM activities WHERE 1=1`
	var args []any
	if from != "" {
		query += ` AND at >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND at < ?`
		args = append(args, to)
	}
	query += ` ORDER BY at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Activity
	for rows.Next() {
		var a Activity
		var at string
		if err := rows.Scan(&a.ID, &at, &a.Kind, &a.Description); err != nil {
			return nil, err
		}
		if a.At, err = time.Parse(time.RFC3339, at); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
