package repository

import (
	"context"
	"database/sql"
	"errors"
)

// MethodRepo handles transaction methods.
type MethodRepo struct {
	db DBTX
}

func NewMethodRepo(db DBTX) *MethodRepo { return &MethodRepo{db: db} }

func (r *MethodRepo) Insert(ctx context.Context, m TxMethod) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO tx_methods(id, name, position) VALUES (?, ?, ?)`, m.ID, m.Name, m.Position)
	return err
}

func (r *MethodRepo) Rename(ctx context.Context, id, name string) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE tx_methods SET name = ? WHERE id = ?`, name, id))
}

func (r *MethodRepo) SetPosition(ctx context.Context, id string, pos int) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE tx_methods SET position = ? WHERE id = ?`, pos, id))
}

// ShiftFrom moves every method at or after pos one slot down.
func (r *MethodRepo) ShiftFrom(ctx context.Context, pos int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tx_methods SET position = position + 1 WHERE position >= ?`, pos)
	return err
}

func (r *MethodRepo) ByName(ctx context.Context, name string) (*TxMethod, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, position FROM tx_methods WHERE name = ? COLLATE NOCASE`, name)
	var m TxMethod
	if err := row.Scan(&m.ID, &m.Name, &m.Position); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// List returns methods in display order.
func (r *MethodRepo) List(ctx context.Context) ([]TxMethod, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, position FROM tx_methods ORDER BY position, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TxMethod
	for rows.Next() {
		var m TxMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.Position); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ErrNoRows is returned by updates that matched nothing.
var ErrNoRows = errors.New("no rows affected")

func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRows
	}
	return nil
}
