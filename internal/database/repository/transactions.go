package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// TransactionFilters defines list filters. Zero values mean "any".
type TransactionFilters struct {
	From        string // inclusive, YYYY-MM-DD
	To          string // exclusive, YYYY-MM-DD
	DatePrefix  string // YYYY, YYYY-MM or a full date
	MethodID    string // matches either side of a transfer
	Type        TxType
	AmountCents int64
	Tags        []string // every tag must be present
}

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db DBTX
}

func NewTransactionRepo(db DBTX) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(id, date, details, method_id, to_method_id, amount, tx_type)
	VALUES(?, ?, ?, ?, ?, ?, ?);
	`, t.ID, t.Date.Format(DateLayout), t.Details, t.MethodID, t.ToMethodID, t.AmountCents, string(t.Type))
	return err
}

func (r *TransactionRepo) Update(ctx context.Context, t Transaction) error {
	return expectOne(r.db.ExecContext(ctx, `
	UPDATE transactions SET date = ?, details = ?, method_id = ?, to_method_id = ?, amount = ?, tx_type = ?
	WHERE id = ?`,
		t.Date.Format(DateLayout), t.Details, t.MethodID, t.ToMethodID, t.AmountCents, string(t.Type), t.ID))
}

func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id))
}

// SetTags replaces the transaction's tags.
func (r *TransactionRepo) SetTags(ctx context.Context, txID string, tagIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tx_tags WHERE tx_id = ?`, txID); err != nil {
		return err
	}
	for _, id := range tagIDs {
		if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO tx_tags(tx_id, tag_id) VALUES(?, ?)`, txID, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *TransactionRepo) Get(ctx context.Context, id string) (*Transaction, error) {
	txs, err := r.query(ctx, "WHERE t.id = ?", []any{id})
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, nil
	}
	return &txs[0], nil
}

// List returns matching transactions oldest first, in insertion order within a day.
func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]Transaction, error) {
	var where []string
	var args []any

	if f.From != "" {
		where = append(where, "t.date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		where = append(where, "t.date < ?")
		args = append(args, f.To)
	}
	if f.DatePrefix != "" {
		where = append(where, "t.date LIKE ?")
		args = append(args, f.DatePrefix+"%")
	}
	if f.MethodID != "" {
		where = append(where, "(t.method_id = ? OR t.to_method_id = ?)")
		args = append(args, f.MethodID, f.MethodID)
	}
	if f.Type != "" {
		where = append(where, "t.tx_type = ?")
		args = append(args, string(f.Type))
	}
	if f.AmountCents != 0 {
		where = append(where, "t.amount = ?")
		args = append(args, f.AmountCents)
	}
	for _, tag := range f.Tags {
		where = append(where, "EXISTS (SELECT 1 FROM tx_tags tt JOIN tags g ON g.id = tt.tag_id WHERE tt.tx_id = t.id AND g.name = ?)")
		args = append(args, tag)
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}
	return r.query(ctx, clause, args)
}

func (r *TransactionRepo) query(ctx context.Context, clause string, args []any) ([]Transaction, error) {
	query := `SELECT t.id, t.date, t.details, t.method_id, t.to_method_id, t.amount, t.tx_type, t.created_at,
	COALESCE((SELECT group_concat(name, ',') FROM (
		SELECT g.name FROM tx_tags tt JOIN tags g ON g.id = tt.tag_id WHERE tt.tx_id = t.id ORDER BY g.name)), '')
	FROM transactions t ` + clause + ` ORDER BY t.date, t.rowid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var (
			t       Transaction
			date    string
			toID    sql.NullString
			txType  string
			tagList string
		)
		if err := rows.Scan(&t.ID, &date, &t.Details, &t.MethodID, &toID, &t.AmountCents, &txType, &t.CreatedAt, &tagList); err != nil {
			return nil, err
		}
		if t.Date, err = time.Parse(DateLayout, date); err != nil {
			return nil, err
		}
		if toID.Valid {
			id := toID.String
			t.ToMethodID = &id
		}
		t.Type = TxType(txType)
		if tagList != "" {
			t.Tags = strings.Split(tagList, ",")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Details returns every distinct non-empty description.
func (r *TransactionRepo) Details(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT details FROM transactions WHERE details <> '' ORDER BY details`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Balances returns each method's balance over transactions dated before the
// given day (all of them when before is empty), in method display order.
func (r *TransactionRepo) Balances(ctx context.Context, before string) ([]MethodBalance, error) {
	if before == "" {
		before = "9999-12-31"
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT m.id, m.name, COALESCE(SUM(
		CASE
			WHEN t.tx_type = 'income' AND t.method_id = m.id THEN t.amount
			WHEN t.tx_type IN ('expense', 'transfer') AND t.method_id = m.id THEN -t.amount
			WHEN t.tx_type = 'transfer' AND t.to_method_id = m.id THEN t.amount
			ELSE 0
		END), 0)
	FROM tx_methods m
	LEFT JOIN transactions t ON (t.method_id = m.id OR t.to_method_id = m.id) AND t.date < ?
	GROUP BY m.id, m.name, m.position
	ORDER BY m.position, m.name`, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MethodBalance
	for rows.Next() {
		var b MethodBalance
		if err := rows.Scan(&b.MethodID, &b.Name, &b.BalanceCents); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// TagTotals sums income and expense per tag for from <= date < to.
func (r *TransactionRepo) TagTotals(ctx context.Context, from, to string) ([]TagTotal, error) {
	if to == "" {
		to = "9999-12-31"
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT g.name,
		COALESCE(SUM(CASE WHEN t.tx_type = 'income' THEN t.amount ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN t.tx_type = 'expense' THEN t.amount ELSE 0 END), 0)
	FROM transactions t
	JOIN tx_tags tt ON tt.tx_id = t.id
	JOIN tags g ON g.id = tt.tag_id
	WHERE t.date >= ? AND t.date < ?
	GROUP BY g.name
	ORDER BY g.name`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TagTotal
	for rows.Next() {
		var tt TagTotal
		if err := rows.Scan(&tt.Tag, &tt.IncomeCents, &tt.ExpenseCents); err != nil {
			return nil, err
		}
		out = append(out, tt)
	}
	return out, rows.Err()
}

// IsNotFound reports whether err means the targeted row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}
