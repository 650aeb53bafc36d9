package repository

import (
	"context"
	"database/sql"
	"time"
)

// DateLayout is how transaction dates are stored.
const DateLayout = "2006-01-02"

// DBTX is satisfied by *sql.DB and *sql.Tx so repos can run inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxType is the direction of a transaction.
type TxType string

const (
	TxIncome   TxType = "income"
	TxExpense  TxType = "expense"
	TxTransfer TxType = "transfer"
)

// TxMethod is where money lives: a bank account, a wallet, a card.
type TxMethod struct {
	ID       string
	Name     string
	Position int
}

// Tag represents a tag row.
type Tag struct {
	ID   string
	Name string
}

// Transaction represents a transaction row with its tag names.
type Transaction struct {
	ID          string
	Date        time.Time
	Details     string
	MethodID    string
	ToMethodID  *string
	AmountCents int64
	Type        TxType
	Tags        []string
	CreatedAt   time.Time
}

// Activity is one entry of the audit log.
type Activity struct {
	ID          string
	At          time.Time
	Kind        string
	Description string
}

// MethodBalance is a method's running balance at some date.
type MethodBalance struct {
	MethodID     string
	Name         string
	BalanceCents int64
}

// TagTotal sums a tag's income and expense over a date range.
type TagTotal struct {
	Tag          string
	IncomeCents  int64
	ExpenseCents int64
}
