package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/moneydash/internal/autofill"
	"github.com/jask/moneydash/internal/database"
	"github.com/jask/moneydash/internal/database/repository"
)

func newTestLedger(t *testing.T) (*Ledger, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))
	require.NoError(t, database.SeedMethods(ctx, db, []string{"Super Special Bank", "Cash Cow"}))

	l, err := NewLedger(ctx, db, nil)
	require.NoError(t, err)
	l.now = func() time.Time { return time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC) }
	return l, ctx
}

func day(s string) time.Time {
	d, err := time.Parse(repository.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLedgerInsertRefreshesPools(t *testing.T) {
	l, ctx := newTestLedger(t)
	require.Equal(t, []string{"Super Special Bank", "Cash Cow"}, l.Candidates(autofill.Methods))
	require.Empty(t, l.Candidates(autofill.Tags))

	err := l.Apply(ctx, InsertTx{Tx: TxInput{
		Date: day("2024-05-03"), Details: "Weekly groceries", Method: "cash cow",
		AmountCents: 4250, Type: repository.TxExpense, Tags: []string{"Food", " groceries ", "food"},
	}})
	require.NoError(t, err)

	require.Equal(t, []string{"food", "groceries"}, l.Candidates(autofill.Tags))
	require.Equal(t, []string{"Weekly groceries"}, l.Candidates(autofill.Details))

	txs, err := l.Transactions(ctx, MonthSpan(2024, time.May))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, []string{"food", "groceries"}, txs[0].Tags)
	require.Equal(t, int64(4250), txs[0].AmountCents)

	acts, err := l.Activities(ctx, MonthSpan(2024, time.May))
	require.NoError(t, err)
	require.Len(t, acts, 1)
	require.Equal(t, ActivityAddTx, acts[0].Kind)
}

func TestLedgerFailedApplyLeavesNoTrace(t *testing.T) {
	l, ctx := newTestLedger(t)

	err := l.Apply(ctx, InsertTx{Tx: TxInput{
		Date: day("2024-05-03"), Method: "Nope", AmountCents: 100, Type: repository.TxExpense, Tags: []string{"ghost"},
	}})
	require.ErrorIs(t, err, ErrUnknownMethod)

	err = l.Apply(ctx, InsertTx{Tx: TxInput{
		Date: day("2024-05-03"), Method: "Cash Cow", AmountCents: 0, Type: repository.TxExpense,
	}})
	require.ErrorIs(t, err, ErrInvalid)

	txs, err := l.Transactions(ctx, AllTime)
	require.NoError(t, err)
	require.Empty(t, txs)
	acts, err := l.Activities(ctx, AllTime)
	require.NoError(t, err)
	require.Empty(t, acts)
	require.Empty(t, l.Candidates(autofill.Tags))
}

func TestLedgerPoolReloadFailureRollsBack(t *testing.T) {
	l, ctx := newTestLedger(t)
	_, err := l.db.ExecContext(ctx, `DROP TABLE tx_tags; DROP TABLE tags;`)
	require.NoError(t, err)

	err = l.Apply(ctx, AddMethod{Name: "Piggy Bank", Position: 0})
	require.ErrorContains(t, err, "load tags")

	// the method is not stored, so applying again cannot duplicate it
	require.Equal(t, []string{"Super Special Bank", "Cash Cow"}, l.Candidates(autofill.Methods))
	methods, err := repository.NewMethodRepo(l.db).List(ctx)
	require.NoError(t, err)
	require.Len(t, methods, 2)
	acts, err := l.Activities(ctx, AllTime)
	require.NoError(t, err)
	require.Empty(t, acts)
}

func TestLedgerBalancesAndTransfers(t *testing.T) {
	l, ctx := newTestLedger(t)
	apply := func(in TxInput) {
		require.NoError(t, l.Apply(ctx, InsertTx{Tx: in}))
	}
	apply(TxInput{Date: day("2024-04-01"), Method: "Super Special Bank", AmountCents: 100000, Type: repository.TxIncome})
	apply(TxInput{Date: day("2024-04-10"), Method: "Super Special Bank", ToMethod: "Cash Cow", AmountCents: 20000, Type: repository.TxTransfer})
	apply(TxInput{Date: day("2024-05-02"), Method: "Cash Cow", AmountCents: 5000, Type: repository.TxExpense})

	bal, err := l.Balances(ctx, MonthSpan(2024, time.April).To)
	require.NoError(t, err)
	require.Equal(t, []repository.MethodBalance{
		{MethodID: l.Methods()[0].ID, Name: "Super Special Bank", BalanceCents: 80000},
		{MethodID: l.Methods()[1].ID, Name: "Cash Cow", BalanceCents: 20000},
	}, bal)

	bal, err = l.Balances(ctx, "")
	require.NoError(t, err)
	require.Equal(t, int64(15000), bal[1].BalanceCents)

	err = l.Apply(ctx, InsertTx{Tx: TxInput{Date: day("2024-05-02"), Method: "Cash Cow", ToMethod: "Cash Cow", AmountCents: 1, Type: repository.TxTransfer}})
	require.ErrorIs(t, err, ErrInvalid)
}

func TestLedgerEditAndDelete(t *testing.T) {
	l, ctx := newTestLedger(t)
	in := TxInput{Date: day("2024-05-03"), Details: "Lunch", Method: "Cash Cow", AmountCents: 1200, Type: repository.TxExpense, Tags: []string{"food"}}
	require.NoError(t, l.Apply(ctx, InsertTx{Tx: in}))
	txs, err := l.Transactions(ctx, AllTime)
	require.NoError(t, err)
	id := txs[0].ID

	in.AmountCents = 1500
	in.Tags = []string{"work"}
	require.NoError(t, l.Apply(ctx, EditTx{ID: id, Tx: in}))
	txs, err = l.Transactions(ctx, AllTime)
	require.NoError(t, err)
	require.Equal(t, int64(1500), txs[0].AmountCents)
	require.Equal(t, []string{"work"}, txs[0].Tags)

	require.ErrorIs(t, l.Apply(ctx, EditTx{ID: "missing", Tx: in}), ErrNotFound)

	require.NoError(t, l.Apply(ctx, DeleteTx{ID: id}))
	txs, err = l.Transactions(ctx, AllTime)
	require.NoError(t, err)
	require.Empty(t, txs)
	require.ErrorIs(t, l.Apply(ctx, DeleteTx{ID: id}), ErrNotFound)
}

func TestLedgerMethods(t *testing.T) {
	l, ctx := newTestLedger(t)

	require.NoError(t, l.Apply(ctx, AddMethod{Name: "Wallet", Position: 1}))
	require.Equal(t, []string{"Super Special Bank", "Wallet", "Cash Cow"}, l.Candidates(autofill.Methods))
	require.ErrorIs(t, l.Apply(ctx, AddMethod{Name: "wallet"}), ErrDuplicateMethod)

	require.NoError(t, l.Apply(ctx, AddMethod{Name: "Card", Position: 99}))
	require.Equal(t, []string{"Super Special Bank", "Wallet", "Cash Cow", "Card"}, l.Candidates(autofill.Methods))

	ms := l.Methods()
	order := []string{ms[3].ID, ms[2].ID, ms[1].ID, ms[0].ID}
	require.NoError(t, l.Apply(ctx, RepositionMethods{Order: order}))
	require.Equal(t, []string{"Card", "Cash Cow", "Wallet", "Super Special Bank"}, l.Candidates(autofill.Methods))
	for i, m := range l.Methods() {
		require.Equal(t, i, m.Position)
	}

	require.ErrorIs(t, l.Apply(ctx, RepositionMethods{Order: order[:2]}), ErrInvalid)

	require.NoError(t, l.Apply(ctx, RenameMethod{ID: ms[1].ID, Name: "Pocket"}))
	require.Contains(t, l.Candidates(autofill.Methods), "Pocket")
	require.ErrorIs(t, l.Apply(ctx, RenameMethod{ID: ms[1].ID, Name: "Card"}), ErrDuplicateMethod)
}

func TestLedgerSummaryAndSearch(t *testing.T) {
	l, ctx := newTestLedger(t)
	for _, in := range []TxInput{
		{Date: day("2024-05-01"), Details: "Salary May", Method: "Super Special Bank", AmountCents: 300000, Type: repository.TxIncome, Tags: []string{"salary"}},
		{Date: day("2024-05-03"), Details: "Weekly groceries", Method: "Cash Cow", AmountCents: 4250, Type: repository.TxExpense, Tags: []string{"food"}},
		{Date: day("2024-05-09"), Details: "Dinner out", Method: "Cash Cow", AmountCents: 6000, Type: repository.TxExpense, Tags: []string{"food", "fun"}},
		{Date: day("2024-06-01"), Details: "Groceries", Method: "Cash Cow", AmountCents: 3000, Type: repository.TxExpense},
	} {
		require.NoError(t, l.Apply(ctx, InsertTx{Tx: in}))
	}

	s, err := l.Summary(ctx, MonthSpan(2024, time.May))
	require.NoError(t, err)
	require.Equal(t, 3, s.Count)
	require.Equal(t, int64(300000), s.IncomeCents)
	require.Equal(t, int64(10250), s.ExpenseCents)
	require.Equal(t, []repository.TagTotal{
		{Tag: "food", ExpenseCents: 10250},
		{Tag: "fun", ExpenseCents: 6000},
		{Tag: "salary", IncomeCents: 300000},
	}, s.Tags)

	got, err := l.Search(ctx, SearchFilter{Details: "grcrs"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = l.Search(ctx, SearchFilter{DatePrefix: "2024-05", Method: "cash cow", Tags: []string{"FOOD"}})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = l.Search(ctx, SearchFilter{AmountCents: 6000, Type: repository.TxExpense})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Dinner out", got[0].Details)

	_, err = l.Search(ctx, SearchFilter{Method: "nope"})
	require.ErrorIs(t, err, ErrUnknownMethod)
}

func TestNormalizeTags(t *testing.T) {
	require.Equal(t, []string{"food", "eating out"}, NormalizeTags(" Food,eating   OUT ; food,, "))
	require.Empty(t, NormalizeTags(" , "))
	require.Equal(t, []string{"rent", "bills"}, NormalizeTags("rent\nbills;"))
}
