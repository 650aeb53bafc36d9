package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/moneydash/internal/database/repository"
	"github.com/jask/moneydash/internal/money"
)

func TestImportCSV(t *testing.T) {
	l, ctx := newTestLedger(t)

	data := strings.Join([]string{
		"Date,Amount,Description",
		"3/02/2026,203.92,PAYMENT   THANKYOU 528417",
		"2026-02-02,-20,DAN MURPHY'S,drinks,treats",
		"2026-02-04,\"1,234.00x\",BROKEN",
		"yesterday,-5,NOPE",
		"2026-02-05,0,ZERO",
		"2026-02-06,-184467440737095516.17,HUGE",
	}, "\n")

	res, err := l.ImportCSV(ctx, strings.NewReader(data), "cash cow")
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 0, res.Skipped)
	require.Len(t, res.Errors, 4)
	require.ErrorContains(t, res.Errors[0], "line 4: amount")
	require.ErrorContains(t, res.Errors[1], "line 5: date")
	require.ErrorContains(t, res.Errors[2], "line 6: amount: zero")
	require.ErrorContains(t, res.Errors[3], "line 7: amount")
	require.ErrorIs(t, res.Errors[3], money.ErrTooLarge)

	rows, err := l.Transactions(ctx, AllTime)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "2026-02-02", rows[0].Date.Format(repository.DateLayout))
	require.Equal(t, repository.TxExpense, rows[0].Type)
	require.Equal(t, int64(2000), rows[0].AmountCents)
	require.Equal(t, []string{"drinks", "treats"}, rows[0].Tags)

	require.Equal(t, "2026-02-03", rows[1].Date.Format(repository.DateLayout))
	require.Equal(t, repository.TxIncome, rows[1].Type)
	require.Equal(t, int64(20392), rows[1].AmountCents)
	require.Equal(t, "PAYMENT THANKYOU 528417", rows[1].Details)

	// a second import of the same file adds nothing
	res, err = l.ImportCSV(ctx, strings.NewReader(data), "Cash Cow")
	require.NoError(t, err)
	require.Equal(t, 0, res.Imported)
	require.Equal(t, 2, res.Skipped)
}

func TestImportCSVUnknownMethod(t *testing.T) {
	l, ctx := newTestLedger(t)
	_, err := l.ImportCSV(ctx, strings.NewReader("2026-02-02,-20,X"), "Piggy Bank")
	require.ErrorIs(t, err, ErrUnknownMethod)
}
