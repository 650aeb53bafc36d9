package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/moneydash/internal/database/repository"
	"github.com/jask/moneydash/internal/money"
)

// ImportResult reports what a CSV import did.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

var importDateLayouts = []string{"2006-01-02", "2/01/2006", "02/01/2006", "2/1/2006"}

// ImportCSV ingests bank exports with columns date, amount, description and
// an optional comma separated tag list, all booked against method. Positive
// amounts are income and negative ones expenses. A row matching an existing
// transaction on date, amount, details and method is skipped, so the same
// file can be imported twice. A leading header row is ignored.
func (l *Ledger) ImportCSV(ctx context.Context, r io.Reader, method string) (ImportResult, error) {
	res := ImportResult{}
	m, ok := l.methodByName(method)
	if !ok {
		return res, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	line := 0
	for {
		line++
		rec, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "date") {
			continue
		}
		in, err := importRow(rec, m.Name)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		dup, err := l.exists(ctx, m.ID, in)
		if err != nil {
			return res, err
		}
		if dup {
			res.Skipped++
			continue
		}
		if err := l.Apply(ctx, InsertTx{Tx: in}); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d insert: %w", line, err))
			continue
		}
		res.Imported++
	}
	l.log.Info("import finished", "method", m.Name, "imported", res.Imported, "skipped", res.Skipped, "errors", len(res.Errors))
	return res, nil
}

func importRow(rec []string, method string) (TxInput, error) {
	if len(rec) < 3 {
		return TxInput{}, errors.New("expected at least 3 columns (date, amount, description)")
	}
	date, err := parseImportDate(rec[0])
	if err != nil {
		return TxInput{}, fmt.Errorf("date: %w", err)
	}
	raw := strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(rec[1]), ",", ""), "+")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return TxInput{}, fmt.Errorf("amount: %w", err)
	}
	if err := money.CheckRange(amount); err != nil {
		return TxInput{}, fmt.Errorf("amount: %w", err)
	}
	cents := amount.Shift(2).Round(0).IntPart()
	if cents == 0 {
		return TxInput{}, errors.New("amount: zero")
	}
	in := TxInput{
		Date:        date,
		Details:     strings.Join(strings.Fields(rec[2]), " "),
		Method:      method,
		AmountCents: cents,
		Type:        repository.TxIncome,
	}
	if cents < 0 {
		in.AmountCents, in.Type = -cents, repository.TxExpense
	}
	if len(rec) > 3 {
		in.Tags = NormalizeTags(strings.Join(rec[3:], ","))
	}
	return in, nil
}

func parseImportDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func (l *Ledger) exists(ctx context.Context, methodID string, in TxInput) (bool, error) {
	day := in.Date.Format(repository.DateLayout)
	rows, err := repository.NewTransactionRepo(l.db).List(ctx, repository.TransactionFilters{
		DatePrefix:  day,
		MethodID:    methodID,
		Type:        in.Type,
		AmountCents: in.AmountCents,
	})
	if err != nil {
		return false, err
	}
	for _, t := range rows {
		if t.MethodID == methodID && strings.EqualFold(t.Details, in.Details) {
			return true, nil
		}
	}
	return false, nil
}

func (l *Ledger) methodByName(name string) (repository.TxMethod, bool) {
	name = strings.TrimSpace(name)
	for _, m := range l.methods {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return repository.TxMethod{}, false
}
