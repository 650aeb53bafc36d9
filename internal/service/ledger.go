package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jask/moneydash/internal/autofill"
	"github.com/jask/moneydash/internal/database"
	"github.com/jask/moneydash/internal/database/repository"
)

var (
	ErrUnknownMethod   = errors.New("unknown transaction method")
	ErrDuplicateMethod = errors.New("transaction method already exists")
	ErrNotFound        = errors.New("not found")
	ErrInvalid         = errors.New("invalid transaction")
)

// Span is a half-open date range [From, To). Empty bounds are open.
type Span struct {
	From string
	To   string
}

// AllTime covers every transaction.
var AllTime = Span{}

func MonthSpan(year int, month time.Month) Span {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Span{From: start.Format(repository.DateLayout), To: start.AddDate(0, 1, 0).Format(repository.DateLayout)}
}

func YearSpan(year int) Span {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return Span{From: start.Format(repository.DateLayout), To: start.AddDate(1, 0, 0).Format(repository.DateLayout)}
}

// Summary aggregates a span.
type Summary struct {
	Tags         []repository.TagTotal
	IncomeCents  int64
	ExpenseCents int64
	Count        int
}

// SearchFilter narrows a search. Zero values match everything; Details is fuzzy.
type SearchFilter struct {
	DatePrefix  string
	Details     string
	Method      string
	AmountCents int64
	Type        repository.TxType
	Tags        []string
}

// Ledger owns storage for the dashboard and the candidate pools used for
// autofill. Pools are rebuilt after every successful Apply.
type Ledger struct {
	db  *sql.DB
	log *log.Logger
	now func() time.Time

	methods []repository.TxMethod
	pools   map[autofill.Kind][]string
}

// NewLedger loads the candidate pools from db.
func NewLedger(ctx context.Context, db *sql.DB, logger *log.Logger) (*Ledger, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	l := &Ledger{db: db, log: logger, now: database.Now}
	if err := l.refresh(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) refresh(ctx context.Context) error {
	methods, pools, err := loadPools(ctx, l.db)
	if err != nil {
		return err
	}
	l.methods, l.pools = methods, pools
	return nil
}

func loadPools(ctx context.Context, db repository.DBTX) ([]repository.TxMethod, map[autofill.Kind][]string, error) {
	methods, err := repository.NewMethodRepo(db).List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load methods: %w", err)
	}
	tags, err := repository.NewTagRepo(db).List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load tags: %w", err)
	}
	details, err := repository.NewTransactionRepo(db).Details(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load details: %w", err)
	}

	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name
	}
	tagNames := make([]string, len(tags))
	for i, t := range tags {
		tagNames[i] = t.Name
	}
	return methods, map[autofill.Kind][]string{
		autofill.Methods: names,
		autofill.Tags:    tagNames,
		autofill.Details: details,
	}, nil
}

// Candidates returns the pool for kind. Callers must not modify it.
func (l *Ledger) Candidates(kind autofill.Kind) []string {
	return l.pools[kind]
}

// Methods returns the methods in display order.
func (l *Ledger) Methods() []repository.TxMethod {
	return l.methods
}

// Apply performs a in one database transaction and records it in the
// activity log. The candidate pools are reloaded inside the same
// transaction, so on error nothing is written and the pools are unchanged.
func (l *Ledger) Apply(ctx context.Context, a Action) error {
	var (
		methods []repository.TxMethod
		pools   map[autofill.Kind][]string
	)
	err := database.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		desc, err := l.apply(ctx, tx, a)
		if err != nil {
			return err
		}
		err = repository.NewActivityRepo(tx).Add(ctx, repository.Activity{
			ID:          uuid.NewString(),
			At:          l.now(),
			Kind:        a.activityKind(),
			Description: desc,
		})
		if err != nil {
			return err
		}
		methods, pools, err = loadPools(ctx, tx)
		return err
	})
	if err != nil {
		l.log.Error("apply failed", "action", a.activityKind(), "err", err)
		return err
	}
	l.methods, l.pools = methods, pools
	l.log.Debug("applied", "action", a.activityKind())
	return nil
}

func (l *Ledger) apply(ctx context.Context, tx *sql.Tx, a Action) (string, error) {
	switch a := a.(type) {
	case InsertTx:
		row, err := l.resolve(ctx, tx, uuid.NewString(), a.Tx)
		if err != nil {
			return "", err
		}
		txs := repository.NewTransactionRepo(tx)
		if err := txs.Insert(ctx, row); err != nil {
			return "", fmt.Errorf("insert transaction: %w", err)
		}
		if err := l.setTags(ctx, tx, row.ID, a.Tx.Tags); err != nil {
			return "", err
		}
		return "added " + a.Tx.describe(), nil

	case EditTx:
		row, err := l.resolve(ctx, tx, a.ID, a.Tx)
		if err != nil {
			return "", err
		}
		if err := repository.NewTransactionRepo(tx).Update(ctx, row); err != nil {
			if repository.IsNotFound(err) {
				return "", fmt.Errorf("edit transaction %s: %w", a.ID, ErrNotFound)
			}
			return "", fmt.Errorf("edit transaction: %w", err)
		}
		if err := l.setTags(ctx, tx, row.ID, a.Tx.Tags); err != nil {
			return "", err
		}
		return "edited " + a.Tx.describe(), nil

	case DeleteTx:
		txs := repository.NewTransactionRepo(tx)
		old, err := txs.Get(ctx, a.ID)
		if err != nil {
			return "", fmt.Errorf("load transaction: %w", err)
		}
		if old == nil {
			return "", fmt.Errorf("delete transaction %s: %w", a.ID, ErrNotFound)
		}
		if err := txs.Delete(ctx, a.ID); err != nil {
			return "", fmt.Errorf("delete transaction: %w", err)
		}
		return fmt.Sprintf("deleted %s %s: %s", old.Date.Format(repository.DateLayout), old.Type, old.Details), nil

	case AddMethod:
		return l.addMethod(ctx, tx, a)

	case RenameMethod:
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return "", fmt.Errorf("%w: method name is empty", ErrInvalid)
		}
		methods := repository.NewMethodRepo(tx)
		if other, err := methods.ByName(ctx, name); err != nil {
			return "", err
		} else if other != nil && other.ID != a.ID {
			return "", fmt.Errorf("%w: %s", ErrDuplicateMethod, name)
		}
		old := l.methodName(a.ID)
		if err := methods.Rename(ctx, a.ID, name); err != nil {
			if repository.IsNotFound(err) {
				return "", fmt.Errorf("rename method: %w", ErrUnknownMethod)
			}
			return "", fmt.Errorf("rename method: %w", err)
		}
		return fmt.Sprintf("renamed method %s to %s", old, name), nil

	case RepositionMethods:
		return l.reposition(ctx, tx, a.Order)
	}
	return "", fmt.Errorf("unsupported action %T", a)
}

func (l *Ledger) resolve(ctx context.Context, tx *sql.Tx, id string, in TxInput) (repository.Transaction, error) {
	if in.AmountCents <= 0 {
		return repository.Transaction{}, fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}
	if in.Date.IsZero() {
		return repository.Transaction{}, fmt.Errorf("%w: date is required", ErrInvalid)
	}
	switch in.Type {
	case repository.TxIncome, repository.TxExpense, repository.TxTransfer:
	default:
		return repository.Transaction{}, fmt.Errorf("%w: type %q", ErrInvalid, in.Type)
	}

	methods := repository.NewMethodRepo(tx)
	from, err := methods.ByName(ctx, in.Method)
	if err != nil {
		return repository.Transaction{}, err
	}
	if from == nil {
		return repository.Transaction{}, fmt.Errorf("%w: %q", ErrUnknownMethod, in.Method)
	}
	row := repository.Transaction{
		ID:          id,
		Date:        in.Date,
		Details:     strings.TrimSpace(in.Details),
		MethodID:    from.ID,
		AmountCents: in.AmountCents,
		Type:        in.Type,
	}
	if in.Type == repository.TxTransfer {
		to, err := methods.ByName(ctx, in.ToMethod)
		if err != nil {
			return repository.Transaction{}, err
		}
		if to == nil {
			return repository.Transaction{}, fmt.Errorf("%w: %q", ErrUnknownMethod, in.ToMethod)
		}
		if to.ID == from.ID {
			return repository.Transaction{}, fmt.Errorf("%w: transfer to the same method", ErrInvalid)
		}
		row.ToMethodID = &to.ID
	}
	return row, nil
}

func (l *Ledger) setTags(ctx context.Context, tx *sql.Tx, txID string, names []string) error {
	tags := repository.NewTagRepo(tx)
	var ids []string
	for _, name := range NormalizeTags(strings.Join(names, ",")) {
		tag, err := tags.ByName(ctx, name)
		if err != nil {
			return fmt.Errorf("load tag: %w", err)
		}
		if tag == nil {
			tag = &repository.Tag{ID: uuid.NewString(), Name: name}
			if err := tags.Upsert(ctx, *tag); err != nil {
				return fmt.Errorf("create tag: %w", err)
			}
		}
		ids = append(ids, tag.ID)
	}
	if err := repository.NewTransactionRepo(tx).SetTags(ctx, txID, ids); err != nil {
		return fmt.Errorf("set tags: %w", err)
	}
	return nil
}

func (l *Ledger) addMethod(ctx context.Context, tx *sql.Tx, a AddMethod) (string, error) {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return "", fmt.Errorf("%w: method name is empty", ErrInvalid)
	}
	methods := repository.NewMethodRepo(tx)
	if existing, err := methods.ByName(ctx, name); err != nil {
		return "", err
	} else if existing != nil {
		return "", fmt.Errorf("%w: %s", ErrDuplicateMethod, name)
	}
	all, err := methods.List(ctx)
	if err != nil {
		return "", err
	}
	pos := min(max(a.Position, 0), len(all))
	if err := methods.ShiftFrom(ctx, pos); err != nil {
		return "", fmt.Errorf("shift methods: %w", err)
	}
	if err := methods.Insert(ctx, repository.TxMethod{ID: uuid.NewString(), Name: name, Position: pos}); err != nil {
		return "", fmt.Errorf("insert method: %w", err)
	}
	return fmt.Sprintf("added method %s at position %d", name, pos+1), nil
}

func (l *Ledger) reposition(ctx context.Context, tx *sql.Tx, order []string) (string, error) {
	methods := repository.NewMethodRepo(tx)
	all, err := methods.List(ctx)
	if err != nil {
		return "", err
	}
	known := make(map[string]string, len(all))
	for _, m := range all {
		known[m.ID] = m.Name
	}
	if len(order) != len(all) {
		return "", fmt.Errorf("%w: reposition needs %d methods, got %d", ErrInvalid, len(all), len(order))
	}
	names := make([]string, 0, len(order))
	for pos, id := range order {
		name, ok := known[id]
		if !ok {
			return "", fmt.Errorf("reposition %s: %w", id, ErrUnknownMethod)
		}
		delete(known, id)
		if err := methods.SetPosition(ctx, id, pos); err != nil {
			return "", fmt.Errorf("set position: %w", err)
		}
		names = append(names, name)
	}
	return "reordered methods: " + strings.Join(names, ", "), nil
}

func (l *Ledger) methodName(id string) string {
	for _, m := range l.methods {
		if m.ID == id {
			return m.Name
		}
	}
	return id
}

// Transactions lists the span's transactions oldest first.
func (l *Ledger) Transactions(ctx context.Context, span Span) ([]repository.Transaction, error) {
	return repository.NewTransactionRepo(l.db).List(ctx, repository.TransactionFilters{From: span.From, To: span.To})
}

// Balances returns every method's balance over transactions dated before the given day.
func (l *Ledger) Balances(ctx context.Context, before string) ([]repository.MethodBalance, error) {
	return repository.NewTransactionRepo(l.db).Balances(ctx, before)
}

// Summary totals income and expense for the span, overall and per tag.
func (l *Ledger) Summary(ctx context.Context, span Span) (Summary, error) {
	txs := repository.NewTransactionRepo(l.db)
	tags, err := txs.TagTotals(ctx, span.From, span.To)
	if err != nil {
		return Summary{}, fmt.Errorf("tag totals: %w", err)
	}
	rows, err := txs.List(ctx, repository.TransactionFilters{From: span.From, To: span.To})
	if err != nil {
		return Summary{}, fmt.Errorf("list transactions: %w", err)
	}
	s := Summary{Tags: tags, Count: len(rows)}
	for _, t := range rows {
		switch t.Type {
		case repository.TxIncome:
			s.IncomeCents += t.AmountCents
		case repository.TxExpense:
			s.ExpenseCents += t.AmountCents
		}
	}
	return s, nil
}

// Activities lists the span's audit log, newest first.
func (l *Ledger) Activities(ctx context.Context, span Span) ([]repository.Activity, error) {
	return repository.NewActivityRepo(l.db).List(ctx, span.From, span.To)
}

// Search returns transactions matching every set field of f.
func (l *Ledger) Search(ctx context.Context, f SearchFilter) ([]repository.Transaction, error) {
	filters := repository.TransactionFilters{
		DatePrefix:  f.DatePrefix,
		Type:        f.Type,
		AmountCents: f.AmountCents,
		Tags:        NormalizeTags(strings.Join(f.Tags, ",")),
	}
	if f.Method != "" {
		m, err := repository.NewMethodRepo(l.db).ByName(ctx, f.Method)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, f.Method)
		}
		filters.MethodID = m.ID
	}
	rows, err := repository.NewTransactionRepo(l.db).List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	needle := strings.TrimSpace(f.Details)
	if needle == "" {
		return rows, nil
	}
	return slices.DeleteFunc(rows, func(t repository.Transaction) bool {
		return !fuzzy.MatchNormalizedFold(needle, t.Details)
	}), nil
}

// NormalizeTags splits a tag list into unique, lower-cased tags.
func NormalizeTags(input string) []string {
	raw := strings.FieldsFunc(input, autofill.IsTagSeparator)
	seen := map[string]struct{}{}
	var out []string
	for _, part := range raw {
		p := strings.Join(strings.Fields(strings.ToLower(part)), " ")
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
