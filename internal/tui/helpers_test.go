package tui

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/moneydash/internal/autofill"
	"github.com/jask/moneydash/internal/database/repository"
	"github.com/jask/moneydash/internal/lerp"
	"github.com/jask/moneydash/internal/service"
)

var testToday = time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC)

// fakeLedger keeps everything in memory and records applied actions.
type fakeLedger struct {
	methods  []repository.TxMethod
	txs      []repository.Transaction
	pools    map[autofill.Kind][]string
	balances map[string]int64
	summary  service.Summary
	applied  []service.Action
	applyErr error
	loadErr  error
	filters  []service.SearchFilter
	nextID   int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		methods: []repository.TxMethod{
			{ID: "m1", Name: "Super Special Bank", Position: 0},
			{ID: "m2", Name: "Cash Cow", Position: 1},
		},
		pools: map[autofill.Kind][]string{
			autofill.Methods: {"Super Special Bank", "Cash Cow"},
			autofill.Details: {"Groceries", "Salary"},
			autofill.Tags:    {"food", "fun", "salary"},
		},
		balances: map[string]int64{},
	}
}

func (f *fakeLedger) Candidates(kind autofill.Kind) []string { return f.pools[kind] }

func (f *fakeLedger) Methods() []repository.TxMethod { return slices.Clone(f.methods) }

func (f *fakeLedger) Apply(_ context.Context, a service.Action) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, a)
	switch a := a.(type) {
	case service.InsertTx:
		f.nextID++
		f.txs = append(f.txs, repository.Transaction{
			ID: fmt.Sprintf("tx%d", f.nextID), Date: a.Tx.Date, Details: a.Tx.Details,
			MethodID: f.idOf(a.Tx.Method), AmountCents: a.Tx.AmountCents, Type: a.Tx.Type, Tags: a.Tx.Tags,
		})
	case service.DeleteTx:
		f.txs = slices.DeleteFunc(f.txs, func(t repository.Transaction) bool { return t.ID == a.ID })
	case service.AddMethod:
		m := repository.TxMethod{ID: fmt.Sprintf("m%d", len(f.methods)+1), Name: a.Name}
		f.methods = slices.Insert(f.methods, min(a.Position, len(f.methods)), m)
	case service.RenameMethod:
		for i := range f.methods {
			if f.methods[i].ID == a.ID {
				f.methods[i].Name = a.Name
			}
		}
	case service.RepositionMethods:
		var next []repository.TxMethod
		for _, id := range a.Order {
			next = append(next, repository.TxMethod{ID: id, Name: f.nameOf(id)})
		}
		f.methods = next
	}
	return nil
}

func (f *fakeLedger) idOf(name string) string {
	for _, m := range f.methods {
		if m.Name == name {
			return m.ID
		}
	}
	return ""
}

func (f *fakeLedger) nameOf(id string) string {
	for _, m := range f.methods {
		if m.ID == id {
			return m.Name
		}
	}
	return ""
}

func (f *fakeLedger) Transactions(_ context.Context, span service.Span) ([]repository.Transaction, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	var out []repository.Transaction
	for _, t := range f.txs {
		d := t.Date.Format(repository.DateLayout)
		if (span.From == "" || d >= span.From) && (span.To == "" || d < span.To) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeLedger) Balances(context.Context, string) ([]repository.MethodBalance, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]repository.MethodBalance, len(f.methods))
	for i, m := range f.methods {
		out[i] = repository.MethodBalance{MethodID: m.ID, Name: m.Name, BalanceCents: f.balances[m.ID]}
	}
	return out, nil
}

func (f *fakeLedger) Summary(context.Context, service.Span) (service.Summary, error) {
	return f.summary, f.loadErr
}

func (f *fakeLedger) Activities(context.Context, service.Span) ([]repository.Activity, error) {
	return nil, f.loadErr
}

func (f *fakeLedger) Search(_ context.Context, filter service.SearchFilter) ([]repository.Transaction, error) {
	f.filters = append(f.filters, filter)
	return slices.Clone(f.txs), f.loadErr
}

func newTestDispatcher(t *testing.T, l *fakeLedger) (*Dispatcher, *lerp.Interpolator) {
	t.Helper()
	ip := lerp.New(0)
	return NewDispatcher(context.Background(), l, ip, nil, WithClock(func() time.Time { return testToday })), ip
}

// onPage returns state already showing kind.
func onPage(d *Dispatcher, kind PageKind) *State {
	s := NewState()
	d.goTo(s, kind)
	_ = d.load(s)
	return s
}

func press(name string) tea.KeyMsg {
	switch name {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// send dispatches each key in order and returns the last outcome.
func send(d *Dispatcher, s *State, names ...string) Outcome {
	var out Outcome
	for _, n := range names {
		out = d.Dispatch(s, press(n))
	}
	return out
}

// typeText sends text one rune at a time.
func typeText(d *Dispatcher, s *State, text string) {
	for _, r := range text {
		if r == ' ' {
			d.Dispatch(s, press("space"))
			continue
		}
		d.Dispatch(s, press(string(r)))
	}
}

func requirePage(t *testing.T, s *State, want PageKind) {
	t.Helper()
	require.Equal(t, want, s.Page.Kind(), "page")
}

func sampleTx(id, date, details string) repository.Transaction {
	d, _ := time.Parse(repository.DateLayout, date)
	return repository.Transaction{
		ID: id, Date: d, Details: details, MethodID: "m2",
		AmountCents: 4250, Type: repository.TxExpense, Tags: []string{"food"},
	}
}
