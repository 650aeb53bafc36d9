package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitialPage(t *testing.T) {
	d, _ := newTestDispatcher(t, newFakeLedger())

	s := NewState()
	require.Equal(t, OutcomeQuit, send(d, s, "q").Kind)

	s = NewState()
	send(d, s, "x")
	requirePage(t, s, PageHome)

	// q only dismisses a popup on the splash screen
	s = NewState()
	send(d, s, "h")
	require.Equal(t, PopupInfo, s.PopupKind())
	require.Equal(t, OutcomeNone, send(d, s, "q").Kind)
	require.Equal(t, PopupNone, s.PopupKind())
	requirePage(t, s, PageInitial)
}

func TestQuitFromHome(t *testing.T) {
	d, _ := newTestDispatcher(t, newFakeLedger())
	s := onPage(d, PageHome)
	require.Equal(t, OutcomeQuit, send(d, s, "q").Kind)
}

func TestPopupSwallowsPageKeys(t *testing.T) {
	d, _ := newTestDispatcher(t, newFakeLedger())
	s := onPage(d, PageHome)

	send(d, s, "h")
	require.Equal(t, PopupInfo, s.PopupKind())
	send(d, s, "a")
	requirePage(t, s, PageHome)
	require.Equal(t, PopupInfo, s.PopupKind())

	send(d, s, "down", "down")
	require.Equal(t, FocusYears, s.Page.(*HomePage).Focus)

	send(d, s, "esc")
	require.Equal(t, PopupNone, s.PopupKind())

	send(d, s, "h")
	require.Equal(t, OutcomeQuit, send(d, s, "q").Kind)
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		from PageKind
		key  string
		want PageKind
	}{
		{PageHome, "a", PageAddTx},
		{PageHome, "t", PageTransfer},
		{PageHome, "r", PageChart},
		{PageHome, "z", PageSummary},
		{PageHome, "y", PageActivity},
		{PageHome, "w", PageSearch},
		{PageChart, "f", PageHome},
		{PageChart, "r", PageChart},
		{PageChart, "z", PageSummary},
		{PageSummary, "r", PageChart},
		{PageSummary, "y", PageActivity},
		{PageActivity, "a", PageAddTx},
		{PageActivity, "y", PageActivity},
		{PageAddTx, "f", PageHome},
		{PageAddTx, "t", PageAddTx},
		{PageTransfer, "f", PageHome},
		{PageSearch, "f", PageHome},
		{PageSearch, "r", PageSearch},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.key, func(t *testing.T) {
			d, _ := newTestDispatcher(t, newFakeLedger())
			s := onPage(d, tt.from)
			require.Equal(t, OutcomeNone, send(d, s, tt.key).Kind)
			requirePage(t, s, tt.want)
		})
	}
}

func TestBrowsingKeepsPeriod(t *testing.T) {
	d, _ := newTestDispatcher(t, newFakeLedger())
	s := onPage(d, PageHome)
	send(d, s, "left")
	require.Equal(t, Period{Year: 2023, Month: 5}, s.Page.(*HomePage).Period)

	send(d, s, "r")
	require.Equal(t, Period{Year: 2023, Month: 5}, s.Page.(*ChartPage).Period)
}

func TestLeavingAnimatedPageClearsInterpolator(t *testing.T) {
	for _, kind := range []PageKind{PageChart, PageSummary} {
		t.Run(kind.String(), func(t *testing.T) {
			d, ip := newTestDispatcher(t, newFakeLedger())
			s := onPage(d, kind)
			ip.Lerp("bal:m1", 100)
			require.True(t, ip.HasActive())

			send(d, s, "down")
			require.True(t, ip.HasActive(), "staying on the page keeps the animation")

			send(d, s, "f")
			requirePage(t, s, PageHome)
			require.False(t, ip.HasActive())
		})
	}
}

func TestHelpListsPageKeys(t *testing.T) {
	d, _ := newTestDispatcher(t, newFakeLedger())
	s := onPage(d, PageHome)
	send(d, s, "h")
	require.Equal(t, "Help: Home", s.Popup.Title)
	require.Contains(t, s.Popup.Lines, "a          add transaction")
	require.Contains(t, s.Popup.Lines, "p          reorder methods")
	require.NotContains(t, s.Popup.Lines, "s          save")
}

func TestStorageErrorOpensPopup(t *testing.T) {
	l := newFakeLedger()
	d, _ := newTestDispatcher(t, l)
	s := onPage(d, PageAddTx)
	form := s.Page.(*TxPage).Form
	form.Set(FieldMethod, "cash cow")
	form.Set(FieldAmount, "12")

	l.applyErr = errors.New("disk full")
	out := send(d, s, "s")
	require.Equal(t, OutcomeError, out.Kind)
	require.EqualError(t, out.Err, "disk full")
	require.Equal(t, PopupInfo, s.PopupKind())
	require.Equal(t, []string{"disk full"}, s.Popup.Lines)

	// the form is left exactly as it was
	page := s.Page.(*TxPage)
	require.Equal(t, "cash cow", page.Form.Value(FieldMethod))
	require.Equal(t, "12", page.Form.Value(FieldAmount))
	require.Empty(t, l.applied)

	send(d, s, "enter")
	require.Equal(t, PopupNone, s.PopupKind())
}

func TestLoadErrorOpensPopup(t *testing.T) {
	l := newFakeLedger()
	d, _ := newTestDispatcher(t, l)
	s := onPage(d, PageChart)
	l.loadErr = errors.New("database is locked")

	out := send(d, s, "f")
	require.Equal(t, OutcomeError, out.Kind)
	requirePage(t, s, PageChart)
	require.Equal(t, PopupInfo, s.PopupKind())
	require.Equal(t, "Could not load Home", s.Popup.Title)
	require.Equal(t, []string{"database is locked"}, s.Popup.Lines)
}

func TestLoadErrorKeepsPeriodAndRows(t *testing.T) {
	l := newFakeLedger()
	l.txs = append(l.txs, sampleTx("tx1", "2024-05-03", "Groceries"))
	d, _ := newTestDispatcher(t, l)
	s := onPage(d, PageHome)
	s.Status = "Transaction saved"
	l.loadErr = errors.New("database is locked")

	out := send(d, s, "right")
	require.Equal(t, OutcomeError, out.Kind)
	p := s.Page.(*HomePage)
	require.Equal(t, Period{Year: 2024, Month: time.May}, p.Period)
	require.Len(t, p.Rows, 1)
	require.Equal(t, "tx1", p.Rows[0].ID)
	require.Equal(t, "Transaction saved", s.Status)

	// once storage recovers the same key moves on
	l.loadErr = nil
	send(d, s, "enter", "right")
	require.Equal(t, Period{Year: 2025, Month: time.May}, s.Page.(*HomePage).Period)
	require.Empty(t, s.Page.(*HomePage).Rows)
}
