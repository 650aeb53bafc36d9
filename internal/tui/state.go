package tui

import (
	"time"

	"github.com/jask/moneydash/internal/database/repository"
	"github.com/jask/moneydash/internal/service"
)

// PageKind identifies a screen of the dashboard.
type PageKind int

const (
	PageInitial PageKind = iota
	PageHome
	PageAddTx
	PageTransfer
	PageChart
	PageSummary
	PageActivity
	PageSearch
)

var pageNames = [...]string{
	PageInitial:  "Initial",
	PageHome:     "Home",
	PageAddTx:    "Add Transaction",
	PageTransfer: "Transfer",
	PageChart:    "Chart",
	PageSummary:  "Summary",
	PageActivity: "Activity",
	PageSearch:   "Search",
}

func (k PageKind) String() string {
	if int(k) < len(pageNames) {
		return pageNames[k]
	}
	return "Unknown"
}

// animated pages drive the interpolator while they are shown.
func (k PageKind) animated() bool {
	return k == PageChart || k == PageSummary
}

// Page is the state of the screen being shown. Each kind carries only the
// fields it needs.
type Page interface {
	Kind() PageKind
}

// State is everything the dispatcher mutates: the current page and the popup
// layered over it, if any.
type State struct {
	Page   Page
	Popup  *Popup
	Status string
}

// NewState starts on the splash screen.
func NewState() *State {
	return &State{Page: &InitialPage{}}
}

// PopupKind reports the open popup's kind, PopupNone when nothing is open.
func (s *State) PopupKind() PopupKind {
	if s.Popup == nil {
		return PopupNone
	}
	return s.Popup.Kind
}

// Period is the month a browsing page is looking at.
type Period struct {
	Year  int
	Month time.Month
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) addMonths(n int) Period {
	t := time.Date(p.Year, p.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return PeriodOf(t)
}

func (p Period) String() string {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// Mode picks the aggregation window for chart and summary.
type Mode int

const (
	ModeMonth Mode = iota
	ModeYear
	ModeAll
)

func (m Mode) String() string {
	switch m {
	case ModeYear:
		return "Year"
	case ModeAll:
		return "All time"
	default:
		return "Month"
	}
}

// Span returns the date range the period covers under mode.
func (p Period) Span(mode Mode) service.Span {
	switch mode {
	case ModeYear:
		return service.YearSpan(p.Year)
	case ModeAll:
		return service.AllTime
	default:
		return service.MonthSpan(p.Year, p.Month)
	}
}

// Focus is the region of a browsing page the arrow keys act on.
type Focus int

const (
	FocusYears Focus = iota
	FocusMonths
	FocusMode
	FocusTable
)

// cursor is the shared navigation state of the period-driven pages. Up and
// Down walk through foci and then rows; Left and Right change the value
// under focus. Everything is clamped.
type cursor struct {
	Period Period
	Focus  Focus
	Mode   Mode
	Row    int
	foci   []Focus
}

func newCursor(p Period, foci ...Focus) cursor {
	return cursor{Period: p, Focus: foci[0], foci: foci}
}

func (c *cursor) focusIndex() int {
	for i, f := range c.foci {
		if f == c.Focus {
			return i
		}
	}
	return 0
}

func (c *cursor) move(delta, rows int) {
	if c.Focus == FocusTable {
		next := c.Row + delta
		if next >= 0 && next < rows {
			c.Row = next
			return
		}
		if delta > 0 {
			return
		}
	}
	i := clamp(c.focusIndex()+delta, 0, len(c.foci)-1)
	c.Focus = c.foci[i]
}

func (c *cursor) shift(delta int) {
	switch c.Focus {
	case FocusYears:
		c.Period = c.Period.addMonths(12 * delta)
		c.Row = 0
	case FocusMonths:
		c.Period = c.Period.addMonths(delta)
		c.Row = 0
	case FocusMode:
		c.Mode = Mode(clamp(int(c.Mode)+delta, int(ModeMonth), int(ModeAll)))
		c.Row = 0
	}
}

func (c *cursor) clampRow(rows int) {
	c.Row = clamp(c.Row, 0, max(rows-1, 0))
}

type InitialPage struct{}

// HomePage shows one month of transactions and method balances.
type HomePage struct {
	cursor
	Rows     []repository.Transaction
	Balances []repository.MethodBalance
}

// TxPage is the add-transaction and transfer form. EditID is set when an
// existing transaction is being edited.
type TxPage struct {
	kind   PageKind
	Form   *Form
	EditID string
}

// ChartPage plots method balances at the end of the selected span.
type ChartPage struct {
	cursor
	Bars []repository.MethodBalance
}

// SummaryPage breaks the selected span down by tag.
type SummaryPage struct {
	cursor
	Data service.Summary
}

// ActivityPage lists the audit log for a month.
type ActivityPage struct {
	cursor
	Rows []repository.Activity
}

// SearchPage filters every transaction by the form's fields.
type SearchPage struct {
	Form      *Form
	Results   []repository.Transaction
	OnResults bool
	Row       int
	searched  bool
}

func (*InitialPage) Kind() PageKind  { return PageInitial }
func (*HomePage) Kind() PageKind     { return PageHome }
func (p *TxPage) Kind() PageKind     { return p.kind }
func (*ChartPage) Kind() PageKind    { return PageChart }
func (*SummaryPage) Kind() PageKind  { return PageSummary }
func (*ActivityPage) Kind() PageKind { return PageActivity }
func (*SearchPage) Kind() PageKind   { return PageSearch }

// snapshot copies p so a key that fails half way can be undone. Loaded rows
// are replaced on reload, never edited in place, so they are shared.
func snapshot(p Page) Page {
	switch p := p.(type) {
	case *HomePage:
		c := *p
		return &c
	case *TxPage:
		c := *p
		c.Form = p.Form.clone()
		return &c
	case *ChartPage:
		c := *p
		return &c
	case *SummaryPage:
		c := *p
		return &c
	case *ActivityPage:
		c := *p
		return &c
	case *SearchPage:
		c := *p
		c.Form = p.Form.clone()
		return &c
	}
	return p
}

// periodOf returns the month a page is looking at, if it has one.
func periodOf(p Page) (Period, bool) {
	switch p := p.(type) {
	case *HomePage:
		return p.Period, true
	case *ChartPage:
		return p.Period, true
	case *SummaryPage:
		return p.Period, true
	case *ActivityPage:
		return p.Period, true
	}
	return Period{}, false
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
