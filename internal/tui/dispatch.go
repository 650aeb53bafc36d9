package tui

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jask/moneydash/internal/autofill"
	"github.com/jask/moneydash/internal/database/repository"
	"github.com/jask/moneydash/internal/lerp"
	"github.com/jask/moneydash/internal/service"
)

// Ledger is the storage the dashboard reads and writes. *service.Ledger
// satisfies it.
type Ledger interface {
	Candidates(kind autofill.Kind) []string
	Methods() []repository.TxMethod
	Apply(ctx context.Context, a service.Action) error
	Transactions(ctx context.Context, span service.Span) ([]repository.Transaction, error)
	Balances(ctx context.Context, before string) ([]repository.MethodBalance, error)
	Summary(ctx context.Context, span service.Span) (service.Summary, error)
	Activities(ctx context.Context, span service.Span) ([]repository.Activity, error)
	Search(ctx context.Context, f service.SearchFilter) ([]repository.Transaction, error)
}

// router handles a key for one page kind while no popup is open.
type router func(d *Dispatcher, s *State, msg tea.KeyMsg) Outcome

// Dispatcher routes key events to the open popup or the current page.
type Dispatcher struct {
	ctx     context.Context
	ledger  Ledger
	fill    autofill.Engine
	lerp    *lerp.Interpolator
	log     *log.Logger
	now     func() time.Time
	routers map[PageKind]router
}

type Option func(*Dispatcher)

// WithClock overrides the clock used for today's date.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func NewDispatcher(ctx context.Context, ledger Ledger, ip *lerp.Interpolator, logger *log.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	d := &Dispatcher{
		ctx:    ctx,
		ledger: ledger,
		lerp:   ip,
		log:    logger,
		now:    time.Now,
		routers: map[PageKind]router{
			PageInitial:  routeInitial,
			PageHome:     routeHome,
			PageAddTx:    routeTxForm,
			PageTransfer: routeTxForm,
			PageChart:    routeChart,
			PageSummary:  routeSummary,
			PageActivity: routeActivity,
			PageSearch:   routeSearch,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch handles one key. An open popup takes every key except q, which
// still quits unless the popup is taking text or the splash screen is up.
// If the page data cannot be reloaded afterwards the page and status go
// back to how they were before the key.
func (d *Dispatcher) Dispatch(s *State, msg tea.KeyMsg) Outcome {
	prev, status := snapshot(s.Page), s.Status
	var out Outcome
	switch {
	case s.Popup != nil:
		if key.Matches(msg, keys.Quit) && prev.Kind() != PageInitial && !s.Popup.takesText() {
			return quit()
		}
		out = d.routePopup(s, msg)
	default:
		r, ok := d.routers[prev.Kind()]
		if !ok {
			return Outcome{}
		}
		out = r(d, s, msg)
	}
	if out.Kind == OutcomeQuit {
		return out
	}
	return d.settle(s, prev, status, out)
}

// settle runs after every handled key: it refreshes page data and turns
// errors into an Info popup.
func (d *Dispatcher) settle(s *State, prev Page, status string, out Outcome) Outcome {
	if out.Kind != OutcomeError {
		if err := d.load(s); err != nil {
			out = failed("Could not load "+s.Page.Kind().String(), err)
			s.Page, s.Status = prev, status
		}
	}
	if before, after := prev.Kind(), s.Page.Kind(); after != before {
		if before.animated() {
			d.lerp.Clear()
		}
		d.log.Debug("page changed", "from", before, "to", after)
	}
	if out.Kind == OutcomeError {
		d.log.Error(out.Title, "err", out.Err)
		s.Popup = NewInfo(out.Title, errorLines(out.Err)...)
	}
	return out
}

func (d *Dispatcher) load(s *State) error {
	switch p := s.Page.(type) {
	case *HomePage:
		span := p.Period.Span(ModeMonth)
		rows, err := d.ledger.Transactions(d.ctx, span)
		if err != nil {
			return err
		}
		balances, err := d.ledger.Balances(d.ctx, span.To)
		if err != nil {
			return err
		}
		p.Rows, p.Balances = rows, balances
		p.clampRow(len(rows))
	case *ChartPage:
		bars, err := d.ledger.Balances(d.ctx, p.Period.Span(p.Mode).To)
		if err != nil {
			return err
		}
		p.Bars = bars
	case *SummaryPage:
		data, err := d.ledger.Summary(d.ctx, p.Period.Span(p.Mode))
		if err != nil {
			return err
		}
		p.Data = data
		p.clampRow(len(data.Tags))
	case *ActivityPage:
		rows, err := d.ledger.Activities(d.ctx, p.Period.Span(ModeMonth))
		if err != nil {
			return err
		}
		p.Rows = rows
		p.clampRow(len(rows))
	}
	return nil
}

// global handles keys shared by every page: quit, help and navigation.
func (d *Dispatcher) global(s *State, msg tea.KeyMsg) (Outcome, bool) {
	kind := s.Page.Kind()
	switch {
	case key.Matches(msg, keys.Quit):
		return quit(), true
	case key.Matches(msg, keys.Help):
		s.Popup = NewInfo("Help: "+kind.String(), helpLines(kind)...)
		return Outcome{}, true
	}
	if to, ok := navTarget(kind, msg); ok {
		d.goTo(s, to)
		return Outcome{}, true
	}
	return Outcome{}, false
}

// goTo replaces the page with a fresh one of kind. Browsing pages keep the
// month the previous page was looking at.
func (d *Dispatcher) goTo(s *State, kind PageKind) {
	period, ok := periodOf(s.Page)
	if !ok {
		period = PeriodOf(d.now())
	}
	s.Status = ""
	switch kind {
	case PageInitial:
		s.Page = &InitialPage{}
	case PageHome:
		s.Page = &HomePage{cursor: newCursor(period, FocusYears, FocusMonths, FocusTable)}
	case PageAddTx, PageTransfer:
		s.Page = &TxPage{kind: kind, Form: newForm(kind, d.now())}
	case PageChart:
		s.Page = &ChartPage{cursor: newCursor(period, FocusYears, FocusMonths, FocusMode)}
	case PageSummary:
		s.Page = &SummaryPage{cursor: newCursor(period, FocusYears, FocusMonths, FocusMode, FocusTable)}
	case PageActivity:
		s.Page = &ActivityPage{cursor: newCursor(period, FocusYears, FocusMonths, FocusTable)}
	case PageSearch:
		s.Page = &SearchPage{Form: newForm(kind, d.now())}
	}
}

func (d *Dispatcher) routePopup(s *State, msg tea.KeyMsg) Outcome {
	p := s.Popup
	if p.takesText() {
		return d.routeTextPopup(s, msg)
	}
	switch {
	case key.Matches(msg, keys.Esc), key.Matches(msg, keys.Help), key.Matches(msg, keys.Quit):
		s.Popup = nil
	case key.Matches(msg, keys.Up):
		p.Move(-1)
	case key.Matches(msg, keys.Down):
		p.Move(1)
	case key.Matches(msg, keys.Enter):
		switch p.Kind {
		case PopupInfo:
			s.Popup = nil
		case PopupChoice:
			return d.commitPopup(s)
		case PopupReposition:
			if !p.Held {
				p.Held = true
				return Outcome{}
			}
			p.Held = false
			return d.commitPopup(s)
		}
	}
	return Outcome{}
}

func (d *Dispatcher) routeTextPopup(s *State, msg tea.KeyMsg) Outcome {
	p := s.Popup
	switch {
	case key.Matches(msg, keys.Esc):
		s.Popup = nil
	case key.Matches(msg, keys.Enter):
		return d.commitPopup(s)
	case p.Kind == PopupInputReposition && key.Matches(msg, keys.Up):
		p.Move(-1)
	case p.Kind == PopupInputReposition && key.Matches(msg, keys.Down):
		p.Move(1)
	default:
		if p.Input.handleKey(msg) {
			p.Status = ""
		}
	}
	return Outcome{}
}

// commitPopup runs the popup's action. Input mistakes stay in the popup;
// anything else closes it and is reported.
func (d *Dispatcher) commitPopup(s *State) Outcome {
	p := s.Popup
	if p.commit == nil {
		s.Popup = nil
		return Outcome{}
	}
	next, err := p.commit(p)
	if err != nil {
		if msg, ok := isInputError(err); ok {
			p.Status = msg
			return Outcome{}
		}
		s.Popup = nil
		return failed(p.Title+" failed", err)
	}
	s.Popup = next
	return Outcome{}
}

func (d *Dispatcher) methodNames() []string {
	methods := d.ledger.Methods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name
	}
	return names
}

func (d *Dispatcher) methodName(id string) string {
	for _, m := range d.ledger.Methods() {
		if m.ID == id {
			return m.Name
		}
	}
	return id
}

func errorLines(err error) []string {
	if err == nil {
		return nil
	}
	return strings.Split(err.Error(), "\n")
}
