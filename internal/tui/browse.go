package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/moneydash/internal/database/repository"
	"github.com/jask/moneydash/internal/service"
)

// routeInitial leaves the splash screen on any key but q and h.
func routeInitial(d *Dispatcher, s *State, msg tea.KeyMsg) Outcome {
	switch {
	case key.Matches(msg, keys.Quit):
		return quit()
	case key.Matches(msg, keys.Help):
		s.Popup = NewInfo("Help: "+PageInitial.String(), helpLines(PageInitial)...)
	default:
		d.goTo(s, PageHome)
	}
	return Outcome{}
}

// browse applies the arrow keys to a period cursor.
func browse(c *cursor, msg tea.KeyMsg, rows int) bool {
	switch {
	case key.Matches(msg, keys.Up):
		c.move(-1, rows)
	case key.Matches(msg, keys.Down):
		c.move(1, rows)
	case key.Matches(msg, keys.Left):
		c.shift(-1)
	case key.Matches(msg, keys.Right):
		c.shift(1)
	default:
		return false
	}
	return true
}

func routeHome(d *Dispatcher, s *State, msg tea.KeyMsg) Outcome {
	p := s.Page.(*HomePage)
	if out, ok := d.global(s, msg); ok {
		return out
	}
	if browse(&p.cursor, msg, len(p.Rows)) {
		return Outcome{}
	}
	switch {
	case key.Matches(msg, keys.Edit):
		if tx, ok := p.selected(); ok {
			d.editTx(s, tx)
		} else {
			s.Status = "Select a transaction to edit"
		}
	case key.Matches(msg, keys.Delete):
		if tx, ok := p.selected(); ok {
			d.confirmDelete(s, tx, nil)
		} else {
			s.Status = "Select a transaction to delete"
		}
	case key.Matches(msg, keys.NewMethod):
		d.openAddMethod(s)
	case key.Matches(msg, keys.Reposition):
		d.openReposition(s)
	case key.Matches(msg, keys.Rename):
		d.openRename(s)
	}
	return Outcome{}
}

func (p *HomePage) selected() (repository.Transaction, bool) {
	if p.Focus != FocusTable || p.Row >= len(p.Rows) {
		return repository.Transaction{}, false
	}
	return p.Rows[p.Row], true
}

// editTx opens the form for tx with its current values.
func (d *Dispatcher) editTx(s *State, tx repository.Transaction) {
	kind := PageAddTx
	if tx.Type == repository.TxTransfer {
		kind = PageTransfer
	}
	d.goTo(s, kind)
	page := s.Page.(*TxPage)
	page.EditID = tx.ID
	page.Form.load(tx, d.methodName)
}

// confirmDelete asks before deleting tx. after runs once it is gone.
func (d *Dispatcher) confirmDelete(s *State, tx repository.Transaction, after func() error) {
	title := "Delete " + tx.Date.Format(repository.DateLayout) + " " + tx.Details + "?"
	s.Popup = NewChoice(title, []string{"No", "Yes"}, func(i int) (*Popup, error) {
		if i != 1 {
			return nil, nil
		}
		if err := d.ledger.Apply(d.ctx, service.DeleteTx{ID: tx.ID}); err != nil {
			return nil, err
		}
		s.Status = "Transaction deleted"
		if after != nil {
			return nil, after()
		}
		return nil, nil
	})
}

func (d *Dispatcher) openAddMethod(s *State) {
	s.Popup = NewInputReposition("New transaction method", d.methodNames(), func(name string, pos int) error {
		if name == "" {
			return invalid("Name cannot be empty")
		}
		if err := d.ledger.Apply(d.ctx, service.AddMethod{Name: name, Position: pos}); err != nil {
			return err
		}
		s.Status = "Added " + name
		return nil
	})
}

func (d *Dispatcher) openReposition(s *State) {
	methods := d.ledger.Methods()
	if len(methods) < 2 {
		s.Status = "Nothing to reorder"
		return
	}
	names := make([]string, len(methods))
	ids := make([]string, len(methods))
	for i, m := range methods {
		names[i], ids[i] = m.Name, m.ID
	}
	s.Popup = NewReposition("Reorder transaction methods", names, ids, func(order []string) error {
		if err := d.ledger.Apply(d.ctx, service.RepositionMethods{Order: order}); err != nil {
			return err
		}
		s.Status = "Methods reordered"
		return nil
	})
}

func (d *Dispatcher) openRename(s *State) {
	methods := d.ledger.Methods()
	if len(methods) == 0 {
		s.Status = "No methods to rename"
		return
	}
	s.Popup = NewChoice("Rename which method?", d.methodNames(), func(i int) (*Popup, error) {
		m := methods[i]
		return NewInput("Rename "+m.Name, m.Name, func(name string) (*Popup, error) {
			if name == "" {
				return nil, invalid("Name cannot be empty")
			}
			if err := d.ledger.Apply(d.ctx, service.RenameMethod{ID: m.ID, Name: name}); err != nil {
				return nil, err
			}
			s.Status = "Renamed " + m.Name + " to " + name
			return nil, nil
		}), nil
	})
}

func routeChart(d *Dispatcher, s *State, msg tea.KeyMsg) Outcome {
	p := s.Page.(*ChartPage)
	if out, ok := d.global(s, msg); ok {
		return out
	}
	browse(&p.cursor, msg, 0)
	return Outcome{}
}

func routeSummary(d *Dispatcher, s *State, msg tea.KeyMsg) Outcome {
	p := s.Page.(*SummaryPage)
	if out, ok := d.global(s, msg); ok {
		return out
	}
	browse(&p.cursor, msg, len(p.Data.Tags))
	return Outcome{}
}

func routeActivity(d *Dispatcher, s *State, msg tea.KeyMsg) Outcome {
	p := s.Page.(*ActivityPage)
	if out, ok := d.global(s, msg); ok {
		return out
	}
	browse(&p.cursor, msg, len(p.Rows))
	return Outcome{}
}
