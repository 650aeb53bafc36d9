package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/moneydash/internal/autofill"
	"github.com/jask/moneydash/internal/service"
)

func routeTxForm(d *Dispatcher, s *State, msg tea.KeyMsg) Outcome {
	p := s.Page.(*TxPage)
	f := p.Form
	if f.Editing {
		return d.editForm(f, msg)
	}
	if p.EditID != "" && key.Matches(msg, keys.Esc) {
		d.goTo(s, PageHome)
		return Outcome{}
	}
	if out, ok := d.global(s, msg); ok {
		return out
	}
	if out, ok := d.formKeys(f, msg); ok {
		return out
	}
	switch {
	case key.Matches(msg, keys.Save):
		return d.saveTx(s, p)
	case key.Matches(msg, keys.Clear):
		f.reset(d.now())
	}
	return Outcome{}
}

// formKeys moves between fields and starts editing one.
func (d *Dispatcher) formKeys(f *Form, msg tea.KeyMsg) (Outcome, bool) {
	switch {
	case key.Matches(msg, keys.Up):
		f.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		f.moveCursor(1)
	case key.Matches(msg, keys.Enter):
		return d.startEditing(f), true
	default:
		if i, ok := fieldNumber(msg, len(f.Fields)); ok {
			f.Cursor = i
			return d.startEditing(f), true
		}
		return Outcome{}, false
	}
	return Outcome{}, true
}

func fieldNumber(msg tea.KeyMsg, n int) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	i := int(msg.Runes[0] - '1')
	if i < 0 || i >= n || msg.Runes[0] > '9' {
		return 0, false
	}
	return i, true
}

func (d *Dispatcher) startEditing(f *Form) Outcome {
	f.Editing = true
	f.Status = ""
	d.suggest(f)
	return takeInput()
}

// editForm handles keys while a field takes text.
func (d *Dispatcher) editForm(f *Form, msg tea.KeyMsg) Outcome {
	field := f.Current()
	switch {
	case key.Matches(msg, keys.Esc):
		f.Editing = false
	case key.Matches(msg, keys.Enter):
		if err := f.commit(field, d.methodNames()); err != nil {
			if text, ok := isInputError(err); ok {
				f.Status = text
				return takeInput()
			}
			return failed("Could not check "+f.Label(field), err)
		}
		f.Status = ""
		if f.Cursor == len(f.Fields)-1 {
			f.Editing = false
		} else {
			f.Cursor++
		}
	case key.Matches(msg, keys.Tab):
		if f.Suggestion != "" {
			if field == FieldTags {
				f.Set(field, autofill.AcceptTags(f.Value(field), f.Suggestion))
			} else {
				f.Set(field, f.Suggestion)
			}
		}
	case key.Matches(msg, keys.Up):
		f.step(1, d.methodNames(), d.now())
	case key.Matches(msg, keys.Down):
		f.step(-1, d.methodNames(), d.now())
	default:
		f.input(field).handleKey(msg)
	}
	d.suggest(f)
	if !f.Editing {
		return Outcome{}
	}
	return takeInput()
}

// suggest recomputes the autofill hint for the field being edited.
func (d *Dispatcher) suggest(f *Form) {
	f.Suggestion = ""
	if !f.Editing {
		return
	}
	field := f.Current()
	value := f.Value(field)
	switch field {
	case FieldDetails:
		f.Suggestion = d.fill.Details(value, d.ledger.Candidates(autofill.Details))
	case FieldMethod, FieldToMethod:
		f.Suggestion = d.fill.Method(value, d.ledger.Candidates(autofill.Methods))
	case FieldTags:
		f.Suggestion = d.fill.Tags(value, d.ledger.Candidates(autofill.Tags))
	}
}

func (d *Dispatcher) saveTx(s *State, p *TxPage) Outcome {
	before := p.Form.clone()
	in, err := p.Form.txInput(d.methodNames())
	if err != nil {
		if text, ok := isInputError(err); ok {
			p.Form.Status = text
			return Outcome{}
		}
		return failed("Could not save transaction", err)
	}
	var action service.Action = service.InsertTx{Tx: in}
	if p.EditID != "" {
		action = service.EditTx{ID: p.EditID, Tx: in}
	}
	if err := d.ledger.Apply(d.ctx, action); err != nil {
		p.Form = before
		return failed("Could not save transaction", err)
	}
	if p.EditID != "" {
		d.goTo(s, PageHome)
		s.Page.(*HomePage).Period = PeriodOf(in.Date)
		s.Status = "Transaction updated"
		return Outcome{}
	}
	p.Form.reset(d.now())
	s.Status = "Transaction saved"
	return Outcome{}
}

func routeSearch(d *Dispatcher, s *State, msg tea.KeyMsg) Outcome {
	p := s.Page.(*SearchPage)
	f := p.Form
	if f.Editing {
		return d.editForm(f, msg)
	}
	if out, ok := d.global(s, msg); ok {
		return out
	}
	if key.Matches(msg, keys.Tab) {
		p.OnResults = !p.OnResults && len(p.Results) > 0
		return Outcome{}
	}
	if p.OnResults {
		switch {
		case key.Matches(msg, keys.Up):
			p.Row = clamp(p.Row-1, 0, max(len(p.Results)-1, 0))
		case key.Matches(msg, keys.Down):
			p.Row = clamp(p.Row+1, 0, max(len(p.Results)-1, 0))
		case key.Matches(msg, keys.Esc):
			p.OnResults = false
		case key.Matches(msg, keys.Edit):
			if p.Row < len(p.Results) {
				d.editTx(s, p.Results[p.Row])
			}
		case key.Matches(msg, keys.Delete):
			if p.Row < len(p.Results) {
				d.confirmDelete(s, p.Results[p.Row], func() error { return d.search(s, p) })
			}
		}
		return Outcome{}
	}
	if out, ok := d.formKeys(f, msg); ok {
		return out
	}
	switch {
	case key.Matches(msg, keys.Save):
		if err := d.search(s, p); err != nil {
			if text, ok := isInputError(err); ok {
				f.Status = text
				return Outcome{}
			}
			return failed("Search failed", err)
		}
	case key.Matches(msg, keys.Clear):
		f.reset(d.now())
		p.Results, p.Row, p.searched = nil, 0, false
		s.Status = ""
	}
	return Outcome{}
}

func (d *Dispatcher) search(s *State, p *SearchPage) error {
	filter, err := p.Form.searchFilter(d.methodNames())
	if err != nil {
		return err
	}
	rows, err := d.ledger.Search(d.ctx, filter)
	if err != nil {
		return err
	}
	p.Results, p.searched = rows, true
	p.Row = clamp(p.Row, 0, max(len(rows)-1, 0))
	if len(rows) == 0 {
		p.OnResults = false
	}
	s.Status = fmt.Sprintf("%d matching transactions", len(rows))
	return nil
}
