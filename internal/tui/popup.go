package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// PopupKind is the behaviour of an overlay.
type PopupKind int

const (
	PopupNone PopupKind = iota
	PopupInfo
	PopupChoice
	PopupReposition
	PopupInput
	PopupInputReposition
)

func (k PopupKind) String() string {
	switch k {
	case PopupInfo:
		return "Info"
	case PopupChoice:
		return "Choice"
	case PopupReposition:
		return "Reposition"
	case PopupInput:
		return "Input"
	case PopupInputReposition:
		return "InputReposition"
	default:
		return "None"
	}
}

// Popup is a modal overlay. While one is open it receives every key.
//
// Info scrolls Lines. Choice picks one of Items. Reposition reorders Items:
// Enter holds the selected item, arrows carry it, Enter again commits.
// Input edits Input. InputReposition edits Input while placing it among
// Items; the slot at Index is the new entry.
type Popup struct {
	Kind   PopupKind
	Title  string
	Lines  []string
	Items  []string
	Index  int
	Held   bool
	Input  textField
	Status string

	keys   []string
	commit func(p *Popup) (*Popup, error)
}

// NewInfo shows messages until dismissed.
func NewInfo(title string, lines ...string) *Popup {
	return &Popup{Kind: PopupInfo, Title: title, Lines: lines}
}

// NewChoice asks the user to pick an option. commit receives the index and
// may return a follow-up popup.
func NewChoice(title string, options []string, commit func(index int) (*Popup, error)) *Popup {
	return &Popup{
		Kind:  PopupChoice,
		Title: title,
		Items: slices.Clone(options),
		commit: func(p *Popup) (*Popup, error) {
			return commit(p.Index)
		},
	}
}

// NewReposition reorders items. keys travel with their items and commit
// receives them in the final order.
func NewReposition(title string, items, keys []string, commit func(order []string) error) *Popup {
	return &Popup{
		Kind:  PopupReposition,
		Title: title,
		Items: slices.Clone(items),
		keys:  slices.Clone(keys),
		commit: func(p *Popup) (*Popup, error) {
			return nil, commit(slices.Clone(p.keys))
		},
	}
}

// NewInput edits a single line of text.
func NewInput(title, initial string, commit func(text string) (*Popup, error)) *Popup {
	p := &Popup{Kind: PopupInput, Title: title}
	p.Input.set(initial)
	p.commit = func(p *Popup) (*Popup, error) {
		return commit(strings.TrimSpace(p.Input.Value))
	}
	return p
}

// NewInputReposition edits a new entry and its position among items. The
// entry starts at the end.
func NewInputReposition(title string, items []string, commit func(text string, position int) error) *Popup {
	p := &Popup{
		Kind:  PopupInputReposition,
		Title: title,
		Items: append(slices.Clone(items), ""),
		Index: len(items),
	}
	p.commit = func(p *Popup) (*Popup, error) {
		return nil, commit(strings.TrimSpace(p.Input.Value), p.Index)
	}
	return p
}

func (p *Popup) takesText() bool {
	return p.Kind == PopupInput || p.Kind == PopupInputReposition
}

func (p *Popup) size() int {
	if p.Kind == PopupInfo {
		return len(p.Lines)
	}
	return len(p.Items)
}

// Move steps the selection by delta, clamped to the list. A held or placed
// item is carried along.
func (p *Popup) Move(delta int) {
	n := p.size()
	if n == 0 {
		p.Index = 0
		return
	}
	next := clamp(p.Index+delta, 0, n-1)
	carry := (p.Kind == PopupReposition && p.Held) || p.Kind == PopupInputReposition
	if carry && next != p.Index {
		p.Items[p.Index], p.Items[next] = p.Items[next], p.Items[p.Index]
		if len(p.keys) == n {
			p.keys[p.Index], p.keys[next] = p.keys[next], p.keys[p.Index]
		}
	}
	p.Index = next
}

// inputError is a user mistake inside a popup. It is shown in place and the
// popup stays open.
type inputError struct{ msg string }

func (e *inputError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &inputError{msg: fmt.Sprintf(format, args...)}
}

func isInputError(err error) (string, bool) {
	var ie *inputError
	if errors.As(err, &ie) {
		return ie.msg, true
	}
	return "", false
}

// textField bundles a string value with its cursor position, in runes.
type textField struct {
	Value  string
	Cursor int
}

// handleKey edits the field. Returns true if the key was consumed.
func (f *textField) handleKey(msg tea.KeyMsg) bool {
	r := []rune(f.Value)
	f.Cursor = clamp(f.Cursor, 0, len(r))
	switch msg.Type {
	case tea.KeyBackspace:
		if f.Cursor > 0 {
			r = append(r[:f.Cursor-1], r[f.Cursor:]...)
			f.Cursor--
			f.Value = string(r)
		}
	case tea.KeyDelete:
		if f.Cursor < len(r) {
			f.Value = string(append(r[:f.Cursor], r[f.Cursor+1:]...))
		}
	case tea.KeyLeft:
		f.Cursor = max(f.Cursor-1, 0)
	case tea.KeyRight:
		f.Cursor = min(f.Cursor+1, len(r))
	case tea.KeyHome, tea.KeyCtrlA:
		f.Cursor = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		f.Cursor = len(r)
	case tea.KeySpace:
		f.insert([]rune{' '})
	case tea.KeyRunes:
		if msg.Paste {
			f.insert(printable(msg.Runes))
		} else {
			f.insert(msg.Runes)
		}
	default:
		return false
	}
	return true
}

func (f *textField) insert(in []rune) {
	r := []rune(f.Value)
	f.Cursor = clamp(f.Cursor, 0, len(r))
	out := make([]rune, 0, len(r)+len(in))
	out = append(out, r[:f.Cursor]...)
	out = append(out, in...)
	out = append(out, r[f.Cursor:]...)
	f.Value = string(out)
	f.Cursor += len(in)
}

// render returns the text with a cursor marker at the current position.
func (f *textField) render() string {
	r := []rune(f.Value)
	c := clamp(f.Cursor, 0, len(r))
	return string(r[:c]) + "▏" + string(r[c:])
}

// set replaces the value and places the cursor at the end.
func (f *textField) set(value string) {
	f.Value = value
	f.Cursor = len([]rune(value))
}

func printable(in []rune) []rune {
	out := in[:0:0]
	for _, r := range in {
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		if r >= ' ' {
			out = append(out, r)
		}
	}
	return out
}
