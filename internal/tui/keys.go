package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Home     key.Binding
	AddTx    key.Binding
	Transfer key.Binding
	Chart    key.Binding
	Summary  key.Binding
	Activity key.Binding
	Search   key.Binding

	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	Esc       key.Binding
	Tab       key.Binding
	Backspace key.Binding

	Save       key.Binding
	Clear      key.Binding
	Edit       key.Binding
	Delete     key.Binding
	NewMethod  key.Binding
	Reposition key.Binding
	Rename     key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "help")),
	Home:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "home")),
	AddTx:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add transaction")),
	Transfer: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "transfer")),
	Chart:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "chart")),
	Summary:  key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "summary")),
	Activity: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "activity")),
	Search:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "search")),

	Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
	Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
	Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
	Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Esc:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "accept suggestion")),
	Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete")),

	Save:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear fields")),
	Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit transaction")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete transaction")),
	NewMethod:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new method")),
	Reposition: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "reorder methods")),
	Rename:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "rename method")),
}

// navRule is one row of the page transition table.
type navRule struct {
	binding key.Binding
	to      PageKind
	from    []PageKind
}

var browsing = []PageKind{PageHome, PageChart, PageSummary, PageActivity}

func navRules() []navRule {
	return []navRule{
		{binding: keys.Home, to: PageHome, from: []PageKind{PageHome, PageChart, PageSummary, PageActivity, PageAddTx, PageTransfer, PageSearch}},
		{binding: keys.AddTx, to: PageAddTx, from: browsing},
		{binding: keys.Transfer, to: PageTransfer, from: browsing},
		{binding: keys.Chart, to: PageChart, from: []PageKind{PageHome, PageSummary, PageActivity}},
		{binding: keys.Summary, to: PageSummary, from: []PageKind{PageHome, PageChart, PageActivity}},
		{binding: keys.Activity, to: PageActivity, from: []PageKind{PageHome, PageChart, PageSummary}},
		{binding: keys.Search, to: PageSearch, from: browsing},
	}
}

// navTarget returns the page msg leads to from page, if any.
func navTarget(from PageKind, msg tea.KeyMsg) (PageKind, bool) {
	for _, rule := range navRules() {
		if !key.Matches(msg, rule.binding) {
			continue
		}
		for _, k := range rule.from {
			if k == from {
				return rule.to, true
			}
		}
	}
	return 0, false
}

// pageBindings lists the page-local keys shown in help.
func pageBindings(kind PageKind) []key.Binding {
	switch kind {
	case PageInitial:
		return []key.Binding{keys.Enter}
	case PageHome:
		return []key.Binding{keys.Up, keys.Down, keys.Left, keys.Right, keys.Edit, keys.Delete, keys.NewMethod, keys.Reposition, keys.Rename}
	case PageAddTx, PageTransfer:
		return []key.Binding{keys.Up, keys.Down, keys.Enter, keys.Esc, keys.Tab, keys.Save, keys.Clear}
	case PageSearch:
		return []key.Binding{keys.Up, keys.Down, keys.Enter, keys.Tab, keys.Save, keys.Clear, keys.Edit, keys.Delete}
	default:
		return []key.Binding{keys.Up, keys.Down, keys.Left, keys.Right}
	}
}

// helpLines renders the keys available on a page.
func helpLines(kind PageKind) []string {
	var lines []string
	add := func(b key.Binding) {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("%-10s %s", h.Key, h.Desc))
	}
	for _, rule := range navRules() {
		for _, k := range rule.from {
			if k == kind {
				add(rule.binding)
				break
			}
		}
	}
	for _, b := range pageBindings(kind) {
		add(b)
	}
	switch kind {
	case PageAddTx, PageTransfer, PageSearch:
		lines = append(lines, fmt.Sprintf("%-10s %s", "1-7", "edit field by number"))
	}
	if kind == PageInitial {
		lines = append(lines, fmt.Sprintf("%-10s %s", "any key", "continue to home"))
	}
	add(keys.Help)
	add(keys.Quit)
	return lines
}
