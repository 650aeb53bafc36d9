package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/moneydash/internal/database/repository"
	"github.com/jask/moneydash/internal/money"
)

var tabOrder = []PageKind{PageHome, PageAddTx, PageTransfer, PageChart, PageSummary, PageActivity, PageSearch}

func (a *App) View() string {
	var body string
	switch p := a.state.Page.(type) {
	case *InitialPage:
		body = a.renderInitial()
	case *HomePage:
		body = a.renderHome(p)
	case *TxPage:
		body = a.renderForm(p.Form, p.EditID != "")
	case *ChartPage:
		body = a.renderChart(p)
	case *SummaryPage:
		body = a.renderSummary(p)
	case *ActivityPage:
		body = a.renderActivity(p)
	case *SearchPage:
		body = a.renderSearch(p)
	}
	var out string
	if a.state.Page.Kind() == PageInitial {
		out = body
	} else {
		out = lipgloss.JoinVertical(lipgloss.Left, a.renderTabs(), "", body, "", a.renderFooter())
	}
	if a.state.Popup != nil {
		out = centerOverlay(out, a.renderPopup(a.state.Popup), a.width, a.height)
	}
	lines := splitLines(out)
	for i, line := range lines {
		lines[i] = truncate(line, a.width)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderInitial() string {
	title := titleStyle.Render("moneydash")
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, title, "", dimStyle.Render("press any key to continue · h for help · q to quit")))
}

func (a *App) renderTabs() string {
	current := a.state.Page.Kind()
	tabs := make([]string, 0, len(tabOrder))
	for _, k := range tabOrder {
		if k == current {
			tabs = append(tabs, activeTab.Render(k.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(k.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) renderFooter() string {
	status := a.state.Status
	hint := dimStyle.Render("h help · q quit")
	if status == "" {
		return hint
	}
	return statusStyle.Render(status) + "  " + hint
}

func (a *App) money(cents int64) string {
	return money.Format(cents, a.ui.CurrencySymbol)
}

func (a *App) signed(tx repository.Transaction) string {
	switch tx.Type {
	case repository.TxIncome:
		return incomeStyle.Render("+" + a.money(tx.AmountCents))
	case repository.TxExpense:
		return expenseStyle.Render("-" + a.money(tx.AmountCents))
	default:
		return textStyle.Render("⇄" + a.money(tx.AmountCents))
	}
}

// renderPeriod draws the year, month and optional mode selectors.
func renderPeriod(c cursor) string {
	part := func(f Focus, label string) string {
		if c.Focus == f {
			return focusStyle.Render("‹ " + label + " ›")
		}
		return dimStyle.Render("  " + label + "  ")
	}
	parts := []string{
		part(FocusYears, fmt.Sprint(c.Period.Year)),
		part(FocusMonths, c.Period.Month.String()),
	}
	for _, f := range c.foci {
		if f == FocusMode {
			parts = append(parts, part(FocusMode, c.Mode.String()))
		}
	}
	return strings.Join(parts, " ")
}

func (a *App) txRow(tx repository.Transaction) string {
	method := a.disp.methodName(tx.MethodID)
	if tx.ToMethodID != nil {
		method += " → " + a.disp.methodName(*tx.ToMethodID)
	}
	return fmt.Sprintf("%-10s  %-28s  %-26s  %12s  %s",
		tx.Date.Format(a.ui.DateFormat), truncate(tx.Details, 28), truncate(method, 26),
		a.signed(tx), dimStyle.Render(strings.Join(tx.Tags, ", ")))
}

func (a *App) renderTable(rows []string, selected int, focused bool, empty string) string {
	if len(rows) == 0 {
		return dimStyle.Render(empty)
	}
	// keep the selection visible
	limit := max(a.height-12, 5)
	start := 0
	if selected >= limit {
		start = selected - limit + 1
	}
	end := min(start+limit, len(rows))
	var b strings.Builder
	for i := start; i < end; i++ {
		line := "  " + rows[i]
		if focused && i == selected {
			line = selectedStyle.Render("▶ " + rows[i])
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (a *App) renderHome(p *HomePage) string {
	var balances []string
	for _, b := range p.Balances {
		balances = append(balances, fmt.Sprintf("%s %s", b.Name, a.money(b.BalanceCents)))
	}
	rows := make([]string, len(p.Rows))
	var in, out int64
	for i, tx := range p.Rows {
		rows[i] = a.txRow(tx)
		switch tx.Type {
		case repository.TxIncome:
			in += tx.AmountCents
		case repository.TxExpense:
			out += tx.AmountCents
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		renderPeriod(p.cursor),
		"",
		titleStyle.Render("Balances at month end"),
		strings.Join(balances, dimStyle.Render("  |  ")),
		"",
		fmt.Sprintf("%s  %s  %s", incomeStyle.Render("in "+a.money(in)), expenseStyle.Render("out "+a.money(out)), textStyle.Render("net "+a.money(in-out))),
		"",
		a.renderTable(rows, p.Row, p.Focus == FocusTable, "No transactions this month"),
	)
}

func (a *App) renderForm(f *Form, editing bool) string {
	title := "New transaction"
	switch {
	case editing:
		title = "Edit transaction"
	case f.kind == PageTransfer:
		title = "Transfer between methods"
	case f.kind == PageSearch:
		title = "Search"
	}
	lines := []string{titleStyle.Render(title), ""}
	for i, field := range f.Fields {
		value := f.Value(field)
		label := fmt.Sprintf("  %d. %-8s", i+1, f.Label(field))
		if i == f.Cursor {
			label = focusStyle.Render(fmt.Sprintf("▶ %d. %-8s", i+1, f.Label(field)))
		}
		if i == f.Cursor && f.Editing {
			value = focusStyle.Render(f.input(field).render())
			if f.Suggestion != "" {
				value += dimStyle.Render("  ⇥ " + f.Suggestion)
			}
		}
		lines = append(lines, label+" "+value)
	}
	if f.Status != "" {
		lines = append(lines, "", statusStyle.Render(f.Status))
	}
	return strings.Join(lines, "\n")
}

// animated samples the interpolator for key.
func (a *App) animated(key string, cents int64) int64 {
	return int64(a.lerp.Lerp(key, float64(cents)))
}

func (a *App) renderChart(p *ChartPage) string {
	if len(p.Bars) == 0 {
		return renderPeriod(p.cursor) + "\n\n" + dimStyle.Render("No transaction methods")
	}
	var (
		data   []barchart.BarData
		labels []string
		top    float64
	)
	for i, b := range p.Bars {
		v := a.animated("bal:"+b.MethodID, b.BalanceCents)
		top = max(top, float64(b.BalanceCents)/100)
		style := lipgloss.NewStyle().Foreground(barColors[i%len(barColors)])
		data = append(data, barchart.BarData{
			Label:  truncate(b.Name, 10),
			Values: []barchart.BarValue{{Name: b.Name, Value: max(float64(v)/100, 0), Style: style}},
		})
		labels = append(labels, style.Render("■ ")+fmt.Sprintf("%-24s %12s", truncate(b.Name, 24), a.money(v)))
	}
	chart := barchart.New(max(a.width-4, 20), max(a.height-14, 6), barchart.WithMaxValue(max(top, 1)))
	chart.PushAll(data)
	chart.Draw()
	return lipgloss.JoinVertical(lipgloss.Left,
		renderPeriod(p.cursor),
		"",
		chart.View(),
		"",
		strings.Join(labels, "\n"),
	)
}

func (a *App) renderSummary(p *SummaryPage) string {
	in := a.animated("sum:income", p.Data.IncomeCents)
	out := a.animated("sum:expense", p.Data.ExpenseCents)
	rows := make([]string, len(p.Data.Tags))
	for i, t := range p.Data.Tags {
		rows[i] = fmt.Sprintf("%-24s %14s %14s",
			truncate(t.Tag, 24),
			incomeStyle.Render(a.money(a.animated("tag-in:"+t.Tag, t.IncomeCents))),
			expenseStyle.Render(a.money(a.animated("tag-out:"+t.Tag, t.ExpenseCents))))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		renderPeriod(p.cursor),
		"",
		fmt.Sprintf("%d transactions", p.Data.Count),
		fmt.Sprintf("%s  %s  %s", incomeStyle.Render("income "+a.money(in)), expenseStyle.Render("expense "+a.money(out)), textStyle.Render("net "+a.money(in-out))),
		"",
		titleStyle.Render(fmt.Sprintf("%-24s %14s %14s", "Tag", "Income", "Expense")),
		a.renderTable(rows, p.Row, p.Focus == FocusTable, "No tagged transactions"),
	)
}

func (a *App) renderActivity(p *ActivityPage) string {
	rows := make([]string, len(p.Rows))
	for i, act := range p.Rows {
		rows[i] = fmt.Sprintf("%s %s  %-18s %s",
			act.At.In(a.ui.Location()).Format(a.ui.DateFormat), act.At.In(a.ui.Location()).Format("15:04"),
			dimStyle.Render(act.Kind), act.Description)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		renderPeriod(p.cursor),
		"",
		a.renderTable(rows, p.Row, p.Focus == FocusTable, "Nothing happened this month"),
	)
}

func (a *App) renderSearch(p *SearchPage) string {
	parts := []string{a.renderForm(p.Form, false), ""}
	if p.searched {
		rows := make([]string, len(p.Results))
		for i, tx := range p.Results {
			rows[i] = a.txRow(tx)
		}
		parts = append(parts, a.renderTable(rows, p.Row, p.OnResults, "No matching transactions"))
	} else {
		parts = append(parts, dimStyle.Render("s to search · tab to browse results"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderPopup(p *Popup) string {
	lines := []string{titleStyle.Render(p.Title), ""}
	switch p.Kind {
	case PopupInfo:
		window := max(a.height-10, 3)
		end := min(p.Index+window, len(p.Lines))
		lines = append(lines, p.Lines[min(p.Index, end):end]...)
		lines = append(lines, "", dimStyle.Render("enter close"))
	case PopupChoice, PopupReposition:
		for i, item := range p.Items {
			switch {
			case i == p.Index && p.Held:
				lines = append(lines, focusStyle.Render("≡ "+item))
			case i == p.Index:
				lines = append(lines, focusStyle.Render("▶ "+item))
			default:
				lines = append(lines, "  "+item)
			}
		}
		hint := "enter select · esc cancel"
		if p.Kind == PopupReposition {
			hint = "enter pick up / drop · esc cancel"
		}
		lines = append(lines, "", dimStyle.Render(hint))
	case PopupInput:
		lines = append(lines, focusStyle.Render(p.Input.render()), "", dimStyle.Render("enter save · esc cancel"))
	case PopupInputReposition:
		for i, item := range p.Items {
			if i == p.Index {
				lines = append(lines, focusStyle.Render("▶ "+p.Input.render()))
				continue
			}
			lines = append(lines, "  "+item)
		}
		lines = append(lines, "", dimStyle.Render("type a name · ↑↓ place it · enter save · esc cancel"))
	}
	if p.Status != "" {
		lines = append(lines, statusStyle.Render(p.Status))
	}
	return popupStyle.Render(strings.Join(lines, "\n"))
}
