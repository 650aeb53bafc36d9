package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSky      lipgloss.Color = "#89dceb"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorBase     lipgloss.Color = "#1e1e2e"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorIncome  = colorGreen
	colorExpense = colorRed
	colorWarning = colorYellow
)

// barColors cycle across chart bars in method order.
var barColors = []lipgloss.Color{colorBlue, colorGreen, colorPeach, colorTeal, colorMauve, colorSky, colorYellow, colorPink}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	tabStyle      = lipgloss.NewStyle().Foreground(colorSubtext0).Padding(0, 1)
	activeTab     = lipgloss.NewStyle().Foreground(colorBase).Background(colorAccent).Bold(true).Padding(0, 1)
	focusStyle    = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(colorOverlay0)
	textStyle     = lipgloss.NewStyle().Foreground(colorText)
	incomeStyle   = lipgloss.NewStyle().Foreground(colorIncome)
	expenseStyle  = lipgloss.NewStyle().Foreground(colorExpense)
	statusStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	selectedStyle = lipgloss.NewStyle().Background(colorSurface1).Foreground(colorText)
	popupStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1)
)
