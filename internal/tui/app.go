package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jask/moneydash/internal/config"
	"github.com/jask/moneydash/internal/lerp"
)

const frameInterval = time.Second / 30

type frameMsg struct{}

// App is the bubbletea model. Key handling lives in Dispatcher; App only
// owns the terminal size and the animation clock.
type App struct {
	disp      *Dispatcher
	state     *State
	lerp      *lerp.Interpolator
	ui        config.UIConfig
	log       *log.Logger
	width     int
	height    int
	animating bool
}

func New(ctx context.Context, ledger Ledger, ui config.UIConfig, logger *log.Logger) *App {
	ip := lerp.New(0, lerp.WithDuration(ui.AnimationDuration()))
	loc := ui.Location()
	disp := NewDispatcher(ctx, ledger, ip, logger, WithClock(func() time.Time { return time.Now().In(loc) }))
	return &App{
		disp:   disp,
		state:  NewState(),
		lerp:   ip,
		ui:     ui,
		log:    disp.log,
		width:  100,
		height: 30,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("moneydash")
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		out := a.disp.Dispatch(a.state, msg)
		if out.Kind == OutcomeQuit {
			a.log.Info("quit", "page", a.state.Page.Kind())
			return a, tea.Quit
		}
		return a, a.animate(a.state.Page.Kind().animated())
	case frameMsg:
		a.animating = false
		return a, a.animate(a.lerp.HasActive())
	}
	return a, nil
}

// animate schedules the next frame while values are still moving. View
// samples the interpolator, so the first frame after a key is always drawn.
func (a *App) animate(want bool) tea.Cmd {
	if a.animating || !want {
		return nil
	}
	a.animating = true
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// State exposes the dispatcher state, mostly for tests.
func (a *App) State() *State {
	return a.state
}
