package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/abelbrown/pokesearch/internal/logging"
	"github.com/abelbrown/pokesearch/internal/otel"
	"github.com/abelbrown/pokesearch/internal/pokeapi"
	"github.com/abelbrown/pokesearch/internal/search"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller is the slice of *search.Controller the App drives.
type Controller interface {
	State() search.State
	OnQueryChange(text string)
	LoadNextPage()
	LoadPreviousPage()
	Refresh()
	SelectPokemon(p *pokeapi.Pokemon)
}

type screen int

const (
	screenSplash screen = iota // waiting for the first-launch flag
	screenWelcome
	screenHome
	screenDetail
)

func (s screen) String() string {
	switch s {
	case screenSplash:
		return "splash"
	case screenWelcome:
		return "welcome"
	case screenHome:
		return "home"
	case screenDetail:
		return "detail"
	}
	return "unknown"
}

// Deps are the collaborators handed to NewApp.
// IMPORTANT: App never touches storage directly. The two flag commands run
// off the UI goroutine and report back with FirstLaunchChecked/WelcomeDone.
type Deps struct {
	Controller Controller
	Updates    <-chan search.State

	// CheckFirstLaunch returns a Cmd producing FirstLaunchChecked.
	CheckFirstLaunch func() tea.Cmd
	// CompleteWelcome returns a Cmd producing WelcomeDone.
	CompleteWelcome func() tea.Cmd

	Events *otel.Logger
	Ring   *otel.RingBuffer
}

// App is the root Bubble Tea model.
type App struct {
	ctrl             Controller
	updates          <-chan search.State
	checkFirstLaunch func() tea.Cmd
	completeWelcome  func() tea.Cmd
	events           *otel.Logger
	ring             *otel.RingBuffer

	screen    screen
	state     search.State
	rows      []pokeapi.Pokemon // every species' members, flattened for the cursor
	cursor    int
	input     textinput.Model
	spinner   spinner.Model
	statusMsg string
	showDebug bool
	width     int
	height    int
	ready     bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the root model. A nil CheckFirstLaunch skips the welcome
// screen entirely.
func NewApp(d Deps) App {
	ti := textinput.New()
	ti.Placeholder = "pikachu"
	ti.Prompt = "› "
	ti.CharLimit = 64

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StatusBarKey

	ctx, cancel := context.WithCancel(context.Background())

	a := App{
		ctrl:             d.Controller,
		updates:          d.Updates,
		checkFirstLaunch: d.CheckFirstLaunch,
		completeWelcome:  d.CompleteWelcome,
		events:           d.Events,
		ring:             d.Ring,
		screen:           screenSplash,
		input:            ti,
		spinner:          s,
		ctx:              ctx,
		cancel:           cancel,
	}
	if d.Controller != nil {
		a.setState(d.Controller.State())
	}
	if d.CheckFirstLaunch == nil {
		a.screen = screenHome
		a.input.Focus()
	}
	return a
}

// Init starts the spinner, the state listener and the first-launch check.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick, a.listenForState()}
	if a.checkFirstLaunch != nil {
		cmds = append(cmds, a.checkFirstLaunch())
	} else {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		if _, tick := msg.(spinner.TickMsg); !tick {
			a.events.Emit(otel.Event{
				Level: otel.LevelDebug,
				Kind:  otel.KindMsgReceived,
				Comp:  "ui",
				Msg:   fmt.Sprintf("%T", msg),
			})
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(10, msg.Width-12)
		a.ready = true
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case StateChanged:
		a.setState(msg.State)
		return a, a.listenForState()

	case stateStreamClosed:
		return a, nil

	case FirstLaunchChecked:
		if msg.Err != nil {
			logging.Warn("first launch check failed", "err", msg.Err)
			a.events.Error(otel.KindPrefsError, "ui", msg.Err)
			a.statusMsg = "Could not read preferences"
			return a.goTo(screenHome)
		}
		if msg.First {
			return a.goTo(screenWelcome)
		}
		return a.goTo(screenHome)

	case WelcomeDone:
		if msg.Err != nil {
			logging.Warn("saving first launch flag failed", "err", msg.Err)
			a.events.Error(otel.KindPrefsError, "ui", msg.Err)
			a.statusMsg = "Could not save preferences"
		}
		return a.goTo(screenHome)
	}

	return a, nil
}

// goTo switches screens and records the transition.
func (a App) goTo(s screen) (tea.Model, tea.Cmd) {
	if a.screen != s {
		a.events.Emit(otel.Event{
			Level: otel.LevelInfo,
			Kind:  otel.KindScreen,
			Comp:  "ui",
			Msg:   a.screen.String() + " -> " + s.String(),
		})
	}
	a.screen = s
	if s == screenHome {
		return a, a.input.Focus()
	}
	a.input.Blur()
	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.events.Debug(otel.KindKeyPress, "ui", msg.String())
	}

	switch {
	case key.Matches(msg, keys.Quit):
		a.cancel()
		return a, tea.Quit
	case key.Matches(msg, keys.Debug):
		a.showDebug = !a.showDebug
		return a, nil
	}
	if a.showDebug {
		// The overlay swallows everything except its own toggle and quit.
		return a, nil
	}

	switch a.screen {
	case screenWelcome:
		if key.Matches(msg, keys.Open) {
			if a.completeWelcome == nil {
				return a.goTo(screenHome)
			}
			return a, a.completeWelcome()
		}
		return a, nil
	case screenDetail:
		if key.Matches(msg, keys.Back) {
			a.ctrl.SelectPokemon(nil)
			a.setState(a.ctrl.State())
			return a.goTo(screenHome)
		}
		return a, nil
	case screenHome:
		return a.handleHomeKey(msg)
	}
	return a, nil
}

func (a App) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case key.Matches(msg, keys.Down):
		if a.cursor < len(a.rows)-1 {
			a.cursor++
		}
		return a, nil
	case key.Matches(msg, keys.Open):
		if a.cursor < 0 || a.cursor >= len(a.rows) {
			return a, nil
		}
		p := a.rows[a.cursor]
		a.ctrl.SelectPokemon(&p)
		a.setState(a.ctrl.State())
		return a.goTo(screenDetail)
	case key.Matches(msg, keys.NextPage):
		a.ctrl.LoadNextPage()
		return a, nil
	case key.Matches(msg, keys.PrevPage):
		a.ctrl.LoadPreviousPage()
		return a, nil
	case key.Matches(msg, keys.Retry):
		a.ctrl.Refresh()
		return a, nil
	}

	a.statusMsg = ""
	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if v := a.input.Value(); v != before {
		a.ctrl.OnQueryChange(v)
	}
	return a, cmd
}

// setState installs a controller snapshot and rebuilds the selectable rows.
func (a *App) setState(s search.State) {
	if s.Query != a.state.Query || s.CurrentPage != a.state.CurrentPage {
		a.cursor = 0
	}
	a.state = s
	var rows []pokeapi.Pokemon
	for _, sp := range s.Species {
		rows = append(rows, sp.Pokemons...)
	}
	a.rows = rows
	if a.cursor >= len(a.rows) {
		a.cursor = max(0, len(a.rows)-1)
	}
}

// listenForState bridges controller snapshots into the Bubble Tea loop. It
// blocks until a snapshot arrives or the App quits.
func (a App) listenForState() tea.Cmd {
	if a.updates == nil {
		return nil
	}
	updates, ctx := a.updates, a.ctx
	return func() tea.Msg {
		select {
		case s, ok := <-updates:
			if !ok {
				return stateStreamClosed{}
			}
			return StateChanged{State: s}
		case <-ctx.Done():
			return stateStreamClosed{}
		}
	}
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.showDebug {
		return debugOverlay(a.ring, a.width, a.height) + "\n" + debugStatusBar(a.width)
	}

	var body string
	switch a.screen {
	case screenSplash:
		body = a.spinner.View() + " Starting..."
	case screenWelcome:
		body = renderWelcome(a.width, a.height-1)
	case screenHome:
		body = a.renderHome(a.height - 1)
	case screenDetail:
		body = renderDetail(a.state.Selected, a.width)
	}
	return fitHeight(body, a.height-1) + "\n" + a.renderStatusBar()
}

func (a App) renderStatusBar() string {
	var hints []string
	switch a.screen {
	case screenWelcome:
		hints = append(hints, hint(key.NewBinding(key.WithHelp("enter", "start"))))
	case screenHome:
		hints = append(hints,
			hint(keys.Open), hint(keys.PrevPage), hint(keys.NextPage), hint(keys.Retry))
	case screenDetail:
		hints = append(hints, hint(keys.Back))
	}
	hints = append(hints, hint(keys.Debug), hint(keys.Quit))

	left := strings.Join(hints, "  ")
	if a.statusMsg != "" {
		left = ErrorStyle.Render(a.statusMsg) + " " + left
	}
	return StatusBar.Width(a.width).Render(left)
}

// fitHeight pads or clips s to exactly h lines.
func fitHeight(s string, h int) string {
	if h < 1 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// State returns the last snapshot the App rendered (for testing).
func (a App) State() search.State {
	return a.state
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}
