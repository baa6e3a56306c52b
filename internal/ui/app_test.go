package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/abelbrown/pokesearch/internal/pokeapi"
	"github.com/abelbrown/pokesearch/internal/search"
	tea "github.com/charmbracelet/bubbletea"
)

// fakeController records every call the App makes.
type fakeController struct {
	state   search.State
	queries []string
	next    int
	prev    int
	refresh int
}

func (f *fakeController) State() search.State { return f.state }
func (f *fakeController) OnQueryChange(text string) { f.queries = append(f.queries, text) }
func (f *fakeController) LoadNextPage() { f.next++ }
func (f *fakeController) LoadPreviousPage() { f.prev++ }
func (f *fakeController) Refresh() { f.refresh++ }
func (f *fakeController) SelectPokemon(p *pokeapi.Pokemon) {
	if p == nil {
		f.state.Selected = nil
		return
	}
	cp := *p
	f.state.Selected = &cp
}

func pikachuState() search.State {
	yellow := "yellow"
	return search.State{
		Query:       "pi",
		HasSearched: true,
		PageSize:    20,
		TotalCount:  45,
		Species: []pokeapi.Species{
			{
				ID: 25, Name: "pikachu", CaptureRate: 190, ColorName: &yellow,
				Pokemons: []pokeapi.Pokemon{
					{ID: 25, Name: "pikachu", Abilities: []string{"static", "lightning-rod"}},
					{ID: 10080, Name: "pikachu-rock-star"},
				},
			},
			{
				ID: 172, Name: "pichu", CaptureRate: 190,
				Pokemons: []pokeapi.Pokemon{{ID: 172, Name: "pichu", Abilities: []string{"static"}}},
			},
		},
	}
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	app, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return app, cmd
}

func keyMsg(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// newHomeApp builds an App already past the first-launch check and sized.
func newHomeApp(t *testing.T, ctrl *fakeController) App {
	t.Helper()
	a := NewApp(Deps{Controller: ctrl})
	a, _ = update(t, a, tea.WindowSizeMsg{Width: 100, Height: 40})
	return a
}

func TestNewAppWithoutFirstLaunchCheckStartsHome(t *testing.T) {
	a := NewApp(Deps{Controller: &fakeController{}})
	if a.screen != screenHome {
		t.Errorf("screen = %v, want home", a.screen)
	}
	if cmd := a.Init(); cmd == nil {
		t.Error("Init should return a command")
	}
}

func TestAppInitRunsFirstLaunchCheck(t *testing.T) {
	called := false
	a := NewApp(Deps{
		Controller: &fakeController{},
		CheckFirstLaunch: func() tea.Cmd {
			called = true
			return func() tea.Msg { return FirstLaunchChecked{First: true} }
		},
	})
	if a.screen != screenSplash {
		t.Errorf("screen = %v, want splash", a.screen)
	}
	if cmd := a.Init(); cmd == nil {
		t.Fatal("Init should return a command")
	}
	if !called {
		t.Error("Init should call CheckFirstLaunch")
	}
}

func TestFirstLaunchFlow(t *testing.T) {
	completed := false
	a := NewApp(Deps{
		Controller:       &fakeController{},
		CheckFirstLaunch: func() tea.Cmd { return nil },
		CompleteWelcome: func() tea.Cmd {
			completed = true
			return func() tea.Msg { return WelcomeDone{} }
		},
	})
	a, _ = update(t, a, tea.WindowSizeMsg{Width: 100, Height: 40})

	a, _ = update(t, a, FirstLaunchChecked{First: true})
	if a.screen != screenWelcome {
		t.Fatalf("screen = %v, want welcome", a.screen)
	}
	if v := a.View(); !strings.Contains(v, welcomeTitle) || !strings.Contains(v, "Start") {
		t.Errorf("welcome view missing title or button:\n%s", v)
	}

	// Typing on the welcome screen goes nowhere.
	a, _ = update(t, a, runes("x"))
	if a.input.Value() != "" {
		t.Errorf("input = %q, want empty", a.input.Value())
	}

	a, cmd := update(t, a, keyMsg(tea.KeyEnter))
	if !completed || cmd == nil {
		t.Fatal("enter on welcome should run CompleteWelcome")
	}
	a, _ = update(t, a, cmd())
	if a.screen != screenHome {
		t.Errorf("screen = %v, want home", a.screen)
	}
	if a.statusMsg != "" {
		t.Errorf("statusMsg = %q, want empty", a.statusMsg)
	}
}

func TestReturningUserSkipsWelcome(t *testing.T) {
	a := NewApp(Deps{Controller: &fakeController{}, CheckFirstLaunch: func() tea.Cmd { return nil }})
	a, _ = update(t, a, FirstLaunchChecked{First: false})
	if a.screen != screenHome {
		t.Errorf("screen = %v, want home", a.screen)
	}
}

func TestFirstLaunchErrorsFallBackToHome(t *testing.T) {
	boom := errors.New("disk full")
	for _, msg := range []tea.Msg{FirstLaunchChecked{Err: boom}, WelcomeDone{Err: boom}} {
		a := NewApp(Deps{Controller: &fakeController{}, CheckFirstLaunch: func() tea.Cmd { return nil }})
		a, _ = update(t, a, msg)
		if a.screen != screenHome {
			t.Errorf("%T: screen = %v, want home", msg, a.screen)
		}
		if a.statusMsg == "" {
			t.Errorf("%T: statusMsg should be set", msg)
		}
	}
}

func TestTypingForwardsQuery(t *testing.T) {
	ctrl := &fakeController{}
	a := newHomeApp(t, ctrl)

	a, _ = update(t, a, runes("p"))
	a, _ = update(t, a, runes("i"))
	a, _ = update(t, a, keyMsg(tea.KeyBackspace))

	want := []string{"p", "pi", "p"}
	if len(ctrl.queries) != len(want) {
		t.Fatalf("queries = %q, want %q", ctrl.queries, want)
	}
	for i := range want {
		if ctrl.queries[i] != want[i] {
			t.Errorf("queries[%d] = %q, want %q", i, ctrl.queries[i], want[i])
		}
	}
	if a.screen != screenHome {
		t.Errorf("backspace on home should not navigate, screen = %v", a.screen)
	}
}

func TestCursorMovesAcrossSpecies(t *testing.T) {
	a := newHomeApp(t, &fakeController{})
	a, _ = update(t, a, StateChanged{State: pikachuState()})

	if len(a.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(a.rows))
	}

	a, _ = update(t, a, keyMsg(tea.KeyUp))
	if a.Cursor() != 0 {
		t.Errorf("cursor should stay at 0, got %d", a.Cursor())
	}
	for i := 0; i < 5; i++ {
		a, _ = update(t, a, keyMsg(tea.KeyDown))
	}
	if a.Cursor() != 2 {
		t.Errorf("cursor should stop at 2, got %d", a.Cursor())
	}
	a, _ = update(t, a, keyMsg(tea.KeyUp))
	if a.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", a.Cursor())
	}
}

func TestCursorResetsOnNewPage(t *testing.T) {
	a := newHomeApp(t, &fakeController{})
	a, _ = update(t, a, StateChanged{State: pikachuState()})
	a, _ = update(t, a, keyMsg(tea.KeyDown))
	a, _ = update(t, a, keyMsg(tea.KeyDown))

	next := pikachuState()
	next.CurrentPage = 1
	a, _ = update(t, a, StateChanged{State: next})
	if a.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0 after page change", a.Cursor())
	}

	a, _ = update(t, a, keyMsg(tea.KeyDown))
	a, _ = update(t, a, keyMsg(tea.KeyDown))
	shrunk := next
	shrunk.Species = shrunk.Species[:1]
	a, _ = update(t, a, StateChanged{State: shrunk})
	if a.Cursor() != 1 {
		t.Errorf("cursor = %d, want clamped to 1", a.Cursor())
	}
}

func TestOpenAndBack(t *testing.T) {
	ctrl := &fakeController{state: pikachuState()}
	a := newHomeApp(t, ctrl)

	a, _ = update(t, a, keyMsg(tea.KeyEnter))
	if a.screen != screenDetail {
		t.Fatalf("screen = %v, want detail", a.screen)
	}
	if ctrl.state.Selected == nil || ctrl.state.Selected.Name != "pikachu" {
		t.Fatalf("selected = %+v, want pikachu", ctrl.state.Selected)
	}

	v := a.View()
	for _, want := range []string{"Pikachu", "Abilities", "static", "lightning-rod", "Back"} {
		if !strings.Contains(v, want) {
			t.Errorf("detail view missing %q:\n%s", want, v)
		}
	}

	// Typing in detail does not reach the search box.
	a, _ = update(t, a, runes("z"))
	if len(ctrl.queries) != 0 {
		t.Errorf("queries = %q, want none", ctrl.queries)
	}

	a, _ = update(t, a, keyMsg(tea.KeyEsc))
	if a.screen != screenHome {
		t.Errorf("screen = %v, want home", a.screen)
	}
	if ctrl.state.Selected != nil {
		t.Error("back should clear the selection")
	}
}

func TestOpenWithNoRowsIsNoop(t *testing.T) {
	ctrl := &fakeController{}
	a := newHomeApp(t, ctrl)
	a, _ = update(t, a, keyMsg(tea.KeyEnter))
	if a.screen != screenHome {
		t.Errorf("screen = %v, want home", a.screen)
	}
	if ctrl.state.Selected != nil {
		t.Error("nothing should be selected")
	}
}

func TestDetailWithoutAbilities(t *testing.T) {
	ctrl := &fakeController{state: pikachuState()}
	a := newHomeApp(t, ctrl)
	a, _ = update(t, a, keyMsg(tea.KeyDown))
	a, _ = update(t, a, keyMsg(tea.KeyEnter))

	if v := a.View(); !strings.Contains(v, noAbilitiesText) {
		t.Errorf("detail view should say %q:\n%s", noAbilitiesText, v)
	}

	// A search completing in the background clears the selection.
	cleared := pikachuState()
	a, _ = update(t, a, StateChanged{State: cleared})
	if v := a.View(); !strings.Contains(v, noSelectionText) {
		t.Errorf("detail view should say %q:\n%s", noSelectionText, v)
	}
}

func TestPagingAndRetryKeys(t *testing.T) {
	ctrl := &fakeController{}
	a := newHomeApp(t, ctrl)

	a, _ = update(t, a, keyMsg(tea.KeyPgDown))
	a, _ = update(t, a, keyMsg(tea.KeyCtrlN))
	a, _ = update(t, a, keyMsg(tea.KeyPgUp))
	a, _ = update(t, a, keyMsg(tea.KeyCtrlR))
	_ = a

	if ctrl.next != 2 || ctrl.prev != 1 || ctrl.refresh != 1 {
		t.Errorf("next=%d prev=%d refresh=%d, want 2 1 1", ctrl.next, ctrl.prev, ctrl.refresh)
	}
	if len(ctrl.queries) != 0 {
		t.Errorf("control keys leaked into the query: %q", ctrl.queries)
	}
}

func TestAppQuit(t *testing.T) {
	a := newHomeApp(t, &fakeController{})
	_, cmd := update(t, a, keyMsg(tea.KeyCtrlC))
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should return tea.Quit")
	}
	if a.ctx.Err() == nil {
		t.Error("quit should cancel the listener context")
	}
}

func TestDebugToggleSwallowsKeys(t *testing.T) {
	ctrl := &fakeController{}
	a := newHomeApp(t, ctrl)

	a, _ = update(t, a, keyMsg(tea.KeyCtrlD))
	if !a.showDebug {
		t.Fatal("ctrl+d should open the debug overlay")
	}
	a, _ = update(t, a, runes("x"))
	if len(ctrl.queries) != 0 {
		t.Errorf("typing under the overlay reached the controller: %q", ctrl.queries)
	}
	if v := a.View(); !strings.Contains(v, "[DEBUG]") {
		t.Errorf("view should show the debug status bar:\n%s", v)
	}
	a, _ = update(t, a, keyMsg(tea.KeyCtrlD))
	if a.showDebug {
		t.Error("second ctrl+d should close the overlay")
	}
}

func TestListenForState(t *testing.T) {
	ch := make(chan search.State, 1)
	a := NewApp(Deps{Controller: &fakeController{}, Updates: ch})

	ch <- pikachuState()
	msg := a.listenForState()()
	sc, ok := msg.(StateChanged)
	if !ok {
		t.Fatalf("msg = %T, want StateChanged", msg)
	}
	if sc.State.Query != "pi" {
		t.Errorf("query = %q, want pi", sc.State.Query)
	}

	a, cmd := update(t, a, sc)
	if cmd == nil {
		t.Error("StateChanged should re-arm the listener")
	}
	if len(a.State().Species) != 2 {
		t.Errorf("species = %d, want 2", len(a.State().Species))
	}

	close(ch)
	if _, ok := a.listenForState()().(stateStreamClosed); !ok {
		t.Error("closed channel should yield stateStreamClosed")
	}
}

func TestListenForStateStopsOnQuit(t *testing.T) {
	ch := make(chan search.State)
	a := NewApp(Deps{Controller: &fakeController{}, Updates: ch})
	cmd := a.listenForState()
	a.cancel()
	if _, ok := cmd().(stateStreamClosed); !ok {
		t.Error("cancelled listener should yield stateStreamClosed")
	}
}

func TestListenForStateNilUpdates(t *testing.T) {
	a := NewApp(Deps{Controller: &fakeController{}})
	if cmd := a.listenForState(); cmd != nil {
		t.Error("listener without an updates channel should be nil")
	}
}

func TestAppViewNotReady(t *testing.T) {
	a := NewApp(Deps{Controller: &fakeController{}})
	if v := a.View(); v != "Loading..." {
		t.Errorf("View() = %q, want Loading...", v)
	}
}

func TestHomeView(t *testing.T) {
	tests := []struct {
		name    string
		state   func() search.State
		want    []string
		notWant []string
	}{
		{
			name:    "initial",
			state:   func() search.State { return search.State{PageSize: 20, Species: []pokeapi.Species{}} },
			want:    []string{homeTitle, searchLabel, searchHint, "Page 1 of 1"},
			notWant: []string{noResultsText, loadingText},
		},
		{
			name: "loading",
			state: func() search.State {
				s := pikachuState()
				s.IsLoading = true
				return s
			},
			want:    []string{loadingText},
			notWant: []string{"Page 1 of", "Pikachu"},
		},
		{
			name: "error",
			state: func() search.State {
				s := pikachuState()
				s.ErrorMessage = search.ErrorMessage
				return s
			},
			want:    []string{search.ErrorMessage, "ctrl+r"},
			notWant: []string{"Page 1 of"},
		},
		{
			name: "no results",
			state: func() search.State {
				return search.State{Query: "zzz", HasSearched: true, PageSize: 20, Species: []pokeapi.Species{}}
			},
			want: []string{noResultsText, "Page 1 of 1"},
		},
		{
			name:  "results",
			state: pikachuState,
			want:  []string{"Pikachu", "Capture rate: 190", "Pokémon", "Pikachu-rock-star", "Pichu", "Page 1 of 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newHomeApp(t, &fakeController{})
			a, _ = update(t, a, StateChanged{State: tt.state()})
			v := a.View()
			for _, w := range tt.want {
				if !strings.Contains(v, w) {
					t.Errorf("view missing %q:\n%s", w, v)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(v, w) {
					t.Errorf("view should not contain %q:\n%s", w, v)
				}
			}
		})
	}
}

func TestViewFitsTerminalHeight(t *testing.T) {
	s := pikachuState()
	for i := 0; i < 20; i++ {
		s.Species = append(s.Species, pikachuState().Species...)
	}
	a := newHomeApp(t, &fakeController{})
	a, _ = update(t, a, tea.WindowSizeMsg{Width: 80, Height: 24})
	a, _ = update(t, a, StateChanged{State: s})
	for i := 0; i < 50; i++ {
		a, _ = update(t, a, keyMsg(tea.KeyDown))
	}
	if got := strings.Count(a.View(), "\n") + 1; got != 24 {
		t.Errorf("view has %d lines, want 24", got)
	}
}
