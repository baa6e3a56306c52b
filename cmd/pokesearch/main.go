// Command pokesearch is a terminal Pokémon species browser backed by the
// PokeAPI GraphQL endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abelbrown/pokesearch/internal/config"
	"github.com/abelbrown/pokesearch/internal/firstlaunch"
	"github.com/abelbrown/pokesearch/internal/logging"
	"github.com/abelbrown/pokesearch/internal/otel"
	"github.com/abelbrown/pokesearch/internal/pokeapi"
	"github.com/abelbrown/pokesearch/internal/search"
	"github.com/abelbrown/pokesearch/internal/store"
	"github.com/abelbrown/pokesearch/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// prefsTimeout bounds a single preference read or write.
const prefsTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("Invalid config: %v", err)
	}

	if err := logging.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	// Event log: JSONL on disk plus an in-memory ring for the debug overlay.
	events, err := otel.OpenFile(config.EventsPath())
	if err != nil {
		logging.Warn("event log unavailable", "error", err)
		events = otel.NewNullLogger()
	}
	defer events.Close()
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	events.SetRingBuffer(ring)

	logging.Info("pokesearch starting", "version", logging.Version)
	events.Info(otel.KindStartup, "main", "pokesearch "+logging.Version)

	prefsPath := cfg.PrefsPath()
	st, err := store.Open(prefsPath)
	if err != nil {
		events.Error(otel.KindError, "main", err)
		fatal("Failed to open preferences: %v", err)
	}
	defer st.Close()
	logging.Info("Preferences opened", "path", prefsPath)

	gate := firstlaunch.New(st, "")

	client := pokeapi.NewClient(cfg.API.Endpoint, cfg.Timeout())
	client.SetRateLimit(cfg.RateLimit(), cfg.API.RateLimitBurst)
	client.SetEventLog(events)
	logging.Info("API client ready", "endpoint", client.Endpoint(), "timeout", cfg.Timeout())

	prefsLog := logging.WithPrefix("prefs")

	ctrl := search.New(client,
		search.WithPageSize(cfg.Search.PageSize),
		search.WithDebounce(cfg.Debounce()),
		search.WithEventLog(events),
	)
	defer ctrl.Close()

	updates, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	app := ui.NewApp(ui.Deps{
		Controller: ctrl,
		Updates:    updates,
		CheckFirstLaunch: func() tea.Cmd {
			return func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), prefsTimeout)
				defer cancel()
				first, err := gate.IsFirstLaunch(ctx)
				if err == nil {
					prefsLog.Debug("first launch read", "first", first)
					events.Emit(otel.Event{
						Level: otel.LevelDebug,
						Kind:  otel.KindPrefsRead,
						Comp:  "firstlaunch",
						Extra: map[string]any{"first_launch": first},
					})
				}
				return ui.FirstLaunchChecked{First: first, Err: err}
			}
		},
		CompleteWelcome: func() tea.Cmd {
			return func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), prefsTimeout)
				defer cancel()
				err := gate.MarkComplete(ctx)
				if err == nil {
					prefsLog.Info("welcome completed")
					events.Debug(otel.KindPrefsWrite, "firstlaunch", "welcome completed")
				}
				return ui.WelcomeDone{Err: err}
			}
		},
		Events: events,
		Ring:   ring,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())

	logging.Info("Starting UI")
	if _, err := p.Run(); err != nil {
		logging.Error("Application error", "error", err)
		events.Error(otel.KindError, "main", err)
		fatal("Error: %v", err)
	}

	events.Info(otel.KindShutdown, "main", "exiting normally")
	logging.Info("pokesearch exiting normally")
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
