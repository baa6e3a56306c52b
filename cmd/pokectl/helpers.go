package main

import (
	"fmt"
	"os"

	"github.com/abelbrown/pokesearch/internal/config"
	"github.com/abelbrown/pokesearch/internal/store"
)

// loadConfig reads ~/.pokesearch/config.json plus env overrides or exits.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid config: %v", err)
	}
	return cfg
}

// openPrefs opens the preference store or exits.
func openPrefs(cfg *config.Config) *store.Store {
	st, err := store.Open(cfg.PrefsPath())
	if err != nil {
		fatal("open preferences: %v", err)
	}
	return st
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
