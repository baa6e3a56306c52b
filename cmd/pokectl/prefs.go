package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abelbrown/pokesearch/internal/firstlaunch"
	"github.com/abelbrown/pokesearch/internal/store"
)

func runPrefs() {
	fs := flag.NewFlagSet("prefs", flag.ExitOnError)
	resetWelcome := fs.Bool("reset-welcome", false, "Show the welcome screen again on next launch")
	skipWelcome := fs.Bool("skip-welcome", false, "Mark the welcome screen as completed")
	deleteKey := fs.String("delete", "", "Remove a stored key")
	fs.Parse(os.Args[1:])

	actions := 0
	for _, set := range []bool{*resetWelcome, *skipWelcome, *deleteKey != ""} {
		if set {
			actions++
		}
	}
	if actions > 1 {
		fatal("--reset-welcome, --skip-welcome and --delete are mutually exclusive")
	}

	cfg := loadConfig()
	st := openPrefs(cfg)
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gate := firstlaunch.New(st, "")
	switch {
	case *resetWelcome:
		if err := gate.Reset(ctx); err != nil {
			fatal("reset first launch: %v", err)
		}
		fmt.Println("Welcome screen will show on next launch.")
	case *skipWelcome:
		if err := gate.MarkComplete(ctx); err != nil {
			fatal("mark first launch complete: %v", err)
		}
		fmt.Println("Welcome screen marked as completed.")
	case *deleteKey != "":
		msg, err := deletePref(ctx, st, *deleteKey)
		if err != nil {
			fatal("%v", err)
		}
		fmt.Println(msg)
	}

	first, err := gate.IsFirstLaunch(ctx)
	if err != nil {
		fatal("read first launch: %v", err)
	}
	entries, err := st.Keys(ctx)
	if err != nil {
		fatal("list preferences: %v", err)
	}
	fmt.Printf("Preferences: %s\n", cfg.PrefsPath())
	printPrefs(os.Stdout, first, entries)
}

// deletePref removes key and reports what happened. Deleting the first-launch
// key restores the default, so the welcome screen shows again.
func deletePref(ctx context.Context, st *store.Store, key string) (string, error) {
	if _, err := st.Get(ctx, key); errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("No stored key %q.", key), nil
	} else if err != nil {
		return "", err
	}
	if err := st.Delete(ctx, key); err != nil {
		return "", err
	}
	if key == firstlaunch.Key {
		return fmt.Sprintf("Deleted %q; the welcome screen will show on next launch.", key), nil
	}
	return fmt.Sprintf("Deleted %q.", key), nil
}

func printPrefs(w io.Writer, first bool, entries []store.Entry) {
	fmt.Fprintf(w, "First launch:          %v\n", first)
	if len(entries) == 0 {
		fmt.Fprintln(w, "\n(no stored keys)")
		return
	}
	fmt.Fprintf(w, "\n%-20s %-10s %s\n", "KEY", "VALUE", "UPDATED")
	for _, e := range entries {
		fmt.Fprintf(w, "%-20s %-10s %s\n", truncate(e.Key, 20), truncate(e.Value, 10),
			e.UpdatedAt.Local().Format(time.RFC3339))
	}
}
