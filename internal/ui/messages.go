// Package ui provides the Bubble Tea TUI for pokesearch.
package ui

import "github.com/abelbrown/pokesearch/internal/search"

// StateChanged carries a new search controller snapshot.
type StateChanged struct {
	State search.State
}

// stateStreamClosed is sent once the controller closes its subscription.
type stateStreamClosed struct{}

// FirstLaunchChecked reports the persisted first-launch flag at startup.
type FirstLaunchChecked struct {
	First bool
	Err   error
}

// WelcomeDone is sent after the welcome screen has been acknowledged and
// the flag written.
type WelcomeDone struct {
	Err error
}
