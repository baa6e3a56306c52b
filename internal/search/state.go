package search

import (
	"strings"

	"github.com/abelbrown/pokesearch/internal/pokeapi"
)

// State is one immutable snapshot of the search screen. The controller
// replaces it wholesale on every transition and never mutates a published
// value, so copies may share slices safely.
type State struct {
	Query        string
	IsLoading    bool
	ErrorMessage string // empty when there is no error
	HasSearched  bool   // false until the first fetch for a non-blank query starts
	Species      []pokeapi.Species
	TotalCount   int
	CurrentPage  int // zero-based
	PageSize     int
	Selected     *pokeapi.Pokemon
}

func emptyState(query string, pageSize int) State {
	return State{
		Query:    query,
		Species:  []pokeapi.Species{},
		PageSize: pageSize,
	}
}

// TotalPages is at least 1 so "Page 1 of 1" renders for empty results.
func (s State) TotalPages() int {
	if s.TotalCount <= 0 || s.PageSize <= 0 {
		return 1
	}
	return (s.TotalCount + s.PageSize - 1) / s.PageSize
}

// CanGoNext reports whether another page exists after the current one.
func (s State) CanGoNext() bool {
	return (s.CurrentPage+1)*s.PageSize < s.TotalCount
}

// CanGoPrevious reports whether the current page is past the first.
func (s State) CanGoPrevious() bool {
	return s.CurrentPage > 0
}

// NoResults reports a settled, successful search that matched nothing.
func (s State) NoResults() bool {
	return s.HasSearched &&
		!s.IsLoading &&
		s.ErrorMessage == "" &&
		len(s.Species) == 0 &&
		strings.TrimSpace(s.Query) != ""
}
