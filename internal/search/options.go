package search

import (
	"time"

	"github.com/abelbrown/pokesearch/internal/otel"
)

const (
	// DefaultPageSize is the number of species per page.
	DefaultPageSize = 20

	// DefaultDebounce is the quiet period after the last keystroke before
	// a search is issued.
	DefaultDebounce = 400 * time.Millisecond
)

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize sets the page size. Non-positive values are ignored.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithDebounce sets the typing quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithEventLog sends search lifecycle events to l.
func WithEventLog(l *otel.Logger) Option {
	return func(c *Controller) {
		c.events = l
	}
}
