// Package search owns the species search screen state: the query text,
// debounced fetching, pagination and the selected Pokémon.
//
// # Fetch ordering
//
// Every fetch gets its own cancellable context and a sequence number. Issuing
// a newer fetch cancels the previous one, and a completion whose sequence is
// not the latest is discarded. The last fetch issued always wins, whatever
// order the responses arrive in.
//
// # Concurrency
//
// Controller methods are safe for concurrent use. State is guarded by a single
// mutex and replaced wholesale; subscribers receive value copies.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abelbrown/pokesearch/internal/logging"
	"github.com/abelbrown/pokesearch/internal/otel"
	"github.com/abelbrown/pokesearch/internal/pokeapi"
)

// ErrorMessage is shown for any failed fetch, whatever the cause.
const ErrorMessage = "Failed to load Pokémon data. Please try again."

const comp = "search"

// Searcher is the remote query the controller depends on.
// *pokeapi.Client satisfies it.
type Searcher interface {
	SearchSpecies(ctx context.Context, name string, limit, offset int) (pokeapi.SearchResult, error)
}

// stopper is the part of *time.Timer the debounce needs.
type stopper interface {
	Stop() bool
}

func realAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// Controller is the single owner of search State.
type Controller struct {
	client    Searcher
	pageSize  int
	debounce  time.Duration
	events    *otel.Logger
	afterFunc func(time.Duration, func()) stopper

	root context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu          sync.Mutex
	state       State
	closed      bool
	timer       stopper
	gen         uint64 // debounce generation; a fired timer from an older one is ignored
	seq         uint64 // sequence of the most recently issued fetch
	cancelFetch context.CancelFunc
	subs        map[int]chan State
	nextSub     int
}

// New creates a Controller in the empty state.
func New(client Searcher, opts ...Option) *Controller {
	root, stop := context.WithCancel(context.Background())
	c := &Controller{
		client:    client,
		pageSize:  DefaultPageSize,
		debounce:  DefaultDebounce,
		afterFunc: realAfterFunc,
		root:      root,
		stop:      stop,
		subs:      make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = emptyState("", c.pageSize)
	return c
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnQueryChange records new query text. Blank text resets to the empty state
// at once, cancelling any pending or in-flight search. Other text (re)arms the
// debounce timer; only the last call within the quiet period fetches.
func (c *Controller) OnQueryChange(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.stopTimerLocked()

	if strings.TrimSpace(text) == "" {
		c.cancelFetchLocked()
		c.seq++ // anything still in flight is now stale
		c.setLocked(emptyState(text, c.pageSize))
		c.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindSearchReset, Comp: comp})
		return
	}

	s := c.state
	s.Query = text
	c.setLocked(s)

	gen := c.gen
	c.timer = c.afterFunc(c.debounce, func() { c.debounceFired(gen) })
	c.events.Emit(otel.Event{
		Level: otel.LevelDebug,
		Kind:  otel.KindSearchDebounce,
		Comp:  comp,
		Query: text,
		Dur:   c.debounce,
	})
}

func (c *Controller) debounceFired(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		return
	}
	c.timer = nil
	c.startFetchLocked(0)
}

// LoadNextPage fetches the page after the current one for the current query.
// No-op on the last page or when there are no results.
func (c *Controller) LoadNextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.state.CanGoNext() {
		return
	}
	c.startFetchLocked(c.state.CurrentPage + 1)
}

// LoadPreviousPage fetches the page before the current one. No-op on page 0.
func (c *Controller) LoadPreviousPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.state.CanGoPrevious() {
		return
	}
	c.startFetchLocked(c.state.CurrentPage - 1)
}

// Refresh refetches the current page, typically after an error.
// No-op for a blank query.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || strings.TrimSpace(c.state.Query) == "" {
		return
	}
	c.stopTimerLocked()
	c.startFetchLocked(c.state.CurrentPage)
}

// SelectPokemon sets the detail selection. nil clears it.
func (c *Controller) SelectPokemon(p *pokeapi.Pokemon) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	s := c.state
	if p == nil {
		s.Selected = nil
	} else {
		cp := *p
		s.Selected = &cp
		c.events.Emit(otel.Event{
			Level: otel.LevelDebug,
			Kind:  otel.KindSearchSelect,
			Comp:  comp,
			Msg:   p.Name,
		})
	}
	c.setLocked(s)
}

// Subscribe returns a channel carrying the current state immediately and
// every later state. Only the newest unread state is buffered, so a slow
// reader skips intermediate states but always ends on the latest. The
// returned func unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if _, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(ch)
			}
		})
	}
}

// Close stops the debounce timer, cancels in-flight fetches, closes
// subscriber channels and waits for fetch goroutines to exit.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTimerLocked()
	c.cancelFetchLocked()
	c.stop()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *Controller) stopTimerLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) cancelFetchLocked() {
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
		c.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindSearchCancel, Comp: comp, Seq: c.seq})
	}
}

// startFetchLocked supersedes any in-flight fetch and starts one for page.
// Previous results stay visible while loading.
func (c *Controller) startFetchLocked(page int) {
	c.cancelFetchLocked()

	c.seq++
	seq := c.seq
	ctx, cancel := context.WithCancel(c.root)
	c.cancelFetch = cancel

	s := c.state
	s.HasSearched = true
	s.IsLoading = true
	s.ErrorMessage = ""
	c.setLocked(s)

	qid := uuid.NewString()
	c.events.Emit(otel.Event{
		Level:   otel.LevelInfo,
		Kind:    otel.KindSearchStart,
		Comp:    comp,
		QueryID: qid,
		Seq:     seq,
		Query:   s.Query,
		Page:    page,
	})

	c.wg.Add(1)
	go c.fetch(ctx, cancel, seq, qid, s.Query, page)
}

func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, seq uint64, qid, query string, page int) {
	defer c.wg.Done()
	defer cancel()

	start := time.Now()
	res, err := c.client.SearchSpecies(ctx, query, c.pageSize, page*c.pageSize)
	dur := time.Since(start)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || seq != c.seq {
		c.events.Emit(otel.Event{
			Level:   otel.LevelDebug,
			Kind:    otel.KindSearchStale,
			Comp:    comp,
			QueryID: qid,
			Seq:     seq,
			Query:   query,
			Page:    page,
			Dur:     dur,
		})
		return
	}
	c.cancelFetch = nil

	s := c.state
	s.IsLoading = false

	if err != nil {
		s.ErrorMessage = ErrorMessage
		s.Species = []pokeapi.Species{}
		s.TotalCount = 0
		s.CurrentPage = 0
		c.setLocked(s)

		logging.Warn("search failed", "query", query, "page", page, "qid", qid, "error", err)
		c.events.Emit(otel.Event{
			Level:   otel.LevelError,
			Kind:    otel.KindSearchError,
			Comp:    comp,
			QueryID: qid,
			Seq:     seq,
			Query:   query,
			Page:    page,
			Dur:     dur,
			Err:     err.Error(),
		})
		return
	}

	s.ErrorMessage = ""
	s.Species = res.Species
	if s.Species == nil {
		s.Species = []pokeapi.Species{}
	}
	s.TotalCount = res.TotalCount
	s.CurrentPage = page
	s.Selected = nil
	c.setLocked(s)

	c.events.Emit(otel.Event{
		Level:   otel.LevelInfo,
		Kind:    otel.KindSearchComplete,
		Comp:    comp,
		QueryID: qid,
		Seq:     seq,
		Query:   query,
		Page:    page,
		Count:   len(res.Species),
		Total:   res.TotalCount,
		Dur:     dur,
	})
}

// setLocked replaces the state and publishes it to every subscriber.
func (c *Controller) setLocked(s State) {
	c.state = s
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}
