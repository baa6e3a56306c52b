// Package firstlaunch tracks whether the app has completed its welcome flow.
package firstlaunch

import (
	"context"
	"fmt"
	"sync"
)

// Key is the preference key the flag is stored under.
const Key = "first_launch"

// KV is the persistent boolean storage the gate reads and writes.
// *store.Store satisfies it.
type KV interface {
	GetBool(ctx context.Context, key string) (value, found bool, err error)
	SetBool(ctx context.Context, key string, value bool) error
}

// Gate exposes the persisted first-launch flag as a readable stream.
// A missing value reads as true.
type Gate struct {
	kv  KV
	key string

	// writeMu serializes set so storage order matches notification order.
	writeMu sync.Mutex

	mu       sync.Mutex
	watchers map[int]chan bool
	nextID   int
	version  uint64 // bumped by every successful set
}

// New returns a Gate over kv. An empty key means Key.
func New(kv KV, key string) *Gate {
	if key == "" {
		key = Key
	}
	return &Gate{kv: kv, key: key, watchers: make(map[int]chan bool)}
}

func (g *Gate) load(ctx context.Context) (bool, error) {
	v, found, err := g.kv.GetBool(ctx, g.key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", g.key, err)
	}
	if !found {
		return true, nil
	}
	return v, nil
}

// Read returns a channel that yields the current flag immediately and then
// each change made through this Gate. Only the newest value is buffered.
// The channel closes when ctx is done. A failure reading the initial value
// is returned instead of a channel.
func (g *Gate) Read(ctx context.Context) (<-chan bool, error) {
	ch := make(chan bool, 1)

	// Register before loading so a set racing the load still reaches ch.
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.watchers[id] = ch
	seen := g.version
	g.mu.Unlock()

	v, err := g.load(ctx)

	g.mu.Lock()
	if err != nil {
		delete(g.watchers, id)
		g.mu.Unlock()
		return nil, err
	}
	// A set during the load already published a value at least as new.
	if g.version == seen {
		publish(ch, v)
	}
	g.mu.Unlock()

	go func() {
		<-ctx.Done()
		g.mu.Lock()
		delete(g.watchers, id)
		close(ch)
		g.mu.Unlock()
	}()
	return ch, nil
}

// IsFirstLaunch takes the first value from a Read stream and releases it.
func (g *Gate) IsFirstLaunch(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch, err := g.Read(ctx)
	if err != nil {
		return false, err
	}
	return <-ch, nil
}

// MarkComplete persists false and notifies readers. Idempotent.
// Storage errors are returned unchanged.
func (g *Gate) MarkComplete(ctx context.Context) error {
	return g.set(ctx, false)
}

// Reset persists true so the welcome flow shows again on next launch.
func (g *Gate) Reset(ctx context.Context) error {
	return g.set(ctx, true)
}

func (g *Gate) set(ctx context.Context, v bool) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	if err := g.kv.SetBool(ctx, g.key, v); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.version++
	for _, ch := range g.watchers {
		publish(ch, v)
	}
	return nil
}

// publish replaces any unread value with v. Caller holds g.mu, which is
// also the only path that sends or closes, so the send never blocks.
func publish(ch chan bool, v bool) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
