// Package app binds an inventory service to the single backend of a session and loads its state.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"estoque/internal/core"
	"estoque/internal/inventory"
	"estoque/internal/ports"
	"estoque/internal/session"
	"estoque/internal/view"
)

// ErrStale is returned by a load that was superseded by a newer one; its result was discarded.
var ErrStale = errors.New("load superseded by a newer request")

type App struct {
	svc     *inventory.Service
	backend ports.Backend
	mode    session.Mode
	loc     *time.Location
	now     func() time.Time

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	// month of the logs currently held; 0 means every month.
	month time.Month
}

type options struct {
	scheme    inventory.IDScheme
	publisher ports.LogPublisher
	loc       *time.Location
	now       func() time.Time
	seeds     [][]string
}

type Option func(*options)

func WithScheme(s inventory.IDScheme) Option {
	return func(o *options) { o.scheme = s }
}

// WithPublisher announces every recorded log entry.
func WithPublisher(p ports.LogPublisher) Option {
	return func(o *options) { o.publisher = p }
}

func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithOptionSeeds adds option sets to the library on top of the default scale.
func WithOptionSeeds(seeds [][]string) Option {
	return func(o *options) { o.seeds = seeds }
}

// New creates the app for a session. The mode is fixed for the lifetime of the app.
func New(backend ports.Backend, mode session.Mode, opts ...Option) *App {
	o := options{scheme: inventory.StableIDs, loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if mode == nil {
		mode = session.Guest{}
	}

	lib := inventory.NewOptionLibrary(inventory.DefaultScale)
	for _, s := range o.seeds {
		lib.Save(s)
	}
	svcOpts := []inventory.Option{inventory.WithClock(o.now), inventory.WithOptionLibrary(lib)}
	if o.publisher != nil {
		svcOpts = append(svcOpts, inventory.WithPublisher(o.publisher))
	}

	return &App{
		svc:     inventory.NewService(backend, o.scheme, svcOpts...),
		backend: backend,
		mode:    mode,
		loc:     o.loc,
		now:     o.now,
	}
}

func (a *App) Service() *inventory.Service { return a.svc }
func (a *App) Mode() session.Mode          { return a.mode }
func (a *App) Location() *time.Location    { return a.loc }

// Month returns the month of the logs currently loaded, 0 for all of them.
func (a *App) Month() time.Month {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.month
}

// Start loads items and logs into the service. Guests read everything from the local store;
// authenticated sessions fetch the items and the current month's logs, once each, concurrently.
func (a *App) Start(ctx context.Context) error {
	month := time.Month(0)
	if !session.IsGuest(a.mode) {
		month = a.now().In(a.loc).Month()
	}

	ctx, gen, cancel := a.begin(ctx)
	defer cancel()

	var (
		items []core.Item
		logs  []core.LogEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = a.backend.ListItems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = a.backend.ListLogs(gctx, month)
		return err
	})
	err := g.Wait()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen != gen {
		return ErrStale
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	a.svc.Load(items, logs)
	a.month = month
	slog.InfoContext(ctx, "Session loaded", "mode", a.mode.String(), "items", len(items), "logs", len(logs))
	return nil
}

// RefreshLogs replaces the loaded logs with those of month. Guests already hold every entry,
// so for them it is a no-op.
func (a *App) RefreshLogs(ctx context.Context, month time.Month) error {
	if session.IsGuest(a.mode) {
		return nil
	}

	ctx, gen, cancel := a.begin(ctx)
	defer cancel()

	logs, err := a.backend.ListLogs(ctx, month)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen != gen {
		return ErrStale
	}
	if err != nil {
		return fmt.Errorf("refresh logs: %w", err)
	}
	a.svc.LoadLogs(logs)
	a.month = month
	return nil
}

// ViewLogs returns the log entries shown for a search term and month. When an authenticated
// session holds a different month, that month is read from the backend without replacing the
// loaded logs, so concurrent views of different months do not interfere.
func (a *App) ViewLogs(ctx context.Context, search string, month time.Month) ([]core.LogEntry, error) {
	a.mu.Lock()
	held, logs := a.month, a.svc.Logs()
	a.mu.Unlock()

	if !session.IsGuest(a.mode) && month != held {
		fetched, err := a.backend.ListLogs(ctx, month)
		if err != nil {
			return nil, fmt.Errorf("list logs: %w", err)
		}
		logs = fetched
	}
	return view.Filter(logs, search, month, a.loc), nil
}

// begin starts a new load generation and cancels the one in flight.
func (a *App) begin(ctx context.Context) (context.Context, uint64, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
	a.gen++
	a.cancel = cancel
	return ctx, a.gen, cancel
}
