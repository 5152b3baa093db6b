package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estoque/internal/core"
	"estoque/internal/local"
	"estoque/internal/session"
)

// countingBackend wraps a local store and counts reads.
type countingBackend struct {
	*local.Store

	mu         sync.Mutex
	itemCalls  int
	logCalls   int
	logMonths  []time.Month
	failLogs   error
	blockItems chan struct{}
	// blockMonth holds ListLogs for that month until gate is closed.
	blockMonth time.Month
	gate       chan struct{}
}

func newCountingBackend() *countingBackend {
	return &countingBackend{Store: local.New(time.UTC)}
}

func (b *countingBackend) ListItems(ctx context.Context) ([]core.Item, error) {
	b.mu.Lock()
	b.itemCalls++
	block := b.blockItems
	b.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return b.Store.ListItems(ctx)
}

func (b *countingBackend) ListLogs(ctx context.Context, month time.Month) ([]core.LogEntry, error) {
	b.mu.Lock()
	b.logCalls++
	b.logMonths = append(b.logMonths, month)
	fail := b.failLogs
	var gate chan struct{}
	if b.gate != nil && month == b.blockMonth {
		gate = b.gate
	}
	b.mu.Unlock()
	if fail != nil {
		return nil, fail
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return b.Store.ListLogs(ctx, month)
}

var march = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func seed(t *testing.T, b *countingBackend) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, b.Store.CreateItem(ctx, core.Item{ID: "1", Name: "Arroz", Kind: core.QuantityNumber, Quantity: 2}))
	require.NoError(t, b.Store.AppendLog(ctx, core.LogEntry{ID: "a", Timestamp: time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), ItemName: "Arroz", Change: "Added"}))
	require.NoError(t, b.Store.AppendLog(ctx, core.LogEntry{ID: "b", Timestamp: march, ItemName: "Arroz", Change: "+1", Direction: core.DirectionIncrease}))
}

func TestStart_GuestLoadsEverythingLocally(t *testing.T) {
	b := newCountingBackend()
	seed(t, b)
	a := New(b, session.Guest{}, WithLocation(time.UTC), WithClock(func() time.Time { return march }))

	require.NoError(t, a.Start(context.Background()))

	assert.Equal(t, 1, b.itemCalls)
	assert.Equal(t, 1, b.logCalls)
	assert.Equal(t, []time.Month{0}, b.logMonths)
	assert.Len(t, a.Service().Items(), 1)
	assert.Len(t, a.Service().Logs(), 2)

	require.NoError(t, a.RefreshLogs(context.Background(), time.January))
	assert.Equal(t, 1, b.logCalls, "guests never refetch")
}

func TestStart_AuthenticatedFetchesOnceEach(t *testing.T) {
	b := newCountingBackend()
	seed(t, b)
	a := New(b, session.Authenticated{Token: "tok"}, WithLocation(time.UTC), WithClock(func() time.Time { return march }))

	require.NoError(t, a.Start(context.Background()))

	assert.Equal(t, 1, b.itemCalls)
	assert.Equal(t, 1, b.logCalls)
	assert.Equal(t, []time.Month{time.March}, b.logMonths)
	assert.Equal(t, time.March, a.Month())
	require.Len(t, a.Service().Logs(), 1)
	assert.Equal(t, "b", a.Service().Logs()[0].ID)
}

func TestStart_FetchErrorKeepsState(t *testing.T) {
	b := newCountingBackend()
	seed(t, b)
	b.failLogs = errors.New("boom")
	a := New(b, session.Authenticated{Token: "tok"}, WithLocation(time.UTC))

	err := a.Start(context.Background())
	require.Error(t, err)
	assert.Empty(t, a.Service().Items())
}

func TestStart_StaleResultIsDiscarded(t *testing.T) {
	b := newCountingBackend()
	seed(t, b)
	b.blockItems = make(chan struct{})
	a := New(b, session.Authenticated{Token: "tok"}, WithLocation(time.UTC), WithClock(func() time.Time { return march }))

	first := make(chan error, 1)
	go func() { first <- a.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.itemCalls == 1
	}, time.Second, time.Millisecond)

	b.mu.Lock()
	b.blockItems = nil
	b.mu.Unlock()
	require.NoError(t, a.Start(context.Background()))

	assert.ErrorIs(t, <-first, ErrStale)
	assert.Len(t, a.Service().Items(), 1)
}

func TestViewLogs(t *testing.T) {
	t.Run("authenticated reads another month from the backend", func(t *testing.T) {
		b := newCountingBackend()
		seed(t, b)
		a := New(b, session.Authenticated{Token: "tok"}, WithLocation(time.UTC), WithClock(func() time.Time { return march }))
		require.NoError(t, a.Start(context.Background()))

		logs, err := a.ViewLogs(context.Background(), "", time.January)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "a", logs[0].ID)
		assert.Equal(t, []time.Month{time.March, time.January}, b.logMonths)

		assert.Equal(t, time.March, a.Month(), "loaded month is kept")
		require.Len(t, a.Service().Logs(), 1)
		assert.Equal(t, "b", a.Service().Logs()[0].ID)

		logs, err = a.ViewLogs(context.Background(), "arr", time.March)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, 2, b.logCalls, "loaded month is served from memory")
	})

	t.Run("concurrent views of different months", func(t *testing.T) {
		b := newCountingBackend()
		seed(t, b)
		a := New(b, session.Authenticated{Token: "tok"}, WithLocation(time.UTC), WithClock(func() time.Time { return march }))
		require.NoError(t, a.Start(context.Background()))

		b.mu.Lock()
		b.blockMonth = time.January
		b.gate = make(chan struct{})
		b.mu.Unlock()

		type result struct {
			logs []core.LogEntry
			err  error
		}
		january := make(chan result, 1)
		go func() {
			logs, err := a.ViewLogs(context.Background(), "", time.January)
			january <- result{logs, err}
		}()

		require.Eventually(t, func() bool {
			b.mu.Lock()
			defer b.mu.Unlock()
			return b.logCalls == 2
		}, time.Second, time.Millisecond)

		logs, err := a.ViewLogs(context.Background(), "", time.February)
		require.NoError(t, err)
		assert.Empty(t, logs)

		close(b.gate)
		got := <-january
		require.NoError(t, got.err)
		require.Len(t, got.logs, 1)
		assert.Equal(t, "a", got.logs[0].ID)
		assert.Equal(t, time.March, a.Month())
	})

	t.Run("guest filters locally", func(t *testing.T) {
		b := newCountingBackend()
		seed(t, b)
		a := New(b, session.Guest{}, WithLocation(time.UTC))
		require.NoError(t, a.Start(context.Background()))

		logs, err := a.ViewLogs(context.Background(), "ARROZ", time.March)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "b", logs[0].ID)

		logs, err = a.ViewLogs(context.Background(), "feijão", 0)
		require.NoError(t, err)
		assert.Empty(t, logs)
		assert.Equal(t, 1, b.logCalls)
	})
}

func TestNew_OptionSeeds(t *testing.T) {
	a := New(newCountingBackend(), nil, WithOptionSeeds([][]string{{"Cheio", "Vazio"}}))
	assert.True(t, session.IsGuest(a.Mode()))
	assert.True(t, a.Service().Options().Contains([]string{"Cheio", "Vazio"}))
	assert.Len(t, a.Service().Options().List(), 2)
}
