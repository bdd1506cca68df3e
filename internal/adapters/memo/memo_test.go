package memo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func countingLoader(calls *atomic.Int32, value string) Loader[string] {
	return func(context.Context) (string, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestDisabledByDefault(t *testing.T) {
	m := New[string]()
	var calls atomic.Int32

	for i := 0; i < 3; i++ {
		v, err := m.Get(context.Background(), "k", countingLoader(&calls, "v"))
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	}

	assert.False(t, m.Enabled())
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 0, m.Len())
}

func TestServesWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := New[string](WithTTL(time.Minute), WithClock(clock.Now))
	var calls atomic.Int32
	ctx := context.Background()

	_, _ = m.Get(ctx, "k", countingLoader(&calls, "first"))
	clock.Advance(59 * time.Second)
	v, err := m.Get(ctx, "k", countingLoader(&calls, "second"))

	require.NoError(t, err)
	assert.Equal(t, "first", v)
	assert.Equal(t, int32(1), calls.Load())

	clock.Advance(time.Second)
	v, err = m.Get(ctx, "k", countingLoader(&calls, "third"))

	require.NoError(t, err)
	assert.Equal(t, "third", v, "entry expires exactly at its TTL")
	assert.Equal(t, int32(2), calls.Load())
}

func TestErrorsAreNotStored(t *testing.T) {
	m := New[[]string](WithTTL(time.Hour))
	ctx := context.Background()
	var calls atomic.Int32

	empty := func(context.Context) ([]string, error) {
		calls.Add(1)
		return []string{}, ErrNotStored
	}

	v, err := m.Get(ctx, "k", empty)
	assert.True(t, IsNotStored(err))
	assert.NotNil(t, v)
	_, _ = m.Get(ctx, "k", empty)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0, m.Len())

	boom := errors.New("boom")
	_, err = m.Get(ctx, "k", func(context.Context) ([]string, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsNotStored(err))
}

func TestEvictsOldestWhenFull(t *testing.T) {
	m := New[int](WithTTL(time.Hour), WithMaxSize(2))
	ctx := context.Background()
	load := func(n int) Loader[int] {
		return func(context.Context) (int, error) { return n, nil }
	}

	_, _ = m.Get(ctx, "a", load(1))
	_, _ = m.Get(ctx, "b", load(2))
	_, _ = m.Get(ctx, "c", load(3))

	assert.Equal(t, 2, m.Len())
	v, _ := m.Get(ctx, "a", load(10))
	assert.Equal(t, 10, v, "a was evicted and reloaded")
	v, _ = m.Get(ctx, "c", load(30))
	assert.Equal(t, 3, v)
}

func TestForget(t *testing.T) {
	m := New[string](WithTTL(time.Hour))
	ctx := context.Background()
	var calls atomic.Int32

	_, _ = m.Get(ctx, "k", countingLoader(&calls, "v"))
	m.Forget("k")
	m.Forget("missing")
	_, _ = m.Get(ctx, "k", countingLoader(&calls, "v"))

	assert.Equal(t, int32(2), calls.Load())
}

func TestConcurrentMissesShareOneLoad(t *testing.T) {
	m := New[string](WithTTL(time.Hour))
	var calls atomic.Int32
	release := make(chan struct{})

	load := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const callers = 16
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = m.Get(context.Background(), "k", load)
		}(i)
	}

	// Let the callers pile up behind the first load before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(2))
	for i, r := range results {
		assert.Equal(t, "shared", r, fmt.Sprintf("caller %d", i))
	}
}

func TestCancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	m := New[string](WithTTL(time.Hour))
	started := make(chan struct{})
	release := make(chan struct{})
	var loadErr error

	load := func(ctx context.Context) (string, error) {
		close(started)
		<-release
		loadErr = ctx.Err()
		return "shared", nil
	}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := m.Get(firstCtx, "k", load)
		firstErr <- err
	}()
	<-started

	second := make(chan string, 1)
	go func() {
		v, _ := m.Get(context.Background(), "k", load)
		second <- v
	}()

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	time.Sleep(20 * time.Millisecond)
	close(release)

	assert.Equal(t, "shared", <-second)
	assert.NoError(t, loadErr)
	assert.Equal(t, 1, m.Len())
}
