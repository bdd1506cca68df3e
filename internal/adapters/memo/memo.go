// Package memo keeps recently loaded upstream results for a short TTL and
// coalesces concurrent loads of the same key.
package memo

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/summitgap/pkg/metrics"
)

// Loader produces the value for a key on a miss.
type Loader[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	key     string
	value   V
	expires time.Time
}

// Memo is a TTL cache with oldest-first eviction. The zero TTL turns it
// into a pass-through, which is the default.
type Memo[V any] struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front is the most recently stored
	cfg     config
	group   singleflight.Group
}

// New creates a memo with configuration options.
func New[V any](opts ...Option) *Memo[V] {
	cfg := config{
		maxSize: 16,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Memo[V]{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		cfg:     cfg,
	}
}

// Enabled reports whether values are kept at all.
func (m *Memo[V]) Enabled() bool { return m.cfg.ttl > 0 }

// Get returns the stored value for key, or calls load. Concurrent misses for
// one key share a single load, which runs detached from any one caller's
// cancellation; each caller still stops waiting when its own ctx is done.
// A load error is handed to every waiter and nothing is stored; the value
// returned alongside it is still passed on.
func (m *Memo[V]) Get(ctx context.Context, key string, load Loader[V]) (V, error) {
	if !m.Enabled() {
		return load(ctx)
	}

	if v, ok := m.lookup(key); ok {
		metrics.RecordMemoHit()
		return v, nil
	}
	metrics.RecordMemoMiss()

	shared := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		v, err := load(shared)
		if err == nil {
			m.store(key, v)
		}
		return v, err
	})

	select {
	case res := <-ch:
		v, _ := res.Val.(V)
		return v, res.Err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Forget drops key so the next Get reloads it.
func (m *Memo[V]) Forget(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		m.remove(el)
	}
}

// Len returns the number of stored entries, expired ones included until
// they are next touched.
func (m *Memo[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// IsNotStored reports whether err only signals a value that was not kept.
func IsNotStored(err error) bool { return errors.Is(err, ErrNotStored) }

func (m *Memo[V]) lookup(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	el, ok := m.entries[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[V])
	if !m.cfg.now().Before(e.expires) {
		m.remove(el)
		return zero, false
	}
	return e.value, true
}

func (m *Memo[V]) store(key string, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		m.remove(el)
	}
	if m.cfg.maxSize > 0 {
		for len(m.entries) >= m.cfg.maxSize {
			m.remove(m.order.Back())
		}
	}
	m.entries[key] = m.order.PushFront(&entry[V]{
		key:     key,
		value:   v,
		expires: m.cfg.now().Add(m.cfg.ttl),
	})
	metrics.UpdateMemoEntries(len(m.entries))
}

// remove must be called with m.mu held.
func (m *Memo[V]) remove(el *list.Element) {
	e := m.order.Remove(el).(*entry[V])
	delete(m.entries, e.key)
	metrics.UpdateMemoEntries(len(m.entries))
}
