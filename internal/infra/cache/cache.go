// Package cache provides a single-value in-memory snapshot with TTL.
// Readers never block on each other; a refresh replaces the value with one
// atomic swap.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// Loader produces a fresh value for the snapshot.
type Loader[T any] func(ctx context.Context) (T, error)

// Option configures a Snapshot.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Snapshot caches the last successful result of a Loader for a fixed TTL.
// Concurrent refreshes are collapsed into one load.
type Snapshot[T any] struct {
	ttl     time.Duration
	load    Loader[T]
	now     func() time.Time
	current atomic.Pointer[entry[T]]
	group   singleflight.Group
}

// NewSnapshot creates an empty snapshot. Nothing is loaded until the first Get.
func NewSnapshot[T any](ttl time.Duration, load Loader[T], opts ...Option) *Snapshot[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Snapshot[T]{
		ttl:  ttl,
		load: load,
		now:  o.now,
	}
}

// Get returns the cached value while it is fresh (hit=true). Otherwise it
// refreshes; on refresh failure the stale value, if any, is returned along
// with the error so callers can decide whether to degrade.
func (s *Snapshot[T]) Get(ctx context.Context) (value T, hit bool, err error) {
	if e := s.current.Load(); e != nil && s.fresh(e) {
		return e.value, true, nil
	}
	value, err = s.Refresh(ctx)
	return value, false, err
}

// Refresh loads a new value unless a concurrent refresh already produced a
// fresh one. The load is detached from ctx cancellation so one abandoned
// request does not fail every caller sharing the flight.
func (s *Snapshot[T]) Refresh(ctx context.Context) (T, error) {
	v, err, _ := s.group.Do("refresh", func() (any, error) {
		if e := s.current.Load(); e != nil && s.fresh(e) {
			return e.value, nil
		}
		loaded, err := s.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.current.Store(&entry[T]{value: loaded, fetchedAt: s.now()})
		return loaded, nil
	})
	if err != nil {
		if e := s.current.Load(); e != nil {
			return e.value, err
		}
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// FetchedAt reports when the current value was loaded; ok is false while empty.
func (s *Snapshot[T]) FetchedAt() (time.Time, bool) {
	e := s.current.Load()
	if e == nil {
		return time.Time{}, false
	}
	return e.fetchedAt, true
}

func (s *Snapshot[T]) fresh(e *entry[T]) bool {
	return s.now().Sub(e.fetchedAt) < s.ttl
}
