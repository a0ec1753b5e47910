/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"sync"

	"github.com/suparena/memorystore/storagemodels"
)

// Future is a completion handle for a result delivered after the call that
// produced it has returned.
type Future[T any] struct {
	done chan struct{}
	once sync.Once

	mu        sync.Mutex
	value     T
	err       error
	callbacks []func(T, error)
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Defer runs fn on a new goroutine and completes the future with its result.
// Callers never observe the result before Defer returns.
func Defer[T any](fn func() (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		f.complete(fn())
	}()
	return f
}

// Deliver completes a future with an already computed result on the next turn.
func Deliver[T any](value T, err error) *Future[T] {
	return Defer(func() (T, error) { return value, err })
}

func (f *Future[T]) complete(value T, err error) {
	f.once.Do(func() {
		f.mu.Lock()
		f.value, f.err = value, err
		callbacks := f.callbacks
		f.callbacks = nil
		close(f.done)
		f.mu.Unlock()

		for _, cb := range callbacks {
			cb(value, err)
		}
	})
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete registers cb to run with the result. If the future has already
// completed, cb runs immediately on the calling goroutine.
func (f *Future[T]) OnComplete(cb func(T, error)) {
	f.mu.Lock()
	select {
	case <-f.done:
		value, err := f.value, f.err
		f.mu.Unlock()
		cb(value, err)
		return
	default:
	}
	f.callbacks = append(f.callbacks, cb)
	f.mu.Unlock()
}

// AllAsync runs All synchronously, so the result reflects the store at call
// time, and delivers it on the next turn.
func AllAsync(ctx context.Context, a Adapter, model string, filter *storagemodels.Filter) *Future[[]storagemodels.Record] {
	records, err := a.All(ctx, model, filter)
	return Deliver(records, err)
}

// CountAsync is the deferred form of Count.
func CountAsync(ctx context.Context, a Adapter, model string, where map[string]any) *Future[int] {
	n, err := a.Count(ctx, model, where)
	return Deliver(n, err)
}

// FindAsync is the deferred form of Find.
func FindAsync(ctx context.Context, a Adapter, model string, id any) *Future[storagemodels.Record] {
	rec, err := a.Find(ctx, model, id)
	return Deliver(rec, err)
}
