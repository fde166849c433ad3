package fetcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"ton-sc-viewer/internal/contract"
)

// ErrFetchPanicked is what waiters get when the shared call panicked.
var ErrFetchPanicked = errors.New("fetch panicked")

type FetchFunc func() (*contract.StorageContractFull, error)

// Registry coalesces concurrent fetches of the same key.
type Registry interface {
	// Do runs fn unless a call for key is pending or settled less than the
	// window ago, in which case the caller gets that call's result and shared is true.
	Do(ctx context.Context, key string, fn FetchFunc) (res *contract.StorageContractFull, shared bool, err error)
}

type call struct {
	done	chan struct{}
	res	*contract.StorageContractFull
	err	error
}

// TTLRegistry keeps each call for ttl after it settles, success or failure.
type TTLRegistry struct {
	mu	sync.Mutex
	ttl	time.Duration
	calls	map[string]*call

	// afterFunc schedules entry removal, time.AfterFunc outside of tests.
	afterFunc	func(d time.Duration, f func())
}

var _ Registry = (*TTLRegistry)(nil)

func NewTTLRegistry(ttl time.Duration) *TTLRegistry {
	return &TTLRegistry{
		ttl:	ttl,
		calls:	make(map[string]*call),
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

func (r *TTLRegistry) Do(ctx context.Context, key string, fn FetchFunc) (*contract.StorageContractFull, bool, error) {
	r.mu.Lock()
	if c, ok := r.calls[key]; ok {
		r.mu.Unlock()
		select {
		case <-c.done:
			return c.res, true, c.err
		case <-ctx.Done():
			return nil, true, ctx.Err()
		}
	}

	c := &call{done: make(chan struct{}), err: ErrFetchPanicked}
	r.calls[key] = c
	r.mu.Unlock()

	defer func() {
		close(c.done)
		r.afterFunc(r.ttl, func() { r.forget(key, c) })
	}()

	c.res, c.err = fn()
	return c.res, false, c.err
}

func (r *TTLRegistry) forget(key string, c *call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls[key] == c {
		delete(r.calls, key)
	}
}

func (r *TTLRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// NoopRegistry never shares results.
type NoopRegistry struct{}

func (NoopRegistry) Do(_ context.Context, _ string, fn FetchFunc) (*contract.StorageContractFull, bool, error) {
	res, err := fn()
	return res, false, err
}
