package scrim

import (
	"context"
	"sync"
)

// Classifier inspects an error observed on a proxied resource and reports
// whether it is fatal. A fatal report puts the proxy into silent mode so a
// tearing-down scrim does not produce an error storm.
type Classifier func(err error) bool

// Proxy is a lazy, cached, self-healing handle to one externally hosted
// object. The first successful Fetch memoizes the value; later calls
// return it without another round trip. The cache is only invalidated by
// explicit re-assignment, never by expiry.
type Proxy[T any] struct {
	mu       sync.Mutex
	value    T
	ok       bool
	fetcher  func(ctx context.Context) (T, error)
	onFetch  func(ctx context.Context, value T)
	classify Classifier
	silent   bool
}

// NewProxy creates a proxy. fetcher may be nil and supplied later through
// FetchWith; onFetch, when set, runs once after the first successful fetch.
func NewProxy[T any](fetcher func(ctx context.Context) (T, error), onFetch func(ctx context.Context, value T), classify Classifier) *Proxy[T] {
	return &Proxy[T]{
		fetcher:  fetcher,
		onFetch:  onFetch,
		classify: classify,
	}
}

// Fetch resolves the proxied value, fetching it on first use. Returns the
// value and whether it is present; an absent value means the fetch failed
// and has been routed to the classifier.
func (p *Proxy[T]) Fetch(ctx context.Context) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetchLocked(ctx)
}

// FetchWith installs a fetcher and resolves, for proxies whose fetch
// function only becomes known once an owning resource is resolved.
func (p *Proxy[T]) FetchWith(ctx context.Context, fetcher func(ctx context.Context) (T, error)) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if fetcher != nil {
		p.fetcher = fetcher
	}
	return p.fetchLocked(ctx)
}

func (p *Proxy[T]) fetchLocked(ctx context.Context) (T, bool) {
	if p.ok || p.fetcher == nil {
		return p.value, p.ok
	}

	value, err := p.fetcher(ctx)
	if err != nil {
		p.reportLocked(err)
		var zero T
		return zero, false
	}

	p.value = value
	p.ok = true
	if p.onFetch != nil {
		p.onFetch(ctx, value)
	}
	return p.value, true
}

// Map resolves the proxy and derives a value from it. The second return
// mirrors Fetch. Package-level because methods cannot add type parameters.
func Map[T, R any](ctx context.Context, p *Proxy[T], fn func(value T) R) (R, bool) {
	value, ok := p.Fetch(ctx)
	if !ok {
		var zero R
		return zero, false
	}
	return fn(value), true
}

// Wait runs fn against the proxied value if it resolves, classifying any
// error fn returns the same way fetch errors are classified.
func (p *Proxy[T]) Wait(ctx context.Context, fn func(ctx context.Context, value T) error) bool {
	value, ok := p.Fetch(ctx)
	if !ok {
		return false
	}
	if err := fn(ctx, value); err != nil {
		p.mu.Lock()
		p.reportLocked(err)
		p.mu.Unlock()
		return false
	}
	return true
}

// Set explicitly assigns the cached value, replacing whatever was there.
func (p *Proxy[T]) Set(value T) {
	p.mu.Lock()
	p.value = value
	p.ok = true
	p.mu.Unlock()
}

// Clear drops the cached value so the next Fetch goes back out.
func (p *Proxy[T]) Clear() {
	p.mu.Lock()
	var zero T
	p.value = zero
	p.ok = false
	p.mu.Unlock()
}

// Silence switches the proxy to silent error mode: errors are swallowed
// without reaching the classifier. Used while tearing down.
func (p *Proxy[T]) Silence() {
	p.mu.Lock()
	p.silent = true
	p.mu.Unlock()
}

func (p *Proxy[T]) reportLocked(err error) {
	if p.silent || p.classify == nil {
		return
	}
	if p.classify(err) {
		// Fatal: stop reporting, the owner is tearing down
		p.silent = true
	}
}
