// Package reqctx threads a per-request error collector through
// context.Context. graphql-go's resolver signature can only attach one
// error to one field's own response path; an upstream sub-query can
// return several errors scattered across arbitrary nested paths, so
// the proxy and link resolvers stash the rewritten versions here
// instead, and the HTTP server merges them into the final result after
// graphql.Do returns.
package reqctx

import (
	"context"
	"sync"

	"github.com/graphql-go/graphql/gqlerrors"
)

type contextKey struct{}

// Collector accumulates rewritten upstream errors for one request.
type Collector struct {
	mu     sync.Mutex
	errors []gqlerrors.FormattedError
}

// Add appends errs to the collector. Safe for concurrent use, since
// sibling root fields and batched link fetches resolve concurrently.
func (c *Collector) Add(errs ...gqlerrors.FormattedError) {
	if len(errs) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, errs...)
}

// Errors returns every error collected so far.
func (c *Collector) Errors() []gqlerrors.FormattedError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]gqlerrors.FormattedError{}, c.errors...)
}

// WithCollector returns a context carrying a fresh Collector, and the
// Collector itself so the caller can read it back after the request
// completes.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, contextKey{}, c), c
}

// FromContext returns the Collector stashed in ctx by WithCollector, or
// nil if none is present.
func FromContext(ctx context.Context) *Collector {
	c, _ := ctx.Value(contextKey{}).(*Collector)
	return c
}
