// Package dnscache provides a thread-safe, TTL-based cache for the DNS
// lookups the domain probes share (MX, TXT, host and NS records), with
// singleflight deduplication for concurrent requests to the same name.
package dnscache

import (
	"context"
	"net"
	"sync"
	"time"
)

// Resolver is the lookup capability the cache sits in front of.
// *net.Resolver satisfies it; tests inject fakes.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupTXT(ctx context.Context, name string) ([]string, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

// Cache caches DNS lookup results per (record kind, name) pair.
// Concurrent lookups for the same pair are deduplicated: only one query is
// issued and all waiters receive its result.
type Cache struct {
	mu            sync.Mutex
	entries       map[string]*entry
	cacheTTL      time.Duration
	lookupTimeout time.Duration
	resolver      Resolver
}

type entry struct {
	value   any
	err     error
	expires time.Time
	done    chan struct{} // closed when the lookup completes
}

// New creates a cache that answers from memory for cacheTTL and bounds each
// upstream query by lookupTimeout.
func New(lookupTimeout, cacheTTL time.Duration) *Cache {
	return NewWithResolver(lookupTimeout, cacheTTL, &net.Resolver{})
}

// NewWithResolver creates a cache backed by a custom resolver (for tests).
func NewWithResolver(lookupTimeout, cacheTTL time.Duration, r Resolver) *Cache {
	return &Cache{
		entries:       make(map[string]*entry),
		cacheTTL:      cacheTTL,
		lookupTimeout: lookupTimeout,
		resolver:      r,
	}
}

// LookupMX returns the MX records for domain, sorted copies safe to mutate.
func (c *Cache) LookupMX(domain string) ([]*net.MX, error) {
	v, err := c.lookup("mx|"+domain, func(ctx context.Context) (any, error) {
		return c.resolver.LookupMX(ctx, domain)
	})
	if v == nil {
		return nil, err
	}
	return copyMX(v.([]*net.MX)), err
}

// LookupTXT returns the TXT records published at name.
func (c *Cache) LookupTXT(name string) ([]string, error) {
	v, err := c.lookup("txt|"+name, func(ctx context.Context) (any, error) {
		return c.resolver.LookupTXT(ctx, name)
	})
	if v == nil {
		return nil, err
	}
	return append([]string(nil), v.([]string)...), err
}

// LookupHost returns the A/AAAA addresses for host.
func (c *Cache) LookupHost(host string) ([]string, error) {
	v, err := c.lookup("host|"+host, func(ctx context.Context) (any, error) {
		return c.resolver.LookupHost(ctx, host)
	})
	if v == nil {
		return nil, err
	}
	return append([]string(nil), v.([]string)...), err
}

// LookupNS returns the name servers for domain.
func (c *Cache) LookupNS(domain string) ([]*net.NS, error) {
	v, err := c.lookup("ns|"+domain, func(ctx context.Context) (any, error) {
		return c.resolver.LookupNS(ctx, domain)
	})
	if v == nil {
		return nil, err
	}
	return v.([]*net.NS), err
}

// Len returns the number of cached entries (for diagnostics).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// lookup is the shared singleflight path. Negative results (lookup errors)
// are cached for the same TTL as positive ones; the probes fail closed, so
// retrying a dead name per address would only multiply timeouts.
func (c *Cache) lookup(key string, fn func(ctx context.Context) (any, error)) (any, error) {
	c.mu.Lock()

	if e, ok := c.entries[key]; ok {
		select {
		case <-e.done:
			if time.Now().Before(e.expires) {
				c.mu.Unlock()
				return e.value, e.err
			}
			// expired, fall through and refresh
		default:
			// lookup in flight, wait for it
			c.mu.Unlock()
			<-e.done
			return e.value, e.err
		}
	}

	e := &entry{done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.lookupTimeout)
	defer cancel()

	e.value, e.err = fn(ctx)
	e.expires = time.Now().Add(c.cacheTTL)
	close(e.done)

	return e.value, e.err
}

// copyMX deep-copies MX records so callers can sort them without mutating
// the cached slice.
func copyMX(records []*net.MX) []*net.MX {
	if records == nil {
		return nil
	}
	out := make([]*net.MX, len(records))
	for i, r := range records {
		cp := *r
		out[i] = &cp
	}
	return out
}
