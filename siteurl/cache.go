// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package siteurl

import (
	"context"
	"sync"
)

// Cache is a single-slot memo of the current URL. It starts empty and is
// populated at most once; the first stored value wins and is never replaced.
// A Cache is safe for concurrent use.
//
// Scope a Cache to whatever lifetime is appropriate: one per Resolver for a
// process-wide value, or one per request through ContextWithCache.
type Cache struct {
	mu    sync.Mutex
	parts Parts
	full  bool
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

// Load returns the cached parts, if any.
func (c *Cache) Load() (Parts, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parts, c.full
}

// GetOrCompute returns the cached parts, computing and storing them when the
// cache is empty. hit reports whether the value came from the cache. compute
// runs without the lock held; if another goroutine stores first, its value is
// returned instead. Errors are returned as is and leave the cache empty.
func (c *Cache) GetOrCompute(compute func() (Parts, error)) (parts Parts, hit bool, err error) {
	if p, ok := c.Load(); ok {
		return p, true, nil
	}

	p, err := compute()
	if err != nil {
		return Parts{}, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.full {
		c.parts = p
		c.full = true
	}
	return c.parts, false, nil
}

type cacheKey struct{}

// ContextWithCache returns a copy of ctx carrying c.
func ContextWithCache(ctx context.Context, c *Cache) context.Context {
	return context.WithValue(ctx, cacheKey{}, c)
}

// CacheFromContext returns the Cache stored by ContextWithCache.
func CacheFromContext(ctx context.Context) (*Cache, bool) {
	c, ok := ctx.Value(cacheKey{}).(*Cache)
	return c, ok && c != nil
}
