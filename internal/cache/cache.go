// Package cache implements the read-through cache layer in front of the
// account store. Values in the cache are never the source of truth: any
// failure on the cache path degrades to a miss, and every write path in the
// facade invalidates before returning.
package cache

import "context"

// AllAccountsKey is the reserved key for the cached list-all-accounts result.
const AllAccountsKey = "all"

// Cache is a key-value cache bound to a specific view type T.
//
// Get returns (nil, false) on a miss or any backend error. Put and the
// invalidation calls never fail from the caller's perspective; backend
// errors are logged and swallowed since a lost entry only costs a re-fetch.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (*T, bool)
	Put(ctx context.Context, key string, value *T)
	Invalidate(ctx context.Context, key string)
	InvalidateAll(ctx context.Context)
}
