// Package cache provides an optional Redis-backed HTTP response cache for
// PokeAPI requests.
//
// PokeAPI serves static reference data, so responses are cached for the
// duration the server advertises (Expires or Cache-Control max-age) or
// DefaultTTL when it advertises nothing. Only raw upstream responses are
// cached. Display records built from them are recomputed per request.
//
// Each entry is a Redis hash (body, etag, last_modified, status, headers,
// cached_at, expires) whose key expires with the entry, so refreshing after
// a 304 rewrites only the expiry.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(redisClient)
//
//	key := cache.CacheKey{
//		Endpoint:    "/api/v2/pokemon",
//		QueryParams: url.Values{"limit": []string{"60"}, "offset": []string{"0"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from PokeAPI
//	}
//
// # Conditional Requests
//
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//	}
//
// A 304 Not Modified answer is served from the cached entry and its TTL is
// refreshed from the new response headers.
package cache
