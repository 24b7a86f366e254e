package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// KeyPrefix namespaces every cache key in Redis.
const KeyPrefix = "pokeapi"

// CacheKey identifies a cached PokeAPI response.
type CacheKey struct {
	// Endpoint is the request path (e.g. "/api/v2/pokemon/25/")
	Endpoint string

	// QueryParams are the request query parameters (e.g. limit, offset)
	QueryParams url.Values
}

// String generates a deterministic cache key string.
//
// Example:
//
//	pokeapi:api/v2/pokemon:limit=60:offset=0
func (k CacheKey) String() string {
	parts := []string{KeyPrefix}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.QueryParams.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
