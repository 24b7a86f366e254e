package cache

import (
	"net/url"
	"testing"
)

func TestCacheKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  CacheKey
		want string
	}{
		{
			name: "detail endpoint",
			key:  CacheKey{Endpoint: "/api/v2/pokemon/25/"},
			want: "pokeapi:api/v2/pokemon/25",
		},
		{
			name: "list endpoint with sorted query params",
			key: CacheKey{
				Endpoint: "/api/v2/pokemon",
				QueryParams: url.Values{
					"offset": []string{"0"},
					"limit":  []string{"60"},
				},
			},
			want: "pokeapi:api/v2/pokemon:limit=60:offset=0",
		},
		{
			name: "empty endpoint",
			key:  CacheKey{},
			want: "pokeapi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("CacheKey.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheKey_Determinism(t *testing.T) {
	key := CacheKey{
		Endpoint: "/api/v2/pokemon",
		QueryParams: url.Values{
			"limit":  []string{"60"},
			"offset": []string{"0"},
			"a":      []string{"z"},
		},
	}

	first := key.String()
	for i := 0; i < 10; i++ {
		if got := key.String(); got != first {
			t.Errorf("iteration %d = %v, want %v (not deterministic)", i, got, first)
		}
	}
}
