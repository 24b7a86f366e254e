// Package pokeapi maps the PokeAPI list and detail endpoints onto typed Go
// values.
package pokeapi

// NamedResource is PokeAPI's {name, url} reference shape.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListResponse is one page of GET /api/v2/pokemon.
type ListResponse struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// PokemonResponse is GET /api/v2/pokemon/{id}, reduced to the fields used here.
type PokemonResponse struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Height int        `json:"height"`
	Weight int        `json:"weight"`
	Types  []TypeSlot `json:"types"`
	Stats  []Stat     `json:"stats"`
}

// TypeSlot is an entry of PokemonResponse.Types.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// Stat is an entry of PokemonResponse.Stats.
type Stat struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}
