package pokeapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Sternrassler/pokedex-client/pkg/client"
)

const (
	pokemonPath = "/api/v2/pokemon"

	// SpriteURLTemplate builds the front sprite URL from a numeric id.
	SpriteURLTemplate = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png"
)

// Fetcher is the subset of API used by the adaptation layer.
type Fetcher interface {
	ListPokemon(ctx context.Context, limit, offset int) (*ListResponse, error)
	GetPokemon(ctx context.Context, id int) (*PokemonResponse, error)
}

// API issues typed PokeAPI requests over a client.Client.
type API struct {
	client *client.Client
}

// NewAPI wraps an HTTP client.
func NewAPI(c *client.Client) *API {
	return &API{client: c}
}

// ListPokemon fetches one page of the pokemon index.
func (a *API) ListPokemon(ctx context.Context, limit, offset int) (*ListResponse, error) {
	query := url.Values{
		"limit":  []string{strconv.Itoa(limit)},
		"offset": []string{strconv.Itoa(offset)},
	}

	var out ListResponse
	if err := a.client.GetJSON(ctx, pokemonPath, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPokemon fetches the detail record for id.
func (a *API) GetPokemon(ctx context.Context, id int) (*PokemonResponse, error) {
	var out PokemonResponse
	if err := a.client.GetJSON(ctx, fmt.Sprintf("%s/%d/", pokemonPath, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImageURL returns the sprite URL for id. The image is not checked to exist.
func ImageURL(id int) string {
	return fmt.Sprintf(SpriteURLTemplate, id)
}
