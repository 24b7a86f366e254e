package pokedex

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/Sternrassler/pokedex-client/pkg/fanout"
	"github.com/Sternrassler/pokedex-client/pkg/logging"
	"github.com/Sternrassler/pokedex-client/pkg/pokeapi"
	"github.com/rs/zerolog"
)

// Repository builds display records from a pokeapi.Fetcher.
type Repository struct {
	api    pokeapi.Fetcher
	logger zerolog.Logger
}

// NewRepository creates a repository over api.
func NewRepository(api pokeapi.Fetcher) *Repository {
	return &Repository{
		api:    api,
		logger: logging.NewLogger(logging.ComponentPokedex),
	}
}

// FetchList returns the first limit entries, enriched with their category
// labels. limit <= 0 means DefaultListLimit. Only a failed list request is
// an error.
func (r *Repository) FetchList(ctx context.Context, limit int) ([]DisplayItem, error) {
	items, err := r.FetchBasicList(ctx, limit)
	if err != nil {
		return nil, err
	}

	enriched := r.Enrich(ctx, items)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.Info().
		Int("limit", limit).
		Int("items", len(enriched)).
		Msg("List fetched")

	return enriched, nil
}

// FetchBasicList requests one page starting at offset 0 and builds a
// DisplayItem per entry with a parseable id. Categories are left empty.
func (r *Repository) FetchBasicList(ctx context.Context, limit int) ([]DisplayItem, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	resp, err := r.api.ListPokemon(ctx, limit, 0)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Msg("List fetch failed")
		return nil, asFetchError("/api/v2/pokemon", err)
	}

	items := make([]DisplayItem, 0, len(resp.Results))
	for _, entry := range resp.Results {
		id, ok := ParseID(entry.URL)
		if !ok {
			listEntriesDropped.Inc()
			r.logger.Debug().
				Str("name", entry.Name).
				Str("url", entry.URL).
				Msg("Dropping list entry without numeric id")
			continue
		}
		items = append(items, DisplayItem{
			ID:         id,
			Name:       Capitalize(entry.Name),
			ImageURL:   pokeapi.ImageURL(id),
			Categories: []string{},
		})
	}

	return items, nil
}

// Enrich fetches every item's detail concurrently and fills in its
// categories. The result has the same length and order as items; an item
// whose detail fetch fails is returned unchanged. Inputs are not modified.
func (r *Repository) Enrich(ctx context.Context, items []DisplayItem) []DisplayItem {
	start := time.Now()
	defer func() {
		enrichmentDuration.Observe(time.Since(start).Seconds())
	}()

	results := fanout.Gather(ctx, items, func(ctx context.Context, item DisplayItem) ([]string, error) {
		detail, err := r.api.GetPokemon(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		return categoryCodes(detail), nil
	})

	out := make([]DisplayItem, len(items))
	for i, res := range results {
		out[i] = items[i]
		if res.Err != nil {
			enrichmentFailures.Inc()
			r.logger.Debug().
				Err(res.Err).
				Int("pokemon_id", items[i].ID).
				Msg("Enrichment failed, keeping item without categories")
			if out[i].Categories == nil {
				out[i].Categories = []string{}
			}
			continue
		}
		out[i].Categories = CategoryLabels.TranslateAll(res.Value)
	}

	return out
}

// FetchDetail returns the full display record for id. Any failure is
// returned as a *client.FetchError.
func (r *Repository) FetchDetail(ctx context.Context, id int) (*DisplayDetail, error) {
	res, err := r.api.GetPokemon(ctx, id)
	if err != nil {
		r.logger.Warn().Err(err).Int("pokemon_id", id).Msg("Detail fetch failed")
		return nil, asFetchError(fmt.Sprintf("/api/v2/pokemon/%d/", id), err)
	}

	attributes := make([]Attribute, len(res.Stats))
	for i, stat := range res.Stats {
		attributes[i] = Attribute{
			Label: AttributeLabels.Translate(stat.Stat.Name),
			Value: stat.BaseStat,
		}
	}

	return &DisplayDetail{
		ID:         res.ID,
		Name:       Capitalize(res.Name),
		ImageURL:   pokeapi.ImageURL(res.ID),
		Height:     res.Height,
		Weight:     res.Weight,
		Categories: CategoryLabels.TranslateAll(categoryCodes(res)),
		Attributes: attributes,
	}, nil
}

// ParseID extracts the trailing numeric path segment of a resource url,
// ignoring trailing slashes. Signs, non-digits and overflow are rejected.
func ParseID(resourceURL string) (int, bool) {
	trimmed := strings.TrimRight(resourceURL, "/")
	segment := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if segment == "" {
		return 0, false
	}
	for i := 0; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return 0, false
		}
	}

	id, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return id, true
}

func categoryCodes(p *pokeapi.PokemonResponse) []string {
	codes := make([]string, len(p.Types))
	for i, slot := range p.Types {
		codes[i] = slot.Type.Name
	}
	return codes
}

// asFetchError passes FetchErrors through and wraps anything else.
func asFetchError(endpoint string, err error) error {
	var fe *client.FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &client.FetchError{Endpoint: endpoint, Class: client.ErrorClassNetwork, Err: err}
}
