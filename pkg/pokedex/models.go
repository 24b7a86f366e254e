// Package pokedex adapts PokeAPI list and detail responses into
// display-ready records.
//
// A list fetch issues one list request followed by one detail request per
// entry, all in flight at once, and joins on them before returning. Detail
// failures inside a list degrade the affected item to having no categories;
// they never fail the list.
package pokedex

// DefaultListLimit is the page size used when the caller passes no limit.
const DefaultListLimit = 60

// DisplayItem is a list row.
type DisplayItem struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	ImageURL   string   `json:"image_url"`
	Categories []string `json:"categories"`
}

// DisplayDetail is the full record for one entity.
type DisplayDetail struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	ImageURL   string      `json:"image_url"`
	Height     int         `json:"height"`
	Weight     int         `json:"weight"`
	Categories []string    `json:"categories"`
	Attributes []Attribute `json:"attributes"`
}

// Attribute is a translated stat label paired with its base value.
type Attribute struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}
