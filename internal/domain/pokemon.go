package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// ============================================================
// Catalog models (exposed to the presentation layer)
// ============================================================

// MaxPokemonID is the page size used to pull the whole directory in one call.
const MaxPokemonID = 1302

// Image paths served by the frontend when the upstream has no artwork.
const (
	FallbackImage    = "/fallback.webp"
	PlaceholderImage = "/placeholder.png"
)

var trailingID = regexp.MustCompile(`/(\d+)/?$`)

// NamedResource is a pointer into the upstream directory.
// The URL carries the numeric id as its last path segment.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ID extracts the numeric id from the resource URL. Returns 0 when the
// URL has no trailing numeric segment.
func (r NamedResource) ID() int {
	id, _ := IDFromURL(r.URL)
	return id
}

// IDFromURL parses the trailing /<digits>/ segment of an upstream URL.
func IDFromURL(url string) (int, bool) {
	m := trailingID.FindStringSubmatch(url)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// FormatID renders an id the way the catalog cards show it (1 -> #001).
func FormatID(id int) string {
	return fmt.Sprintf("#%03d", id)
}

// Stat is a single base stat.
type Stat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Pokemon is the detail record built from the raw upstream payload.
type Pokemon struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	ImageURL   string   `json:"imageUrl"`
	Types      []string `json:"types"`
	Stats      []Stat   `json:"stats"`
	Abilities  []string `json:"abilities"`
	Height     int      `json:"height"`
	Weight     int      `json:"weight"`
	SpeciesURL string   `json:"speciesUrl"`
}

// EvolutionStage is one node of a flattened evolution chain.
type EvolutionStage struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Weakness is an attacking type dealing more than neutral damage.
type Weakness struct {
	Type          string  `json:"type"`
	Effectiveness float64 `json:"effectiveness"`
}

// DetailedView is the aggregate served by the detail overlay.
type DetailedView struct {
	Pokemon

	Species        string           `json:"species"`
	Description    string           `json:"description"`
	EvolutionChain []EvolutionStage `json:"evolutionChain"`
	Weaknesses     []Weakness       `json:"weaknesses"`
	Generation     string           `json:"generation"`
	CaptureRate    int              `json:"captureRate"`
	BaseHappiness  int              `json:"baseHappiness"`
	GrowthRate     string           `json:"growthRate"`
	GenderRate     int              `json:"genderRate"`
	Habitat        *string          `json:"habitat"`
	IsBaby         bool             `json:"isBaby"`
	IsLegendary    bool             `json:"isLegendary"`
	IsMythical     bool             `json:"isMythical"`
}

// ============================================================
// Listing
// ============================================================

// SortOrder selects the listing order.
type SortOrder string

const (
	SortIDAsc    SortOrder = "id_asc"
	SortIDDesc   SortOrder = "id_desc"
	SortNameAsc  SortOrder = "name_asc"
	SortNameDesc SortOrder = "name_desc"
)

// ParseSortOrder maps a query value to a SortOrder, defaulting to id_asc.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortIDDesc, SortNameAsc, SortNameDesc:
		return SortOrder(s)
	default:
		return SortIDAsc
	}
}

// ListOptions are the already validated listing parameters.
type ListOptions struct {
	Limit  int
	Offset int
	Search string
	Types  []string
	Sort   SortOrder
}

// ListResult is a page of detail records plus the pre-pagination count.
type ListResult struct {
	Items      []Pokemon
	TotalCount int
}

// PokemonPage is the JSON body of GET /api/pokemon.
type PokemonPage struct {
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []Pokemon `json:"results"`
}
