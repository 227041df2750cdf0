package domain

import "strings"

// PokemonTypes is the fixed type enumeration, in the order the
// filter box lists them.
var PokemonTypes = []string{
	"grass",
	"fire",
	"water",
	"electric",
	"psychic",
	"dark",
	"fairy",
	"steel",
	"dragon",
	"ghost",
	"bug",
	"rock",
	"ground",
	"poison",
	"flying",
	"normal",
	"ice",
	"fighting",
}

const defaultTypeColor = "#A8A77A"

var typeColors = map[string]string{
	"normal":   "#A8A77A",
	"fire":     "#EE8130",
	"water":    "#6390F0",
	"electric": "#F7D02C",
	"grass":    "#7AC74C",
	"ice":      "#96D9D6",
	"fighting": "#C22E28",
	"poison":   "#A33EA1",
	"ground":   "#E2BF65",
	"flying":   "#A98FF3",
	"psychic":  "#F95587",
	"bug":      "#A6B91A",
	"rock":     "#B6A136",
	"ghost":    "#735797",
	"dragon":   "#6F35FC",
	"dark":     "#705746",
	"steel":    "#B7B7CE",
	"fairy":    "#D685AD",
}

// TypeInfo is returned by GET /api/types.
type TypeInfo struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// IsPokemonType reports whether name belongs to the enumeration.
func IsPokemonType(name string) bool {
	_, ok := typeColors[strings.ToLower(name)]
	return ok
}

// TypeColor returns the badge color of a type, normal's color for unknowns.
func TypeColor(name string) string {
	if c, ok := typeColors[strings.ToLower(name)]; ok {
		return c
	}
	return defaultTypeColor
}

// TypeCatalog lists every type with its color.
func TypeCatalog() []TypeInfo {
	out := make([]TypeInfo, 0, len(PokemonTypes))
	for _, t := range PokemonTypes {
		out = append(out, TypeInfo{Name: t, Color: TypeColor(t)})
	}
	return out
}
