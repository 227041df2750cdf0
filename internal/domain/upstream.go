package domain

// ============================================================
// Raw PokeAPI payloads
// Only the fields the aggregators read are mapped.
// ============================================================

// APIResource is an unnamed upstream reference.
type APIResource struct {
	URL string `json:"url"`
}

// RawPokemonList is GET /pokemon?limit=&offset=.
type RawPokemonList struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// RawSprite is a sprite slot that may be null upstream.
type RawSprite struct {
	FrontDefault *string `json:"front_default"`
}

// RawOtherSprites holds the high resolution artwork sets.
type RawOtherSprites struct {
	DreamWorld      *RawSprite `json:"dream_world"`
	OfficialArtwork *RawSprite `json:"official-artwork"`
}

// RawSprites holds the artwork variants the catalog cares about.
type RawSprites struct {
	FrontDefault *string          `json:"front_default"`
	Other        *RawOtherSprites `json:"other"`
}

// RawPokemonType is a slot in a Pokémon's type list.
type RawPokemonType struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// RawPokemonStat is a base stat entry.
type RawPokemonStat struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// RawPokemonAbility is an ability slot.
type RawPokemonAbility struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
}

// RawPokemon is GET /pokemon/{id}.
type RawPokemon struct {
	ID        int                 `json:"id"`
	Name      string              `json:"name"`
	Height    int                 `json:"height"`
	Weight    int                 `json:"weight"`
	Sprites   RawSprites          `json:"sprites"`
	Types     []RawPokemonType    `json:"types"`
	Stats     []RawPokemonStat    `json:"stats"`
	Abilities []RawPokemonAbility `json:"abilities"`
	Species   NamedResource       `json:"species"`
}

// RawGenus is a localized genus entry.
type RawGenus struct {
	Genus    string        `json:"genus"`
	Language NamedResource `json:"language"`
}

// RawFlavorText is a localized Pokédex entry.
type RawFlavorText struct {
	FlavorText string        `json:"flavor_text"`
	Language   NamedResource `json:"language"`
	Version    NamedResource `json:"version"`
}

// RawSpecies is GET /pokemon-species/{id}.
type RawSpecies struct {
	ID                int             `json:"id"`
	Name              string          `json:"name"`
	GenderRate        int             `json:"gender_rate"`
	CaptureRate       int             `json:"capture_rate"`
	BaseHappiness     int             `json:"base_happiness"`
	IsBaby            bool            `json:"is_baby"`
	IsLegendary       bool            `json:"is_legendary"`
	IsMythical        bool            `json:"is_mythical"`
	GrowthRate        *NamedResource  `json:"growth_rate"`
	Habitat           *NamedResource  `json:"habitat"`
	Generation        *NamedResource  `json:"generation"`
	EvolutionChain    APIResource     `json:"evolution_chain"`
	Genera            []RawGenus      `json:"genera"`
	FlavorTextEntries []RawFlavorText `json:"flavor_text_entries"`
}

// RawEvolutionNode is one node of the upstream evolution tree.
type RawEvolutionNode struct {
	Species   NamedResource      `json:"species"`
	IsBaby    bool               `json:"is_baby"`
	EvolvesTo []RawEvolutionNode `json:"evolves_to"`
}

// RawEvolutionChain is GET /evolution-chain/{id}.
type RawEvolutionChain struct {
	ID    int              `json:"id"`
	Chain RawEvolutionNode `json:"chain"`
}

// DamageRelations lists the attacking types that hit a type for
// double, half or no damage.
type DamageRelations struct {
	DoubleDamageFrom []NamedResource `json:"double_damage_from"`
	HalfDamageFrom   []NamedResource `json:"half_damage_from"`
	NoDamageFrom     []NamedResource `json:"no_damage_from"`
}

// RawTypeMember is a Pokémon listed under a type.
type RawTypeMember struct {
	Slot    int           `json:"slot"`
	Pokemon NamedResource `json:"pokemon"`
}

// RawType is GET /type/{name}: member list and damage relations.
type RawType struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	DamageRelations DamageRelations `json:"damage_relations"`
	Pokemon         []RawTypeMember `json:"pokemon"`
}
