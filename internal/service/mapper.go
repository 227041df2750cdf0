package service

import (
	"strings"

	"github.com/kyleBSCS/pokedex/internal/domain"
)

const (
	unknownSpecies       = "Unknown Species"
	unknownValue         = "Unknown"
	noDescription        = "No description available."
	englishLanguage      = "en"
	flavorTextLineBreaks = "\n\f"
)

// FirstImage returns the first non-empty candidate, or "" if none is set.
// Candidates are evaluated in order, so callers list them by preference.
func FirstImage(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return ""
}

// ResolveImage picks the display image of a Pokémon:
// official artwork, dream world, front sprite, then fallback.
func ResolveImage(s domain.RawSprites, fallback string) string {
	var official, dream *string
	if s.Other != nil {
		if s.Other.OfficialArtwork != nil {
			official = s.Other.OfficialArtwork.FrontDefault
		}
		if s.Other.DreamWorld != nil {
			dream = s.Other.DreamWorld.FrontDefault
		}
	}
	return FirstImage(official, dream, s.FrontDefault, &fallback)
}

// toPokemon maps the raw upstream payload to the catalog record.
func toPokemon(raw *domain.RawPokemon) domain.Pokemon {
	p := domain.Pokemon{
		ID:         raw.ID,
		Name:       raw.Name,
		ImageURL:   ResolveImage(raw.Sprites, domain.FallbackImage),
		Types:      make([]string, 0, len(raw.Types)),
		Stats:      make([]domain.Stat, 0, len(raw.Stats)),
		Abilities:  make([]string, 0, len(raw.Abilities)),
		Height:     raw.Height,
		Weight:     raw.Weight,
		SpeciesURL: raw.Species.URL,
	}
	for _, t := range raw.Types {
		p.Types = append(p.Types, t.Type.Name)
	}
	for _, s := range raw.Stats {
		p.Stats = append(p.Stats, domain.Stat{Name: s.Stat.Name, Value: s.BaseStat})
	}
	for _, a := range raw.Abilities {
		p.Abilities = append(p.Abilities, a.Ability.Name)
	}
	return p
}

// buildDetailedView merges the base record with the species facts,
// the flattened chain and the weaknesses.
func buildDetailedView(
	base domain.Pokemon,
	species *domain.RawSpecies,
	chain []domain.EvolutionStage,
	weaknesses []domain.Weakness,
) *domain.DetailedView {
	view := &domain.DetailedView{
		Pokemon:        base,
		Species:        englishGenus(species.Genera),
		Description:    englishFlavorText(species.FlavorTextEntries),
		EvolutionChain: chain,
		Weaknesses:     weaknesses,
		Generation:     nameOr(species.Generation, unknownValue),
		CaptureRate:    species.CaptureRate,
		BaseHappiness:  species.BaseHappiness,
		GrowthRate:     nameOr(species.GrowthRate, unknownValue),
		GenderRate:     species.GenderRate,
		IsBaby:         species.IsBaby,
		IsLegendary:    species.IsLegendary,
		IsMythical:     species.IsMythical,
	}
	if species.Habitat != nil && species.Habitat.Name != "" {
		habitat := species.Habitat.Name
		view.Habitat = &habitat
	}
	return view
}

func englishGenus(genera []domain.RawGenus) string {
	for _, g := range genera {
		if g.Language.Name == englishLanguage {
			return g.Genus
		}
	}
	return unknownSpecies
}

func englishFlavorText(entries []domain.RawFlavorText) string {
	for _, e := range entries {
		if e.Language.Name == englishLanguage {
			return strings.Map(func(r rune) rune {
				if strings.ContainsRune(flavorTextLineBreaks, r) {
					return ' '
				}
				return r
			}, e.FlavorText)
		}
	}
	return noDescription
}

func nameOr(r *domain.NamedResource, fallback string) string {
	if r == nil || r.Name == "" {
		return fallback
	}
	return r.Name
}
