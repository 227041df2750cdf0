// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from the concrete upstream adapter.
package port

import (
	"context"

	"github.com/kyleBSCS/pokedex/internal/domain"
)

// JSONFetcher performs a single GET and decodes the JSON body into out.
type JSONFetcher interface {
	FetchJSON(ctx context.Context, url string, out any) error
}

// DirectoryFetcher lists directory entries.
type DirectoryFetcher interface {
	ListPokemon(ctx context.Context, limit, offset int) (*domain.RawPokemonList, error)
	GetType(ctx context.Context, name string) (*domain.RawType, error)
}

// PokemonFetcher retrieves per-Pokémon records.
type PokemonFetcher interface {
	GetPokemon(ctx context.Context, idOrName string) (*domain.RawPokemon, error)
	GetPokemonByURL(ctx context.Context, url string) (*domain.RawPokemon, error)
	GetSpecies(ctx context.Context, url string) (*domain.RawSpecies, error)
	GetEvolutionChain(ctx context.Context, url string) (*domain.RawEvolutionChain, error)
}

// PokeAPI is the full upstream surface the aggregators consume.
type PokeAPI interface {
	DirectoryFetcher
	PokemonFetcher
}
