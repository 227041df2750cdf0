package service

import (
	"context"
	"strconv"

	"github.com/kyleBSCS/pokedex/internal/domain"
	"github.com/kyleBSCS/pokedex/internal/infra/observability"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ImageLookup resolves the display image of the Pokémon with the given id.
type ImageLookup func(ctx context.Context, id int) string

// FlattenEvolution walks the tree pre-order: a node, then each branch in
// upstream order. Children and the node's own image are resolved
// concurrently; the output order does not depend on which finishes first.
// Nodes whose species URL has no id are dropped with their subtree.
func FlattenEvolution(ctx context.Context, node domain.RawEvolutionNode, lookup ImageLookup) []domain.EvolutionStage {
	id, ok := domain.IDFromURL(node.Species.URL)
	if !ok {
		return nil
	}

	var image string
	branches := make([][]domain.EvolutionStage, len(node.EvolvesTo))

	var g errgroup.Group
	g.Go(func() error {
		image = lookup(ctx, id)
		return nil
	})
	for i, child := range node.EvolvesTo {
		g.Go(func() error {
			branches[i] = FlattenEvolution(ctx, child, lookup)
			return nil
		})
	}
	_ = g.Wait()

	stages := []domain.EvolutionStage{{ID: id, Name: node.Species.Name, ImageURL: image}}
	for _, b := range branches {
		stages = append(stages, b...)
	}
	return stages
}

// stageImage fetches a stage's record for its image. A failed fetch yields
// the placeholder; a record without artwork yields the card fallback.
func (p *Pokedex) stageImage(ctx context.Context, id int) string {
	raw, err := p.api.GetPokemon(ctx, strconv.Itoa(id))
	if err != nil {
		p.logger.Warn("evolution stage fetch failed, using placeholder",
			zap.Int("pokemon_id", id),
			zap.Error(err),
		)
		p.metrics.IncrDegraded(observability.ComponentEvolution)
		return domain.PlaceholderImage
	}
	return ResolveImage(raw.Sprites, domain.FallbackImage)
}
