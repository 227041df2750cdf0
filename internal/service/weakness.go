package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/kyleBSCS/pokedex/internal/domain"
	"github.com/kyleBSCS/pokedex/internal/infra/observability"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ComputeWeaknesses folds the defensive damage relations of each of a
// Pokémon's types into one multiplier per attacking type and returns the
// types above 1x, strongest first. Ties keep the canonical type order.
// Names outside the 18 known types are ignored.
func ComputeWeaknesses(relations []domain.DamageRelations) []domain.Weakness {
	multipliers := make(map[string]float64, len(domain.PokemonTypes))
	for _, t := range domain.PokemonTypes {
		multipliers[t] = 1
	}

	apply := func(refs []domain.NamedResource, factor float64) {
		for _, r := range refs {
			if _, ok := multipliers[r.Name]; ok {
				multipliers[r.Name] *= factor
			}
		}
	}
	for _, rel := range relations {
		apply(rel.DoubleDamageFrom, 2)
		apply(rel.HalfDamageFrom, 0.5)
		apply(rel.NoDamageFrom, 0)
	}

	out := []domain.Weakness{}
	for _, t := range domain.PokemonTypes {
		if m := multipliers[t]; m > 1 {
			out = append(out, domain.Weakness{Type: t, Effectiveness: m})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Effectiveness > out[j].Effectiveness
	})
	return out
}

// weaknesses fetches every type's damage relations concurrently. Any
// failure degrades the whole result to an empty list.
func (p *Pokedex) weaknesses(ctx context.Context, types []string) []domain.Weakness {
	ctx, span := tracer.Start(ctx, "Pokedex.Weaknesses")
	defer span.End()

	if len(types) == 0 {
		return []domain.Weakness{}
	}

	relations := make([]domain.DamageRelations, len(types))
	g, gCtx := errgroup.WithContext(ctx)
	for i, name := range types {
		g.Go(func() error {
			t, err := p.api.GetType(gCtx, name)
			if err != nil {
				return fmt.Errorf("type %s: %w", name, err)
			}
			relations[i] = t.DamageRelations
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Warn("weakness calculation degraded to empty",
			zap.Strings("types", types),
			zap.Error(err),
		)
		p.metrics.IncrDegraded(observability.ComponentWeakness)
		return []domain.Weakness{}
	}
	return ComputeWeaknesses(relations)
}
