package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kyleBSCS/pokedex/internal/domain"
	"github.com/kyleBSCS/pokedex/internal/infra/observability"
	"github.com/kyleBSCS/pokedex/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/pokedex")

const upstreamService = "pokeapi"

// Pokedex assembles listing pages and detailed views from the upstream API.
type Pokedex struct {
	api       port.PokeAPI
	directory *Directory
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewPokedex creates the aggregator with all dependencies injected.
func NewPokedex(
	api port.PokeAPI,
	directory *Directory,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Pokedex {
	return &Pokedex{
		api:       api,
		directory: directory,
		metrics:   metrics,
		logger:    logger,
	}
}

// List resolves the candidate set, filters, sorts and paginates it, then
// fetches the page's records concurrently. A record that fails to load is
// dropped from the page. TotalCount is the filtered size before paging.
func (p *Pokedex) List(ctx context.Context, opts domain.ListOptions) (*domain.ListResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Pokedex.List")
	defer span.End()
	span.SetAttributes(
		attribute.Int("list.limit", opts.Limit),
		attribute.Int("list.offset", opts.Offset),
		attribute.String("list.search", opts.Search),
		attribute.StringSlice("list.types", opts.Types),
		attribute.String("list.sort", string(opts.Sort)),
	)

	start := time.Now()
	defer func() {
		p.metrics.RecordRequestDuration("list", time.Since(start))
	}()

	var base []domain.NamedResource
	if len(opts.Types) > 0 {
		base = p.directory.ByTypes(ctx, opts.Types)
	} else {
		base = p.directory.All(ctx)
	}

	candidates := FilterBySearch(base, opts.Search)
	SortResources(candidates, opts.Sort)
	total := len(candidates)
	page := Paginate(candidates, opts.Offset, opts.Limit)

	items := p.fetchPage(ctx, page)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("list.total", total),
		attribute.Int("list.returned", len(items)),
	)
	return &domain.ListResult{Items: items, TotalCount: total}, nil
}

// fetchPage loads every reference concurrently and keeps page order.
func (p *Pokedex) fetchPage(ctx context.Context, page []domain.NamedResource) []domain.Pokemon {
	loaded := make([]*domain.Pokemon, len(page))

	var g errgroup.Group
	for i, ref := range page {
		g.Go(func() error {
			raw, err := p.api.GetPokemonByURL(ctx, ref.URL)
			if err != nil {
				p.logger.Warn("dropping pokemon from page",
					zap.String("name", ref.Name),
					zap.Error(err),
				)
				p.metrics.IncrDegraded(observability.ComponentListing)
				return nil
			}
			pk := toPokemon(raw)
			loaded[i] = &pk
			return nil
		})
	}
	_ = g.Wait()

	items := make([]domain.Pokemon, 0, len(page))
	for _, pk := range loaded {
		if pk != nil {
			items = append(items, *pk)
		}
	}
	return items
}

// GetDetailedView fetches the record, its species and its evolution chain,
// and computes its weaknesses. The record, species and chain are required;
// weaknesses degrade to an empty list.
func (p *Pokedex) GetDetailedView(ctx context.Context, id string) (*domain.DetailedView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Pokedex.GetDetailedView")
	defer span.End()
	span.SetAttributes(attribute.String("pokemon.id", id))

	start := time.Now()
	defer func() {
		p.metrics.RecordRequestDuration("detail", time.Since(start))
	}()

	// --- Step 1: base record ---
	raw, err := p.api.GetPokemon(ctx, id)
	if err != nil {
		var nf *domain.ErrNotFound
		if errors.As(err, &nf) {
			return nil, err
		}
		p.logger.Error("failed to fetch pokemon",
			zap.String("pokemon_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("pokemon fetch: %w", err)
	}
	base := toPokemon(raw)

	// --- Step 2: species ---
	species, err := p.api.GetSpecies(ctx, raw.Species.URL)
	if err != nil {
		p.logger.Error("failed to fetch species",
			zap.String("pokemon_id", id),
			zap.Error(err),
		)
		return nil, critical("species fetch", err)
	}

	// --- Step 3 + 4: evolution chain and weaknesses concurrently ---
	var (
		chain      []domain.EvolutionStage
		weaknesses []domain.Weakness
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rawChain, err := p.api.GetEvolutionChain(gCtx, species.EvolutionChain.URL)
		if err != nil {
			p.logger.Error("failed to fetch evolution chain",
				zap.String("pokemon_id", id),
				zap.Error(err),
			)
			return critical("evolution chain fetch", err)
		}
		chain = FlattenEvolution(gCtx, rawChain.Chain, p.stageImage)
		return nil
	})

	g.Go(func() error {
		weaknesses = p.weaknesses(gCtx, base.Types)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(chain) == 0 {
		chain = []domain.EvolutionStage{{ID: base.ID, Name: base.Name, ImageURL: base.ImageURL}}
	}

	return buildDetailedView(base, species, chain, weaknesses), nil
}

// critical wraps a failed required sub-fetch. A 404 on a species or chain
// is an upstream inconsistency, not a missing Pokémon, so it must not read
// as domain.ErrNotFound.
func critical(step string, err error) error {
	var nf *domain.ErrNotFound
	if errors.As(err, &nf) {
		return &domain.ErrExternalService{
			Service: upstreamService,
			Err:     fmt.Errorf("%s: %s", step, err.Error()),
		}
	}
	return fmt.Errorf("%s: %w", step, err)
}

// DirectoryAge reports how long ago the directory snapshot was loaded.
func (p *Pokedex) DirectoryAge() (time.Duration, bool) {
	at, ok := p.directory.LastRefresh()
	if !ok {
		return 0, false
	}
	return time.Since(at), true
}
