package service

import (
	"context"
	"slices"
	"time"

	"github.com/kyleBSCS/pokedex/internal/domain"
	"github.com/kyleBSCS/pokedex/internal/infra/cache"
	"github.com/kyleBSCS/pokedex/internal/infra/observability"
	"github.com/kyleBSCS/pokedex/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Directory serves the full list of directory references from a TTL
// snapshot, and per-type member lists straight from upstream.
type Directory struct {
	api      port.DirectoryFetcher
	snapshot *cache.Snapshot[[]domain.NamedResource]
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewDirectory creates the directory cache. Nothing is fetched until the
// first read.
func NewDirectory(
	api port.DirectoryFetcher,
	ttl time.Duration,
	metrics *observability.Metrics,
	logger *zap.Logger,
	opts ...cache.Option,
) *Directory {
	d := &Directory{
		api:     api,
		metrics: metrics,
		logger:  logger,
	}
	d.snapshot = cache.NewSnapshot(ttl, d.fetchAll, opts...)
	return d
}

func (d *Directory) fetchAll(ctx context.Context) ([]domain.NamedResource, error) {
	list, err := d.api.ListPokemon(ctx, domain.MaxPokemonID, 0)
	if err != nil {
		return nil, err
	}
	d.logger.Info("directory refreshed", zap.Int("entries", len(list.Results)))
	return list.Results, nil
}

// All returns every directory reference. Upstream failures never surface:
// the last good snapshot is served, or an empty list if there never was one.
// The returned slice belongs to the caller.
func (d *Directory) All(ctx context.Context) []domain.NamedResource {
	ctx, span := tracer.Start(ctx, "Directory.All")
	defer span.End()

	entries, hit, err := d.snapshot.Get(ctx)
	if hit {
		d.metrics.IncrCacheHit(observability.CacheDirectory)
	} else {
		d.metrics.IncrCacheMiss(observability.CacheDirectory)
	}
	if err != nil {
		d.logger.Warn("directory refresh failed, serving stale entries",
			zap.Int("stale_entries", len(entries)),
			zap.Error(err),
		)
		d.metrics.IncrDegraded(observability.ComponentDirectory)
	}
	span.SetAttributes(
		attribute.Bool("directory.cache_hit", hit),
		attribute.Int("directory.entries", len(entries)),
	)

	if entries == nil {
		return []domain.NamedResource{}
	}
	return slices.Clone(entries)
}

// ByTypes returns the union of the members of each type, deduplicated by
// name. Order is request order of the types, then upstream member order.
// A type whose fetch fails contributes nothing.
func (d *Directory) ByTypes(ctx context.Context, types []string) []domain.NamedResource {
	ctx, span := tracer.Start(ctx, "Directory.ByTypes")
	defer span.End()
	span.SetAttributes(attribute.StringSlice("directory.types", types))

	perType := make([][]domain.NamedResource, len(types))

	var g errgroup.Group
	for i, name := range types {
		g.Go(func() error {
			t, err := d.api.GetType(ctx, name)
			if err != nil {
				d.logger.Warn("type fetch failed, skipping type",
					zap.String("type", name),
					zap.Error(err),
				)
				d.metrics.IncrDegraded(observability.ComponentTypes)
				return nil
			}
			members := make([]domain.NamedResource, 0, len(t.Pokemon))
			for _, m := range t.Pokemon {
				members = append(members, m.Pokemon)
			}
			perType[i] = members
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	out := []domain.NamedResource{}
	for _, members := range perType {
		for _, m := range members {
			if _, dup := seen[m.Name]; dup {
				continue
			}
			seen[m.Name] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

// LastRefresh reports when the snapshot was last loaded.
func (d *Directory) LastRefresh() (time.Time, bool) {
	return d.snapshot.FetchedAt()
}
