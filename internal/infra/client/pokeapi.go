package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kyleBSCS/pokedex/internal/domain"
	"github.com/kyleBSCS/pokedex/internal/infra/observability"
	"github.com/kyleBSCS/pokedex/internal/infra/resilience"
	"github.com/kyleBSCS/pokedex/internal/port"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("client")

const serviceName = "pokeapi"

// Resource labels used for spans, errors and metrics.
const (
	resourceList      = "pokemon-list"
	resourcePokemon   = "pokemon"
	resourceSpecies   = "species"
	resourceEvolution = "evolution-chain"
	resourceType      = "type"
)

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var nf *domain.ErrNotFound
	return errors.As(err, &nf)
}

// abandonedError marks a call the caller gave up on (cancelled context or
// expired deadline). It says nothing about upstream health.
type abandonedError struct {
	err error
}

func (e *abandonedError) Error() string { return "call abandoned by caller: " + e.err.Error() }
func (e *abandonedError) Unwrap() error { return e.err }

// IsBreakerNeutral reports whether err must not count against the circuit
// breaker: upstream 404s and calls abandoned by the caller.
func IsBreakerNeutral(err error) bool {
	var ab *abandonedError
	return IsNotFound(err) || errors.As(err, &ab)
}

// PokeAPI is the typed adapter over the upstream REST API.
type PokeAPI struct {
	fetcher  port.JSONFetcher
	baseURL  string
	cb       *gobreaker.CircuitBreaker
	cfg      resilience.Config
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
}

// NewPokeAPI creates a new PokeAPI adapter.
func NewPokeAPI(
	fetcher port.JSONFetcher,
	baseURL string,
	cb *gobreaker.CircuitBreaker,
	cfg resilience.Config,
	metrics *observability.Metrics,
) *PokeAPI {
	return &PokeAPI{
		fetcher:  fetcher,
		baseURL:  strings.TrimRight(baseURL, "/"),
		cb:       cb,
		cfg:      cfg,
		bulkhead: resilience.NewBulkhead(cfg.MaxConcurrency),
		metrics:  metrics,
	}
}

// ListPokemon fetches one page of the directory.
func (c *PokeAPI) ListPokemon(ctx context.Context, limit, offset int) (*domain.RawPokemonList, error) {
	u := fmt.Sprintf("%s/pokemon?limit=%d&offset=%d", c.baseURL, limit, offset)
	var list domain.RawPokemonList
	if err := c.get(ctx, resourceList, "", u, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetPokemon fetches a Pokémon by numeric id or name.
func (c *PokeAPI) GetPokemon(ctx context.Context, idOrName string) (*domain.RawPokemon, error) {
	key := strings.ToLower(strings.TrimSpace(idOrName))
	u := fmt.Sprintf("%s/pokemon/%s", c.baseURL, url.PathEscape(key))
	var p domain.RawPokemon
	if err := c.get(ctx, resourcePokemon, key, u, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPokemonByURL fetches a Pokémon through a directory reference URL.
func (c *PokeAPI) GetPokemonByURL(ctx context.Context, rawURL string) (*domain.RawPokemon, error) {
	var p domain.RawPokemon
	if err := c.get(ctx, resourcePokemon, rawURL, rawURL, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetSpecies fetches the species record a Pokémon points at.
func (c *PokeAPI) GetSpecies(ctx context.Context, rawURL string) (*domain.RawSpecies, error) {
	var s domain.RawSpecies
	if err := c.get(ctx, resourceSpecies, rawURL, rawURL, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetEvolutionChain fetches the evolution tree a species points at.
func (c *PokeAPI) GetEvolutionChain(ctx context.Context, rawURL string) (*domain.RawEvolutionChain, error) {
	var ch domain.RawEvolutionChain
	if err := c.get(ctx, resourceEvolution, rawURL, rawURL, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// GetType fetches a type's member list and damage relations.
func (c *PokeAPI) GetType(ctx context.Context, name string) (*domain.RawType, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	u := fmt.Sprintf("%s/type/%s", c.baseURL, url.PathEscape(key))
	var t domain.RawType
	if err := c.get(ctx, resourceType, key, u, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// get runs one upstream call behind the bulkhead, circuit breaker and retry
// policy. 404 is mapped to domain.ErrNotFound and never retried.
func (c *PokeAPI) get(ctx context.Context, resource, id, u string, out any) error {
	ctx, span := tracer.Start(ctx, "PokeAPI.Get", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("pokeapi.resource", resource),
		attribute.String("http.url", u),
	)

	if err := ctx.Err(); err != nil {
		return &domain.ErrExternalService{Service: serviceName, Err: &abandonedError{err: err}}
	}
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return &domain.ErrExternalService{Service: serviceName, Err: &abandonedError{err: err}}
	}
	defer c.bulkhead.Release()

	_, err := c.cb.Execute(func() (any, error) {
		err := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			err := c.fetcher.FetchJSON(ctx, u, out)
			var fe *FetchError
			if errors.As(err, &fe) && fe.Status == http.StatusNotFound {
				return resilience.Permanent(&domain.ErrNotFound{Resource: resource, ID: id})
			}
			return err
		})
		if err != nil && ctx.Err() != nil {
			return nil, &abandonedError{err: ctx.Err()}
		}
		return nil, err
	})
	if err == nil {
		return nil
	}

	if IsNotFound(err) {
		span.SetAttributes(attribute.Bool("pokeapi.not_found", true))
		return err
	}

	var ab *abandonedError
	if errors.As(err, &ab) {
		span.SetAttributes(attribute.Bool("pokeapi.abandoned", true))
		return &domain.ErrExternalService{Service: serviceName, Err: err}
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &domain.ErrCircuitOpen{Service: serviceName}
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if c.metrics != nil {
		c.metrics.IncrUpstreamError(resource)
	}
	return &domain.ErrExternalService{Service: serviceName, Err: err}
}
