package handler

import (
	"net/http"
	"strings"

	"github.com/kyleBSCS/pokedex/internal/domain"
	"github.com/kyleBSCS/pokedex/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// GET /api/pokemon
// ============================================================

func listPokemonHandler(px *service.Pokedex, maxPageLimit int, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/pokemon")
		defer span.End()

		opts, err := parseListOptions(r.URL.Query(), maxPageLimit)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		res, err := px.List(ctx, opts)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		page := domain.PokemonPage{
			Count:   res.TotalCount,
			Results: res.Items,
		}
		if opts.Offset+opts.Limit < res.TotalCount {
			page.Next = pageLink(r.URL.Path, opts, opts.Offset+opts.Limit)
		}
		if opts.Offset > 0 {
			page.Previous = pageLink(r.URL.Path, opts, max(0, opts.Offset-opts.Limit))
		}

		span.SetAttributes(attribute.Int("list.count", res.TotalCount))
		writeJSON(w, http.StatusOK, page)
	}
}

// ============================================================
// GET /api/pokemon/{id}
// ============================================================

func getPokemonHandler(px *service.Pokedex, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/pokemon/{id}")
		defer span.End()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			writeError(w, http.StatusBadRequest, "Pokemon ID or name is required")
			return
		}
		span.SetAttributes(attribute.String("pokemon.id", id))

		view, err := px.GetDetailedView(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// ============================================================
// GET /api/types
// ============================================================

func listTypesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.TypeCatalog())
	}
}
