package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/kyleBSCS/pokedex/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

const defaultPageLimit = 20

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, domain.ErrorResponse{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseListOptions validates the listing query. limit must be an integer in
// [1, maxLimit] and offset a non-negative integer; both are optional. Every
// requested type must be one of the known Pokémon types.
func parseListOptions(q url.Values, maxLimit int) (domain.ListOptions, error) {
	opts := domain.ListOptions{
		Limit:  defaultPageLimit,
		Search: strings.TrimSpace(q.Get("search")),
		Types:  splitTypes(q.Get("types")),
		Sort:   domain.ParseSortOrder(q.Get("sort")),
	}
	if opts.Limit > maxLimit {
		opts.Limit = maxLimit
	}

	for _, t := range opts.Types {
		if !domain.IsPokemonType(t) {
			return opts, &domain.ErrValidation{
				Field:   "types",
				Message: "unknown type " + strconv.Quote(t),
			}
		}
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLimit {
			return opts, &domain.ErrValidation{
				Field:   "limit",
				Message: "must be an integer between 1 and " + strconv.Itoa(maxLimit),
			}
		}
		opts.Limit = n
	}

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, &domain.ErrValidation{
				Field:   "offset",
				Message: "must be a non-negative integer",
			}
		}
		opts.Offset = n
	}

	return opts, nil
}

// splitTypes parses a comma-separated type list, lowercased, blanks and
// repeats removed.
func splitTypes(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// pageLink builds the relative URL of another page of the same query.
func pageLink(path string, opts domain.ListOptions, offset int) *string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(opts.Limit))
	q.Set("offset", strconv.Itoa(offset))
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if len(opts.Types) > 0 {
		q.Set("types", strings.Join(opts.Types, ","))
	}
	q.Set("sort", string(opts.Sort))

	link := path + "?" + q.Encode()
	return &link
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation
	var circuitOpen *domain.ErrCircuitOpen
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &external):
		logger.Error("upstream failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
