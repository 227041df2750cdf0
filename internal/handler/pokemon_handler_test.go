package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kyleBSCS/pokedex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestListPokemon_FirstPage(t *testing.T) {
	router, _ := newTestRouter(t, newFakePokeAPI())

	for _, path := range []string{"/api/pokemon", "/api/entities"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, router, path+"?limit=2&offset=0&sort=id_asc")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			page := decode[domain.PokemonPage](t, rec)
			assert.Equal(t, 3, page.Count)
			require.Len(t, page.Results, 2)
			assert.Equal(t, 1, page.Results[0].ID)
			assert.Equal(t, 2, page.Results[1].ID)
			assert.Equal(t, "https://img.example/1.png", page.Results[0].ImageURL)

			require.NotNil(t, page.Next)
			assert.Equal(t, path+"?limit=2&offset=2&sort=id_asc", *page.Next)
			assert.Nil(t, page.Previous)
		})
	}
}

func TestListPokemon_LinksEncodeQuery(t *testing.T) {
	router, _ := newTestRouter(t, newFakePokeAPI())

	rec := get(t, router, "/api/pokemon?limit=1&offset=1&search=%2300&sort=name_desc")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	page := decode[domain.PokemonPage](t, rec)
	assert.Equal(t, 3, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "ivysaur", page.Results[0].Name)

	require.NotNil(t, page.Previous)
	assert.Equal(t, "/api/pokemon?limit=1&offset=0&search=%2300&sort=name_desc", *page.Previous)
	require.NotNil(t, page.Next)
	assert.Equal(t, "/api/pokemon?limit=1&offset=2&search=%2300&sort=name_desc", *page.Next)
}

func TestListPokemon_ByTypes(t *testing.T) {
	router, _ := newTestRouter(t, newFakePokeAPI())

	rec := get(t, router, "/api/pokemon?types=Grass,%20poison,&limit=5")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	page := decode[domain.PokemonPage](t, rec)
	assert.Equal(t, 3, page.Count)
	assert.Len(t, page.Results, 3)
	assert.Nil(t, page.Next)
}

func TestListPokemon_OffsetPastEnd(t *testing.T) {
	router, _ := newTestRouter(t, newFakePokeAPI())

	rec := get(t, router, "/api/pokemon?limit=10&offset=40")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[domain.PokemonPage](t, rec)
	assert.Equal(t, 3, page.Count)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "/api/pokemon?limit=10&offset=30&sort=id_asc", *page.Previous)
}

func TestListPokemon_Validation(t *testing.T) {
	router, _ := newTestRouter(t, newFakePokeAPI())

	for _, query := range []string{
		"limit=0",
		"limit=-3",
		"limit=abc",
		"limit=101",
		"offset=-1",
		"offset=1.5",
		"types=grass,shadow",
		"types=Dragonish",
	} {
		t.Run(query, func(t *testing.T) {
			rec := get(t, router, "/api/pokemon?"+query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode[domain.ErrorResponse](t, rec)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestListPokemon_DirectoryDown(t *testing.T) {
	up := newFakePokeAPI()
	up.failPath("/pokemon", http.StatusBadGateway)
	router, metrics := newTestRouter(t, up)

	rec := get(t, router, "/api/pokemon")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[domain.PokemonPage](t, rec)
	assert.Equal(t, 0, page.Count)
	assert.Empty(t, page.Results)
	assert.Equal(t, int64(1), metrics.Summary().DegradedResults)
}

func TestGetPokemon_DetailedView(t *testing.T) {
	router, _ := newTestRouter(t, newFakePokeAPI())

	rec := get(t, router, "/api/pokemon/1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	view := decode[domain.DetailedView](t, rec)
	assert.Equal(t, 1, view.ID)
	assert.Equal(t, "bulbasaur", view.Name)
	assert.Equal(t, "Seed Pokémon", view.Species)
	assert.Equal(t, "No description available.", view.Description)
	assert.Equal(t, "generation-i", view.Generation)
	assert.Equal(t, "Unknown", view.GrowthRate)
	assert.Nil(t, view.Habitat)

	require.Len(t, view.EvolutionChain, 3)
	assert.Equal(t, "venusaur", view.EvolutionChain[2].Name)
	assert.Equal(t, "https://img.example/3.png", view.EvolutionChain[2].ImageURL)

	require.Len(t, view.Weaknesses, 4)
	assert.Equal(t, domain.Weakness{Type: "fire", Effectiveness: 2}, view.Weaknesses[0])
}

func TestGetPokemon_ByName(t *testing.T) {
	router, _ := newTestRouter(t, newFakePokeAPI())

	rec := get(t, router, "/api/entities/Venusaur")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3, decode[domain.DetailedView](t, rec).ID)
}

func TestGetPokemon_NotFound(t *testing.T) {
	router, _ := newTestRouter(t, newFakePokeAPI())

	rec := get(t, router, "/api/pokemon/999999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[domain.ErrorResponse](t, rec).Message, "999999")
}

func TestGetPokemon_BlankID(t *testing.T) {
	router, _ := newTestRouter(t, newFakePokeAPI())

	rec := get(t, router, "/api/pokemon/%20")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Pokemon ID or name is required", decode[domain.ErrorResponse](t, rec).Message)
}

func TestGetPokemon_MissingID(t *testing.T) {
	router, _ := newTestRouter(t, newFakePokeAPI())

	for _, path := range []string{"/api/pokemon/", "/api/entities/"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, router, path)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, "Pokemon ID or name is required", decode[domain.ErrorResponse](t, rec).Message)
		})
	}
}

func TestListPokemon_UnknownTypeRejected(t *testing.T) {
	up := newFakePokeAPI()
	router, metrics := newTestRouter(t, up)

	rec := get(t, router, "/api/pokemon?types=grass,shadow")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[domain.ErrorResponse](t, rec).Message, "shadow")
	assert.Equal(t, int64(0), metrics.Summary().DegradedResults)
}

func TestGetPokemon_SpeciesFailure(t *testing.T) {
	up := newFakePokeAPI()
	up.failPath("/pokemon-species/1", http.StatusInternalServerError)
	router, _ := newTestRouter(t, up)

	rec := get(t, router, "/api/pokemon/1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, decode[domain.ErrorResponse](t, rec).Message)
}

func TestGetPokemon_WeaknessFailureStillServes(t *testing.T) {
	up := newFakePokeAPI()
	up.failPath("/type/poison", http.StatusInternalServerError)
	router, _ := newTestRouter(t, up)

	rec := get(t, router, "/api/pokemon/2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	view := decode[domain.DetailedView](t, rec)
	assert.NotNil(t, view.Weaknesses)
	assert.Empty(t, view.Weaknesses)
	assert.Len(t, view.EvolutionChain, 3)
}

func TestListTypes(t *testing.T) {
	router, _ := newTestRouter(t, newFakePokeAPI())

	rec := get(t, router, "/api/types")
	require.Equal(t, http.StatusOK, rec.Code)

	types := decode[[]domain.TypeInfo](t, rec)
	require.Len(t, types, 18)
	assert.Equal(t, domain.TypeInfo{Name: "grass", Color: "#7AC74C"}, types[0])
}

func TestMetricsSummary_CountsDirectoryCache(t *testing.T) {
	router, _ := newTestRouter(t, newFakePokeAPI())

	get(t, router, "/api/pokemon?limit=1")
	get(t, router, "/api/pokemon?limit=1&offset=1")

	rec := get(t, router, "/api/metrics/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decode[domain.MetricsSummary](t, rec)
	assert.Equal(t, int64(1), summary.DirectoryCacheMisses)
	assert.Equal(t, int64(1), summary.DirectoryCacheHits)
	assert.InDelta(t, 0.5, summary.CacheHitRate, 0.001)
}
