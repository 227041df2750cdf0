package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kyleBSCS/pokedex/internal/domain"
	"github.com/kyleBSCS/pokedex/internal/handler"
	"github.com/kyleBSCS/pokedex/internal/infra/client"
	"github.com/kyleBSCS/pokedex/internal/infra/observability"
	"github.com/kyleBSCS/pokedex/internal/infra/resilience"
	"github.com/kyleBSCS/pokedex/internal/service"

	"go.uber.org/zap"
)

// fakePokeAPI serves a three-Pokémon slice of the upstream API. Species and
// chain URLs embedded in payloads point back at the server itself.
type fakePokeAPI struct {
	mu    sync.Mutex
	fail  map[string]int
	names map[int]string
}

func newFakePokeAPI() *fakePokeAPI {
	return &fakePokeAPI{
		fail:  map[string]int{},
		names: map[int]string{1: "bulbasaur", 2: "ivysaur", 3: "venusaur"},
	}
}

// failPath makes every request to path answer with status.
func (f *fakePokeAPI) failPath(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[path] = status
}

func (f *fakePokeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	base := "http://" + r.Host
	path := strings.TrimSuffix(r.URL.Path, "/")

	f.mu.Lock()
	status, failing := f.fail[path]
	f.mu.Unlock()
	if failing {
		http.Error(w, http.StatusText(status), status)
		return
	}

	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == "pokemon":
		f.writeList(w, base)
	case len(parts) == 2 && parts[0] == "pokemon":
		f.writePokemon(w, base, parts[1])
	case len(parts) == 2 && parts[0] == "pokemon-species":
		f.writeSpecies(w, base, parts[1])
	case len(parts) == 2 && parts[0] == "evolution-chain" && parts[1] == "1":
		writeBody(w, domain.RawEvolutionChain{ID: 1, Chain: domain.RawEvolutionNode{
			Species: domain.NamedResource{Name: "bulbasaur", URL: base + "/pokemon-species/1/"},
			EvolvesTo: []domain.RawEvolutionNode{{
				Species: domain.NamedResource{Name: "ivysaur", URL: base + "/pokemon-species/2/"},
				EvolvesTo: []domain.RawEvolutionNode{{
					Species: domain.NamedResource{Name: "venusaur", URL: base + "/pokemon-species/3/"},
				}},
			}},
		}})
	case len(parts) == 2 && parts[0] == "type":
		f.writeType(w, base, parts[1])
	default:
		http.NotFound(w, r)
	}
}

func (f *fakePokeAPI) writeList(w http.ResponseWriter, base string) {
	list := domain.RawPokemonList{Count: len(f.names)}
	for id := 1; id <= len(f.names); id++ {
		list.Results = append(list.Results, domain.NamedResource{
			Name: f.names[id],
			URL:  fmt.Sprintf("%s/pokemon/%d/", base, id),
		})
	}
	writeBody(w, list)
}

func (f *fakePokeAPI) lookup(key string) (int, bool) {
	if id, err := strconv.Atoi(key); err == nil {
		_, ok := f.names[id]
		return id, ok
	}
	for id, name := range f.names {
		if name == key {
			return id, true
		}
	}
	return 0, false
}

func (f *fakePokeAPI) writePokemon(w http.ResponseWriter, base, key string) {
	id, ok := f.lookup(key)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	art := fmt.Sprintf("https://img.example/%d.png", id)
	writeBody(w, domain.RawPokemon{
		ID:     id,
		Name:   f.names[id],
		Height: 7,
		Weight: 69,
		Sprites: domain.RawSprites{Other: &domain.RawOtherSprites{
			OfficialArtwork: &domain.RawSprite{FrontDefault: &art},
		}},
		Types: []domain.RawPokemonType{
			{Slot: 1, Type: domain.NamedResource{Name: "grass"}},
			{Slot: 2, Type: domain.NamedResource{Name: "poison"}},
		},
		Species: domain.NamedResource{Name: f.names[id], URL: fmt.Sprintf("%s/pokemon-species/%d/", base, id)},
	})
}

func (f *fakePokeAPI) writeSpecies(w http.ResponseWriter, base, key string) {
	id, ok := f.lookup(key)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeBody(w, domain.RawSpecies{
		ID:             id,
		Name:           f.names[id],
		CaptureRate:    45,
		Generation:     &domain.NamedResource{Name: "generation-i"},
		EvolutionChain: domain.APIResource{URL: base + "/evolution-chain/1/"},
		Genera:         []domain.RawGenus{{Genus: "Seed Pokémon", Language: domain.NamedResource{Name: "en"}}},
	})
}

func (f *fakePokeAPI) writeType(w http.ResponseWriter, base, name string) {
	members := []domain.RawTypeMember{}
	for id := 1; id <= len(f.names); id++ {
		members = append(members, domain.RawTypeMember{Slot: 1, Pokemon: domain.NamedResource{
			Name: f.names[id],
			URL:  fmt.Sprintf("%s/pokemon/%d/", base, id),
		}})
	}
	relations := map[string]domain.DamageRelations{
		"grass": {
			DoubleDamageFrom: []domain.NamedResource{{Name: "flying"}, {Name: "poison"}, {Name: "bug"}, {Name: "fire"}, {Name: "ice"}},
			HalfDamageFrom:   []domain.NamedResource{{Name: "ground"}, {Name: "water"}, {Name: "grass"}, {Name: "electric"}},
		},
		"poison": {
			DoubleDamageFrom: []domain.NamedResource{{Name: "ground"}, {Name: "psychic"}},
			HalfDamageFrom:   []domain.NamedResource{{Name: "fighting"}, {Name: "poison"}, {Name: "bug"}, {Name: "grass"}, {Name: "fairy"}},
		},
	}
	rel, ok := relations[name]
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeBody(w, domain.RawType{Name: name, DamageRelations: rel, Pokemon: members})
}

func writeBody(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

// newTestRouter wires the real adapter, services and router against up.
func newTestRouter(t *testing.T, up http.Handler) (http.Handler, *observability.Metrics) {
	t.Helper()
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	metrics := observability.NewMetrics()
	logger := zap.NewNop()
	cb := resilience.NewCircuitBreaker(t.Name(), client.IsBreakerNeutral)
	cfg := resilience.Config{MaxRetries: 0, InitialBackoff: time.Millisecond, MaxConcurrency: 10}
	api := client.NewPokeAPI(client.NewClient(srv.Client()), srv.URL, cb, cfg, metrics)

	dir := service.NewDirectory(api, 10*time.Minute, metrics, logger)
	px := service.NewPokedex(api, dir, metrics, logger)
	return handler.NewRouter(px, cb, handler.Options{MaxPageLimit: 100, AllowedOrigins: []string{"*"}}, metrics, logger), metrics
}
