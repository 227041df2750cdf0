package service

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/kyleBSCS/pokedex/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterBySearch keeps the references whose name contains the term, whose id
// equals it, or whose #NNN id contains it. Matching is case-insensitive on
// the trimmed term; an empty term keeps everything.
func FilterBySearch(refs []domain.NamedResource, term string) []domain.NamedResource {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return refs
	}

	out := make([]domain.NamedResource, 0, len(refs))
	for _, r := range refs {
		if matchesSearch(r, term) {
			out = append(out, r)
		}
	}
	return out
}

func matchesSearch(r domain.NamedResource, term string) bool {
	if strings.Contains(strings.ToLower(r.Name), term) {
		return true
	}
	id, ok := domain.IDFromURL(r.URL)
	if !ok {
		return false
	}
	return strconv.Itoa(id) == term || strings.Contains(domain.FormatID(id), term)
}

type keyedResource struct {
	ref domain.NamedResource
	id  int
}

// SortResources orders refs in place. Name orders use English collation and
// fall back to the id on ties; id orders fall back to the name.
func SortResources(refs []domain.NamedResource, order domain.SortOrder) {
	keyed := make([]keyedResource, len(refs))
	for i, r := range refs {
		keyed[i] = keyedResource{ref: r, id: r.ID()}
	}

	col := collate.New(language.English)
	byName := func(a, b keyedResource) int {
		if c := col.CompareString(a.ref.Name, b.ref.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	}
	byID := func(a, b keyedResource) int {
		if c := cmp.Compare(a.id, b.id); c != 0 {
			return c
		}
		return strings.Compare(a.ref.Name, b.ref.Name)
	}

	switch order {
	case domain.SortNameAsc:
		slices.SortStableFunc(keyed, byName)
	case domain.SortNameDesc:
		slices.SortStableFunc(keyed, func(a, b keyedResource) int { return byName(b, a) })
	case domain.SortIDDesc:
		slices.SortStableFunc(keyed, func(a, b keyedResource) int { return byID(b, a) })
	default:
		slices.SortStableFunc(keyed, byID)
	}

	for i, k := range keyed {
		refs[i] = k.ref
	}
}

// Paginate returns refs[offset:offset+limit], clamped to the slice bounds.
func Paginate(refs []domain.NamedResource, offset, limit int) []domain.NamedResource {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= len(refs) {
		return []domain.NamedResource{}
	}
	end := offset + limit
	if end > len(refs) {
		end = len(refs)
	}
	return refs[offset:end]
}
