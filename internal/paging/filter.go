package paging

import (
	"slices"
	"strconv"
	"strings"
)

// Filter selects which result set a collection pages through. A non-empty
// Query takes precedence over GenreIDs when choosing the upstream endpoint.
type Filter struct {
	GenreIDs []int
	Query    string
}

// GenreFilter builds a filter for the given genre ids.
func GenreFilter(ids ...int) Filter {
	return Filter{GenreIDs: ids}.Normalize()
}

// QueryFilter builds a filter for a text search.
func QueryFilter(q string) Filter {
	return Filter{Query: q}.Normalize()
}

// Normalize trims the query and sorts and dedupes genre ids.
func (f Filter) Normalize() Filter {
	out := Filter{Query: strings.TrimSpace(f.Query)}
	for _, id := range f.GenreIDs {
		if id > 0 {
			out.GenreIDs = append(out.GenreIDs, id)
		}
	}
	slices.Sort(out.GenreIDs)
	out.GenreIDs = slices.Compact(out.GenreIDs)
	return out
}

// IsEmpty reports whether the filter selects the default listing.
func (f Filter) IsEmpty() bool {
	return len(f.GenreIDs) == 0 && strings.TrimSpace(f.Query) == ""
}

// IsSearch reports whether the filter targets the search endpoint.
func (f Filter) IsSearch() bool {
	return strings.TrimSpace(f.Query) != ""
}

// Equal compares two filters after normalization.
func (f Filter) Equal(other Filter) bool {
	a, b := f.Normalize(), other.Normalize()
	return a.Query == b.Query && slices.Equal(a.GenreIDs, b.GenreIDs)
}

// GenreParam joins the genre ids as TMDB's with_genres expects.
func (f Filter) GenreParam() string {
	parts := make([]string, len(f.GenreIDs))
	for i, id := range f.GenreIDs {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// ParseGenreIDs parses a comma-separated id list such as "28,12".
func ParseGenreIDs(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id < 1 {
			return nil, &InvalidGenreError{Value: part}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// InvalidGenreError reports a genre id that is not a positive integer.
type InvalidGenreError struct {
	Value string
}

func (e *InvalidGenreError) Error() string {
	return "invalid genre id " + strconv.Quote(e.Value)
}
