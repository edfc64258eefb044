package match

import (
	"sort"

	"onchainjanken/internal/janken"
)

const maxPageLimit = 100

// Filter selects matches for listing. Zero values match everything.
type Filter struct {
	Status     *janken.Status
	Player     string
	StartAfter uint64
	Limit      int
}

func (r *Registry) Match(id uint64) (Match, error) {
	m, err := r.get(id)
	if err != nil {
		return Match{}, err
	}
	return *m, nil
}

// Matches lists matching records in ascending id order.
func (r *Registry) Matches(f Filter) []Match {
	ids := make([]uint64, 0, len(r.st.Matches))
	for id := range r.st.Matches {
		if id > f.StartAfter {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	limit := f.Limit
	if limit <= 0 || limit > maxPageLimit {
		limit = maxPageLimit
	}
	out := []Match{}
	for _, id := range ids {
		m := r.st.Matches[id]
		if f.Status != nil && m.Status != *f.Status {
			continue
		}
		if f.Player != "" && !m.HasPlayer(f.Player) {
			continue
		}
		out = append(out, *m)
		if len(out) == limit {
			break
		}
	}
	return out
}
