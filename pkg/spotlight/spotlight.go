// Package spotlight provides fuzzy quick search across whatever the
// feature modules register: cadets, duty roles, calendar events.
package spotlight

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const DefaultLimit = 20

// Entry is a single search hit pointing at an API resource.
type Entry struct {
	Label string `json:"label"`
	Link  string `json:"link"`
	Kind  string `json:"kind"`
}

// DataSource supplies searchable entries for one resource type. Entries
// is called per query inside the request's tenant scope.
type DataSource interface {
	Entries(ctx context.Context) ([]Entry, error)
}

type Spotlight struct {
	sources []DataSource
	limit   int
}

func New(limit int) *Spotlight {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Spotlight{limit: limit}
}

func (s *Spotlight) Register(sources ...DataSource) {
	s.sources = append(s.sources, sources...)
}

// Find ranks every registered entry against q and returns the best
// matches, capped at the configured limit.
func (s *Spotlight) Find(ctx context.Context, q string) ([]Entry, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Entry{}, nil
	}

	var all []Entry
	for _, source := range s.sources {
		entries, err := source.Entries(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	if len(all) == 0 {
		return []Entry{}, nil
	}

	labels := make([]string, len(all))
	for i, e := range all {
		labels[i] = e.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(q, labels)
	sort.Sort(ranks)

	result := make([]Entry, 0, min(len(ranks), s.limit))
	for _, rank := range ranks {
		if len(result) == s.limit {
			break
		}
		result = append(result, all[rank.OriginalIndex])
	}
	return result, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
