// Package query keeps the search history of every kind and suggests past queries.
package query

import (
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/where"
	"golang.org/x/exp/slices"
)

type queryRecord struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

// history maps a kind to its queries.
type history = map[string]map[string]*queryRecord

var (
	mu     sync.Mutex
	cacher = gache.New[history](
		&gache.Options{
			Path:       where.Queries(),
			FileSystem: filesystem.Gache,
		},
	)
	suggestionCache = make(map[string][]*queryRecord)
)

// Remember records q under kind, or raises its rank by weight. Empty queries are ignored.
func Remember(kind, q string, weight int) error {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(history)
	}

	records, ok := cached[kind]
	if !ok {
		records = make(map[string]*queryRecord)
		cached[kind] = records
	}

	if record, ok := records[q]; ok {
		record.Rank += weight
	} else {
		records[q] = &queryRecord{Rank: weight, Query: q}
	}

	suggestionCache = make(map[string][]*queryRecord)
	return cacher.Set(cached)
}

// Suggest returns the best past query of kind matching q.
func Suggest(kind, q string) mo.Option[string] {
	suggestions := SuggestMany(kind, q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns the past queries of kind fuzzily matching q, highest rank first.
func SuggestMany(kind, q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)
	cacheKey := kind + "\x00" + q

	mu.Lock()
	defer mu.Unlock()

	records, ok := suggestionCache[cacheKey]
	if !ok {
		cached, expired, err := cacher.Get()
		if err != nil || expired || cached == nil {
			return []string{}
		}

		for _, record := range cached[kind] {
			if fuzzy.Match(q, record.Query) {
				records = append(records, record)
			}
		}

		slices.SortFunc(records, func(a, b *queryRecord) int {
			if a.Rank != b.Rank {
				return b.Rank - a.Rank
			}
			return strings.Compare(a.Query, b.Query)
		})

		suggestionCache[cacheKey] = records
	}

	return lo.Map(records, func(r *queryRecord, _ int) string {
		return r.Query
	})
}

// Forget drops the history of kind, or of every kind when kind is empty.
func Forget(kind string) error {
	mu.Lock()
	defer mu.Unlock()

	suggestionCache = make(map[string][]*queryRecord)
	if kind == "" {
		return cacher.Set(make(history))
	}

	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		return err
	}
	delete(cached, kind)
	return cacher.Set(cached)
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
