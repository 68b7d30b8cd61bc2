package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/thrombe/kolekk/searcher"
)

type (
	Picker func([]searcher.Entry) mo.Option[searcher.Entry]
	Filter func([]searcher.Entry) []searcher.Entry
)

// Options configure one inline search.
type Options struct {
	Out   io.Writer
	Spec  searcher.Spec
	Query string
	Json  bool

	// Pages is how many pages to fetch. Zero or less fetches until the query is exhausted.
	Pages int

	Filter mo.Option[Filter]
	Picker mo.Option[Picker]
}

// ParsePicker parses a single entry selector: first, last, exact or an index.
// exact matches the query against entry titles, ignoring case.
func ParsePicker(description, query string) (Picker, error) {
	switch description {
	case "first":
		return func(entries []searcher.Entry) mo.Option[searcher.Entry] {
			if len(entries) == 0 {
				return mo.None[searcher.Entry]()
			}
			return mo.Some(entries[0])
		}, nil
	case "last":
		return func(entries []searcher.Entry) mo.Option[searcher.Entry] {
			if len(entries) == 0 {
				return mo.None[searcher.Entry]()
			}
			return mo.Some(entries[len(entries)-1])
		}, nil
	case "exact":
		return func(entries []searcher.Entry) mo.Option[searcher.Entry] {
			found, ok := lo.Find(entries, func(e searcher.Entry) bool {
				return strings.EqualFold(e.Title, query)
			})
			if !ok {
				return mo.None[searcher.Entry]()
			}
			return mo.Some(found)
		}, nil
	}

	idx, err := strconv.ParseUint(description, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid picker: %s", description)
	}
	return func(entries []searcher.Entry) mo.Option[searcher.Entry] {
		if len(entries) == 0 {
			return mo.None[searcher.Entry]()
		}
		return mo.Some(entries[min(int(idx), len(entries)-1)])
	}, nil
}

// ParseFilter parses a selector over many entries.
// Format: "first", "last", "all", "[from]-[to]", "@substring@" or an index.
func ParseFilter(description string) (Filter, error) {
	switch description {
	case "first":
		return func(entries []searcher.Entry) []searcher.Entry {
			return entries[:min(1, len(entries))]
		}, nil
	case "last":
		return func(entries []searcher.Entry) []searcher.Entry {
			return entries[max(len(entries)-1, 0):]
		}, nil
	case "all":
		return func(entries []searcher.Entry) []searcher.Entry { return entries }, nil
	}

	if from, to, ok := strings.Cut(description, "-"); ok {
		start, err1 := strconv.ParseUint(from, 10, 16)
		end, err2 := strconv.ParseUint(to, 10, 16)
		if err1 == nil && err2 == nil {
			return func(entries []searcher.Entry) []searcher.Entry {
				lower := min(int(start), len(entries))
				upper := min(int(end)+1, len(entries))
				if lower > upper {
					return []searcher.Entry{}
				}
				return entries[lower:upper]
			}, nil
		}
	}

	if len(description) > 1 && strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(entries []searcher.Entry) []searcher.Entry {
			return lo.Filter(entries, func(e searcher.Entry, _ int) bool {
				return strings.Contains(strings.ToLower(e.Title), sub)
			})
		}, nil
	}

	if idx, err := strconv.ParseUint(description, 10, 16); err == nil {
		return func(entries []searcher.Entry) []searcher.Entry {
			if uint64(len(entries)) <= idx {
				return []searcher.Entry{}
			}
			return entries[idx : idx+1]
		}, nil
	}

	return nil, fmt.Errorf("invalid filter: %s", description)
}
