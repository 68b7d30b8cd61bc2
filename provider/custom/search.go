package custom

import (
	"context"
	"strconv"

	"github.com/thrombe/kolekk/constant"
	"github.com/thrombe/kolekk/internal/cache"
	"github.com/thrombe/kolekk/log"
	lua "github.com/yuin/gopher-lua"
)

// Search calls the script's Search for one page. Pages start at 1.
// Non-empty pages are cached on disk for cache.TTL.
func (s *Source) Search(ctx context.Context, query string, page int) ([]Item, error) {
	cacheKey := cache.GenerateKey(s.name, query, strconv.Itoa(page))
	var cached []Item
	if cache.Read(cacheKey, &cached) {
		return cached, nil
	}

	val, err := s.call(ctx, constant.SearchFn, lua.LTTable, lua.LString(query), lua.LNumber(page))
	if err != nil {
		return nil, err
	}

	items, err := itemsFromTable(val.(*lua.LTable))
	if err != nil {
		return nil, err
	}

	log.Debugf("%s page %d for %q: %d items", s.name, page, query, len(items))
	if len(items) > 0 {
		_ = cache.Write(cacheKey, items)
	}
	return items, nil
}
