package anilist

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/where"
)

type cacheData[K comparable, T any] struct {
	Entries map[K]T `json:"entries"`
}

// cacher is a typed key-value view over a single gache file.
type cacher[K comparable, T any] struct {
	internal   *gache.Cache[*cacheData[K, T]]
	keyWrapper func(K) K
	mu         sync.RWMutex
}

func newCacher[K comparable, T any](name string, lifetime time.Duration, keyWrapper func(K) K) *cacher[K, T] {
	return &cacher[K, T]{
		internal: gache.New[*cacheData[K, T]](
			&gache.Options{
				Path:       filepath.Join(where.Cache(), name),
				Lifetime:   lifetime,
				FileSystem: filesystem.Gache,
			},
		),
		keyWrapper: keyWrapper,
	}
}

// Get retrieves the value stored under key.
func (c *cacher[K, T]) Get(key K) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	if value, ok := data.Entries[c.keyWrapper(key)]; ok {
		return mo.Some(value)
	}
	return mo.None[T]()
}

// Set stores t under key, starting a fresh file when the old one expired.
func (c *cacher[K, T]) Set(key K, t T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil || data.Entries == nil {
		data = &cacheData[K, T]{Entries: make(map[K]T)}
	}
	data.Entries[c.keyWrapper(key)] = t
	return c.internal.Set(data)
}

// Delete drops key.
func (c *cacher[K, T]) Delete(key K) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return err
	}

	delete(data.Entries, c.keyWrapper(key))
	return c.internal.Set(data)
}

// cachedPage keeps a search page as ids so entries are stored once.
type cachedPage struct {
	IDs  []int    `json:"ids"`
	Info PageInfo `json:"info"`
}

var (
	idCacher   = newCacher[int, *Anime]("anilist_id_cache.json", 48*time.Hour, func(id int) int { return id })
	pageCacher = newCacher[string, cachedPage]("anilist_page_cache.json", 6*time.Hour, func(k string) string { return k })
)
