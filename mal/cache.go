package mal

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/where"
)

type cacheData struct {
	Animes map[int]Anime `json:"animes"`
}

// animeCache keeps every anime seen in a listing so Anime(id) can skip the network.
type animeCache struct {
	internal *gache.Cache[*cacheData]
	mu       sync.Mutex
}

func (c *animeCache) Get(id int) mo.Option[Anime] {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[Anime]()
	}
	anime, ok := data.Animes[id]
	if !ok {
		return mo.None[Anime]()
	}
	return mo.Some(anime)
}

func (c *animeCache) Set(animes ...Anime) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}
	if expired || data == nil || data.Animes == nil {
		data = &cacheData{Animes: make(map[int]Anime)}
	}
	for _, a := range animes {
		data.Animes[a.ID] = a
	}
	return c.internal.Set(data)
}

var idCache = &animeCache{
	internal: gache.New[*cacheData](
		&gache.Options{
			Path:       filepath.Join(where.Cache(), "mal_id_cache.json"),
			Lifetime:   time.Hour * 24 * 2,
			FileSystem: filesystem.Gache,
		},
	),
}
