// Package searcher binds every catalog kolekk can search to a search.Session.
//
// A Target names what to search: a store facet, the tag list, a remote
// catalog or a Lua script, plus whatever binding the kind needs. Open turns a
// Target into a session, NewFactory into a search.Factory that debounces the
// remote kinds.
package searcher

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/anilist"
	"github.com/thrombe/kolekk/auth"
	"github.com/thrombe/kolekk/config"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/lastfm"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/mal"
	"github.com/thrombe/kolekk/provider"
	"github.com/thrombe/kolekk/provider/custom"
	"github.com/thrombe/kolekk/store"
	"github.com/thrombe/kolekk/tachidesk"
	"github.com/thrombe/kolekk/tmdb"
	"github.com/thrombe/kolekk/where"
)

// Deps holds the backends targets are built on. A nil backend makes the
// kinds that need it fail at Open.
type Deps struct {
	Store     *store.Store
	TMDB      *tmdb.Client
	LastFM    *lastfm.Client
	Tachidesk *tachidesk.Client
	Anilist   *anilist.Client
	MAL       *mal.Client

	// PageSize is the limit of offset based kinds.
	PageSize int

	// Debounce is the delay of the factory of remote kinds.
	Debounce time.Duration

	// LatestMangas makes an empty manga query list the latest updates.
	LatestMangas bool

	scriptsMu sync.Mutex
	scripts   map[string]*custom.Source
}

// FromConfig builds every backend from the current configuration and keyring.
func FromConfig() (*Deps, error) {
	var (
		st  *store.Store
		err error
	)
	if viper.GetBool(key.StoreInMemory) {
		st, err = store.OpenMemory()
	} else {
		st, err = store.Open(where.Store(), where.StoreStamp())
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	tachi, err := tachidesk.New(viper.GetString(key.TachideskURL))
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	d := &Deps{
		Store:     st,
		Tachidesk: tachi,
		Anilist:   anilist.New(),
		PageSize:  config.PageSize(),
		Debounce:  config.Debounce(),

		LatestMangas: viper.GetBool(key.TachideskLatest),
	}

	// kinds without credentials report ErrMissingBackend instead of failing upstream
	if k := auth.Get(auth.TMDB); k != "" {
		d.TMDB = tmdb.New(k)
	}
	if k := auth.Get(auth.LastFM); k != "" {
		d.LastFM = lastfm.New(k)
	}
	if k := auth.Get(auth.MAL); k != "" {
		d.MAL = mal.New(k)
	}

	return d, nil
}

// Close releases the store, the caches and every loaded script.
func (d *Deps) Close() error {
	d.scriptsMu.Lock()
	for name, src := range d.scripts {
		src.Close()
		delete(d.scripts, name)
	}
	d.scriptsMu.Unlock()

	if d.Tachidesk != nil {
		d.Tachidesk.Close()
	}
	if d.Store != nil {
		return d.Store.Close()
	}
	return nil
}

func (d *Deps) pageSize() int {
	if d.PageSize <= 0 {
		return config.PageSize()
	}
	return d.PageSize
}

// ErrMissingBackend is returned when a target needs a backend Deps does not hold.
var ErrMissingBackend = errors.New("backend not configured")

func need[B any](b *B, name string) (*B, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingBackend, name)
	}
	return b, nil
}

// script returns the loaded Lua source named name, loading it once.
func (d *Deps) script(name string) (*custom.Source, error) {
	d.scriptsMu.Lock()
	defer d.scriptsMu.Unlock()

	if src, ok := d.scripts[name]; ok {
		return src, nil
	}

	p, ok := provider.Get(name)
	if !ok {
		if closest, found := ClosestSource(name); found {
			return nil, fmt.Errorf("%w: %q, did you mean %q?", provider.ErrNotFound, name, closest)
		}
		return nil, fmt.Errorf("%w: %q", provider.ErrNotFound, name)
	}

	src, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	if d.scripts == nil {
		d.scripts = make(map[string]*custom.Source)
	}
	d.scripts[name] = src
	log.Infof("loaded script %s with page size %d", name, src.Limit())
	return src, nil
}
