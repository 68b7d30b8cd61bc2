// Package store is kolekk's local full-text index of objects and tags.
//
// Every document belongs to a facet. Objects of one facet are searched
// together, ordered by creation time when the query is empty and by score
// otherwise. Each mutation touches a stamp file so other processes, and
// sessions opened in this one, can notice the index changed.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/log"
)

// ErrNotFound is returned when a document id is not in the index.
var ErrNotFound = errors.New("store: not found")

// Facet groups objects of one kind, e.g. bookmarks or mirrored tachidesk extensions.
type Facet string

// FacetTag holds tags. Tag documents are never returned by object searches of other facets.
const FacetTag Facet = "tag"

// Object is one indexed document.
type Object struct {
	ID    string `json:"id"`
	Facet Facet  `json:"facet"`

	// Title is the searchable text.
	Title string `json:"title"`

	// Data is stored verbatim and never indexed.
	Data json.RawMessage `json:"data,omitempty"`

	// Tags holds ids of tags attached to the object.
	Tags []string `json:"tags,omitempty"`

	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

type searchHit = search.DocumentMatch

// Store wraps a bleve index.
type Store struct {
	mu    sync.RWMutex
	index bleve.Index
	stamp string

	subsMu sync.Mutex
	subs   map[chan struct{}]struct{}

	now func() time.Time
}

// Open opens the index at path, creating it if missing.
// stamp is the file touched after every mutation. It may be empty.
func Open(path, stamp string) (*Store, error) {
	index, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		log.Infof("creating store index at %s", path)
		index, err = bleve.New(path, buildMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	return newStore(index, stamp), nil
}

// OpenMemory creates a volatile index. Nothing is written to disk.
func OpenMemory() (*Store, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("create memory store: %w", err)
	}
	return newStore(index, ""), nil
}

func newStore(index bleve.Index, stamp string) *Store {
	if stamp != "" {
		stamp = filepath.Clean(stamp)
	}
	return &Store{
		index: index,
		stamp: stamp,
		subs:  make(map[chan struct{}]struct{}),
		now:   time.Now,
	}
}

// Close releases the index.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// Count returns the number of documents in the index, tags included.
func (s *Store) Count() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// changed touches the stamp file and wakes in-process watchers.
func (s *Store) changed() {
	if s.stamp != "" {
		if err := filesystem.Touch(s.stamp); err != nil {
			log.Warnf("touch store stamp: %v", err)
		}
	}

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

const (
	fieldFacet = "facet"
	fieldText  = "text"
	fieldData  = "data"
	fieldTags  = "tags"
	fieldCtime = "ctime"
	fieldMtime = "mtime"
)

func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	keyword := func() *mapping.FieldMapping {
		m := bleve.NewTextFieldMapping()
		m.Analyzer = "keyword"
		m.Store = true
		m.Index = true
		return m
	}

	textMapping := bleve.NewTextFieldMapping()
	textMapping.Analyzer = "standard"
	textMapping.Store = true
	textMapping.Index = true
	textMapping.IncludeTermVectors = true

	// stored for reconstruction only
	dataMapping := bleve.NewTextFieldMapping()
	dataMapping.Store = true
	dataMapping.Index = false
	dataMapping.IncludeInAll = false

	ctimeMapping := bleve.NewNumericFieldMapping()
	ctimeMapping.Store = true
	ctimeMapping.Index = true

	mtimeMapping := bleve.NewNumericFieldMapping()
	mtimeMapping.Store = true
	mtimeMapping.Index = false

	docMapping := bleve.NewDocumentStaticMapping()
	docMapping.AddFieldMappingsAt(fieldFacet, keyword())
	docMapping.AddFieldMappingsAt(fieldText, textMapping)
	docMapping.AddFieldMappingsAt(fieldData, dataMapping)
	docMapping.AddFieldMappingsAt(fieldTags, keyword())
	docMapping.AddFieldMappingsAt(fieldCtime, ctimeMapping)
	docMapping.AddFieldMappingsAt(fieldMtime, mtimeMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Timestamps are stored as unix microseconds, which a float64 holds exactly.
func toDocument(o Object) map[string]any {
	doc := map[string]any{
		fieldFacet: string(o.Facet),
		fieldText:  o.Title,
		fieldData:  string(o.Data),
		fieldCtime: float64(o.Created.UnixMicro()),
		fieldMtime: float64(o.Updated.UnixMicro()),
	}
	if len(o.Tags) > 0 {
		doc[fieldTags] = o.Tags
	}
	return doc
}

func fromFields(id string, fields map[string]any) Object {
	o := Object{ID: id}

	facet, _ := fields[fieldFacet].(string)
	o.Facet = Facet(facet)
	o.Title, _ = fields[fieldText].(string)

	if data, _ := fields[fieldData].(string); data != "" {
		o.Data = json.RawMessage(data)
	}

	// single-valued arrays come back as a plain string
	switch tags := fields[fieldTags].(type) {
	case string:
		o.Tags = []string{tags}
	case []any:
		o.Tags = make([]string, 0, len(tags))
		for _, t := range tags {
			if s, ok := t.(string); ok {
				o.Tags = append(o.Tags, s)
			}
		}
	}

	if ctime, ok := fields[fieldCtime].(float64); ok {
		o.Created = time.UnixMicro(int64(ctime))
	}
	if mtime, ok := fields[fieldMtime].(float64); ok {
		o.Updated = time.UnixMicro(int64(mtime))
	}
	return o
}

// Encode marshals v for use as Object.Data.
func Encode(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode object data: %w", err)
	}
	return data, nil
}

// Decode unmarshals the data of o into a T.
func Decode[T any](o Object) (T, error) {
	var v T
	if len(o.Data) == 0 {
		return v, fmt.Errorf("object %s has no data", o.ID)
	}
	if err := json.Unmarshal(o.Data, &v); err != nil {
		return v, fmt.Errorf("decode object %s: %w", o.ID, err)
	}
	return v, nil
}
