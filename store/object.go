package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/thrombe/kolekk/log"
)

const batchSize = 1000

// Put indexes objs, replacing any document with the same id.
// Missing ids and creation times are filled in. The returned objects are what was stored.
func (s *Store) Put(ctx context.Context, objs ...Object) ([]Object, error) {
	if len(objs) == 0 {
		return nil, nil
	}

	now := s.now()
	stored := make([]Object, len(objs))
	for i, o := range objs {
		if o.Facet == "" {
			return nil, fmt.Errorf("object %q has no facet", o.Title)
		}
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		if o.Created.IsZero() {
			// keep insertion order stable for empty-query listings
			o.Created = now.Add(time.Duration(i) * time.Microsecond)
		}
		o.Updated = now
		stored[i] = o
	}

	if err := s.apply(ctx, nil, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Get returns the object with id.
func (s *Store) Get(ctx context.Context, id string) (Object, error) {
	found, err := s.byIDs(ctx, id)
	if err != nil {
		return Object{}, err
	}
	if len(found) == 0 {
		return Object{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return found[0], nil
}

// Search returns up to limit objects of facet matching text, skipping offset.
// An empty text lists the whole facet oldest first.
func (s *Store) Search(ctx context.Context, facet Facet, text string, limit, offset int) ([]Object, error) {
	objs, err := s.search(ctx, termQuery(fieldFacet, string(facet), text), text, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search facet %s: %w", facet, err)
	}
	return objs, nil
}

// SearchTagged is Search over the objects of any facet carrying tagID.
func (s *Store) SearchTagged(ctx context.Context, tagID, text string, limit, offset int) ([]Object, error) {
	objs, err := s.search(ctx, termQuery(fieldTags, tagID, text), text, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search tag %s: %w", tagID, err)
	}
	return objs, nil
}

func (s *Store) search(ctx context.Context, q query.Query, text string, limit, offset int) ([]Object, error) {
	req := bleve.NewSearchRequestOptions(q, limit, offset, false)
	req.Fields = []string{"*"}
	if strings.TrimSpace(text) == "" {
		req.SortBy([]string{fieldCtime, "_id"})
	} else {
		req.SortBy([]string{"-_score", fieldCtime, "_id"})
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, err
	}

	return lo.Map(res.Hits, func(hit *searchHit, _ int) Object {
		return fromFields(hit.ID, hit.Fields)
	}), nil
}

// DeleteFacet removes every object of facet and reports how many there were.
func (s *Store) DeleteFacet(ctx context.Context, facet Facet) (int, error) {
	ids, err := s.facetIDs(ctx, facet)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.apply(ctx, ids, nil); err != nil {
		return 0, err
	}
	log.Infof("deleted %d objects of facet %s", len(ids), facet)
	return len(ids), nil
}

// ReplaceFacet makes facet hold exactly objs, in the given order.
// Objects keep their ids, so a mirror of remote data can be refreshed in place.
func (s *Store) ReplaceFacet(ctx context.Context, facet Facet, objs []Object) error {
	old, err := s.facetIDs(ctx, facet)
	if err != nil {
		return err
	}

	now := s.now()
	fresh := make([]Object, len(objs))
	for i, o := range objs {
		o.Facet = facet
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		o.Created = now.Add(time.Duration(i) * time.Microsecond)
		o.Updated = now
		fresh[i] = o
	}

	keep := lo.SliceToMap(fresh, func(o Object) (string, struct{}) { return o.ID, struct{}{} })
	stale := lo.Reject(old, func(id string, _ int) bool {
		_, ok := keep[id]
		return ok
	})

	if err := s.apply(ctx, stale, fresh); err != nil {
		return err
	}
	log.Debugf("replaced facet %s: %d objects, %d removed", facet, len(fresh), len(stale))
	return nil
}

// update rewrites one object under the write lock.
func (s *Store) update(ctx context.Context, id string, fn func(*Object) bool) error {
	o, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !fn(&o) {
		return nil
	}
	o.Updated = s.now()
	return s.apply(ctx, nil, []Object{o})
}

// apply deletes ids and indexes objs in batches, then signals the change.
func (s *Store) apply(ctx context.Context, deleted []string, objs []Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.index.NewBatch()
	flush := func() error {
		if batch.Size() == 0 {
			return nil
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("execute batch: %w", err)
		}
		batch.Reset()
		return nil
	}

	for _, id := range deleted {
		batch.Delete(id)
		if batch.Size() >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	for i, o := range objs {
		if i%batchSize == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		if err := batch.Index(o.ID, toDocument(o)); err != nil {
			return fmt.Errorf("index object %s: %w", o.ID, err)
		}
		if batch.Size() >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}

	s.changed()
	return nil
}

func (s *Store) byIDs(ctx context.Context, ids ...string) ([]Object, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDocIDQuery(ids), len(ids), 0, false)
	req.Fields = []string{"*"}

	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("lookup ids: %w", err)
	}

	byID := lo.SliceToMap(res.Hits, func(hit *searchHit) (string, Object) {
		return hit.ID, fromFields(hit.ID, hit.Fields)
	})

	// keep the caller's order, dropping unknown ids
	return lo.FilterMap(ids, func(id string, _ int) (Object, bool) {
		o, ok := byID[id]
		return o, ok
	}), nil
}

func (s *Store) facetIDs(ctx context.Context, facet Facet) ([]string, error) {
	var ids []string
	for offset := 0; ; offset += batchSize {
		req := bleve.NewSearchRequestOptions(termQuery(fieldFacet, string(facet), ""), batchSize, offset, false)
		req.SortBy([]string{"_id"})

		s.mu.RLock()
		res, err := s.index.SearchInContext(ctx, req)
		s.mu.RUnlock()
		if err != nil {
			return nil, fmt.Errorf("list facet %s: %w", facet, err)
		}

		for _, hit := range res.Hits {
			ids = append(ids, hit.ID)
		}
		if len(res.Hits) < batchSize {
			return ids, nil
		}
	}
}

// termQuery restricts to documents whose keyword field holds value and, for a
// non-empty text, to those matching every term or whose text starts with the
// last typed word.
func termQuery(field, value, text string) query.Query {
	term := bleve.NewTermQuery(value)
	term.SetField(field)

	text = strings.TrimSpace(text)
	if text == "" {
		return bleve.NewConjunctionQuery(term, bleve.NewMatchAllQuery())
	}

	match := bleve.NewMatchQuery(text)
	match.SetField(fieldText)
	match.SetOperator(query.MatchQueryOperatorAnd)

	words := strings.Fields(strings.ToLower(text))
	last := bleve.NewPrefixQuery(words[len(words)-1])
	last.SetField(fieldText)

	var typing query.Query = last
	if len(words) > 1 {
		head := bleve.NewMatchQuery(strings.Join(words[:len(words)-1], " "))
		head.SetField(fieldText)
		head.SetOperator(query.MatchQueryOperatorAnd)
		typing = bleve.NewConjunctionQuery(head, last)
	}

	return bleve.NewConjunctionQuery(term, bleve.NewDisjunctionQuery(match, typing))
}
