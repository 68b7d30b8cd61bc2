package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Tag labels objects. An alias points at the tag it stands for.
type Tag struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	AliasOf string `json:"alias_of,omitempty"`
}

// IsAlias reports whether t stands for another tag.
func (t Tag) IsAlias() bool { return t.AliasOf != "" }

// SaveTag stores a new tag and returns it with its id.
func (s *Store) SaveTag(ctx context.Context, t Tag) (Tag, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return Tag{}, fmt.Errorf("tag name is empty")
	}

	if t.IsAlias() {
		if _, err := s.Get(ctx, t.AliasOf); err != nil {
			return Tag{}, fmt.Errorf("alias target: %w", err)
		}
	}

	obj, err := tagObject(t)
	if err != nil {
		return Tag{}, err
	}

	stored, err := s.Put(ctx, obj)
	if err != nil {
		return Tag{}, fmt.Errorf("save tag %q: %w", t.Name, err)
	}

	t.ID = stored[0].ID
	return t, nil
}

// SearchTags pages through tags whose name matches text.
func (s *Store) SearchTags(ctx context.Context, text string, limit, offset int) ([]Tag, error) {
	objs, err := s.Search(ctx, FacetTag, text, limit, offset)
	if err != nil {
		return nil, err
	}
	return tagsFromObjects(objs)
}

// TagsByIDs returns the tags with the given ids, in that order. Unknown ids are skipped.
func (s *Store) TagsByIDs(ctx context.Context, ids ...string) ([]Tag, error) {
	objs, err := s.byIDs(ctx, ids...)
	if err != nil {
		return nil, err
	}
	objs = lo.Filter(objs, func(o Object, _ int) bool { return o.Facet == FacetTag })
	return tagsFromObjects(objs)
}

// AddTag attaches the tag to the object. Attaching twice is a no-op.
func (s *Store) AddTag(ctx context.Context, objectID, tagID string) error {
	tags, err := s.TagsByIDs(ctx, tagID)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		return fmt.Errorf("%w: tag %s", ErrNotFound, tagID)
	}

	return s.update(ctx, objectID, func(o *Object) bool {
		if slices.Contains(o.Tags, tagID) {
			return false
		}
		o.Tags = append(o.Tags, tagID)
		return true
	})
}

// RemoveTag detaches the tag from the object.
func (s *Store) RemoveTag(ctx context.Context, objectID, tagID string) error {
	return s.update(ctx, objectID, func(o *Object) bool {
		before := len(o.Tags)
		o.Tags = lo.Without(o.Tags, tagID)
		return len(o.Tags) != before
	})
}

func tagObject(t Tag) (Object, error) {
	data, err := Encode(Tag{Name: t.Name, AliasOf: t.AliasOf})
	if err != nil {
		return Object{}, err
	}
	return Object{
		ID:    t.ID,
		Facet: FacetTag,
		Title: t.Name,
		Data:  data,
	}, nil
}

func tagsFromObjects(objs []Object) ([]Tag, error) {
	tags := make([]Tag, 0, len(objs))
	for _, o := range objs {
		t, err := Decode[Tag](o)
		if err != nil {
			return nil, err
		}
		t.ID = o.ID
		tags = append(tags, t)
	}
	return tags, nil
}
