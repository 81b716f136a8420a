package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	goredis "github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"

	"github.com/neomorfeo/growspace/internal/domain"
)

const keyPrefix = "growspace"

// Collection names of the view stores.
const (
	CollectionGrowingUnits = "growing_units"
	CollectionPlants       = "plants"
	CollectionLocations    = "locations"
)

// mgetBatch bounds the number of keys fetched per MGET.
const mgetBatch = 500

// ViewStore implements domain.ViewRepository for one collection. Each view is
// a JSON document at growspace:<collection>:<id>; a set at
// growspace:<collection>:ids indexes the collection for criteria scans.
type ViewStore[V domain.View] struct {
	client     *goredis.Client
	collection string
}

var (
	_ domain.GrowingUnitViewRepository = (*ViewStore[domain.GrowingUnitView])(nil)
	_ domain.PlantViewRepository       = (*ViewStore[domain.PlantView])(nil)
	_ domain.LocationViewRepository    = (*ViewStore[domain.LocationView])(nil)
)

// NewViewStore creates a view store over a collection.
func NewViewStore[V domain.View](client *goredis.Client, collection string) *ViewStore[V] {
	return &ViewStore[V]{client: client, collection: collection}
}

// NewGrowingUnitViews returns the growing unit view store.
func NewGrowingUnitViews(client *goredis.Client) *ViewStore[domain.GrowingUnitView] {
	return NewViewStore[domain.GrowingUnitView](client, CollectionGrowingUnits)
}

// NewPlantViews returns the plant view store.
func NewPlantViews(client *goredis.Client) *ViewStore[domain.PlantView] {
	return NewViewStore[domain.PlantView](client, CollectionPlants)
}

// NewLocationViews returns the location view store.
func NewLocationViews(client *goredis.Client) *ViewStore[domain.LocationView] {
	return NewViewStore[domain.LocationView](client, CollectionLocations)
}

func (s *ViewStore[V]) key(id string) string {
	return keyPrefix + ":" + s.collection + ":" + id
}

func (s *ViewStore[V]) indexKey() string {
	return keyPrefix + ":" + s.collection + ":ids"
}

func (s *ViewStore[V]) FindByID(ctx context.Context, id string) (V, error) {
	var v V
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return v, &domain.NotFoundError{Kind: s.collection + " view", ID: id}
	}
	if err != nil {
		return v, fmt.Errorf("reading %s view: %w", s.collection, err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decoding %s view: %w", s.collection, err)
	}
	return v, nil
}

// Save replaces the whole document and indexes it atomically.
func (s *ViewStore[V]) Save(ctx context.Context, v V) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s view: %w", s.collection, err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, s.key(v.ViewID()), raw, 0)
		pipe.SAdd(ctx, s.indexKey(), v.ViewID())
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing %s view: %w", s.collection, err)
	}
	return nil
}

func (s *ViewStore[V]) Delete(ctx context.Context, id string) error {
	var del *goredis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		del = pipe.Del(ctx, s.key(id))
		pipe.SRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting %s view: %w", s.collection, err)
	}
	if del.Val() == 0 {
		return &domain.NotFoundError{Kind: s.collection + " view", ID: id}
	}
	return nil
}

// FindByCriteria scans the collection, filters and sorts the raw JSON
// documents with gjson, and decodes only the requested page.
func (s *ViewStore[V]) FindByCriteria(ctx context.Context, criteria domain.Criteria) (domain.Page[V], error) {
	c, err := criteria.Normalize()
	if err != nil {
		return domain.Page[V]{}, err
	}

	docs, err := s.scan(ctx)
	if err != nil {
		return domain.Page[V]{}, err
	}

	matched := docs[:0]
	for _, d := range docs {
		if matchesAll(d, c.Filters) {
			matched = append(matched, d)
		}
	}
	sortDocuments(matched, c.Sorts)

	total := len(matched)
	start := min(c.Pagination.Offset(), total)
	end := min(start+c.Pagination.PerPage, total)

	items := make([]V, 0, end-start)
	for _, d := range matched[start:end] {
		var v V
		if err := json.Unmarshal([]byte(d.raw), &v); err != nil {
			return domain.Page[V]{}, fmt.Errorf("decoding %s view: %w", s.collection, err)
		}
		items = append(items, v)
	}
	return domain.NewPage(items, total, c.Pagination), nil
}

// document is a stored view before decoding.
type document struct {
	id  string
	raw string
}

// scan loads every indexed document in id order. Index entries whose
// document vanished are skipped.
func (s *ViewStore[V]) scan(ctx context.Context) ([]document, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("reading %s index: %w", s.collection, err)
	}
	slices.Sort(ids)

	docs := make([]document, 0, len(ids))
	for batch := range slices.Chunk(ids, mgetBatch) {
		keys := make([]string, len(batch))
		for i, id := range batch {
			keys[i] = s.key(id)
		}
		vals, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, fmt.Errorf("reading %s views: %w", s.collection, err)
		}
		for i, val := range vals {
			raw, ok := val.(string)
			if !ok {
				continue
			}
			docs = append(docs, document{id: batch[i], raw: raw})
		}
	}
	return docs, nil
}

func sortDocuments(docs []document, sorts []domain.Sort) {
	slices.SortStableFunc(docs, func(a, b document) int {
		for _, s := range sorts {
			av, bv := gjson.Get(a.raw, s.Field), gjson.Get(b.raw, s.Field)
			cmp := 0
			switch {
			case av.Less(bv, true):
				cmp = -1
			case bv.Less(av, true):
				cmp = 1
			}
			if s.Direction == domain.Desc {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp
			}
		}
		return 0
	})
}
