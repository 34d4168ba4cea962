// Package favorites keeps the set of favorited service ids. The set is
// stored as a list under one key; each mutation is a single atomic
// read-modify-write of that list.
package favorites

import (
	"context"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/ndisdirectory/internal/storage"
)

type Tracker interface {
	// Toggle adds id when absent and removes it when present, returning
	// whether it is a favorite afterwards.
	Toggle(ctx context.Context, id int64) (bool, error)
	IsFavorite(ctx context.Context, id int64) bool
	// List returns the ids in the order they were favorited.
	List(ctx context.Context) []int64
}

// KeyFor returns the storage key for a favorites set. userID 0 selects the
// set shared by everyone on this device.
func KeyFor(userID int64) string {
	if userID == 0 {
		return storage.KeyFavorites
	}
	return storage.KeyFavorites + ":" + strconv.FormatInt(userID, 10)
}

type tracker struct {
	store *storage.Store
	key   string
}

// New returns a Tracker persisting under key (see KeyFor).
func New(store *storage.Store, key string) Tracker {
	return &tracker{store: store, key: key}
}

func read(ctx context.Context, s *storage.Store, key string) []int64 {
	ids := storage.ReadList[int64](ctx, s, key)
	out := ids[:0]
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func (t *tracker) Toggle(ctx context.Context, id int64) (bool, error) {
	var added bool
	err := t.store.Atomically(ctx, func(ctx context.Context, tx *storage.Store) error {
		ids := read(ctx, tx, t.key)
		if i := slices.Index(ids, id); i >= 0 {
			ids = slices.Delete(ids, i, i+1)
			added = false
		} else {
			ids = append(ids, id)
			added = true
		}
		return storage.WriteList(ctx, tx, t.key, ids)
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

func (t *tracker) IsFavorite(ctx context.Context, id int64) bool {
	return slices.Contains(read(ctx, t.store, t.key), id)
}

func (t *tracker) List(ctx context.Context) []int64 {
	return read(ctx, t.store, t.key)
}
