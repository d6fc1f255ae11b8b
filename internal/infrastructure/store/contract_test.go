package store

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/pharmalink/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	shared.BaseEntity
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

func newWidget() *widget { return &widget{} }

func activeWidget(id, name string) *widget {
	return &widget{BaseEntity: shared.NewBaseEntity(id), Name: name, Tags: []string{"a"}}
}

var hexID = regexp.MustCompile(`^[0-9a-f]{32}$`)

// openStores returns a constructor for stores sharing one fresh backend.
type openStores func(t *testing.T) func(namespace string) shared.KeyedStore[*widget]

// runStoreContract exercises the behavior every KeyedStore driver must share
func runStoreContract(t *testing.T, open openStores) {
	ctx := context.Background()

	t.Run("insert generates id and timestamps", func(t *testing.T) {
		s := open(t)("widget")

		inserted, err := s.Insert(ctx, activeWidget("", "gear"))
		require.NoError(t, err)
		assert.Regexp(t, hexID, inserted.ID)
		assert.False(t, inserted.CreatedAt.IsZero())
		assert.True(t, inserted.CreatedAt.Equal(inserted.UpdatedAt))

		got, found, err := s.Get(ctx, inserted.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "gear", got.Name)
		assert.True(t, got.IsActive())
		assert.True(t, inserted.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("insert keeps supplied id and rejects duplicates", func(t *testing.T) {
		s := open(t)("widget")

		_, err := s.Insert(ctx, activeWidget("w-1", "original"))
		require.NoError(t, err)

		_, err = s.Insert(ctx, activeWidget("w-1", "imposter"))
		assert.ErrorIs(t, err, shared.ErrEntityAlreadyExists)

		got, found, err := s.Get(ctx, "w-1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "original", got.Name)
	})

	t.Run("get of absent id is not an error", func(t *testing.T) {
		s := open(t)("widget")

		got, found, err := s.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, got)
	})

	t.Run("get all returns active entities of its namespace only", func(t *testing.T) {
		stores := open(t)
		widgets := stores("widget")
		others := stores("gadget")

		_, err := widgets.Insert(ctx, activeWidget("w-1", "one"))
		require.NoError(t, err)
		_, err = widgets.Insert(ctx, activeWidget("w-2", "two"))
		require.NoError(t, err)
		_, err = others.Insert(ctx, activeWidget("g-1", "other"))
		require.NoError(t, err)
		require.NoError(t, widgets.Delete(ctx, "w-2"))

		all, err := widgets.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "w-1", all[0].ID)
	})

	t.Run("update overwrites and bumps update timestamp", func(t *testing.T) {
		s := open(t)("widget")

		inserted, err := s.Insert(ctx, activeWidget("w-1", "before"))
		require.NoError(t, err)
		createdAt := inserted.CreatedAt

		inserted.Name = "after"
		updated, err := s.Update(ctx, inserted)
		require.NoError(t, err)
		assert.False(t, updated.UpdatedAt.Before(createdAt))

		got, _, err := s.Get(ctx, "w-1")
		require.NoError(t, err)
		assert.Equal(t, "after", got.Name)
		assert.True(t, createdAt.Equal(got.CreatedAt))
	})

	t.Run("update without id fails", func(t *testing.T) {
		s := open(t)("widget")

		_, err := s.Update(ctx, activeWidget("", "nameless"))
		assert.ErrorIs(t, err, shared.ErrDbOperationFailure)
	})

	t.Run("delete is soft and not repeatable", func(t *testing.T) {
		s := open(t)("widget")

		_, err := s.Insert(ctx, activeWidget("w-1", "doomed"))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, "w-1"))

		got, found, err := s.Get(ctx, "w-1")
		require.NoError(t, err)
		require.True(t, found)
		assert.False(t, got.IsActive())

		assert.ErrorIs(t, s.Delete(ctx, "w-1"), shared.ErrEntityNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "missing"), shared.ErrEntityNotFound)
	})

	t.Run("returned values do not alias stored state", func(t *testing.T) {
		s := open(t)("widget")

		inserted, err := s.Insert(ctx, activeWidget("w-1", "stable"))
		require.NoError(t, err)
		inserted.Name = "mutated"
		inserted.Tags[0] = "mutated"

		got, _, err := s.Get(ctx, "w-1")
		require.NoError(t, err)
		got.Tags = append(got.Tags, "extra")

		again, _, err := s.Get(ctx, "w-1")
		require.NoError(t, err)
		assert.Equal(t, "stable", again.Name)
		assert.Equal(t, []string{"a"}, again.Tags)
	})

	t.Run("concurrent inserts of one id admit a single winner", func(t *testing.T) {
		s := open(t)("widget")

		const workers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.Insert(ctx, activeWidget("contended", "x")); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
	})
}
