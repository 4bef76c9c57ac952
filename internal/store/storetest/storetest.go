// Package storetest holds the behavior every ProductStore backend must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/store"
)

// Sample returns a valid record without id.
func Sample(name string, qty int, price float64) domain.Product {
	return domain.Product{
		Name:        name,
		Description: name + " description",
		Quantity:    qty,
		Price:       price,
		Image:       "iVBORw0KGgo=",
	}
}

// Run exercises a fresh, empty store built by newStore.
func Run(t *testing.T, newStore func(t *testing.T) store.ProductStore) {
	ctx := context.Background()

	t.Run("insert assigns id and lists in creation order", func(t *testing.T) {
		s := newStore(t)
		chair := Sample("Chair", 5, 49.99)
		chair.ID = "caller-supplied"
		id1, err := s.Insert(ctx, chair)
		require.NoError(t, err)
		require.NotEmpty(t, id1)
		assert.NotEqual(t, "caller-supplied", id1)

		id2, err := s.Insert(ctx, Sample("Lamp", 2, 10))
		require.NoError(t, err)

		items, err := s.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, id1, items[0].ID)
		assert.Equal(t, id2, items[1].ID)
		assert.Equal(t, "Chair", items[0].Name)
		assert.Equal(t, 5, items[0].Quantity)
		assert.Equal(t, 49.99, items[0].Price)
	})

	t.Run("get by id", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Insert(ctx, Sample("Chair", 5, 49.99))
		require.NoError(t, err)

		p, err := s.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.Equal(t, "Chair description", p.Description)
		assert.Equal(t, "iVBORw0KGgo=", p.Image)

		_, err = s.GetByID(ctx, "404")
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("update overwrites whole record and keeps id", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Insert(ctx, Sample("Chair", 5, 49.99))
		require.NoError(t, err)

		next := Sample("Stool", 3, 20)
		next.Description = ""
		next.ID = "other"
		require.NoError(t, s.UpdateByID(ctx, id, next))

		p, err := s.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.Equal(t, "Stool", p.Name)
		assert.Equal(t, "", p.Description)
		assert.Equal(t, 3, p.Quantity)

		_, err = s.GetByID(ctx, "other")
		assert.True(t, domain.IsNotFound(err))

		err = s.UpdateByID(ctx, "404", next)
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Insert(ctx, Sample("Chair", 5, 49.99))
		require.NoError(t, err)
		keep, err := s.Insert(ctx, Sample("Lamp", 2, 10))
		require.NoError(t, err)

		require.NoError(t, s.DeleteByID(ctx, id))
		require.NoError(t, s.DeleteByID(ctx, id), "deleting an absent id is a no-op")

		items, err := s.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, keep, items[0].ID)
	})

	t.Run("empty list", func(t *testing.T) {
		s := newStore(t)
		items, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
