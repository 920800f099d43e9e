package mystore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	UID  string
	Name string
}

func TestInMemoryStore(t *testing.T) {
	c := context.TODO()

	t.Run("Get on empty store", func(t *testing.T) {
		store, cleanup, err := NewInMemoryStore[record](c)
		assert.NoError(t, err)
		defer cleanup()

		_, exists, err := store.Get(c, "123")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Put then get", func(t *testing.T) {
		store, cleanup, _ := NewInMemoryStore[record](c)
		defer cleanup()

		err := store.Put(c, "123", record{UID: "123", Name: "first"})
		assert.NoError(t, err)

		got, exists, err := store.Get(c, "123")
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, "first", got.Name)
	})

	t.Run("Put overwrites", func(t *testing.T) {
		store, cleanup, _ := NewInMemoryStore[record](c)
		defer cleanup()

		store.Put(c, "123", record{UID: "123", Name: "first"})
		store.Put(c, "123", record{UID: "123", Name: "second"})

		got, exists, _ := store.Get(c, "123")
		assert.True(t, exists)
		assert.Equal(t, "second", got.Name)
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		store, cleanup, _ := NewInMemoryStore[record](c)
		defer cleanup()

		store.Put(c, "123", record{UID: "123", Name: "first"})

		err := store.Delete(c, "123")
		assert.NoError(t, err)
		err = store.Delete(c, "123")
		assert.NoError(t, err)

		_, exists, _ := store.Get(c, "123")
		assert.False(t, exists)
	})

	t.Run("Mutations within transaction", func(t *testing.T) {
		store, cleanup, _ := NewInMemoryStore[record](c)
		defer cleanup()

		err := store.RunInTransaction(c, func(c context.Context) error {
			_, exists, err := store.Get(c, "123")
			assert.NoError(t, err)
			assert.False(t, exists)

			return store.Put(c, "123", record{UID: "123", Name: "first"})
		})
		assert.NoError(t, err)

		_, exists, _ := store.Get(c, "123")
		assert.True(t, exists)
	})

	t.Run("Failing transaction propagates error", func(t *testing.T) {
		store, cleanup, _ := NewInMemoryStore[record](c)
		defer cleanup()

		err := store.RunInTransaction(c, func(c context.Context) error {
			return fmt.Errorf("boom")
		})
		assert.Error(t, err)
	})

	t.Run("List returns all items", func(t *testing.T) {
		store, cleanup, _ := NewInMemoryStore[record](c)
		defer cleanup()

		store.Put(c, "1", record{UID: "1"})
		store.Put(c, "2", record{UID: "2"})

		all, err := store.List(c)
		assert.NoError(t, err)
		assert.Len(t, all, 2)
	})
}
