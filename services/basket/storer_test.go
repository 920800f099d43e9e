package basket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/basketservice/lib/mytime"
)

func TestBasketStorePut(t *testing.T) {
	c := context.TODO()

	t.Run("First put for an owner creates the basket and returns it", func(t *testing.T) {
		// setup
		store, cleanup, err := NewBasketStore(c)
		assert.NoError(t, err)
		defer cleanup()

		// when
		stored, found, err := store.Put(c, ownerEmail, Basket{
			OwnerUID:  ownerEmail,
			CreatedAt: mytime.ExampleTime,
			Lines:     []BasketLine{{ProductID: 1, Quantity: 5}},
		})

		// then: the caller gets back exactly what was written
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []BasketLine{{ProductID: 1, Quantity: 5}}, stored.Lines)
		assert.Equal(t, mytime.ExampleTime, stored.CreatedAt)

		got, exists, err := store.Get(c, ownerEmail)
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, stored.Lines, got.Lines)
	})

	t.Run("Replace returns the new lines and keeps the original creation time", func(t *testing.T) {
		// setup
		store, cleanup, err := NewBasketStore(c)
		assert.NoError(t, err)
		defer cleanup()

		// given
		first, _, err := store.Put(c, ownerEmail, Basket{
			OwnerUID:  ownerEmail,
			CreatedAt: mytime.ExampleTime,
			Lines:     []BasketLine{{ProductID: 1, Quantity: 5}},
		})
		assert.NoError(t, err)

		// when
		later := mytime.ExampleTime.Add(time.Hour)
		stored, found, err := store.Put(c, ownerEmail, Basket{
			OwnerUID:     ownerEmail,
			CreatedAt:    later,
			LastModified: &later,
			Lines:        []BasketLine{{ProductID: 2, Quantity: 1}},
		})

		// then: new lines, original creation time
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []BasketLine{{ProductID: 2, Quantity: 1}}, stored.Lines)
		assert.Equal(t, first.CreatedAt, stored.CreatedAt)

		got, _, err := store.Get(c, ownerEmail)
		assert.NoError(t, err)
		assert.Equal(t, stored.Lines, got.Lines)
		assert.Equal(t, first.CreatedAt, got.CreatedAt)
	})
}
