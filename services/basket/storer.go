package basket

import (
	"context"

	"github.com/MarcGrol/basketservice/lib/mystore"
)

// BasketStorer abstracts the storage backend so that datastore, in-memory
// and test doubles are interchangeable.
//
//go:generate mockgen -source=storer.go -package basket -destination storer_mock.go BasketStorer
type BasketStorer interface {
	// Get returns the basket of this owner, or false when there is none.
	Get(c context.Context, ownerUID string) (Basket, bool, error)
	// Put replaces the basket of this owner and returns the basket as
	// stored; false means the store could not produce a basket for this
	// owner.
	Put(c context.Context, ownerUID string, basket Basket) (Basket, bool, error)
	// Delete removes the basket of this owner. Deleting an absent basket
	// is not an error.
	Delete(c context.Context, ownerUID string) error
}

type basketStore struct {
	store mystore.Store[Basket]
}

func NewBasketStore(c context.Context) (BasketStorer, func(), error) {
	store, cleanup, err := mystore.New[Basket](c)
	if err != nil {
		return nil, nil, err
	}

	return &basketStore{
		store: store,
	}, cleanup, nil
}

func (s *basketStore) Get(c context.Context, ownerUID string) (Basket, bool, error) {
	return s.store.Get(c, ownerUID)
}

func (s *basketStore) Put(c context.Context, ownerUID string, basket Basket) (Basket, bool, error) {
	err := s.store.RunInTransaction(c, func(c context.Context) error {
		existing, exists, err := s.store.Get(c, ownerUID)
		if err != nil {
			return err
		}
		if exists {
			// A replace overwrites everything except the creation time
			basket.CreatedAt = existing.CreatedAt
		}

		// No read-back here: datastore buffers writes until commit, so a
		// transactional Get after this Put would still see the old snapshot.
		return s.store.Put(c, ownerUID, basket)
	})
	if err != nil {
		return Basket{}, false, err
	}

	return basket, true, nil
}

func (s *basketStore) Delete(c context.Context, ownerUID string) error {
	return s.store.Delete(c, ownerUID)
}
