package wishlist

import (
	"context"
	"fmt"

	"github.com/greenshop/storefront/internal/models"
	"github.com/greenshop/storefront/internal/pubsub"
	"github.com/greenshop/storefront/internal/session"
	"github.com/greenshop/storefront/internal/userstore"
)

// Synchronizer toggles wishlist membership inside the durable user record
// and broadcasts the new state so every mounted view re-reads it. It never
// writes the record directly, only through the store.
type Synchronizer struct {
	Store *userstore.Store
	Bus   *pubsub.Bus
}

func New(store *userstore.Store, bus *pubsub.Bus) *Synchronizer {
	return &Synchronizer{Store: store, Bus: bus}
}

// Toggle flips membership of the product in the user's wishlist. It returns
// whether the product is a member after the call and the resulting list.
// An anonymous caller gets session.ErrUnauthenticated and no state changes.
func (s *Synchronizer) Toggle(ctx context.Context, userID uint, product models.Product) (bool, []models.WishlistEntry, error) {
	if userID == 0 {
		return false, nil, session.ErrUnauthenticated
	}

	rec, err := s.Store.Load(ctx, userID)
	if err != nil {
		return false, nil, fmt.Errorf("wishlist: %w", err)
	}

	idx := -1
	for i, e := range rec.Wishlist {
		if e.ProductID == product.ID {
			idx = i
			break
		}
	}

	added := idx < 0
	if added {
		rec.Wishlist = append(rec.Wishlist, models.WishlistEntry{
			ProductID:     product.ID,
			Title:         product.Title,
			Price:         product.Price,
			Discount:      product.Discount,
			DiscountPrice: product.DiscountPrice,
			Category:      product.Category,
			MainImage:     product.MainImage,
		})
	} else {
		rec.Wishlist = append(rec.Wishlist[:idx], rec.Wishlist[idx+1:]...)
	}

	if err := s.Store.Save(ctx, rec); err != nil {
		return false, nil, fmt.Errorf("wishlist: %w", err)
	}

	if s.Bus != nil {
		s.Bus.Publish(pubsub.WishlistChanged{UserID: userID, Wishlist: rec.Wishlist})
	}
	return added, rec.Wishlist, nil
}

// Contains reports current membership without mutating anything.
func (s *Synchronizer) Contains(ctx context.Context, userID uint, productID uint) (bool, error) {
	if userID == 0 {
		return false, session.ErrUnauthenticated
	}

	rec, err := s.Store.Load(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("wishlist: %w", err)
	}
	for _, e := range rec.Wishlist {
		if e.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// List returns the current wishlist, empty for a never-seen user.
func (s *Synchronizer) List(ctx context.Context, userID uint) ([]models.WishlistEntry, error) {
	if userID == 0 {
		return nil, session.ErrUnauthenticated
	}

	rec, err := s.Store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wishlist: %w", err)
	}
	return rec.Wishlist, nil
}
