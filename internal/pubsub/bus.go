package pubsub

import (
	"sync"

	"github.com/greenshop/storefront/internal/models"
)

// WishlistChanged carries the full wishlist state after a toggle, so a
// subscriber never has to re-read storage to catch up.
type WishlistChanged struct {
	UserID   uint
	Wishlist []models.WishlistEntry
}

// Bus is an in-process fan-out channel for wishlist changes. Publish never
// blocks: a subscriber that falls behind loses intermediate events, which
// is safe because every event is a full snapshot.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan WishlistChanged
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan WishlistChanged)}
}

// Subscribe returns a receive channel and a cancel function. Cancel must be
// called when the subscriber goes away so the channel can be closed.
func (b *Bus) Subscribe() (<-chan WishlistChanged, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan WishlistChanged, 8)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (b *Bus) Publish(ev WishlistChanged) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
