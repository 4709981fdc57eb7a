package services

import (
	"sync"

	"github.com/kendall-kelly/cleanrush-laundry-api/models"
)

// OrderFeed fans collection snapshots out to admin subscribers.
// Each subscriber holds at most one pending snapshot; a newer one
// replaces it, so slow readers only ever see the latest state.
type OrderFeed struct {
	mu   sync.Mutex
	subs map[chan []models.Order]struct{}
}

// NewOrderFeed creates a feed with no subscribers
func NewOrderFeed() *OrderFeed {
	return &OrderFeed{subs: make(map[chan []models.Order]struct{})}
}

// Subscribe registers a subscriber. The returned function unsubscribes
// and closes the channel.
func (f *OrderFeed) Subscribe() (<-chan []models.Order, func()) {
	ch := make(chan []models.Order, 1)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Publish hands a snapshot to every subscriber without blocking
func (f *OrderFeed) Publish(orders []models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- orders:
		default:
		}
	}
}

// Subscribers returns the number of live subscribers
func (f *OrderFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
