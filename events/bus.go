package events

import (
	"sync"

	"github.com/google/uuid"
)

// Kind identifies an event family on the bus.
type Kind string

const (
	// ReviewsChanged means the review set for a product changed on the
	// server; interested parties should refetch the authoritative aggregate.
	ReviewsChanged Kind = "reviews:changed"
	// ReviewsUpdated carries a freshly fetched aggregate; subscribers patch
	// their cached display value in place, no further fetch needed.
	ReviewsUpdated Kind = "reviews:updated"
)

// Event is delivered to every subscriber of its Kind. Subscribers filter by
// ProductID themselves; delivery is ambient broadcast, not targeted.
type Event struct {
	Kind        Kind
	ProductID   int
	Rating      float64
	ReviewCount int
}

// Handler receives published events.
type Handler func(Event)

// Subscription is the handle returned by Subscribe, used to unsubscribe.
type Subscription struct {
	id   string
	kind Kind
}

type subscriber struct {
	id string
	fn Handler
}

// Bus is a lightweight in-process publish/subscribe mechanism. Events fired
// with no active subscriber are lost; displays self-correct on their next
// natural refetch.
type Bus struct {
	mu   sync.RWMutex
	subs map[Kind][]subscriber
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Kind][]subscriber)}
}

// Subscribe registers fn for every event of the given kind. Handlers run
// synchronously on the publishing goroutine, in subscription order.
func (b *Bus) Subscribe(kind Kind, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	b.subs[kind] = append(b.subs[kind], subscriber{id: id, fn: fn})
	return Subscription{id: id, kind: kind}
}

// Unsubscribe removes a previously registered handler. Unsubscribing twice
// is a no-op.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[sub.kind]
	for i, s := range list {
		if s.id == sub.id {
			b.subs[sub.kind] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to all current subscribers of its kind.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	list := make([]subscriber, len(b.subs[ev.Kind]))
	copy(list, b.subs[ev.Kind])
	b.mu.RUnlock()

	for _, s := range list {
		s.fn(ev)
	}
}
