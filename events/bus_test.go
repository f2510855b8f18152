package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribePublish(t *testing.T) {
	t.Run("Success - subscribers receive events of their kind only", func(t *testing.T) {
		bus := NewBus()

		var changed []Event
		var updated []Event
		bus.Subscribe(ReviewsChanged, func(ev Event) { changed = append(changed, ev) })
		bus.Subscribe(ReviewsUpdated, func(ev Event) { updated = append(updated, ev) })

		bus.Publish(Event{Kind: ReviewsChanged, ProductID: 3})
		bus.Publish(Event{Kind: ReviewsUpdated, ProductID: 3, Rating: 4.5, ReviewCount: 12})
		bus.Publish(Event{Kind: ReviewsChanged, ProductID: 9})

		assert.Len(t, changed, 2)
		assert.Equal(t, 3, changed[0].ProductID)
		assert.Equal(t, 9, changed[1].ProductID)

		assert.Len(t, updated, 1)
		assert.Equal(t, 4.5, updated[0].Rating)
		assert.Equal(t, 12, updated[0].ReviewCount)
	})

	t.Run("Success - delivery follows subscription order", func(t *testing.T) {
		bus := NewBus()

		var order []string
		bus.Subscribe(ReviewsChanged, func(Event) { order = append(order, "first") })
		bus.Subscribe(ReviewsChanged, func(Event) { order = append(order, "second") })

		bus.Publish(Event{Kind: ReviewsChanged, ProductID: 1})
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("Success - publish with no subscribers is a no-op", func(t *testing.T) {
		bus := NewBus()
		assert.NotPanics(t, func() {
			bus.Publish(Event{Kind: ReviewsUpdated, ProductID: 5})
		})
	})
}

func TestUnsubscribe(t *testing.T) {
	t.Run("Success - removed handler no longer fires", func(t *testing.T) {
		bus := NewBus()

		hits := 0
		sub := bus.Subscribe(ReviewsChanged, func(Event) { hits++ })

		bus.Publish(Event{Kind: ReviewsChanged})
		bus.Unsubscribe(sub)
		bus.Publish(Event{Kind: ReviewsChanged})

		assert.Equal(t, 1, hits)
	})

	t.Run("Success - other subscribers survive an unsubscribe", func(t *testing.T) {
		bus := NewBus()

		var kept int
		sub := bus.Subscribe(ReviewsChanged, func(Event) {})
		bus.Subscribe(ReviewsChanged, func(Event) { kept++ })

		bus.Unsubscribe(sub)
		bus.Publish(Event{Kind: ReviewsChanged})

		assert.Equal(t, 1, kept)
	})

	t.Run("Success - unsubscribing twice is a no-op", func(t *testing.T) {
		bus := NewBus()
		sub := bus.Subscribe(ReviewsChanged, func(Event) {})

		bus.Unsubscribe(sub)
		assert.NotPanics(t, func() { bus.Unsubscribe(sub) })
	})
}

func TestConcurrentAccess(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	total := 0
	bus.Subscribe(ReviewsChanged, func(Event) {
		mu.Lock()
		total++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Publish(Event{Kind: ReviewsChanged, ProductID: j})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 500, total)
}
