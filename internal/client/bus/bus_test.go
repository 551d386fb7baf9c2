package bus

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversInOrderToAllSubscribers(t *testing.T) {
	b := New()
	var got1, got2 []uuid.UUID
	b.Subscribe(func(e Event) {
		if cc, ok := e.(ConnectionCreated); ok {
			got1 = append(got1, cc.TargetID)
		}
	})
	b.Subscribe(func(e Event) {
		if cc, ok := e.(ConnectionCreated); ok {
			got2 = append(got2, cc.TargetID)
		}
	})

	x, y := uuid.New(), uuid.New()
	b.Publish(ConnectionCreated{TargetID: x})
	b.Publish(ConnectionCreated{TargetID: y})

	assert.Equal(t, []uuid.UUID{x, y}, got1)
	assert.Equal(t, []uuid.UUID{x, y}, got2)
}

func TestBus_UnsubscribeStopsDeliveryAndIsIdempotent(t *testing.T) {
	b := New()
	calls := 0
	unsub := b.Subscribe(func(Event) { calls++ })
	other := b.Subscribe(func(Event) {})
	require.Equal(t, 2, b.Subscribers())

	b.Publish(ConnectionCreated{})
	unsub()
	unsub()
	b.Publish(ConnectionCreated{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, b.Subscribers())
	other()
	assert.Equal(t, 0, b.Subscribers())
}

func TestBus_UnsubscribeDuringDelivery(t *testing.T) {
	b := New()
	var unsub func()
	calls := 0
	unsub = b.Subscribe(func(Event) {
		calls++
		unsub()
	})

	b.Publish(ConnectionCreated{})
	b.Publish(ConnectionCreated{})
	assert.Equal(t, 1, calls)
}

func TestBus_ConcurrentPublishersSeeSameOrder(t *testing.T) {
	b := New()
	var mu sync.Mutex
	var seenA, seenB []uuid.UUID
	b.Subscribe(func(e Event) {
		mu.Lock()
		seenA = append(seenA, e.(ConnectionCreated).TargetID)
		mu.Unlock()
	})
	b.Subscribe(func(e Event) {
		mu.Lock()
		seenB = append(seenB, e.(ConnectionCreated).TargetID)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish(ConnectionCreated{TargetID: uuid.New()})
		}()
	}
	wg.Wait()

	require.Len(t, seenA, 20)
	assert.Equal(t, seenA, seenB)
}
