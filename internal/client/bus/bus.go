// Package bus is the in-process publish/subscribe channel the client views
// use to learn about connections created elsewhere in the same process.
package bus

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is a closed set of payloads; switch on the concrete type.
type Event interface {
	isEvent()
}

// ConnectionCreated is published once per connection the client recorded
// for the first time.
type ConnectionCreated struct {
	OwnerID          uuid.UUID
	TargetID         uuid.UUID
	DisplayName      string
	Email            string
	SharedSkillNames []string
	CreatedAt        time.Time
}

func (ConnectionCreated) isEvent() {}

type Handler func(Event)

type subscription struct {
	id uint64
	h  Handler
}

// Bus delivers every event synchronously to the subscribers present when
// Publish was called, in subscription order. Publishes are serialized so
// all subscribers observe the same event order. A handler must not call
// Publish.
type Bus struct {
	publishMu sync.Mutex

	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
}

func New() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a function that removes it. Calling the
// returned function more than once is a no-op.
func (b *Bus) Subscribe(h Handler) func() {
	if h == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, h: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) Publish(e Event) {
	if e == nil {
		return
	}

	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	b.mu.RLock()
	snapshot := make([]subscription, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.RUnlock()

	for _, s := range snapshot {
		s.h(e)
	}
}

func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}
