package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Thread struct {
	ID          uuid.UUID
	TargetID    uuid.UUID
	DisplayName string
	CreatedAt   time.Time
	Unread      int
}

type Peer struct {
	TargetID    uuid.UUID
	DisplayName string
}

// Book is the client's thread list, at most one thread per target.
type Book struct {
	mu       sync.Mutex
	threads  []Thread
	byTarget map[uuid.UUID]int
	active   uuid.UUID

	now func() time.Time
}

func NewBook() *Book {
	return &Book{byTarget: map[uuid.UUID]int{}, now: time.Now}
}

// Open returns the thread for targetID, creating it if needed, and makes it
// the active one.
func (b *Book) Open(targetID uuid.UUID, displayName string) (Thread, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, created := b.attach(targetID, displayName, 0)
	b.active = t.ID
	return t, created
}

// Seed adds a thread for each peer that has none. Existing threads are left
// untouched.
func (b *Book) Seed(peers []Peer) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	added := 0
	for _, p := range peers {
		if _, created := b.attach(p.TargetID, p.DisplayName, 0); created {
			added++
		}
	}
	return added
}

// Announce adds a thread for a peer connected while the list is on screen.
// A new thread starts with one unread marker.
func (b *Book) Announce(p Peer) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, created := b.attach(p.TargetID, p.DisplayName, 1)
	return created
}

func (b *Book) MarkRead(threadID uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.threads {
		if b.threads[i].ID == threadID {
			b.threads[i].Unread = 0
			b.active = threadID
			return true
		}
	}
	return false
}

func (b *Book) Threads() []Thread {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Thread(nil), b.threads...)
}

// Active returns the selected thread, if any.
func (b *Book) Active() (Thread, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range b.threads {
		if t.ID == b.active {
			return t, true
		}
	}
	return Thread{}, false
}

func (b *Book) attach(targetID uuid.UUID, displayName string, unread int) (Thread, bool) {
	if i, ok := b.byTarget[targetID]; ok {
		if b.threads[i].DisplayName == "" && displayName != "" {
			b.threads[i].DisplayName = displayName
		}
		return b.threads[i], false
	}
	t := Thread{
		ID:          uuid.New(),
		TargetID:    targetID,
		DisplayName: displayName,
		CreatedAt:   b.now().UTC(),
		Unread:      unread,
	}
	b.byTarget[targetID] = len(b.threads)
	b.threads = append(b.threads, t)
	return t, true
}
