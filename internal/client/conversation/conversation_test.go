package conversation

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandoff_ClaimIsExactlyOnce(t *testing.T) {
	h := NewHandoff()
	x := uuid.New()
	h.RequestConversation(x, "jane")

	r, ok := h.Claim()
	require.True(t, ok)
	assert.Equal(t, x, r.TargetID)
	assert.Equal(t, "jane", r.DisplayName)

	_, ok = h.Claim()
	assert.False(t, ok)
}

func TestHandoff_RequestOverwrites(t *testing.T) {
	h := NewHandoff()
	h.RequestConversation(uuid.New(), "first")
	y := uuid.New()
	h.RequestConversation(y, "second")

	r, ok := h.Claim()
	require.True(t, ok)
	assert.Equal(t, y, r.TargetID)
}

func TestHandoff_ConcurrentClaims(t *testing.T) {
	h := NewHandoff()
	h.RequestConversation(uuid.New(), "jane")

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := h.Claim(); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestBook_OpenAttachesToExistingThread(t *testing.T) {
	b := NewBook()
	x := uuid.New()

	first, created := b.Open(x, "jane")
	require.True(t, created)
	second, created := b.Open(x, "jane")
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, b.Threads(), 1)

	active, ok := b.Active()
	require.True(t, ok)
	assert.Equal(t, first.ID, active.ID)
}

func TestBook_SeedSkipsExisting(t *testing.T) {
	b := NewBook()
	x, y := uuid.New(), uuid.New()
	b.Open(x, "jane")

	added := b.Seed([]Peer{{TargetID: x, DisplayName: "jane"}, {TargetID: y, DisplayName: "alex"}})
	assert.Equal(t, 1, added)
	assert.Len(t, b.Threads(), 2)
}

func TestBook_AnnounceAndMarkRead(t *testing.T) {
	b := NewBook()
	x := uuid.New()

	require.True(t, b.Announce(Peer{TargetID: x, DisplayName: "jane"}))
	assert.False(t, b.Announce(Peer{TargetID: x, DisplayName: "jane"}))

	th := b.Threads()[0]
	assert.Equal(t, 1, th.Unread)

	require.True(t, b.MarkRead(th.ID))
	assert.Equal(t, 0, b.Threads()[0].Unread)
	assert.False(t, b.MarkRead(uuid.New()))
}
