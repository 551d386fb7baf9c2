package view

import (
	"context"
	"sync"

	"peer-match/internal/client/bus"
	"peer-match/internal/client/conversation"
	"peer-match/internal/client/replica"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ConversationState struct {
	Threads []conversation.Thread
	Active  *conversation.Thread
	Err     error
}

// Conversation shows one thread per connection. A pending hand-off is
// claimed first so the requested thread is open before the list loads.
type Conversation struct {
	deps   Deps
	logger *zap.Logger
	lc     lifecycle

	mu    sync.Mutex
	err   error
	unsub func()
}

func NewConversation(deps Deps) *Conversation {
	return &Conversation{deps: deps, logger: deps.logger("conversation")}
}

func (v *Conversation) Mount(ctx context.Context) error {
	gen := v.lc.mount()

	v.mu.Lock()
	if v.unsub == nil {
		v.unsub = v.deps.Bus.Subscribe(v.onEvent)
	}
	v.mu.Unlock()

	if req, ok := v.deps.Handoff.Claim(); ok {
		v.deps.Threads.Open(req.TargetID, req.DisplayName)
	}

	list, err := v.deps.Backend.Connections(ctx, v.deps.UserID)
	if !v.lc.alive(gen) {
		return nil
	}

	var entries []replica.Entry
	if err != nil {
		v.logger.Warn("connections fetch failed, seeding threads from cache", zap.Error(err))
		entries = v.deps.Replica.Entries()
	} else {
		var perr error
		entries, perr = v.deps.Replica.Reconcile(ctx, entriesFromConnections(list))
		if perr != nil {
			v.logger.Warn("replica persist failed", zap.Error(perr))
		}
	}

	peers := make([]conversation.Peer, 0, len(entries))
	for _, e := range entries {
		peers = append(peers, conversation.Peer{TargetID: e.TargetID, DisplayName: e.DisplayName})
	}
	v.deps.Threads.Seed(peers)

	v.mu.Lock()
	v.err = err
	v.mu.Unlock()
	return err
}

func (v *Conversation) Unmount() {
	v.lc.unmount()

	v.mu.Lock()
	unsub := v.unsub
	v.unsub = nil
	v.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Select makes a thread active and marks it read.
func (v *Conversation) Select(threadID uuid.UUID) bool {
	return v.deps.Threads.MarkRead(threadID)
}

func (v *Conversation) DismissError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.err = nil
}

func (v *Conversation) State() ConversationState {
	st := ConversationState{Threads: v.deps.Threads.Threads()}
	if t, ok := v.deps.Threads.Active(); ok {
		st.Active = &t
	}
	v.mu.Lock()
	st.Err = v.err
	v.mu.Unlock()
	return st
}

func (v *Conversation) onEvent(e bus.Event) {
	if _, ok := v.lc.current(); !ok {
		v.logger.Error("event delivered to unmounted conversation view")
		return
	}

	switch ev := e.(type) {
	case bus.ConnectionCreated:
		v.deps.Threads.Announce(conversation.Peer{TargetID: ev.TargetID, DisplayName: ev.DisplayName})
	}
}
