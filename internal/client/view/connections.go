package view

import (
	"context"
	"sync"

	"peer-match/internal/client/bus"
	"peer-match/internal/client/replica"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ConnectionsState struct {
	Items []replica.Entry
	// Err is set when the last refresh failed and Items come from the
	// replica alone. DismissError clears it.
	Err error
}

// Connections renders the replica immediately, then reconciles it with the
// server. Connections made in other views arrive over the bus.
type Connections struct {
	deps   Deps
	logger *zap.Logger
	lc     lifecycle

	mu    sync.Mutex
	items []replica.Entry
	err   error
	unsub func()
}

func NewConnections(deps Deps) *Connections {
	return &Connections{deps: deps, logger: deps.logger("connections")}
}

func (v *Connections) Mount(ctx context.Context) error {
	v.lc.mount()

	v.mu.Lock()
	if v.unsub == nil {
		v.unsub = v.deps.Bus.Subscribe(v.onEvent)
	}
	v.items = v.deps.Replica.Entries()
	v.mu.Unlock()

	return v.Refresh(ctx)
}

func (v *Connections) Unmount() {
	v.lc.unmount()

	v.mu.Lock()
	unsub := v.unsub
	v.unsub = nil
	v.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Refresh fetches the authoritative list and merges it with the replica as
// it stands when the fetch resolves. On failure the replica is shown as-is
// and the error is kept for display. Nothing changes if the view unmounted
// while the fetch was in flight.
func (v *Connections) Refresh(ctx context.Context) error {
	gen, ok := v.lc.current()
	if !ok {
		return ErrNotMounted
	}

	list, err := v.deps.Backend.Connections(ctx, v.deps.UserID)
	if !v.lc.alive(gen) {
		return nil
	}

	if err != nil {
		v.logger.Warn("connections fetch failed, showing cached connections", zap.Error(err))
		v.mu.Lock()
		v.items = v.deps.Replica.Entries()
		v.err = err
		v.mu.Unlock()
		return err
	}

	merged, perr := v.deps.Replica.Reconcile(ctx, entriesFromConnections(list))
	if perr != nil {
		v.logger.Warn("replica persist failed", zap.Error(perr))
	}

	v.mu.Lock()
	v.items = merged
	v.err = nil
	v.mu.Unlock()
	return nil
}

// Focus re-derives the list from the replica after reloading its medium,
// picking up connections recorded by another client on the same session.
func (v *Connections) Focus(ctx context.Context) error {
	gen, ok := v.lc.current()
	if !ok {
		return ErrNotMounted
	}
	if err := v.deps.Replica.Reload(ctx); err != nil {
		v.logger.Warn("replica reload failed", zap.Error(err))
	}
	if !v.lc.alive(gen) {
		return nil
	}

	v.mu.Lock()
	v.items = v.deps.Replica.Entries()
	v.mu.Unlock()
	return nil
}

func (v *Connections) DismissError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.err = nil
}

// Message asks the conversation view to open a thread with a connection.
func (v *Connections) Message(targetID uuid.UUID) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, e := range v.items {
		if e.TargetID == targetID {
			v.deps.Handoff.RequestConversation(e.TargetID, e.DisplayName)
			return nil
		}
	}
	return ErrUnknownCandidate
}

func (v *Connections) State() ConnectionsState {
	v.mu.Lock()
	defer v.mu.Unlock()
	items := make([]replica.Entry, len(v.items))
	copy(items, v.items)
	return ConnectionsState{Items: items, Err: v.err}
}

func (v *Connections) onEvent(e bus.Event) {
	if _, ok := v.lc.current(); !ok {
		v.logger.Error("event delivered to unmounted connections view")
		return
	}

	switch e.(type) {
	case bus.ConnectionCreated:
		v.mu.Lock()
		v.items = v.deps.Replica.Entries()
		v.mu.Unlock()
	}
}
