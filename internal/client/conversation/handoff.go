// Package conversation moves "talk to this user" intents between views and
// keeps the client's thread list free of duplicates.
package conversation

import (
	"sync"

	"github.com/google/uuid"
)

type Request struct {
	TargetID    uuid.UUID
	DisplayName string
}

// Handoff holds at most one pending Request.
type Handoff struct {
	mu      sync.Mutex
	pending *Request
}

func NewHandoff() *Handoff {
	return &Handoff{}
}

// RequestConversation replaces any pending request.
func (h *Handoff) RequestConversation(targetID uuid.UUID, displayName string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = &Request{TargetID: targetID, DisplayName: displayName}
}

// Claim returns the pending request and clears it. Of any number of
// concurrent callers exactly one gets ok=true per request.
func (h *Handoff) Claim() (Request, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending == nil {
		return Request{}, false
	}
	r := *h.pending
	h.pending = nil
	return r, true
}
