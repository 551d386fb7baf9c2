// Package view holds the three client views (browse, connections,
// conversation). Views share state only through the injected replica, bus,
// hand-off and thread book.
package view

import (
	"context"
	"errors"
	"sync"

	"peer-match/internal/client/api"
	"peer-match/internal/client/bus"
	"peer-match/internal/client/conversation"
	"peer-match/internal/client/replica"
	"peer-match/internal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotMounted       = errors.New("view not mounted")
	ErrUnknownCandidate = errors.New("candidate not in the current list")
)

// Backend is the slice of the HTTP API the views call.
type Backend interface {
	Rank(ctx context.Context, userID uuid.UUID) ([]api.Candidate, error)
	Connect(ctx context.Context, ownerID, targetID uuid.UUID) (api.ConnectOutcome, error)
	Connections(ctx context.Context, ownerID uuid.UUID) ([]api.Connection, error)
}

type Deps struct {
	UserID  uuid.UUID
	Backend Backend
	Replica *replica.Cache
	Bus     *bus.Bus
	Handoff *conversation.Handoff
	Threads *conversation.Book
	Logger  *zap.Logger
}

func (d Deps) logger(name string) *zap.Logger {
	return logger.OrNop(d.Logger).Named(name)
}

// lifecycle tags every mount with a generation so work started under one
// mount can tell whether it is still current when it completes.
type lifecycle struct {
	mu      sync.Mutex
	gen     uint64
	mounted bool
}

func (l *lifecycle) mount() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.mounted = true
	return l.gen
}

func (l *lifecycle) unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.mounted = false
}

// current returns the live generation, or ok=false when unmounted.
func (l *lifecycle) current() (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen, l.mounted
}

func (l *lifecycle) alive(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted && l.gen == gen
}

func entriesFromConnections(list []api.Connection) []replica.Entry {
	out := make([]replica.Entry, 0, len(list))
	for _, c := range list {
		out = append(out, replica.Entry{
			TargetID:         c.TargetID,
			DisplayName:      c.DisplayName,
			Email:            c.Email,
			SharedSkillNames: c.SharedSkillNames,
			CreatedAt:        c.ConnectedAt,
			Confirmed:        true,
		})
	}
	return out
}
