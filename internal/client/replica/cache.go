// Package replica holds the client's session-scoped record of connections it
// believes exist, including ones the server has not confirmed yet.
package replica

import (
	"context"
	"sync"

	"peer-match/internal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cache is the in-memory replica backed by a Medium. Entries are only ever
// added or promoted; nothing removes one.
type Cache struct {
	mu      sync.Mutex
	entries []Entry
	medium  Medium
	logger  *zap.Logger
}

func New(medium Medium, lg *zap.Logger) *Cache {
	if medium == nil {
		medium = NewMemoryMedium()
	}
	return &Cache{medium: medium, logger: logger.OrNop(lg)}
}

// Open builds a Cache and fills it from the medium.
func Open(ctx context.Context, medium Medium, lg *zap.Logger) (*Cache, error) {
	c := New(medium, lg)
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// RecordOptimistic appends e unless an entry for the same target exists.
// It reports whether e was added. The in-memory record is kept even when
// persisting fails.
func (c *Cache) RecordOptimistic(ctx context.Context, e Entry) (bool, error) {
	if e.TargetID == uuid.Nil {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(e.TargetID) >= 0 {
		return false, nil
	}
	e = e.clone()
	c.entries = append(c.entries, e)

	if err := c.medium.Store(ctx, []Entry{e}); err != nil {
		c.logger.Warn("replica: persist optimistic entry failed", zap.String("target_id", e.TargetID.String()), zap.Error(err))
		return true, err
	}
	return true, nil
}

// Entries returns a copy of the current replica in order.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Cache) Contains(targetID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(targetID) >= 0
}

// Reconcile merges an authoritative list with the replica as it stands at
// the moment of the call, replaces the replica with the result and returns
// it. The medium is rewritten in the merged order. Callers invoke it after
// their fetch resolves so optimistic entries recorded during the fetch are
// not lost.
func (c *Cache) Reconcile(ctx context.Context, server []Entry) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = Merge(server, c.entries)
	out := c.snapshot()

	if err := c.medium.Replace(ctx, out); err != nil {
		c.logger.Warn("replica: persist merge failed", zap.Int("entries", len(out)), zap.Error(err))
		return out, err
	}
	return out, nil
}

// Reload unions the medium's entries into the replica. Entries only the
// medium knows are appended; an entry confirmed on either side stays
// confirmed.
func (c *Cache) Reload(ctx context.Context) error {
	stored, err := c.medium.Load(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range stored {
		if i := c.indexOf(e.TargetID); i >= 0 {
			if e.Confirmed && !c.entries[i].Confirmed {
				c.entries[i].Confirmed = true
			}
			continue
		}
		c.entries = append(c.entries, e.clone())
	}
	return nil
}

func (c *Cache) indexOf(targetID uuid.UUID) int {
	for i := range c.entries {
		if c.entries[i].TargetID == targetID {
			return i
		}
	}
	return -1
}

func (c *Cache) snapshot() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.clone())
	}
	return out
}
