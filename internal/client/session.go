// Package client assembles one client session: the API client, the replica,
// the bus, the hand-off and the three views sharing them.
package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"peer-match/internal/client/api"
	"peer-match/internal/client/bus"
	"peer-match/internal/client/conversation"
	"peer-match/internal/client/replica"
	"peer-match/internal/client/view"
	"peer-match/internal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	UserID  uuid.UUID

	// ReplicaPath selects a SQLite file for the replica; empty keeps it in
	// memory. ReplicaSession names the row set inside that file and
	// defaults to the user id.
	ReplicaPath    string
	ReplicaSession string
}

type Session struct {
	Deps         view.Deps
	Browse       *view.Browse
	Connections  *view.Connections
	Conversation *view.Conversation

	closeMedium func() error
}

func Open(ctx context.Context, cfg Config, lg *zap.Logger) (*Session, error) {
	if cfg.UserID == uuid.Nil {
		return nil, fmt.Errorf("client: user id is required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("client: base url is required")
	}
	lg = logger.OrNop(lg)

	var (
		medium      replica.Medium = replica.NewMemoryMedium()
		closeMedium                = func() error { return nil }
	)
	if path := strings.TrimSpace(cfg.ReplicaPath); path != "" {
		session := strings.TrimSpace(cfg.ReplicaSession)
		if session == "" {
			session = cfg.UserID.String()
		}
		m, err := replica.OpenSQLite(ctx, path, session)
		if err != nil {
			return nil, err
		}
		medium, closeMedium = m, m.Close
	}

	cache, err := replica.Open(ctx, medium, lg.Named("replica"))
	if err != nil {
		_ = closeMedium()
		return nil, fmt.Errorf("client: load replica: %w", err)
	}

	deps := view.Deps{
		UserID:  cfg.UserID,
		Backend: api.New(cfg.BaseURL, api.WithToken(cfg.Token), api.WithTimeout(cfg.Timeout)),
		Replica: cache,
		Bus:     bus.New(),
		Handoff: conversation.NewHandoff(),
		Threads: conversation.NewBook(),
		Logger:  lg,
	}

	return &Session{
		Deps:         deps,
		Browse:       view.NewBrowse(deps),
		Connections:  view.NewConnections(deps),
		Conversation: view.NewConversation(deps),
		closeMedium:  closeMedium,
	}, nil
}

func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.Browse.Unmount()
	s.Connections.Unmount()
	s.Conversation.Unmount()
	if s.closeMedium != nil {
		return s.closeMedium()
	}
	return nil
}
