package usecase

import (
	"context"
	"errors"

	"peer-match/internal/domain/connection"
	"peer-match/internal/domain/user"
	"peer-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ConnectionUsecase interface {
	// Connect returns ErrConnectionExists together with the stored edge when
	// the pair is already connected.
	Connect(ctx context.Context, ownerID, targetID uuid.UUID) (connection.Edge, error)
	ListConnections(ctx context.Context, ownerID uuid.UUID) ([]connection.Listing, error)
}

type Connection struct {
	users       user.Repository
	connections repository.ConnectionRepository
	logger      *zap.Logger
}

func NewConnectionUsecase(users user.Repository, connections repository.ConnectionRepository, logger *zap.Logger) *Connection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connection{users: users, connections: connections, logger: logger}
}

func (u *Connection) Connect(ctx context.Context, ownerID, targetID uuid.UUID) (connection.Edge, error) {
	if ownerID == uuid.Nil || targetID == uuid.Nil {
		return connection.Edge{}, ErrInvalidInput
	}
	if ownerID == targetID {
		return connection.Edge{}, ErrSelfConnection
	}

	n, err := u.users.CountExisting(ctx, ownerID, targetID)
	if err != nil {
		u.logger.Error("connect: count users", zap.Error(err))
		return connection.Edge{}, ErrInternal
	}
	if n < 2 {
		return connection.Edge{}, ErrUserNotFound
	}

	edge, created, err := u.connections.Create(ctx, ownerID, targetID)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			// A user vanished between the existence check and the insert.
			return connection.Edge{}, ErrUserNotFound
		case isUniqueViolation(err):
			return connection.Edge{OwnerID: ownerID, TargetID: targetID}, ErrConnectionExists
		default:
			u.logger.Error("connect: create edge",
				zap.String("owner_id", ownerID.String()),
				zap.String("target_id", targetID.String()),
				zap.Error(err),
			)
			return connection.Edge{}, ErrInternal
		}
	}
	if !created {
		return edge, ErrConnectionExists
	}

	u.logger.Info("connection created",
		zap.String("owner_id", ownerID.String()),
		zap.String("target_id", targetID.String()),
	)
	return edge, nil
}

func (u *Connection) ListConnections(ctx context.Context, ownerID uuid.UUID) ([]connection.Listing, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	if _, err := u.users.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		u.logger.Error("list connections: load owner", zap.Error(err))
		return nil, ErrInternal
	}

	items, err := u.connections.ListByOwner(ctx, ownerID)
	if err != nil {
		u.logger.Error("list connections", zap.String("owner_id", ownerID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	return items, nil
}
