package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	// CountExisting reports how many of the distinct ids refer to a user.
	CountExisting(ctx context.Context, ids ...uuid.UUID) (int, error)
}
