package user

import (
	"time"

	"github.com/google/uuid"
)

// User is owned by the profile subsystem; this service only reads it.
type User struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
