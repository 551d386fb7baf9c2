package connection

import (
	"time"

	"github.com/google/uuid"
)

// Edge is a directed "interest" from Owner to Target. Target→Owner is a
// separate edge and is never created implicitly.
type Edge struct {
	OwnerID   uuid.UUID
	TargetID  uuid.UUID
	CreatedAt time.Time
}

// Listing is one edge as seen by its owner. SharedSkillNames is computed
// when the list is read, not when the edge was created.
type Listing struct {
	TargetID         uuid.UUID
	DisplayName      string
	Email            string
	ConnectedAt      time.Time
	SharedSkillNames []string
}
