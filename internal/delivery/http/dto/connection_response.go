package dto

import (
	"time"

	"github.com/google/uuid"
)

type ConnectionEdgeResponse struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	TargetID  uuid.UUID `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ConnectionResponse struct {
	TargetID         uuid.UUID `json:"target_id"`
	DisplayName      string    `json:"display_name"`
	Email            string    `json:"email"`
	ConnectedAt      time.Time `json:"connected_at"`
	SharedSkillNames []string  `json:"shared_skill_names"`
}
