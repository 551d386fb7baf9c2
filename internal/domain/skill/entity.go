package skill

import (
	"time"

	"github.com/google/uuid"
)

type Skill struct {
	ID        uuid.UUID
	Name      string
	Category  string
	CreatedAt time.Time
}

type UserSkill struct {
	UserID    uuid.UUID
	SkillID   uuid.UUID
	SkillName string
	CreatedAt time.Time
}
