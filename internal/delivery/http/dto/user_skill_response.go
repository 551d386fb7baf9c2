package dto

import "github.com/google/uuid"

type SkillResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

type UserSkillResponse struct {
	SkillID   uuid.UUID `json:"skill_id"`
	SkillName string    `json:"skill_name"`
}

type AddUserSkillRequest struct {
	SkillID string `json:"skill_id"`
}

type AddUserSkillResponse struct {
	SkillID uuid.UUID `json:"skill_id"`
	Created bool      `json:"created"`
}
