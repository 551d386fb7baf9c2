package dto

import "github.com/google/uuid"

type CandidateResponse struct {
	CandidateID      uuid.UUID `json:"candidate_id"`
	CandidateName    string    `json:"candidate_name"`
	CandidateEmail   string    `json:"candidate_email"`
	SharedSkillCount int       `json:"shared_skill_count"`
	SharedSkillNames []string  `json:"shared_skill_names"`
}

type ConnectRequest struct {
	UserID   string `json:"user_id"`
	TargetID string `json:"target_id"`
}
