package usecase

import (
	"context"

	"peer-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SkillItem struct {
	ID       uuid.UUID
	Name     string
	Category string
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]SkillItem, error)
}

type Skill struct {
	repo   repository.SkillRepository
	logger *zap.Logger
}

func NewSkillUsecase(repo repository.SkillRepository, logger *zap.Logger) *Skill {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Skill{repo: repo, logger: logger}
}

func (u *Skill) ListSkills(ctx context.Context) ([]SkillItem, error) {
	items, err := u.repo.GetAllSkills(ctx)
	if err != nil {
		u.logger.Error("list skills", zap.Error(err))
		return nil, ErrInternal
	}

	out := make([]SkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, SkillItem{ID: it.ID, Name: it.Name, Category: it.Category})
	}
	return out, nil
}
