package usecase

import (
	"context"
	"errors"

	"peer-match/internal/domain/user"
	"peer-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserSkillItem struct {
	SkillID   uuid.UUID
	SkillName string
}

type UserSkillUsecase interface {
	ListUserSkills(ctx context.Context, userID uuid.UUID) ([]UserSkillItem, error)
	// AddUserSkill is idempotent; created reports whether the pair is new.
	AddUserSkill(ctx context.Context, userID, skillID uuid.UUID) (created bool, err error)
	RemoveUserSkill(ctx context.Context, userID, skillID uuid.UUID) error
}

type UserSkill struct {
	users  user.Repository
	skills repository.SkillRepository
	repo   repository.UserSkillRepository
	cache  RankingCache
	logger *zap.Logger
}

func NewUserSkillUsecase(users user.Repository, skills repository.SkillRepository, repo repository.UserSkillRepository, cache RankingCache, logger *zap.Logger) *UserSkill {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserSkill{users: users, skills: skills, repo: repo, cache: cache, logger: logger}
}

func (u *UserSkill) ListUserSkills(ctx context.Context, userID uuid.UUID) ([]UserSkillItem, error) {
	if err := u.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	items, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		u.logger.Error("list user skills", zap.Error(err))
		return nil, ErrInternal
	}
	out := make([]UserSkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, UserSkillItem{SkillID: it.SkillID, SkillName: it.SkillName})
	}
	return out, nil
}

func (u *UserSkill) AddUserSkill(ctx context.Context, userID, skillID uuid.UUID) (bool, error) {
	if skillID == uuid.Nil {
		return false, ErrInvalidInput
	}
	if err := u.ensureUser(ctx, userID); err != nil {
		return false, err
	}

	exists, err := u.skills.ExistsByID(ctx, skillID)
	if err != nil {
		u.logger.Error("add user skill: check skill", zap.Error(err))
		return false, ErrInternal
	}
	if !exists {
		return false, ErrSkillNotFound
	}

	created, err := u.repo.Add(ctx, userID, skillID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrSkillNotFound
		}
		u.logger.Error("add user skill", zap.Error(err))
		return false, ErrInternal
	}
	if created {
		u.invalidateRankings(ctx)
	}
	return created, nil
}

func (u *UserSkill) RemoveUserSkill(ctx context.Context, userID, skillID uuid.UUID) error {
	if skillID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.ensureUser(ctx, userID); err != nil {
		return err
	}

	if err := u.repo.Remove(ctx, userID, skillID); err != nil {
		if errors.Is(err, repository.ErrUserSkillNotFound) {
			return ErrSkillNotFound
		}
		u.logger.Error("remove user skill", zap.Error(err))
		return ErrInternal
	}
	u.invalidateRankings(ctx)
	return nil
}

func (u *UserSkill) ensureUser(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrInvalidInput
	}
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		u.logger.Error("load user", zap.String("user_id", userID.String()), zap.Error(err))
		return ErrInternal
	}
	return nil
}

func (u *UserSkill) invalidateRankings(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if _, err := u.cache.Incr(ctx, rankingGenerationKey); err != nil {
		u.logger.Warn("ranking generation bump failed", zap.Error(err))
	}
	if err := u.cache.DeleteByPattern(ctx, RankingCachePattern()); err != nil {
		u.logger.Warn("ranking cache invalidation failed", zap.Error(err))
	}
}
