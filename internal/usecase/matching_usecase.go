package usecase

import (
	"context"
	"errors"
	"time"

	"peer-match/internal/domain/matching"
	"peer-match/internal/domain/user"
	"peer-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MatchingUsecase interface {
	Rank(ctx context.Context, requesterID uuid.UUID) ([]matching.Candidate, error)
}

type Matching struct {
	users      user.Repository
	userSkills repository.UserSkillRepository
	cache      RankingCache
	ttl        time.Duration
	logger     *zap.Logger
}

func NewMatchingUsecase(users user.Repository, userSkills repository.UserSkillRepository, cache RankingCache, ttl time.Duration, logger *zap.Logger) *Matching {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matching{users: users, userSkills: userSkills, cache: cache, ttl: ttl, logger: logger}
}

func (u *Matching) Rank(ctx context.Context, requesterID uuid.UUID) ([]matching.Candidate, error) {
	if requesterID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	if _, err := u.users.GetByID(ctx, requesterID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		u.logger.Error("rank: load requester", zap.String("user_id", requesterID.String()), zap.Error(err))
		return nil, ErrInternal
	}

	key, cacheable := u.cacheKey(ctx, requesterID)
	if cacheable {
		if cached, ok := u.fromCache(ctx, key); ok {
			return cached, nil
		}

		lock := rankingLockKey(requesterID)
		acquired, err := u.cache.SetIfNotExists(ctx, lock, "1", rankingLockTTL)
		if err == nil && acquired {
			defer func() { _ = u.cache.Delete(ctx, lock) }()
		} else if err == nil {
			// Someone else is computing; their result may have landed already.
			if cached, ok := u.fromCache(ctx, key); ok {
				return cached, nil
			}
		}
	}

	profiles, err := u.userSkills.ListSkillProfiles(ctx)
	if err != nil {
		u.logger.Error("rank: list skill profiles", zap.Error(err))
		return nil, ErrInternal
	}

	var requester matching.Profile
	for _, p := range profiles {
		if p.UserID == requesterID {
			requester = p
			break
		}
	}
	requester.UserID = requesterID

	out := matching.Rank(requester, profiles)

	if cacheable {
		if err := u.cache.SetJSON(ctx, key, out, u.ttl); err != nil {
			u.logger.Warn("rank: cache set failed", zap.String("key", key), zap.Error(err))
		} else {
			u.logger.Debug("rank: cache set", zap.String("key", key), zap.Int("candidates", len(out)))
		}
	}
	return out, nil
}

// cacheKey reads the current skill generation. It must be read before the
// profiles so that a skill change landing mid-computation moves readers to
// a key this result is never written to.
func (u *Matching) cacheKey(ctx context.Context, requesterID uuid.UUID) (string, bool) {
	if u.cache == nil {
		return "", false
	}
	var gen int64
	if _, err := u.cache.GetJSON(ctx, rankingGenerationKey, &gen); err != nil {
		u.logger.Warn("rank: read generation failed", zap.Error(err))
		return "", false
	}
	return RankingCacheKey(gen, requesterID), true
}

func (u *Matching) fromCache(ctx context.Context, key string) ([]matching.Candidate, bool) {
	var cached []matching.Candidate
	hit, err := u.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		u.logger.Warn("rank: cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !hit {
		u.logger.Debug("rank: cache miss", zap.String("key", key))
		return nil, false
	}
	u.logger.Debug("rank: cache hit", zap.String("key", key))
	for i := range cached {
		if cached[i].SharedSkillNames == nil {
			cached[i].SharedSkillNames = []string{}
		}
	}
	return cached, true
}
