package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// RankingCache is the subset of the Redis cache the ranking and skill
// usecases need. A nil RankingCache disables caching.
type RankingCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Incr(ctx context.Context, key string) (int64, error)
}

const (
	rankingKeyPrefix     = "matches:rank:"
	rankingGenerationKey = "matches:gen"
	rankingLockTTL       = 10 * time.Second
)

// RankingCacheKey scopes a cached ranking to the skill generation it was
// computed under. A ranking written after the generation moved on lands on
// a key no reader asks for and expires with its TTL.
func RankingCacheKey(generation int64, requesterID uuid.UUID) string {
	return rankingKeyPrefix + strconv.FormatInt(generation, 10) + ":" + requesterID.String()
}

func rankingLockKey(requesterID uuid.UUID) string {
	return "matches:lock:" + requesterID.String()
}

// RankingCachePattern matches every cached ranking. Any skill change can
// move a user up or down in everybody else's list.
func RankingCachePattern() string {
	return rankingKeyPrefix + "*"
}
