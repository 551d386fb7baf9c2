package usecase

import (
	"context"
	"errors"
	"testing"

	"peer-match/internal/repository"

	"github.com/google/uuid"
)

func TestUserSkill_Add_InvalidatesRankingsOnlyWhenCreated(t *testing.T) {
	me := uuid.New()
	cache := newMemCache()
	cache.data[RankingCacheKey(0, me)] = []byte("[]")
	repo := &fakeUserSkills{addCreated: true}
	uc := NewUserSkillUsecase(newFakeUsers(me), fakeSkills{exists: true}, repo, cache, nil)

	created, err := uc.AddUserSkill(context.Background(), me, uuid.New())
	if err != nil || !created {
		t.Fatalf("expected created, got created=%v err=%v", created, err)
	}
	if _, ok := cache.data[RankingCacheKey(0, me)]; ok {
		t.Fatalf("expected cached ranking to be dropped")
	}
	if got := string(cache.data[rankingGenerationKey]); got != "1" {
		t.Fatalf("expected generation 1, got %q", got)
	}

	repo.addCreated = false
	cache.deletes = nil
	created, err = uc.AddUserSkill(context.Background(), me, uuid.New())
	if err != nil || created {
		t.Fatalf("expected idempotent add, got created=%v err=%v", created, err)
	}
	if len(cache.deletes) != 0 {
		t.Fatalf("expected no invalidation for a no-op add")
	}
}

func TestUserSkill_Add_Errors(t *testing.T) {
	me := uuid.New()

	uc := NewUserSkillUsecase(newFakeUsers(me), fakeSkills{exists: false}, &fakeUserSkills{}, nil, nil)
	if _, err := uc.AddUserSkill(context.Background(), me, uuid.New()); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
	if _, err := uc.AddUserSkill(context.Background(), me, uuid.Nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.AddUserSkill(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserSkill_Remove(t *testing.T) {
	me := uuid.New()
	cache := newMemCache()
	repo := &fakeUserSkills{}
	uc := NewUserSkillUsecase(newFakeUsers(me), fakeSkills{exists: true}, repo, cache, nil)

	if err := uc.RemoveUserSkill(context.Background(), me, uuid.New()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(cache.deletes) != 1 || cache.deletes[0] != RankingCachePattern() {
		t.Fatalf("expected ranking invalidation, got %v", cache.deletes)
	}

	repo.removeErr = repository.ErrUserSkillNotFound
	if err := uc.RemoveUserSkill(context.Background(), me, uuid.New()); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
}
