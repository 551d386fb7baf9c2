package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"peer-match/internal/domain/connection"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestConnection_Connect_Validation(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	uc := NewConnectionUsecase(newFakeUsers(a, b), &fakeConnections{}, nil)

	cases := []struct {
		name   string
		owner  uuid.UUID
		target uuid.UUID
		want   error
	}{
		{"nil owner", uuid.Nil, b, ErrInvalidInput},
		{"nil target", a, uuid.Nil, ErrInvalidInput},
		{"self", a, a, ErrSelfConnection},
		{"unknown target", a, uuid.New(), ErrUserNotFound},
		{"unknown owner", uuid.New(), b, ErrUserNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Connect(context.Background(), tc.owner, tc.target); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConnection_Connect_DuplicateIsConflict(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	conns := &fakeConnections{}
	uc := NewConnectionUsecase(newFakeUsers(a, b), conns, nil)

	first, err := uc.Connect(context.Background(), a, b)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := uc.Connect(context.Background(), a, b)
	if !errors.Is(err, ErrConnectionExists) {
		t.Fatalf("expected ErrConnectionExists, got %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected stored edge on conflict")
	}
	if len(conns.edges) != 1 {
		t.Fatalf("expected one stored edge, got %d", len(conns.edges))
	}
}

func TestConnection_Connect_IsDirected(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	conns := &fakeConnections{}
	uc := NewConnectionUsecase(newFakeUsers(a, b), conns, nil)

	if _, err := uc.Connect(context.Background(), a, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := uc.Connect(context.Background(), b, a); err != nil {
		t.Fatalf("reverse edge should be a separate creation, got %v", err)
	}
	if len(conns.edges) != 2 {
		t.Fatalf("expected two directed edges, got %d", len(conns.edges))
	}
}

func TestConnection_Connect_ConcurrentSamePair(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	conns := &fakeConnections{}
	uc := NewConnectionUsecase(newFakeUsers(a, b), conns, nil)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Connect(context.Background(), a, b)
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrConnectionExists):
		default:
			t.Fatalf("unexpected err: %v", err)
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one creation, got %d", created)
	}
}

func TestConnection_Connect_MapsConstraintErrors(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	uc := NewConnectionUsecase(newFakeUsers(a, b), &fakeConnections{err: &pgconn.PgError{Code: "23503"}}, nil)
	if _, err := uc.Connect(context.Background(), a, b); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	uc = NewConnectionUsecase(newFakeUsers(a, b), &fakeConnections{err: errBoom}, nil)
	if _, err := uc.Connect(context.Background(), a, b); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestConnection_ListConnections(t *testing.T) {
	a := uuid.New()
	want := []connection.Listing{{TargetID: uuid.New(), DisplayName: "jane", SharedSkillNames: []string{"Go"}}}
	uc := NewConnectionUsecase(newFakeUsers(a), &fakeConnections{list: want}, nil)

	got, err := uc.ListConnections(context.Background(), a)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].TargetID != want[0].TargetID {
		t.Fatalf("unexpected listing %+v", got)
	}

	if _, err := uc.ListConnections(context.Background(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
