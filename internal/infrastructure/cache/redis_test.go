package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type payload struct {
	Name  string   `json:"name"`
	Names []string `json:"names"`
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisWithClient(client, time.Minute, nil), mr
}

func TestRedis_SetGetJSON(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	if err := r.SetJSON(ctx, "matches:rank:a", payload{Name: "jane", Names: []string{"Go"}}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("matches:rank:a"); ttl != time.Minute {
		t.Fatalf("expected configured ttl, got %v", ttl)
	}

	var got payload
	hit, err := r.GetJSON(ctx, "matches:rank:a", &got)
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	if got.Name != "jane" || len(got.Names) != 1 {
		t.Fatalf("unexpected payload %+v", got)
	}

	hit, err = r.GetJSON(ctx, "missing", &got)
	if err != nil || hit {
		t.Fatalf("expected clean miss, got hit=%v err=%v", hit, err)
	}
}

func TestRedis_ExpiresAfterTTL(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	if err := r.SetJSON(ctx, "k", payload{Name: "x"}, 5*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(6 * time.Second)

	var got payload
	if hit, _ := r.GetJSON(ctx, "k", &got); hit {
		t.Fatalf("expected expiry")
	}
}

func TestRedis_SetIfNotExists(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	ok, err := r.SetIfNotExists(ctx, "lock", "1", time.Second)
	if err != nil || !ok {
		t.Fatalf("expected first acquire, got ok=%v err=%v", ok, err)
	}
	ok, err = r.SetIfNotExists(ctx, "lock", "1", time.Second)
	if err != nil || ok {
		t.Fatalf("expected second acquire to fail, got ok=%v err=%v", ok, err)
	}
}

func TestRedis_DeleteByPattern(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	for _, k := range []string{"matches:rank:a", "matches:rank:b", "other:key"} {
		if err := r.SetJSON(ctx, k, payload{}, 0); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	if err := r.DeleteByPattern(ctx, "matches:rank:*"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("matches:rank:a") || mr.Exists("matches:rank:b") {
		t.Fatalf("expected ranking keys removed")
	}
	if !mr.Exists("other:key") {
		t.Fatalf("expected unrelated key kept")
	}
}

func TestRedis_IncrSurvivesPatternDelete(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	for want := int64(1); want <= 2; want++ {
		n, err := r.Incr(ctx, "matches:gen")
		if err != nil || n != want {
			t.Fatalf("expected %d, got n=%d err=%v", want, n, err)
		}
	}
	if err := r.DeleteByPattern(ctx, "matches:rank:*"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var gen int64
	if hit, err := r.GetJSON(ctx, "matches:gen", &gen); err != nil || !hit || gen != 2 {
		t.Fatalf("expected generation 2, got hit=%v gen=%d err=%v", hit, gen, err)
	}
	if ttl := mr.TTL("matches:gen"); ttl != 0 {
		t.Fatalf("expected no expiry, got %v", ttl)
	}
}

func TestRedis_UnavailableBypasses(t *testing.T) {
	var r *Redis
	ctx := context.Background()

	if err := r.SetJSON(ctx, "k", payload{}, 0); err != nil {
		t.Fatalf("expected no-op set, got %v", err)
	}
	var got payload
	if hit, err := r.GetJSON(ctx, "k", &got); hit || err != nil {
		t.Fatalf("expected bypass, got hit=%v err=%v", hit, err)
	}
	if n, err := r.Incr(ctx, "matches:gen"); n != 0 || err != nil {
		t.Fatalf("expected no-op incr, got n=%d err=%v", n, err)
	}
	if err := r.Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
