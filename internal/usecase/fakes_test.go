package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"peer-match/internal/domain/connection"
	"peer-match/internal/domain/matching"
	"peer-match/internal/domain/skill"
	"peer-match/internal/domain/user"

	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

type fakeUsers struct {
	known map[uuid.UUID]user.User
	err   error
}

func newFakeUsers(ids ...uuid.UUID) *fakeUsers {
	f := &fakeUsers{known: map[uuid.UUID]user.User{}}
	for _, id := range ids {
		f.known[id] = user.User{ID: id, DisplayName: "user-" + id.String()[:8]}
	}
	return f
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	if f.err != nil {
		return user.User{}, f.err
	}
	u, ok := f.known[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) CountExisting(_ context.Context, ids ...uuid.UUID) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, id := range ids {
		if _, ok := f.known[id]; ok {
			n++
		}
	}
	return n, nil
}

type fakeUserSkills struct {
	profiles   []matching.Profile
	onList     func()
	listCalls  int
	listErr    error
	owned      map[uuid.UUID][]skill.UserSkill
	addCreated bool
	addErr     error
	removeErr  error
}

func (f *fakeUserSkills) FindByUserID(_ context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	return f.owned[userID], nil
}

func (f *fakeUserSkills) Add(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return f.addCreated, f.addErr
}

func (f *fakeUserSkills) Remove(context.Context, uuid.UUID, uuid.UUID) error {
	return f.removeErr
}

func (f *fakeUserSkills) ListSkillProfiles(context.Context) ([]matching.Profile, error) {
	f.listCalls++
	out := f.profiles
	if hook := f.onList; hook != nil {
		f.onList = nil
		hook()
	}
	return out, f.listErr
}

type fakeSkills struct {
	items  []skill.Skill
	exists bool
	err    error
}

func (f fakeSkills) GetAllSkills(context.Context) ([]skill.Skill, error) { return f.items, f.err }
func (f fakeSkills) ExistsByID(context.Context, uuid.UUID) (bool, error)  { return f.exists, f.err }

type fakeConnections struct {
	mu    sync.Mutex
	edges map[[2]uuid.UUID]connection.Edge
	err   error
	list  []connection.Listing
}

func (f *fakeConnections) Create(_ context.Context, owner, target uuid.UUID) (connection.Edge, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return connection.Edge{}, false, f.err
	}
	if f.edges == nil {
		f.edges = map[[2]uuid.UUID]connection.Edge{}
	}
	k := [2]uuid.UUID{owner, target}
	if e, ok := f.edges[k]; ok {
		return e, false, nil
	}
	e := connection.Edge{OwnerID: owner, TargetID: target, CreatedAt: time.Now().UTC()}
	f.edges[k] = e
	return e, true, nil
}

func (f *fakeConnections) ListByOwner(context.Context, uuid.UUID) ([]connection.Listing, error) {
	return f.list, f.err
}

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    int
	deletes []string
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	c.sets++
	return nil
}

func (c *memCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = []byte(value)
	return true, nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	if b, ok := c.data[key]; ok {
		var err error
		if n, err = strconv.ParseInt(string(b), 10, 64); err != nil {
			return 0, err
		}
	}
	n++
	c.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}
