package view

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"peer-match/internal/client/api"
	"peer-match/internal/client/bus"
	"peer-match/internal/client/replica"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BrowseItem struct {
	api.Candidate
	Connected bool
}

type BrowseState struct {
	Items       []BrowseItem
	Query       string
	SkillFilter string
	Err         error
}

// Browse lists ranked candidates and lets the user connect to or message
// one of them.
type Browse struct {
	deps   Deps
	logger *zap.Logger
	lc     lifecycle

	mu          sync.Mutex
	candidates  []api.Candidate
	query       string
	skillFilter string
	err         error
}

func NewBrowse(deps Deps) *Browse {
	return &Browse{deps: deps, logger: deps.logger("browse")}
}

func (v *Browse) Mount(ctx context.Context) error {
	v.lc.mount()
	return v.Load(ctx)
}

func (v *Browse) Unmount() {
	v.lc.unmount()
}

// Load fetches the ranking. A result arriving after Unmount is dropped.
func (v *Browse) Load(ctx context.Context) error {
	gen, ok := v.lc.current()
	if !ok {
		return ErrNotMounted
	}

	out, err := v.deps.Backend.Rank(ctx, v.deps.UserID)
	if !v.lc.alive(gen) {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.err = err
		v.logger.Warn("rank fetch failed", zap.Error(err))
		return err
	}
	v.candidates = out
	v.err = nil
	return nil
}

func (v *Browse) SetQuery(q string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = strings.TrimSpace(q)
}

func (v *Browse) SetSkillFilter(skill string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.skillFilter = strings.TrimSpace(skill)
}

func (v *Browse) ResetFilters() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = ""
	v.skillFilter = ""
}

// State returns the candidates passing the current filters in rank order.
func (v *Browse) State() BrowseState {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := BrowseState{Query: v.query, SkillFilter: v.skillFilter, Err: v.err, Items: []BrowseItem{}}
	for _, c := range v.candidates {
		if !matchesQuery(c, v.query) || !matchesSkill(c, v.skillFilter) {
			continue
		}
		st.Items = append(st.Items, BrowseItem{Candidate: c, Connected: v.deps.Replica.Contains(c.CandidateID)})
	}
	return st
}

// SkillOptions lists every shared skill name across the loaded candidates.
func (v *Browse) SkillOptions() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, c := range v.candidates {
		for _, n := range c.SharedSkillNames {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Connect creates the connection on the server, records it in the replica
// and, when the replica had not seen it before, announces it on the bus.
// An already-existing connection is treated like a new one.
func (v *Browse) Connect(ctx context.Context, targetID uuid.UUID) (api.ConnectOutcome, error) {
	cand, ok := v.find(targetID)
	if !ok {
		return 0, ErrUnknownCandidate
	}

	outcome, err := v.deps.Backend.Connect(ctx, v.deps.UserID, targetID)
	if err != nil {
		v.logger.Warn("connect failed", zap.String("target_id", targetID.String()), zap.Error(err))
		return 0, err
	}

	entry := replica.Entry{
		TargetID:         cand.CandidateID,
		DisplayName:      cand.CandidateName,
		Email:            cand.CandidateEmail,
		SharedSkillNames: cand.SharedSkillNames,
		CreatedAt:        time.Now().UTC(),
	}
	added, perr := v.deps.Replica.RecordOptimistic(ctx, entry)
	if perr != nil {
		v.logger.Warn("replica persist failed", zap.Error(perr))
	}
	if added {
		v.deps.Bus.Publish(bus.ConnectionCreated{
			OwnerID:          v.deps.UserID,
			TargetID:         entry.TargetID,
			DisplayName:      entry.DisplayName,
			Email:            entry.Email,
			SharedSkillNames: entry.SharedSkillNames,
			CreatedAt:        entry.CreatedAt,
		})
	}
	return outcome, nil
}

// Message asks the conversation view to open a thread with the candidate.
func (v *Browse) Message(targetID uuid.UUID) error {
	cand, ok := v.find(targetID)
	if !ok {
		return ErrUnknownCandidate
	}
	v.deps.Handoff.RequestConversation(cand.CandidateID, cand.CandidateName)
	return nil
}

func (v *Browse) find(targetID uuid.UUID) (api.Candidate, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, c := range v.candidates {
		if c.CandidateID == targetID {
			return c, true
		}
	}
	return api.Candidate{}, false
}

func matchesQuery(c api.Candidate, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(c.CandidateName), q) || strings.Contains(strings.ToLower(c.CandidateEmail), q) {
		return true
	}
	for _, n := range c.SharedSkillNames {
		if strings.Contains(strings.ToLower(n), q) {
			return true
		}
	}
	return false
}

func matchesSkill(c api.Candidate, skill string) bool {
	if skill == "" {
		return true
	}
	for _, n := range c.SharedSkillNames {
		if strings.EqualFold(n, skill) {
			return true
		}
	}
	return false
}
