// Package matching ranks candidate peers for a requester by shared-skill affinity.
package matching

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

type Skill struct {
	ID   uuid.UUID
	Name string
}

// Profile is the read-only view of a user that ranking needs.
type Profile struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Skills []Skill
}

type Candidate struct {
	UserID           uuid.UUID
	Name             string
	Email            string
	SharedSkillCount int
	SharedSkillNames []string
}

// Rank orders every profile in pool other than the requester by the number of
// skills it shares with the requester, most first, ties broken by user id
// ascending. Candidates sharing nothing are left out while at least one
// candidate shares a skill; when none does, every other user is returned with
// a zero count so the caller always has something to show.
func Rank(requester Profile, pool []Profile) []Candidate {
	own := make(map[uuid.UUID]struct{}, len(requester.Skills))
	for _, s := range requester.Skills {
		if s.ID == uuid.Nil {
			continue
		}
		own[s.ID] = struct{}{}
	}

	all := make([]Candidate, 0, len(pool))
	seen := make(map[uuid.UUID]struct{}, len(pool))
	anyShared := false
	for _, p := range pool {
		if p.UserID == uuid.Nil || p.UserID == requester.UserID {
			continue
		}
		if _, dup := seen[p.UserID]; dup {
			continue
		}
		seen[p.UserID] = struct{}{}

		names := sharedNames(own, p.Skills)
		if len(names) > 0 {
			anyShared = true
		}
		all = append(all, Candidate{
			UserID:           p.UserID,
			Name:             p.Name,
			Email:            p.Email,
			SharedSkillCount: len(names),
			SharedSkillNames: names,
		})
	}

	out := all
	if anyShared {
		out = make([]Candidate, 0, len(all))
		for _, c := range all {
			if c.SharedSkillCount > 0 {
				out = append(out, c)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SharedSkillCount != out[j].SharedSkillCount {
			return out[i].SharedSkillCount > out[j].SharedSkillCount
		}
		return bytes.Compare(out[i].UserID[:], out[j].UserID[:]) < 0
	})
	return out
}

// SharedSkillNames returns the sorted names of skills present in both sets.
func SharedSkillNames(a, b []Skill) []string {
	own := make(map[uuid.UUID]struct{}, len(a))
	for _, s := range a {
		own[s.ID] = struct{}{}
	}
	return sharedNames(own, b)
}

func sharedNames(own map[uuid.UUID]struct{}, other []Skill) []string {
	names := make([]string, 0)
	counted := make(map[uuid.UUID]struct{}, len(other))
	for _, s := range other {
		if _, ok := own[s.ID]; !ok {
			continue
		}
		if _, dup := counted[s.ID]; dup {
			continue
		}
		counted[s.ID] = struct{}{}
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}
