package replica

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one connection the client believes exists.
type Entry struct {
	TargetID         uuid.UUID
	DisplayName      string
	Email            string
	SharedSkillNames []string
	CreatedAt        time.Time
	Confirmed        bool
}

func (e Entry) clone() Entry {
	if e.SharedSkillNames != nil {
		e.SharedSkillNames = append([]string(nil), e.SharedSkillNames...)
	} else {
		e.SharedSkillNames = []string{}
	}
	return e
}

// Merge returns the authoritative list in its own order, every entry marked
// confirmed, followed by the local entries the server did not mention, in
// local order and marked unconfirmed. Neither input is modified.
func Merge(server, local []Entry) []Entry {
	out := make([]Entry, 0, len(server)+len(local))
	seen := make(map[uuid.UUID]struct{}, len(server))

	for _, e := range server {
		if _, dup := seen[e.TargetID]; dup {
			continue
		}
		seen[e.TargetID] = struct{}{}
		e = e.clone()
		e.Confirmed = true
		out = append(out, e)
	}
	for _, e := range local {
		if _, ok := seen[e.TargetID]; ok {
			continue
		}
		seen[e.TargetID] = struct{}{}
		e = e.clone()
		e.Confirmed = false
		out = append(out, e)
	}
	return out
}
