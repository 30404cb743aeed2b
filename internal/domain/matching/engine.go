package matching

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// QuerySkill is one resolved term of a match query, in the order the caller
// submitted it.
type QuerySkill struct {
	SkillID uuid.UUID
	Name    string
}

// Candidate is a user owning at least one of the query skills.
type Candidate struct {
	UserID   uuid.UUID
	Username string
	SkillIDs []uuid.UUID
}

// Result is one ranked candidate. CommonSkills holds the stored skill names in
// query order, so the caller sees which of their own terms matched.
type Result struct {
	UserID       uuid.UUID
	Username     string
	CommonSkills []string
}

// Rank computes the skill overlap between the query and each candidate,
// drops candidates with no overlap, and orders the rest by shared-skill count
// descending, then username ascending. The output is deterministic regardless
// of candidate input order.
func Rank(query []QuerySkill, candidates []Candidate) []Result {
	if len(query) == 0 {
		return []Result{}
	}

	out := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		owned := make(map[uuid.UUID]struct{}, len(c.SkillIDs))
		for _, id := range c.SkillIDs {
			if id == uuid.Nil {
				continue
			}
			owned[id] = struct{}{}
		}

		common := make([]string, 0, len(query))
		for _, q := range query {
			if _, ok := owned[q.SkillID]; ok {
				common = append(common, q.Name)
			}
		}
		if len(common) == 0 {
			continue
		}

		out = append(out, Result{
			UserID:       c.UserID,
			Username:     c.Username,
			CommonSkills: common,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if len(out[i].CommonSkills) != len(out[j].CommonSkills) {
			return len(out[i].CommonSkills) > len(out[j].CommonSkills)
		}
		if !strings.EqualFold(out[i].Username, out[j].Username) {
			return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})

	return out
}
