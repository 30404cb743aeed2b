package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"skillmatch/internal/domain/matching"
	"skillmatch/internal/repository"

	"github.com/google/uuid"
)

// MinQuerySkills is the smallest number of distinct skills a match query must
// carry; below that the overlap signal is too weak to rank on.
const MinQuerySkills = 3

type MatchCandidateItem struct {
	UserID       uuid.UUID
	Username     string
	CommonSkills []string
}

type MatchItem struct {
	ID          uuid.UUID
	InitiatorID uuid.UUID
	TargetID    uuid.UUID
	CreatedAt   time.Time
}

// MatchNotifier receives pair-unlocked events; the ws hub implements it.
type MatchNotifier interface {
	MatchUnlocked(initiatorID, targetID uuid.UUID, createdAt time.Time)
}

type MatchUsecase interface {
	FindMatches(ctx context.Context, userID uuid.UUID, querySkills []string) ([]MatchCandidateItem, error)
	SaveMatch(ctx context.Context, initiatorID, targetID uuid.UUID) (MatchItem, error)
	IsMatched(ctx context.Context, userA, userB uuid.UUID) (bool, error)
	ListMatches(ctx context.Context, userID uuid.UUID) ([]MatchItem, error)
}

type Match struct {
	skills     repository.SkillRepository
	userSkills repository.UserSkillRepository
	matches    repository.MatchRepository
	users      repository.UserExistence
	cache      MatchCache
	notifier   MatchNotifier
	logger     *log.Logger
}

func NewMatchUsecase(
	skills repository.SkillRepository,
	userSkills repository.UserSkillRepository,
	matches repository.MatchRepository,
	users repository.UserExistence,
	cache MatchCache,
	notifier MatchNotifier,
	logger *log.Logger,
) *Match {
	return &Match{
		skills:     skills,
		userSkills: userSkills,
		matches:    matches,
		users:      users,
		cache:      cache,
		notifier:   notifier,
		logger:     logger,
	}
}

// FindMatches ranks other users by how many of the query skills they own.
// Query terms that resolve to no known skill are dropped, not rejected: a typo
// narrows the search instead of aborting it.
func (u *Match) FindMatches(ctx context.Context, userID uuid.UUID, querySkills []string) ([]MatchCandidateItem, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	normalized := normalizeQuerySkills(querySkills)
	if len(normalized) < MinQuerySkills {
		return nil, ErrInsufficientSkills
	}

	cacheKey := FindMatchesCacheKey(userID, normalized)
	if u.cache != nil {
		var cached []MatchCandidateItem
		if ok, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	resolved, err := u.skills.FindByNames(ctx, normalized)
	if err != nil {
		return nil, ErrInternal
	}

	byLowerName := make(map[string]int, len(resolved))
	for i, s := range resolved {
		byLowerName[strings.ToLower(s.Name)] = i
	}

	// rebuild the resolved set in query order
	query := make([]matching.QuerySkill, 0, len(normalized))
	skillIDs := make([]uuid.UUID, 0, len(normalized))
	for _, name := range normalized {
		i, ok := byLowerName[name]
		if !ok {
			continue
		}
		query = append(query, matching.QuerySkill{SkillID: resolved[i].ID, Name: resolved[i].Name})
		skillIDs = append(skillIDs, resolved[i].ID)
	}

	if len(query) == 0 {
		return []MatchCandidateItem{}, nil
	}

	candidates, err := u.userSkills.FindOwnersBySkillIDs(ctx, skillIDs, userID)
	if err != nil {
		return nil, ErrInternal
	}

	ranked := matching.Rank(query, candidates)

	out := make([]MatchCandidateItem, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, MatchCandidateItem{
			UserID:       r.UserID,
			Username:     r.Username,
			CommonSkills: r.CommonSkills,
		})
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, out, 0); err != nil && u.logger != nil {
			u.logger.Printf("match usecase | cache set failed: %v", err)
		}
	}

	return out, nil
}

// SaveMatch transitions the pair to matched exactly once. Saving an already
// matched pair, in either direction, returns the original record.
func (u *Match) SaveMatch(ctx context.Context, initiatorID, targetID uuid.UUID) (MatchItem, error) {
	if initiatorID == uuid.Nil {
		return MatchItem{}, ErrUnauthorized
	}
	if targetID == uuid.Nil {
		return MatchItem{}, ErrUnknownUser
	}
	if initiatorID == targetID {
		return MatchItem{}, ErrSelfMatch
	}

	exists, err := u.users.ExistsByID(ctx, targetID)
	if err != nil {
		return MatchItem{}, ErrInternal
	}
	if !exists {
		return MatchItem{}, ErrUnknownUser
	}

	already, err := u.matches.Exists(ctx, initiatorID, targetID)
	if err != nil {
		return MatchItem{}, ErrInternal
	}

	m, err := u.matches.Save(ctx, initiatorID, targetID)
	if err != nil {
		return MatchItem{}, ErrInternal
	}

	if !already && u.notifier != nil {
		u.notifier.MatchUnlocked(m.InitiatorID, m.TargetID, m.CreatedAt)
	}

	return MatchItem{ID: m.ID, InitiatorID: m.InitiatorID, TargetID: m.TargetID, CreatedAt: m.CreatedAt}, nil
}

// IsMatched is the chat-unlock gate: true iff the unordered pair has a match.
func (u *Match) IsMatched(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	if userA == uuid.Nil || userB == uuid.Nil {
		return false, ErrUnknownUser
	}

	ok, err := u.matches.Exists(ctx, userA, userB)
	if err != nil {
		return false, ErrInternal
	}
	return ok, nil
}

func (u *Match) ListMatches(ctx context.Context, userID uuid.UUID) ([]MatchItem, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	items, err := u.matches.ListForUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]MatchItem, 0, len(items))
	for _, m := range items {
		out = append(out, MatchItem{ID: m.ID, InitiatorID: m.InitiatorID, TargetID: m.TargetID, CreatedAt: m.CreatedAt})
	}
	return out, nil
}

// normalizeQuerySkills trims entries, drops empties, and dedupes
// case-insensitively keeping first-occurrence order. "Go", " go" and "GO"
// count as one skill.
func normalizeQuerySkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
