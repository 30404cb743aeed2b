package usecase

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"skillmatch/internal/domain/match"
	"skillmatch/internal/domain/matching"
	"skillmatch/internal/domain/skill"

	"github.com/google/uuid"
)

type mockSkillRepo struct {
	byLowerName map[string]skill.Skill
	existing    map[uuid.UUID]bool
	err         error
}

func (m mockSkillRepo) GetAllSkills(context.Context) ([]skill.Skill, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]skill.Skill, 0, len(m.byLowerName))
	for _, s := range m.byLowerName {
		out = append(out, s)
	}
	return out, nil
}

func (m mockSkillRepo) GetOrCreate(_ context.Context, name string) (skill.Skill, error) {
	if m.err != nil {
		return skill.Skill{}, m.err
	}
	if s, ok := m.byLowerName[strings.ToLower(name)]; ok {
		return s, nil
	}
	return skill.Skill{ID: uuid.New(), Name: name}, nil
}

func (m mockSkillRepo) FindByName(_ context.Context, name string) (skill.Skill, error) {
	if s, ok := m.byLowerName[strings.ToLower(name)]; ok {
		return s, nil
	}
	return skill.Skill{}, errors.New("not found")
}

func (m mockSkillRepo) FindByNames(_ context.Context, names []string) ([]skill.Skill, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]skill.Skill, 0, len(names))
	for _, n := range names {
		if s, ok := m.byLowerName[strings.ToLower(n)]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m mockSkillRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.existing[id], nil
}

type mockUserSkillRepo struct {
	owned      []skill.Skill
	candidates []matching.Candidate
	assigned   [][2]uuid.UUID
	assignErr  error
}

func (m *mockUserSkillRepo) ListByUserID(context.Context, uuid.UUID) ([]skill.Skill, error) {
	return m.owned, nil
}

func (m *mockUserSkillRepo) Assign(_ context.Context, userID, skillID uuid.UUID) error {
	if m.assignErr != nil {
		return m.assignErr
	}
	m.assigned = append(m.assigned, [2]uuid.UUID{userID, skillID})
	return nil
}

func (m *mockUserSkillRepo) FindOwnersBySkillIDs(context.Context, []uuid.UUID, uuid.UUID) ([]matching.Candidate, error) {
	return m.candidates, nil
}

type mockMatchRepo struct {
	stored map[[2]uuid.UUID]match.Match
	saves  int
	err    error
}

func newMockMatchRepo() *mockMatchRepo {
	return &mockMatchRepo{stored: map[[2]uuid.UUID]match.Match{}}
}

func (m *mockMatchRepo) Save(_ context.Context, initiatorID, targetID uuid.UUID) (match.Match, error) {
	if m.err != nil {
		return match.Match{}, m.err
	}
	m.saves++
	a, b := match.NormalizePair(initiatorID, targetID)
	key := [2]uuid.UUID{a, b}
	if existing, ok := m.stored[key]; ok {
		return existing, nil
	}
	rec := match.Match{ID: uuid.New(), InitiatorID: initiatorID, TargetID: targetID, CreatedAt: time.Now().UTC()}
	m.stored[key] = rec
	return rec, nil
}

func (m *mockMatchRepo) Exists(_ context.Context, userA, userB uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	a, b := match.NormalizePair(userA, userB)
	_, ok := m.stored[[2]uuid.UUID{a, b}]
	return ok, nil
}

func (m *mockMatchRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]match.Match, error) {
	var out []match.Match
	for _, rec := range m.stored {
		if rec.InitiatorID == userID || rec.TargetID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type mockUserExistence struct {
	existing map[uuid.UUID]bool
	err      error
}

func (m mockUserExistence) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.existing[id], nil
}

type mockCache struct {
	values   map[string][]byte
	sets     []string
	deleted  []string
	disabled bool
}

func newMockCache() *mockCache {
	return &mockCache{values: map[string][]byte{}}
}

func (m *mockCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	if m.disabled {
		return false, errors.New("cache unavailable")
	}
	_, ok := m.values[key]
	return ok, nil
}

func (m *mockCache) SetJSON(_ context.Context, key string, _ any, _ time.Duration) error {
	if m.disabled {
		return errors.New("cache unavailable")
	}
	m.values[key] = []byte("{}")
	m.sets = append(m.sets, key)
	return nil
}

func (m *mockCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	return nil
}

type mockNotifier struct {
	events [][2]uuid.UUID
}

func (m *mockNotifier) MatchUnlocked(initiatorID, targetID uuid.UUID, _ time.Time) {
	m.events = append(m.events, [2]uuid.UUID{initiatorID, targetID})
}

func TestMatchUsecase_FindMatches_InsufficientAfterDedupe(t *testing.T) {
	uc := NewMatchUsecase(mockSkillRepo{}, &mockUserSkillRepo{}, newMockMatchRepo(), mockUserExistence{}, nil, nil, nil)

	// three entries collapse to two distinct skills
	_, err := uc.FindMatches(context.Background(), uuid.New(), []string{"Go", " go ", "SQL"})
	if !errors.Is(err, ErrInsufficientSkills) {
		t.Fatalf("expected ErrInsufficientSkills, got %v", err)
	}
}

func TestMatchUsecase_FindMatches_DropsUnresolvedNames(t *testing.T) {
	python := skill.Skill{ID: uuid.New(), Name: "python"}
	sqlSkill := skill.Skill{ID: uuid.New(), Name: "sql"}
	bobID := uuid.New()

	skills := mockSkillRepo{byLowerName: map[string]skill.Skill{
		"python": python,
		"sql":    sqlSkill,
	}}
	userSkills := &mockUserSkillRepo{candidates: []matching.Candidate{
		{UserID: bobID, Username: "bob", SkillIDs: []uuid.UUID{python.ID, sqlSkill.ID}},
	}}

	uc := NewMatchUsecase(skills, userSkills, newMockMatchRepo(), mockUserExistence{}, nil, nil, nil)

	// "go" resolves to nothing and is silently dropped
	out, err := uc.FindMatches(context.Background(), uuid.New(), []string{"python", "sql", "go"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(out))
	}
	if out[0].UserID != bobID {
		t.Fatalf("unexpected candidate id")
	}
	want := []string{"python", "sql"}
	if !reflect.DeepEqual(out[0].CommonSkills, want) {
		t.Fatalf("expected common skills %v, got %v", want, out[0].CommonSkills)
	}
}

func TestMatchUsecase_FindMatches_AllUnresolvedYieldsEmpty(t *testing.T) {
	uc := NewMatchUsecase(mockSkillRepo{}, &mockUserSkillRepo{}, newMockMatchRepo(), mockUserExistence{}, nil, nil, nil)

	out, err := uc.FindMatches(context.Background(), uuid.New(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %d", len(out))
	}
}

func TestMatchUsecase_FindMatches_CachesResult(t *testing.T) {
	python := skill.Skill{ID: uuid.New(), Name: "python"}
	sqlSkill := skill.Skill{ID: uuid.New(), Name: "sql"}
	docker := skill.Skill{ID: uuid.New(), Name: "docker"}

	skills := mockSkillRepo{byLowerName: map[string]skill.Skill{
		"python": python, "sql": sqlSkill, "docker": docker,
	}}
	cache := newMockCache()

	uc := NewMatchUsecase(skills, &mockUserSkillRepo{}, newMockMatchRepo(), mockUserExistence{}, cache, nil, nil)

	userID := uuid.New()
	if _, err := uc.FindMatches(context.Background(), userID, []string{"python", "sql", "docker"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(cache.sets) != 1 {
		t.Fatalf("expected 1 cache write, got %d", len(cache.sets))
	}
	wantKey := FindMatchesCacheKey(userID, []string{"python", "sql", "docker"})
	if cache.sets[0] != wantKey {
		t.Fatalf("cache key mismatch: %s != %s", cache.sets[0], wantKey)
	}
}

func TestMatchUsecase_SaveMatch_Self(t *testing.T) {
	uc := NewMatchUsecase(mockSkillRepo{}, &mockUserSkillRepo{}, newMockMatchRepo(), mockUserExistence{}, nil, nil, nil)

	id := uuid.New()
	_, err := uc.SaveMatch(context.Background(), id, id)
	if !errors.Is(err, ErrSelfMatch) {
		t.Fatalf("expected ErrSelfMatch, got %v", err)
	}
}

func TestMatchUsecase_SaveMatch_UnknownTarget(t *testing.T) {
	uc := NewMatchUsecase(mockSkillRepo{}, &mockUserSkillRepo{}, newMockMatchRepo(), mockUserExistence{existing: map[uuid.UUID]bool{}}, nil, nil, nil)

	_, err := uc.SaveMatch(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestMatchUsecase_SaveMatch_IdempotentAndNotifiesOnce(t *testing.T) {
	initiator := uuid.New()
	target := uuid.New()

	matches := newMockMatchRepo()
	notifier := &mockNotifier{}
	users := mockUserExistence{existing: map[uuid.UUID]bool{target: true, initiator: true}}

	uc := NewMatchUsecase(mockSkillRepo{}, &mockUserSkillRepo{}, matches, users, nil, notifier, nil)

	first, err := uc.SaveMatch(context.Background(), initiator, target)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// saving the reversed pair returns the original record
	second, err := uc.SaveMatch(context.Background(), target, initiator)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the original match record, got a new one")
	}
	if first.InitiatorID != second.InitiatorID {
		t.Fatalf("expected initiator preserved on duplicate save")
	}
	if len(notifier.events) != 1 {
		t.Fatalf("expected exactly 1 unlock event, got %d", len(notifier.events))
	}
}

func TestMatchUsecase_IsMatched_Symmetric(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	matches := newMockMatchRepo()
	users := mockUserExistence{existing: map[uuid.UUID]bool{a: true, b: true}}
	uc := NewMatchUsecase(mockSkillRepo{}, &mockUserSkillRepo{}, matches, users, nil, nil, nil)

	if _, err := uc.SaveMatch(context.Background(), a, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	for _, pair := range [][2]uuid.UUID{{a, b}, {b, a}} {
		ok, err := uc.IsMatched(context.Background(), pair[0], pair[1])
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if !ok {
			t.Fatalf("expected matched=true for pair %v", pair)
		}
	}

	ok, err := uc.IsMatched(context.Background(), a, uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatalf("expected matched=false for unknown pair")
	}
}

func TestNormalizeQuerySkills(t *testing.T) {
	got := normalizeQuerySkills([]string{" Python ", "sql", "PYTHON", "", "Docker", "docker"})
	want := []string{"python", "sql", "docker"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
