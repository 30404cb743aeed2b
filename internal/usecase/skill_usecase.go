package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"skillmatch/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type SkillItem struct {
	ID   uuid.UUID
	Name string
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]SkillItem, error)
	GetOrCreateSkill(ctx context.Context, name string) (SkillItem, error)
	AssignSkill(ctx context.Context, userID, skillID uuid.UUID) error
	ListUserSkills(ctx context.Context, userID uuid.UUID) ([]SkillItem, error)
}

type Skill struct {
	skills     repository.SkillRepository
	userSkills repository.UserSkillRepository
	cache      MatchCache
	logger     *log.Logger
}

func NewSkillUsecase(skills repository.SkillRepository, userSkills repository.UserSkillRepository, cache MatchCache, logger *log.Logger) *Skill {
	return &Skill{skills: skills, userSkills: userSkills, cache: cache, logger: logger}
}

func (u *Skill) ListSkills(ctx context.Context) ([]SkillItem, error) {
	items, err := u.skills.GetAllSkills(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]SkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, SkillItem{ID: it.ID, Name: it.Name})
	}
	return out, nil
}

// GetOrCreateSkill resolves a name to its skill, creating it on first use.
// Two submissions differing only in case resolve to the same skill; the first
// writer's spelling is kept.
func (u *Skill) GetOrCreateSkill(ctx context.Context, name string) (SkillItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SkillItem{}, ErrInvalidName
	}

	s, err := u.skills.GetOrCreate(ctx, name)
	if err != nil {
		return SkillItem{}, ErrInternal
	}
	return SkillItem{ID: s.ID, Name: s.Name}, nil
}

// AssignSkill is idempotent: assigning an already owned skill succeeds silently.
func (u *Skill) AssignSkill(ctx context.Context, userID, skillID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if skillID == uuid.Nil {
		return ErrUnknownSkill
	}

	exists, err := u.skills.ExistsByID(ctx, skillID)
	if err != nil {
		return ErrInternal
	}
	if !exists {
		return ErrUnknownSkill
	}

	if err := u.userSkills.Assign(ctx, userID, skillID); err != nil {
		if isForeignKeyViolation(err) {
			return ErrUnknownSkill
		}
		return ErrInternal
	}

	// a new assignment changes every user's search results
	u.invalidateFindCache(ctx)
	return nil
}

func (u *Skill) ListUserSkills(ctx context.Context, userID uuid.UUID) ([]SkillItem, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	items, err := u.userSkills.ListByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]SkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, SkillItem{ID: it.ID, Name: it.Name})
	}
	return out, nil
}

func (u *Skill) invalidateFindCache(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, FindMatchesCachePattern); err != nil && u.logger != nil {
		u.logger.Printf("skill usecase | cache invalidation failed: %v", err)
	}
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
