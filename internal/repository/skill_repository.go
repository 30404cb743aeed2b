package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"skillmatch/internal/database"
	"skillmatch/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrSkillNotFound = errors.New("skill not found")

type SkillRepository interface {
	GetAllSkills(ctx context.Context) ([]skill.Skill, error)
	GetOrCreate(ctx context.Context, name string) (skill.Skill, error)
	FindByName(ctx context.Context, name string) (skill.Skill, error)
	FindByNames(ctx context.Context, names []string) ([]skill.Skill, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) GetAllSkills(ctx context.Context) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM skills ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrCreate inserts the skill unless a case-insensitive equivalent already
// exists, then reads whichever row owns the name. The unique index on
// lower(name) makes this safe under concurrent identical calls: at most one
// insert wins and both callers read the same row.
func (r *PostgresSkillRepository) GetOrCreate(ctx context.Context, name string) (skill.Skill, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO skills (id, name) VALUES ($1, $2)
		 ON CONFLICT ((lower(name))) DO NOTHING`,
		uuid.New(), name,
	)
	if err != nil {
		return skill.Skill{}, err
	}
	return r.FindByName(ctx, name)
}

func (r *PostgresSkillRepository) FindByName(ctx context.Context, name string) (skill.Skill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM skills WHERE lower(name) = lower($1)`,
		name,
	)

	var s skill.Skill
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

// FindByNames resolves a batch of names case-insensitively. Names with no
// matching row are simply absent from the result; the caller decides whether
// that matters.
func (r *PostgresSkillRepository) FindByNames(ctx context.Context, names []string) ([]skill.Skill, error) {
	if len(names) == 0 {
		return []skill.Skill{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM skills WHERE lower(name) = ANY($1)`,
		lowered(names),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0, len(names))
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM skills WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func lowered(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, strings.ToLower(strings.TrimSpace(n)))
	}
	return out
}
