package repository

import (
	"context"

	"skillmatch/internal/database"
	"skillmatch/internal/domain/matching"
	"skillmatch/internal/domain/skill"

	"github.com/google/uuid"
)

type UserSkillRepository interface {
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]skill.Skill, error)
	Assign(ctx context.Context, userID, skillID uuid.UUID) error
	FindOwnersBySkillIDs(ctx context.Context, skillIDs []uuid.UUID, excludeUserID uuid.UUID) ([]matching.Candidate, error)
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

// ListByUserID returns the user's skills in the order they were added.
func (r *PostgresUserSkillRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.name, s.created_at
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1
		 ORDER BY us.created_at ASC, us.id ASC`,
		userID,
	)
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

// Assign is idempotent: re-assigning an already owned skill is a no-op thanks
// to the (user_id, skill_id) unique constraint.
func (r *PostgresUserSkillRepository) Assign(ctx context.Context, userID, skillID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_skills (id, user_id, skill_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, skill_id) DO NOTHING`,
		uuid.New(), userID, skillID,
	)
	return err
}

// FindOwnersBySkillIDs returns every user other than excludeUserID owning at
// least one of the given skills, with the subset of those skills they own.
func (r *PostgresUserSkillRepository) FindOwnersBySkillIDs(ctx context.Context, skillIDs []uuid.UUID, excludeUserID uuid.UUID) ([]matching.Candidate, error) {
	if len(skillIDs) == 0 {
		return []matching.Candidate{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.username, us.skill_id
		 FROM user_skills us
		 JOIN users u ON u.id = us.user_id
		 WHERE us.skill_id = ANY($1) AND us.user_id <> $2
		 ORDER BY u.id`,
		skillIDs, excludeUserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matching.Candidate, 0)
	idx := make(map[uuid.UUID]int)
	for rows.Next() {
		var userID, skillID uuid.UUID
		var username string
		if err := rows.Scan(&userID, &username, &skillID); err != nil {
			return nil, err
		}

		i, ok := idx[userID]
		if !ok {
			out = append(out, matching.Candidate{UserID: userID, Username: username})
			i = len(out) - 1
			idx[userID] = i
		}
		out[i].SkillIDs = append(out[i].SkillIDs, skillID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
