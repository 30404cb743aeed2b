package repository

import (
	"context"
	"database/sql"
	"errors"

	"skillmatch/internal/database"
	"skillmatch/internal/domain/match"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	Save(ctx context.Context, initiatorID, targetID uuid.UUID) (match.Match, error)
	Exists(ctx context.Context, userA, userB uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]match.Match, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Save records the pair exactly once. The insert normalizes the pair onto the
// (user_a_id < user_b_id) columns and defers to the unique constraint, so
// concurrent saves from either direction leave a single row; the follow-up
// read returns that row with its original initiator and created_at.
func (r *PostgresMatchRepository) Save(ctx context.Context, initiatorID, targetID uuid.UUID) (match.Match, error) {
	a, b := match.NormalizePair(initiatorID, targetID)

	_, err := r.db.Exec(ctx,
		`INSERT INTO matches (id, user_a_id, user_b_id, initiator_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_a_id, user_b_id) DO NOTHING`,
		uuid.New(), a, b, initiatorID,
	)
	if err != nil {
		return match.Match{}, err
	}

	return r.getByPair(ctx, a, b)
}

func (r *PostgresMatchRepository) getByPair(ctx context.Context, a, b uuid.UUID) (match.Match, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, initiator_id, user_a_id, user_b_id, created_at
		 FROM matches
		 WHERE user_a_id = $1 AND user_b_id = $2`,
		a, b,
	)

	var m match.Match
	var ua, ub uuid.UUID
	if err := row.Scan(&m.ID, &m.InitiatorID, &ua, &ub, &m.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return match.Match{}, ErrMatchNotFound
		}
		return match.Match{}, err
	}
	m.TargetID = otherOf(m.InitiatorID, ua, ub)
	return m, nil
}

func (r *PostgresMatchRepository) Exists(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	a, b := match.NormalizePair(userA, userB)

	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM matches WHERE user_a_id = $1 AND user_b_id = $2)`,
		a, b,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresMatchRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]match.Match, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, initiator_id, user_a_id, user_b_id, created_at
		 FROM matches
		 WHERE user_a_id = $1 OR user_b_id = $1
		 ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.Match, 0)
	for rows.Next() {
		var m match.Match
		var ua, ub uuid.UUID
		if err := rows.Scan(&m.ID, &m.InitiatorID, &ua, &ub, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.TargetID = otherOf(m.InitiatorID, ua, ub)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func otherOf(initiator, a, b uuid.UUID) uuid.UUID {
	if initiator == a {
		return b
	}
	return a
}
