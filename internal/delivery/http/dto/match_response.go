package dto

import (
	"time"

	"github.com/google/uuid"
)

type MatchCandidateResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	CommonSkills []string  `json:"common_skills"`
}

type FindMatchesResponse struct {
	Matches []MatchCandidateResponse `json:"matches"`
}

type MatchResponse struct {
	ID          uuid.UUID `json:"id"`
	InitiatorID uuid.UUID `json:"initiator_id"`
	TargetID    uuid.UUID `json:"target_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type IsMatchedResponse struct {
	Matched bool `json:"matched"`
}
