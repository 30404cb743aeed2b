package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MatchCache is the cache port the usecases depend on; the Redis client in
// infrastructure/cache satisfies it and degrades to a no-op when unavailable.
type MatchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const FindMatchesCachePattern = "matches:find:*"

type findMatchesCacheKeyInput struct {
	UserID uuid.UUID `json:"user_id"`
	Skills []string  `json:"skills"`
}

// FindMatchesCacheKey hashes the requesting user and the normalized query.
// Query order is part of the key because it determines the order of
// common_skills in the response.
func FindMatchesCacheKey(userID uuid.UUID, skills []string) string {
	in := findMatchesCacheKeyInput{UserID: userID, Skills: skills}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "matches:find:" + hex.EncodeToString(sum[:])
}
