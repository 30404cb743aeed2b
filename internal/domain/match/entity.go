package match

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// Match records that two users agreed to connect. The pair is unordered: one
// row authorizes chat in both directions.
type Match struct {
	ID          uuid.UUID
	InitiatorID uuid.UUID
	TargetID    uuid.UUID
	CreatedAt   time.Time
}

// NormalizePair orders two user ids so the same pair always maps to the same
// (a, b) storage columns.
func NormalizePair(x, y uuid.UUID) (a, b uuid.UUID) {
	if bytes.Compare(x[:], y[:]) <= 0 {
		return x, y
	}
	return y, x
}
