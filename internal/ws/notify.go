package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MatchUnlockedEvent tells a dashboard that a pair just became matched and
// chat with the other user is now allowed. Chat payloads themselves travel
// over the external chat transport, not this socket.
type MatchUnlockedEvent struct {
	Type        string    `json:"type"`
	InitiatorID uuid.UUID `json:"initiator_id"`
	TargetID    uuid.UUID `json:"target_id"`
	Timestamp   string    `json:"timestamp"`
}

// Notifier adapts the hub to the match usecase's MatchNotifier port.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) MatchUnlocked(initiatorID, targetID uuid.UUID, createdAt time.Time) {
	if n == nil || n.hub == nil {
		return
	}

	evt := MatchUnlockedEvent{
		Type:        "match_unlocked",
		InitiatorID: initiatorID,
		TargetID:    targetID,
		Timestamp:   createdAt.UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	n.hub.Send(initiatorID, b)
	n.hub.Send(targetID, b)
}
