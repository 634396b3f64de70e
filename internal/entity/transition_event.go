package entity

import (
	"time"

	"github.com/google/uuid"
)

// TransitionEvent is published after a lifecycle transition succeeds.
type TransitionEvent struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Action     Action    `json:"action"`
	Status     Status    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
