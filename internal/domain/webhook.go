package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a registered webhook target. Subscriptions are created and
// removed, never mutated in place.
type Subscription struct {
	ID        uuid.UUID
	URL       string
	Event     EventKind
	CreatedAt time.Time
}
