package domain

import "fmt"

// EventKind identifies the kind of catalog mutation an event describes.
type EventKind string

const (
	EventBookCreated EventKind = "book.created"
	EventBookUpdated EventKind = "book.updated"
	EventBookDeleted EventKind = "book.deleted"
)

// EventKinds lists every valid kind, in declaration order.
func EventKinds() []EventKind {
	return []EventKind{EventBookCreated, EventBookUpdated, EventBookDeleted}
}

// ParseEventKind validates a raw string against the known kinds.
func ParseEventKind(s string) (EventKind, error) {
	switch EventKind(s) {
	case EventBookCreated, EventBookUpdated, EventBookDeleted:
		return EventKind(s), nil
	}
	return "", fmt.Errorf("unknown event kind %q", s)
}

func (k EventKind) String() string { return string(k) }

// Event is the in-memory value handed from a successful mutation to the
// fan-out dispatcher. It is never persisted: if the process dies between
// persist and dispatch, the event is lost (at-most-once).
//
// Deleted events carry only BookID; Book is nil.
type Event struct {
	Kind   EventKind
	Book   *Book
	BookID int64
}
