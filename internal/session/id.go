package session

import "github.com/google/uuid"

// IDGenerator produces session IDs.
// UUIDv7Generator is the default; tests pass a deterministic generator.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator issues time-sortable UUIDv7 session IDs, so stored runs
// list in creation order.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
