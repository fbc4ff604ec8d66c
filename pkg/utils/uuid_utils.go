package utils

import "github.com/google/uuid"

var newUUIDv7 = uuid.NewV7

// GenerateUUIDv7 returns a time-ordered UUID. Rows keyed by these sort by
// creation time, which the queue listings rely on. Falls back to v4 if the
// v7 generator fails.
func GenerateUUIDv7() uuid.UUID {
	id, err := newUUIDv7()
	if err != nil {
		return uuid.New()
	}
	return id
}
