package pkg

import "github.com/google/uuid"

// GenerateSessionID returns a random session identifier.
func GenerateSessionID() string {
	return uuid.NewString()
}
