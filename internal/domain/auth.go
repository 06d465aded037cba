package domain

import "time"

// Token represents issued authentication token metadata.
type Token struct {
	SubjectID string
	Name      string
	IsAdmin   bool
	ExpiresAt time.Time
	IssuedAt  time.Time
}
