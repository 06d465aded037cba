package domain

import "time"

// User is the domain model for citizens who submit reports.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	IsAdmin       bool
	DateOfJoining time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
