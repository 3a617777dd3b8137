package domain

import "time"

// Post represents a board entry authored by a user.
type Post struct {
	ID          string
	Author      string
	Title       string
	Description string
	Votes       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
	UpdatedBy   string
}
