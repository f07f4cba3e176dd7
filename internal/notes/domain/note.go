package domain

import "time"

// Note is a user-owned note. ImageURLs is stored as a JSON array in the
// notes table.
type Note struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	ImageURLs []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
