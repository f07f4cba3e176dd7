package domain

import "time"

// Reminder schedules a notification for a note. Triggered flips once the
// housekeeping sweep observes remind_at in the past.
type Reminder struct {
	ID        string
	NoteID    string
	RemindAt  time.Time
	Triggered bool
	CreatedAt time.Time
}
