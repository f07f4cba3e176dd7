package store

import (
	"context"
	"errors"
	"time"

	"github.com/kinotes/kinotes/internal/notes/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Notes() Notes
	Reminders() Reminders

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login and token validation.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// ExistsByUsername reports whether a user with this username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether a user with this email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists if the username or email unique index fires;
	// that index is the authoritative guard against the check-then-insert race.
	CreateUser(ctx context.Context, u domain.User) error
}

type Notes interface {
	// GetNoteByID returns a note by id regardless of owner; ownership is the
	// service layer's concern.
	GetNoteByID(ctx context.Context, id string) (domain.Note, error)

	// ListNotesByUser returns the user's notes, newest first.
	ListNotesByUser(ctx context.Context, userID string) ([]domain.Note, error)

	// CreateNote inserts a new note.
	CreateNote(ctx context.Context, n domain.Note) error

	// UpdateNote replaces title, content and image urls and bumps updated_at.
	UpdateNote(ctx context.Context, n domain.Note) error

	// DeleteNote cascades to reminders (per schema).
	DeleteNote(ctx context.Context, id string) error

	// SearchNotesByTitle returns the user's notes whose title contains term
	// (case-insensitive), newest first.
	SearchNotesByTitle(ctx context.Context, userID, term string) ([]domain.Note, error)
}

type Reminders interface {
	// CreateReminder inserts a new reminder for a note.
	CreateReminder(ctx context.Context, r domain.Reminder) error

	// GetReminderByID returns a reminder by id.
	GetReminderByID(ctx context.Context, id string) (domain.Reminder, error)

	// ListRemindersByNote returns a note's reminders ordered by remind_at.
	ListRemindersByNote(ctx context.Context, noteID string) ([]domain.Reminder, error)

	// UpdateReminderTime reschedules a reminder and clears its triggered flag.
	UpdateReminderTime(ctx context.Context, id string, remindAt time.Time) error

	// DeleteReminder removes a reminder.
	DeleteReminder(ctx context.Context, id string) error

	// MarkDueRemindersTriggered flips triggered on every untriggered reminder
	// whose remind_at is at or before now. Returns the number of rows flipped.
	MarkDueRemindersTriggered(ctx context.Context, now time.Time) (int64, error)
}
