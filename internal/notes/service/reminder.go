package service

import (
	"context"
	"errors"
	"time"

	"github.com/kinotes/kinotes/internal/notes/domain"
	"github.com/kinotes/kinotes/internal/notes/store"
	"github.com/kinotes/kinotes/pkg/idx"
)

var (
	ErrReminderNotFound = errors.New("reminder not found")

	ErrRemindAtRequired = errors.New("remind_at is required")
)

// ReminderService manages per-note reminders. Ownership is enforced through
// the parent note: touching a reminder on another user's note reports
// ErrNoteNotFound or ErrReminderNotFound, never a permission error.
type ReminderService struct {
	Store store.Store
	Notes *NoteService
}

// Add attaches a reminder to one of the caller's notes.
func (s *ReminderService) Add(ctx context.Context, userID, noteID string, remindAt time.Time) (domain.Reminder, error) {
	if remindAt.IsZero() {
		return domain.Reminder{}, ErrRemindAtRequired
	}

	if _, err := s.Notes.Get(ctx, userID, noteID); err != nil {
		return domain.Reminder{}, err
	}

	r := domain.Reminder{
		ID:       idx.New().String(),
		NoteID:   noteID,
		RemindAt: remindAt.UTC(),
	}
	if err := s.Store.Reminders().CreateReminder(ctx, r); err != nil {
		return domain.Reminder{}, err
	}

	return s.Store.Reminders().GetReminderByID(ctx, r.ID)
}

// ListByNote returns a note's reminders, soonest first.
func (s *ReminderService) ListByNote(ctx context.Context, userID, noteID string) ([]domain.Reminder, error) {
	if _, err := s.Notes.Get(ctx, userID, noteID); err != nil {
		return nil, err
	}
	return s.Store.Reminders().ListRemindersByNote(ctx, noteID)
}

// Update reschedules a reminder. Rescheduling clears the triggered flag so
// the sweep will fire it again at the new time.
func (s *ReminderService) Update(ctx context.Context, userID, reminderID string, remindAt time.Time) (domain.Reminder, error) {
	if remindAt.IsZero() {
		return domain.Reminder{}, ErrRemindAtRequired
	}

	if _, err := s.ownedReminder(ctx, userID, reminderID); err != nil {
		return domain.Reminder{}, err
	}

	if err := s.Store.Reminders().UpdateReminderTime(ctx, reminderID, remindAt.UTC()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Reminder{}, ErrReminderNotFound
		}
		return domain.Reminder{}, err
	}

	return s.Store.Reminders().GetReminderByID(ctx, reminderID)
}

func (s *ReminderService) Delete(ctx context.Context, userID, reminderID string) error {
	if _, err := s.ownedReminder(ctx, userID, reminderID); err != nil {
		return err
	}

	if err := s.Store.Reminders().DeleteReminder(ctx, reminderID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrReminderNotFound
		}
		return err
	}
	return nil
}

// ownedReminder loads a reminder and walks up to its note to enforce
// ownership.
func (s *ReminderService) ownedReminder(ctx context.Context, userID, reminderID string) (domain.Reminder, error) {
	r, err := s.Store.Reminders().GetReminderByID(ctx, reminderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Reminder{}, ErrReminderNotFound
		}
		return domain.Reminder{}, err
	}

	if _, err := s.Notes.Get(ctx, userID, r.NoteID); err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return domain.Reminder{}, ErrReminderNotFound
		}
		return domain.Reminder{}, err
	}
	return r, nil
}
