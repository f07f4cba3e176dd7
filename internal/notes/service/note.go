package service

import (
	"context"
	"errors"
	"strings"

	"github.com/kinotes/kinotes/internal/notes/domain"
	"github.com/kinotes/kinotes/internal/notes/store"
	"github.com/kinotes/kinotes/pkg/idx"
)

var (
	// ErrNoteNotFound is returned for missing notes AND for notes owned by a
	// different user, so callers cannot probe for other users' note ids.
	ErrNoteNotFound = errors.New("note not found")

	ErrTitleRequired = errors.New("title is required")
)

// NoteInput carries the caller-supplied fields for creating or updating a note.
type NoteInput struct {
	Title     string
	Content   string
	ImageURLs []string
}

// NoteService provides the note CRUD and search operations, always scoped to
// the calling user's identity.
type NoteService struct {
	Store store.Store
}

func (s *NoteService) Create(ctx context.Context, userID string, in NoteInput) (domain.Note, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Note{}, ErrTitleRequired
	}

	n := domain.Note{
		ID:        idx.New().String(),
		UserID:    userID,
		Title:     in.Title,
		Content:   in.Content,
		ImageURLs: in.ImageURLs,
	}
	if err := s.Store.Notes().CreateNote(ctx, n); err != nil {
		return domain.Note{}, err
	}

	// Re-read so the caller sees the store-assigned timestamps.
	return s.Store.Notes().GetNoteByID(ctx, n.ID)
}

func (s *NoteService) Get(ctx context.Context, userID, noteID string) (domain.Note, error) {
	return s.ownedNote(ctx, userID, noteID)
}

func (s *NoteService) ListByUser(ctx context.Context, userID string) ([]domain.Note, error) {
	return s.Store.Notes().ListNotesByUser(ctx, userID)
}

func (s *NoteService) Update(ctx context.Context, userID, noteID string, in NoteInput) (domain.Note, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Note{}, ErrTitleRequired
	}

	n, err := s.ownedNote(ctx, userID, noteID)
	if err != nil {
		return domain.Note{}, err
	}

	n.Title = in.Title
	n.Content = in.Content
	n.ImageURLs = in.ImageURLs

	if err := s.Store.Notes().UpdateNote(ctx, n); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Note{}, ErrNoteNotFound
		}
		return domain.Note{}, err
	}

	return s.Store.Notes().GetNoteByID(ctx, n.ID)
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	if _, err := s.ownedNote(ctx, userID, noteID); err != nil {
		return err
	}

	if err := s.Store.Notes().DeleteNote(ctx, noteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNoteNotFound
		}
		return err
	}
	return nil
}

func (s *NoteService) SearchByTitle(ctx context.Context, userID, term string) ([]domain.Note, error) {
	return s.Store.Notes().SearchNotesByTitle(ctx, userID, term)
}

// ownedNote loads a note and enforces ownership. A foreign note is reported
// exactly like a missing one.
func (s *NoteService) ownedNote(ctx context.Context, userID, noteID string) (domain.Note, error) {
	n, err := s.Store.Notes().GetNoteByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Note{}, ErrNoteNotFound
		}
		return domain.Note{}, err
	}
	if n.UserID != userID {
		return domain.Note{}, ErrNoteNotFound
	}
	return n, nil
}
