package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kinotes/kinotes/internal/notes/domain"
	"github.com/kinotes/kinotes/internal/notes/store"
)

type notesRepo struct {
	q querier
}

const noteColumns = `id, user_id, title, content, image_urls, created_at, updated_at`

func (r *notesRepo) GetNoteByID(ctx context.Context, id string) (domain.Note, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	return scanNote(row)
}

func (r *notesRepo) ListNotesByUser(ctx context.Context, userID string) ([]domain.Note, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

func (r *notesRepo) CreateNote(ctx context.Context, n domain.Note) error {
	imageURLs, err := marshalImageURLs(n.ImageURLs)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := n.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err = r.q.ExecContext(ctx,
		`INSERT INTO notes (id, user_id, title, content, image_urls, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Content, imageURLs, createdAt, updatedAt)
	return mapConstraint(err)
}

func (r *notesRepo) UpdateNote(ctx context.Context, n domain.Note) error {
	imageURLs, err := marshalImageURLs(n.ImageURLs)
	if err != nil {
		return err
	}

	res, err := r.q.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, image_urls = ?, updated_at = ? WHERE id = ?`,
		n.Title, n.Content, imageURLs, time.Now().UTC(), n.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *notesRepo) DeleteNote(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *notesRepo) SearchNotesByTitle(ctx context.Context, userID, term string) ([]domain.Note, error) {
	// LIKE is case-insensitive for ASCII in sqlite; % and _ in the term are
	// escaped so they match literally.
	pattern := "%" + escapeLike(term) + "%"
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE user_id = ? AND title LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC, id DESC`,
		userID, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

func marshalImageURLs(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func scanNote(row rowScanner) (domain.Note, error) {
	var n domain.Note
	var imageURLs string
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &imageURLs, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return domain.Note{}, mapNotFound(err)
	}
	if err := json.Unmarshal([]byte(imageURLs), &n.ImageURLs); err != nil {
		return domain.Note{}, err
	}
	return n, nil
}

func collectNotes(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]domain.Note, error) {
	var out []domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
