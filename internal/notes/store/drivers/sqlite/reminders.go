package sqlite

import (
	"context"
	"time"

	"github.com/kinotes/kinotes/internal/notes/domain"
	"github.com/kinotes/kinotes/internal/notes/store"
)

type remindersRepo struct {
	q querier
}

const reminderColumns = `id, note_id, remind_at, triggered, created_at`

func (r *remindersRepo) CreateReminder(ctx context.Context, rem domain.Reminder) error {
	createdAt := rem.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO reminders (id, note_id, remind_at, triggered, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rem.ID, rem.NoteID, rem.RemindAt.UTC(), rem.Triggered, createdAt)
	return mapConstraint(err)
}

func (r *remindersRepo) GetReminderByID(ctx context.Context, id string) (domain.Reminder, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)

	var rem domain.Reminder
	err := row.Scan(&rem.ID, &rem.NoteID, &rem.RemindAt, &rem.Triggered, &rem.CreatedAt)
	if err != nil {
		return domain.Reminder{}, mapNotFound(err)
	}
	return rem, nil
}

func (r *remindersRepo) ListRemindersByNote(ctx context.Context, noteID string) ([]domain.Reminder, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE note_id = ? ORDER BY remind_at ASC, id ASC`,
		noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reminder
	for rows.Next() {
		var rem domain.Reminder
		if err := rows.Scan(&rem.ID, &rem.NoteID, &rem.RemindAt, &rem.Triggered, &rem.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *remindersRepo) UpdateReminderTime(ctx context.Context, id string, remindAt time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE reminders SET remind_at = ?, triggered = 0 WHERE id = ?`,
		remindAt.UTC(), id)
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

func (r *remindersRepo) DeleteReminder(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
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

func (r *remindersRepo) MarkDueRemindersTriggered(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE reminders SET triggered = 1 WHERE triggered = 0 AND remind_at <= ?`,
		now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
