package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/kinotes/kinotes/internal/notes/domain"
	"github.com/kinotes/kinotes/internal/notes/store"
	"github.com/kinotes/kinotes/internal/notes/store/drivers/sqlite"
	"github.com/kinotes/kinotes/pkg/idx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestUser(t *testing.T, st store.Store, username, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=10,p=1$c2FsdHNhbHRzYWx0c2FsdA$ZGlnZXN0",
		Role:         domain.DefaultRole,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersRepo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	alice := newTestUser(t, st, "alice", "alice@example.com")

	t.Run("lookup by id and username", func(t *testing.T) {
		byID, err := st.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, alice.Username, byID.Username)
		require.Equal(t, alice.Email, byID.Email)
		require.Equal(t, domain.DefaultRole, byID.Role)
		require.False(t, byID.CreatedAt.IsZero())

		byName, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, alice.ID, byName.ID)
	})

	t.Run("missing user maps to ErrNotFound", func(t *testing.T) {
		_, err := st.Users().GetUserByUsername(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("existence checks", func(t *testing.T) {
		ok, err := st.Users().ExistsByUsername(ctx, "alice")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = st.Users().ExistsByUsername(ctx, "bob")
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = st.Users().ExistsByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = st.Users().ExistsByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("unique indexes map to ErrAlreadyExists", func(t *testing.T) {
		dupUsername := domain.User{
			ID: idx.New().String(), Username: "alice", Email: "other@example.com",
			PasswordHash: "x", Role: domain.DefaultRole,
		}
		require.ErrorIs(t, st.Users().CreateUser(ctx, dupUsername), store.ErrAlreadyExists)

		dupEmail := domain.User{
			ID: idx.New().String(), Username: "alice2", Email: "alice@example.com",
			PasswordHash: "x", Role: domain.DefaultRole,
		}
		require.ErrorIs(t, st.Users().CreateUser(ctx, dupEmail), store.ErrAlreadyExists)

		// The original row is untouched by the failed inserts.
		got, err := st.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, alice.Email, got.Email)
	})
}

func TestNotesRepo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	alice := newTestUser(t, st, "alice", "alice@example.com")
	bob := newTestUser(t, st, "bob", "bob@example.com")

	mkNote := func(userID, title string, at time.Time) domain.Note {
		n := domain.Note{
			ID:        idx.NewAt(at).String(),
			UserID:    userID,
			Title:     title,
			Content:   "content of " + title,
			ImageURLs: []string{"https://img.example.com/" + title + ".png"},
			CreatedAt: at,
			UpdatedAt: at,
		}
		require.NoError(t, st.Notes().CreateNote(ctx, n))
		return n
	}

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	groceries := mkNote(alice.ID, "Groceries", base)
	meeting := mkNote(alice.ID, "Meeting notes", base.Add(time.Hour))
	mkNote(bob.ID, "Groceries for bob", base.Add(2*time.Hour))

	t.Run("round trips image urls", func(t *testing.T) {
		got, err := st.Notes().GetNoteByID(ctx, groceries.ID)
		require.NoError(t, err)
		require.Equal(t, groceries.ImageURLs, got.ImageURLs)
		require.Equal(t, groceries.Content, got.Content)
	})

	t.Run("lists newest first, scoped to user", func(t *testing.T) {
		notes, err := st.Notes().ListNotesByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		require.Equal(t, meeting.ID, notes[0].ID)
		require.Equal(t, groceries.ID, notes[1].ID)
	})

	t.Run("search is case-insensitive and user-scoped", func(t *testing.T) {
		notes, err := st.Notes().SearchNotesByTitle(ctx, alice.ID, "groc")
		require.NoError(t, err)
		require.Len(t, notes, 1)
		require.Equal(t, groceries.ID, notes[0].ID)

		notes, err = st.Notes().SearchNotesByTitle(ctx, alice.ID, "GROCERIES")
		require.NoError(t, err)
		require.Len(t, notes, 1)

		notes, err = st.Notes().SearchNotesByTitle(ctx, alice.ID, "nothing")
		require.NoError(t, err)
		require.Empty(t, notes)

		// % must match literally, not as a wildcard
		notes, err = st.Notes().SearchNotesByTitle(ctx, alice.ID, "%")
		require.NoError(t, err)
		require.Empty(t, notes)
	})

	t.Run("update bumps updated_at", func(t *testing.T) {
		updated := groceries
		updated.Title = "Groceries v2"
		updated.ImageURLs = nil
		require.NoError(t, st.Notes().UpdateNote(ctx, updated))

		got, err := st.Notes().GetNoteByID(ctx, groceries.ID)
		require.NoError(t, err)
		require.Equal(t, "Groceries v2", got.Title)
		require.Empty(t, got.ImageURLs)
		require.True(t, got.UpdatedAt.After(got.CreatedAt))
	})

	t.Run("update and delete of missing note map to ErrNotFound", func(t *testing.T) {
		missing := domain.Note{ID: idx.New().String(), Title: "x"}
		require.ErrorIs(t, st.Notes().UpdateNote(ctx, missing), store.ErrNotFound)
		require.ErrorIs(t, st.Notes().DeleteNote(ctx, missing.ID), store.ErrNotFound)
	})

	t.Run("delete cascades to reminders", func(t *testing.T) {
		rem := domain.Reminder{
			ID:       idx.New().String(),
			NoteID:   meeting.ID,
			RemindAt: base.Add(24 * time.Hour),
		}
		require.NoError(t, st.Reminders().CreateReminder(ctx, rem))

		require.NoError(t, st.Notes().DeleteNote(ctx, meeting.ID))

		_, err := st.Reminders().GetReminderByID(ctx, rem.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestRemindersRepo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	alice := newTestUser(t, st, "alice", "alice@example.com")

	note := domain.Note{
		ID: idx.New().String(), UserID: alice.ID, Title: "Trip",
	}
	require.NoError(t, st.Notes().CreateNote(ctx, note))

	now := time.Now().UTC().Truncate(time.Second)
	early := domain.Reminder{ID: idx.New().String(), NoteID: note.ID, RemindAt: now.Add(-time.Hour)}
	late := domain.Reminder{ID: idx.New().String(), NoteID: note.ID, RemindAt: now.Add(time.Hour)}
	require.NoError(t, st.Reminders().CreateReminder(ctx, early))
	require.NoError(t, st.Reminders().CreateReminder(ctx, late))

	t.Run("lists ordered by remind_at", func(t *testing.T) {
		rems, err := st.Reminders().ListRemindersByNote(ctx, note.ID)
		require.NoError(t, err)
		require.Len(t, rems, 2)
		require.Equal(t, early.ID, rems[0].ID)
		require.Equal(t, late.ID, rems[1].ID)
	})

	t.Run("sweep marks only due reminders", func(t *testing.T) {
		n, err := st.Reminders().MarkDueRemindersTriggered(ctx, now)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		got, err := st.Reminders().GetReminderByID(ctx, early.ID)
		require.NoError(t, err)
		require.True(t, got.Triggered)

		got, err = st.Reminders().GetReminderByID(ctx, late.ID)
		require.NoError(t, err)
		require.False(t, got.Triggered)

		// Second sweep finds nothing new.
		n, err = st.Reminders().MarkDueRemindersTriggered(ctx, now)
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("reschedule clears triggered", func(t *testing.T) {
		require.NoError(t, st.Reminders().UpdateReminderTime(ctx, early.ID, now.Add(2*time.Hour)))

		got, err := st.Reminders().GetReminderByID(ctx, early.ID)
		require.NoError(t, err)
		require.False(t, got.Triggered)
		require.Equal(t, now.Add(2*time.Hour), got.RemindAt.UTC())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, st.Reminders().DeleteReminder(ctx, late.ID))
		_, err := st.Reminders().GetReminderByID(ctx, late.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, st.Reminders().DeleteReminder(ctx, late.ID), store.ErrNotFound)
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	boom := assert.AnError
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, domain.User{
			ID: idx.New().String(), Username: "ghost", Email: "ghost@example.com",
			PasswordHash: "x", Role: domain.DefaultRole,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	ok, err := st.Users().ExistsByUsername(ctx, "ghost")
	require.NoError(t, err)
	require.False(t, ok, "rolled back insert must not be visible")
}
