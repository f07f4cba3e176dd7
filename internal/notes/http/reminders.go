package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kinotes/kinotes/internal/notes/domain"
	"github.com/kinotes/kinotes/internal/notes/service"
	"github.com/kinotes/kinotes/pkg/httpx"
	"github.com/kinotes/kinotes/pkg/slogx"
)

// RemindersHandler serves reminder endpoints. Creation and listing hang off
// the parent note; update and delete address reminders directly.
type RemindersHandler struct {
	ReminderService *service.ReminderService
}

type reminderRequest struct {
	RemindAt time.Time `json:"remindAt"`
}

type reminderResponse struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"noteId"`
	RemindAt  time.Time `json:"remindAt"`
	Triggered bool      `json:"triggered"`
	CreatedAt time.Time `json:"createdAt"`
}

func toReminderResponse(rem domain.Reminder) reminderResponse {
	return reminderResponse{
		ID:        rem.ID,
		NoteID:    rem.NoteID,
		RemindAt:  rem.RemindAt,
		Triggered: rem.Triggered,
		CreatedAt: rem.CreatedAt,
	}
}

func (h *RemindersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := httpx.PrincipalFromContext(ctx)

	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rem, err := h.ReminderService.Add(ctx, p.UserID, r.PathValue("id"), req.RemindAt)
	if err != nil {
		writeReminderError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toReminderResponse(rem))
}

func (h *RemindersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := httpx.PrincipalFromContext(ctx)

	rems, err := h.ReminderService.ListByNote(ctx, p.UserID, r.PathValue("id"))
	if err != nil {
		writeReminderError(w, r, err)
		return
	}

	out := make([]reminderResponse, 0, len(rems))
	for _, rem := range rems {
		out = append(out, toReminderResponse(rem))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *RemindersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := httpx.PrincipalFromContext(ctx)

	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rem, err := h.ReminderService.Update(ctx, p.UserID, r.PathValue("id"), req.RemindAt)
	if err != nil {
		writeReminderError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toReminderResponse(rem))
}

func (h *RemindersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := httpx.PrincipalFromContext(ctx)

	if err := h.ReminderService.Delete(ctx, p.UserID, r.PathValue("id")); err != nil {
		writeReminderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeReminderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Note not found")
	case errors.Is(err, service.ErrReminderNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Reminder not found")
	case errors.Is(err, service.ErrRemindAtRequired):
		httpx.WriteError(w, http.StatusBadRequest, "remindAt is required")
	default:
		slogx.FromContext(r.Context()).Error("reminder operation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
