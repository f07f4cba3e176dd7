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

// NotesHandler serves the /api/notes endpoints. Every route runs behind the
// authenticated chain, so a principal is always present in the context.
type NotesHandler struct {
	NoteService *service.NoteService
}

type noteRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	ImageURLs []string `json:"imageUrls"`
}

type noteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURLs []string  `json:"imageUrls"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toNoteResponse(n domain.Note) noteResponse {
	urls := n.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	return noteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		ImageURLs: urls,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func toNoteResponses(notes []domain.Note) []noteResponse {
	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	return out
}

func (h *NotesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := httpx.PrincipalFromContext(ctx)

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	n, err := h.NoteService.Create(ctx, p.UserID, service.NoteInput(req))
	if err != nil {
		writeNoteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toNoteResponse(n))
}

func (h *NotesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := httpx.PrincipalFromContext(ctx)

	n, err := h.NoteService.Get(ctx, p.UserID, r.PathValue("id"))
	if err != nil {
		writeNoteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNoteResponse(n))
}

func (h *NotesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := httpx.PrincipalFromContext(ctx)

	notes, err := h.NoteService.ListByUser(ctx, p.UserID)
	if err != nil {
		writeNoteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNoteResponses(notes))
}

func (h *NotesHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := httpx.PrincipalFromContext(ctx)

	term := r.URL.Query().Get("title")
	notes, err := h.NoteService.SearchByTitle(ctx, p.UserID, term)
	if err != nil {
		writeNoteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNoteResponses(notes))
}

func (h *NotesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := httpx.PrincipalFromContext(ctx)

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	n, err := h.NoteService.Update(ctx, p.UserID, r.PathValue("id"), service.NoteInput(req))
	if err != nil {
		writeNoteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNoteResponse(n))
}

func (h *NotesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := httpx.PrincipalFromContext(ctx)

	if err := h.NoteService.Delete(ctx, p.UserID, r.PathValue("id")); err != nil {
		writeNoteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeNoteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Note not found")
	case errors.Is(err, service.ErrTitleRequired):
		httpx.WriteError(w, http.StatusBadRequest, "Title is required")
	default:
		slogx.FromContext(r.Context()).Error("note operation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
