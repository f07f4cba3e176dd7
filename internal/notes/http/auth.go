package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kinotes/kinotes/internal/notes/service"
	"github.com/kinotes/kinotes/pkg/httpx"
	"github.com/kinotes/kinotes/pkg/slogx"
)

// invalidCredentialsMessage is the single message for every failed login.
// It never distinguishes a bad username from a bad password.
const invalidCredentialsMessage = "Invalid username or password"

// AuthHandler serves POST /api/auth/register and POST /api/auth/login.
type AuthHandler struct {
	AuthService *service.AuthService
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
	UserID   string `json:"userId"`
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	res, err := h.AuthService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			httpx.WriteError(w, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusBadRequest, "Email already exists")
		default:
			log.Error("registration failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	log.Info("user registered", "username", res.Username)
	httpx.WriteJSON(w, http.StatusCreated, authResponse{
		Token:    res.Token,
		Username: res.Username,
		Role:     res.Role,
		UserID:   res.UserID,
	})
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.AuthService.Login(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, invalidCredentialsMessage)
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Info("user logged in", "username", res.Username)
	httpx.WriteJSON(w, http.StatusOK, authResponse{
		Token:    res.Token,
		Username: res.Username,
		Role:     res.Role,
		UserID:   res.UserID,
	})
}
