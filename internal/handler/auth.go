package handler

import (
	"encoding/json"
	"net/http"

	"github.com/voxboard-ai/dashboard-core/internal/auth"
	"github.com/voxboard-ai/dashboard-core/pkg/logger"
)

// AuthHandler handles session lifecycle endpoints.
type AuthHandler struct {
	simulator *auth.Simulator
	logger    *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sim *auth.Simulator, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		simulator: sim,
		logger:    log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.simulator.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if auth.IsAuthError(err) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.simulator.Signup(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if auth.IsAuthError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "signup failed")
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.simulator.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.simulator.Session())
}
