package server

import (
	"net/http"
)

// credentialsRequest is the body of register and login. Login also accepts "username".
type credentialsRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c credentialsRequest) login() string {
	if c.Login != "" {
		return c.Login
	}
	return c.Username
}

// RegisterHandler handles user registration requests
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "[Register]", err)
		return
	}

	profile, err := h.accounts.Register(r.Context(), req.login(), req.Password)
	if err != nil {
		writeError(w, r, "[Register]", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    profile,
	})
}

// LoginHandler handles user login requests
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "[Login]", err)
		return
	}

	result, err := h.accounts.Login(r.Context(), req.login(), req.Password)
	if err != nil {
		writeError(w, r, "[Login]", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
