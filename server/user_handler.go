package server

import (
	"net/http"
)

// GetUserProfileHandler returns the profile of the authenticated caller.
func (h *APIHandler) GetUserProfileHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := h.accounts.Profile(r.Context(), identity(r).UserID)
	if err != nil {
		writeError(w, r, "[Profile]", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
