package server

import (
	"fmt"
	"net/http"
	"strings"

	"Tunebox/model"
)

// GetCommentsHandler lists the comments of a track, oldest first.
func (h *APIHandler) GetCommentsHandler(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, "[Comments]", err)
		return
	}

	comments, err := h.commentRepo.ListCommentsByTrack(r.Context(), trackID)
	if err != nil {
		writeError(w, r, "[Comments]", err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// CreateCommentHandler appends a comment by the caller to an existing track.
func (h *APIHandler) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "[Comments]", err)
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, r, "[Comments]", fmt.Errorf("%w: text is required", errBadRequest))
		return
	}

	track, err := h.loadTrack(r)
	if err != nil {
		writeError(w, r, "[Comments]", err)
		return
	}

	caller := identity(r)
	comment := &model.Comment{UserID: caller.UserID, TrackID: track.ID, Text: text}
	if _, err := h.commentRepo.CreateComment(r.Context(), comment); err != nil {
		writeError(w, r, "[Comments]", err)
		return
	}
	writeJSON(w, http.StatusCreated, &model.CommentView{Comment: *comment, Login: caller.Login})
}
