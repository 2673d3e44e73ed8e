package server

import (
	"context"
	"net/http"
)

type likeStatus struct {
	TrackID int64 `json:"track_id"`
	Likes   int64 `json:"likes"`
	Liked   *bool `json:"liked,omitempty"`
}

// LikeTrackHandler records that the caller likes a track. Repeating it is harmless.
func (h *APIHandler) LikeTrackHandler(w http.ResponseWriter, r *http.Request) {
	track, err := h.loadTrack(r)
	if err != nil {
		writeError(w, r, "[Likes]", err)
		return
	}
	if err := h.likeRepo.Like(r.Context(), identity(r).UserID, track.ID); err != nil {
		writeError(w, r, "[Likes]", err)
		return
	}
	h.writeLikeStatus(w, r, track.ID, true)
}

// UnlikeTrackHandler removes the caller's like. It succeeds when there was none.
func (h *APIHandler) UnlikeTrackHandler(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, "[Likes]", err)
		return
	}
	if err := h.likeRepo.Unlike(r.Context(), identity(r).UserID, trackID); err != nil {
		writeError(w, r, "[Likes]", err)
		return
	}
	h.writeLikeStatus(w, r, trackID, false)
}

// GetLikesHandler reports the like count, and whether the caller likes the track when authenticated.
func (h *APIHandler) GetLikesHandler(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, "[Likes]", err)
		return
	}

	status, err := h.likeStatus(r.Context(), trackID)
	if err != nil {
		writeError(w, r, "[Likes]", err)
		return
	}
	if caller := identity(r); caller != nil {
		liked, err := h.likeRepo.HasLiked(r.Context(), caller.UserID, trackID)
		if err != nil {
			writeError(w, r, "[Likes]", err)
			return
		}
		status.Liked = &liked
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *APIHandler) writeLikeStatus(w http.ResponseWriter, r *http.Request, trackID int64, liked bool) {
	status, err := h.likeStatus(r.Context(), trackID)
	if err != nil {
		writeError(w, r, "[Likes]", err)
		return
	}
	status.Liked = &liked
	writeJSON(w, http.StatusOK, status)
}

func (h *APIHandler) likeStatus(ctx context.Context, trackID int64) (*likeStatus, error) {
	count, err := h.likeRepo.CountLikes(ctx, trackID)
	if err != nil {
		return nil, err
	}
	return &likeStatus{TrackID: trackID, Likes: count}, nil
}
