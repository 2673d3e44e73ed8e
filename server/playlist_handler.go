package server

import (
	"fmt"
	"net/http"
	"strings"

	"Tunebox/model"
)

// GetPlaylistsHandler lists the caller's playlists.
func (h *APIHandler) GetPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.playlistRepo.ListPlaylistsByUser(r.Context(), identity(r).UserID)
	if err != nil {
		writeError(w, r, "[Playlist]", err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

// CreatePlaylistHandler creates an empty playlist owned by the caller.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "[Playlist]", err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(w, r, "[Playlist]", fmt.Errorf("%w: title is required", errBadRequest))
		return
	}

	playlist := &model.Playlist{UserID: identity(r).UserID, Title: title}
	if _, err := h.playlistRepo.CreatePlaylist(r.Context(), playlist); err != nil {
		writeError(w, r, "[Playlist]", err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

// GetPlaylistHandler returns one of the caller's playlists with its tracks.
// Playlists of other users are reported as missing.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.ownPlaylist(r)
	if err != nil {
		writeError(w, r, "[Playlist]", err)
		return
	}

	tracks, err := h.playlistRepo.ListPlaylistTracks(r.Context(), playlist.ID)
	if err != nil {
		writeError(w, r, "[Playlist]", err)
		return
	}
	writeJSON(w, http.StatusOK, &model.PlaylistWithTracks{
		Playlist: playlist,
		Tracks:   h.urls.Views(tracks),
	})
}

// GetPlaylistTracksHandler returns the tracks of one of the caller's playlists in order.
func (h *APIHandler) GetPlaylistTracksHandler(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.ownPlaylist(r)
	if err != nil {
		writeError(w, r, "[Playlist]", err)
		return
	}

	tracks, err := h.playlistRepo.ListPlaylistTracks(r.Context(), playlist.ID)
	if err != nil {
		writeError(w, r, "[Playlist]", err)
		return
	}
	writeJSON(w, http.StatusOK, h.urls.Views(tracks))
}

// AddToPlaylistHandler appends a track to a playlist.
// Neither the playlist owner nor the track is checked.
func (h *APIHandler) AddToPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlistID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, "[Playlist]", err)
		return
	}

	var req struct {
		TrackID int64 `json:"track_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "[Playlist]", err)
		return
	}
	if req.TrackID <= 0 {
		writeError(w, r, "[Playlist]", fmt.Errorf("%w: track_id is required", errBadRequest))
		return
	}

	entry, err := h.playlistRepo.AddTrackToPlaylist(r.Context(), playlistID, req.TrackID)
	if err != nil {
		writeError(w, r, "[Playlist]", err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *APIHandler) ownPlaylist(r *http.Request) (*model.Playlist, error) {
	playlistID, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	playlist, err := h.playlistRepo.GetPlaylistForUser(r.Context(), playlistID, identity(r).UserID)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, fmt.Errorf("%w: playlist %d", errNotFound, playlistID)
	}
	return playlist, nil
}
