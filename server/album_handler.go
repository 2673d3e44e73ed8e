package server

import (
	"fmt"
	"net/http"
	"strings"

	"Tunebox/logger"
	"Tunebox/model"
	"Tunebox/repository"
)

// GetAlbumsHandler 获取专辑列表
func (h *APIHandler) GetAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albumRepo.ListAlbums(r.Context())
	if err != nil {
		writeError(w, r, "[Albums]", err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// CreateAlbumHandler 创建新专辑
func (h *APIHandler) CreateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "[Albums]", err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(w, r, "[Albums]", fmt.Errorf("%w: title is required", errBadRequest))
		return
	}

	album := &model.Album{Title: title}
	if _, err := h.albumRepo.CreateAlbum(r.Context(), album); err != nil {
		writeError(w, r, "[Albums]", err)
		return
	}

	logger.Info("[Albums] album created", logger.Int64("albumId", album.ID), logger.String("title", title))
	writeJSON(w, http.StatusCreated, album)
}

// GetAlbumHandler 获取专辑详情及其歌曲
func (h *APIHandler) GetAlbumHandler(w http.ResponseWriter, r *http.Request) {
	albumID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, "[Albums]", err)
		return
	}

	album, err := h.albumRepo.GetAlbumByID(r.Context(), albumID)
	if err != nil {
		writeError(w, r, "[Albums]", err)
		return
	}
	if album == nil {
		writeError(w, r, "[Albums]", fmt.Errorf("%w: album %d", errNotFound, albumID))
		return
	}

	tracks, err := h.trackRepo.ListTracks(r.Context(), repository.TrackFilter{AlbumID: &albumID})
	if err != nil {
		writeError(w, r, "[Albums]", err)
		return
	}

	writeJSON(w, http.StatusOK, &model.AlbumWithTracks{
		Album:  album,
		Tracks: h.urls.Views(tracks),
	})
}
