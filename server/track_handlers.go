package server

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"Tunebox/core/media"
	"Tunebox/logger"
	"Tunebox/model"
	"Tunebox/repository"
	"Tunebox/storage"
)

// multipartMemory is the part of a multipart body kept in memory; the rest spills to temp files.
const multipartMemory = 32 << 20

// createExternalTrackRequest is the JSON form of POST /api/tracks.
type createExternalTrackRequest struct {
	GoogleDriveAudioID string `json:"google_drive_audio_id"`
	ExternalAudioID    string `json:"external_audio_id"`
	GoogleDriveCoverID string `json:"google_drive_cover_id"`
	ExternalCoverID    string `json:"external_cover_id"`
	Title              string `json:"title"`
	Lyrics             string `json:"lyrics"`
	AlbumID            *int64 `json:"album_id"`
}

type externalCoverRequest struct {
	GoogleDriveCoverID string `json:"google_drive_cover_id"`
	ExternalCoverID    string `json:"external_cover_id"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// GetTracksHandler lists tracks newest first, optionally filtered by ?album_id=.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	var filter repository.TrackFilter
	if raw := r.URL.Query().Get("album_id"); raw != "" {
		albumID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, r, "[Tracks]", fmt.Errorf("%w: invalid album_id", errBadRequest))
			return
		}
		filter.AlbumID = &albumID
	}

	tracks, err := h.trackRepo.ListTracks(r.Context(), filter)
	if err != nil {
		writeError(w, r, "[Tracks]", err)
		return
	}
	writeJSON(w, http.StatusOK, h.urls.Views(tracks))
}

// GetTrackHandler returns one track with its derived URLs.
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	track, err := h.loadTrack(r)
	if err != nil {
		writeError(w, r, "[Track]", err)
		return
	}
	writeJSON(w, http.StatusOK, h.urls.View(track))
}

// UploadTrackHandler creates a track from a multipart upload or from external ids in JSON.
func (h *APIHandler) UploadTrackHandler(w http.ResponseWriter, r *http.Request) {
	var (
		track *model.Track
		err   error
	)
	if isMultipart(r) {
		track, err = h.createUploadedTrack(w, r)
	} else {
		track, err = h.createExternalTrack(w, r)
	}
	if err != nil {
		writeError(w, r, "[Upload]", err)
		return
	}

	logger.Info("[Upload] track created",
		logger.Int64("trackId", track.ID),
		logger.String("storage", track.StorageMode()),
		logger.Int64("userId", identity(r).UserID))
	writeJSON(w, http.StatusCreated, h.urls.View(track))
}

func (h *APIHandler) createUploadedTrack(w http.ResponseWriter, r *http.Request) (*model.Track, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to parse form", errBadRequest)
	}
	defer r.MultipartForm.RemoveAll()

	audio, closeAudio, err := formUpload(r, "file", "audio")
	if err != nil {
		return nil, err
	}
	if audio == nil {
		return nil, fmt.Errorf("%w: audio file is required", errBadRequest)
	}
	defer closeAudio()

	cover, closeCover, err := formUpload(r, "cover")
	if err != nil {
		return nil, err
	}
	if cover != nil {
		defer closeCover()
	}

	uploaderID := identity(r).UserID
	opts := media.TrackOptions{
		Title:  r.FormValue("title"),
		Lyrics: r.FormValue("lyrics"),
		UserID: &uploaderID,
	}
	if raw := strings.TrimSpace(r.FormValue("album_id")); raw != "" {
		albumID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid album_id", errBadRequest)
		}
		opts.AlbumID = &albumID
	}
	if err := h.checkAlbum(r, opts.AlbumID); err != nil {
		return nil, err
	}

	return h.ingestor.IngestTrack(r.Context(), *audio, cover, opts)
}

func (h *APIHandler) createExternalTrack(w http.ResponseWriter, r *http.Request) (*model.Track, error) {
	var req createExternalTrackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	if err := h.checkAlbum(r, req.AlbumID); err != nil {
		return nil, err
	}

	uploaderID := identity(r).UserID
	return h.ingestor.CreateExternalTrack(r.Context(), media.ExternalTrack{
		AudioID: firstNonEmpty(req.GoogleDriveAudioID, req.ExternalAudioID),
		CoverID: firstNonEmpty(req.GoogleDriveCoverID, req.ExternalCoverID),
		TrackOptions: media.TrackOptions{
			Title:   req.Title,
			Lyrics:  req.Lyrics,
			AlbumID: req.AlbumID,
			UserID:  &uploaderID,
		},
	})
}

// checkAlbum verifies that a referenced album exists.
func (h *APIHandler) checkAlbum(r *http.Request, albumID *int64) error {
	if albumID == nil {
		return nil
	}
	album, err := h.albumRepo.GetAlbumByID(r.Context(), *albumID)
	if err != nil {
		return err
	}
	if album == nil {
		return fmt.Errorf("%w: album %d does not exist", errBadRequest, *albumID)
	}
	return nil
}

// formUpload opens the first present file field among names. It returns a nil
// Upload when none is present.
func formUpload(r *http.Request, names ...string) (*media.Upload, func(), error) {
	for _, name := range names {
		file, header, err := r.FormFile(name)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: failed to read %s", errBadRequest, name)
		}
		return uploadFromPart(file, header), func() { file.Close() }, nil
	}
	return nil, func() {}, nil
}

func uploadFromPart(file multipart.File, header *multipart.FileHeader) *media.Upload {
	return &media.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
}

// UploadCoverHandler attaches a cover file, or a cover id for externally hosted tracks.
func (h *APIHandler) UploadCoverHandler(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, "[Cover]", err)
		return
	}

	var track *model.Track
	if isMultipart(r) {
		track, err = h.attachCoverFile(w, r, trackID)
	} else {
		var req externalCoverRequest
		if err = decodeJSON(w, r, &req); err == nil {
			track, err = h.ingestor.AttachExternalCover(r.Context(), trackID,
				firstNonEmpty(req.GoogleDriveCoverID, req.ExternalCoverID))
		}
	}
	if err != nil {
		writeError(w, r, "[Cover]", err)
		return
	}

	logger.Info("[Cover] cover attached", logger.Int64("trackId", trackID))
	writeJSON(w, http.StatusOK, h.urls.View(track))
}

func (h *APIHandler) attachCoverFile(w http.ResponseWriter, r *http.Request, trackID int64) (*model.Track, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to parse form", errBadRequest)
	}
	defer r.MultipartForm.RemoveAll()

	cover, closeCover, err := formUpload(r, "cover")
	if err != nil {
		return nil, err
	}
	if cover == nil {
		return nil, fmt.Errorf("%w: cover file is required", errBadRequest)
	}
	defer closeCover()

	return h.ingestor.AttachCover(r.Context(), trackID, *cover)
}

// DownloadTrackHandler streams the stored audio as an attachment.
// Externally hosted tracks redirect to their derived URL.
func (h *APIHandler) DownloadTrackHandler(w http.ResponseWriter, r *http.Request) {
	track, err := h.loadTrack(r)
	if err != nil {
		writeError(w, r, "[Download]", err)
		return
	}

	if track.StorageMode() == model.StorageExternal {
		http.Redirect(w, r, h.urls.FileURL(track), http.StatusFound)
		return
	}
	if track.Filename == nil {
		writeError(w, r, "[Download]", fmt.Errorf("%w: track %d has no file", errNotFound, track.ID))
		return
	}

	file, info, err := h.files.Open(r.Context(), *track.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			err = fmt.Errorf("%w: file of track %d", errNotFound, track.ID)
		}
		writeError(w, r, "[Download]", err)
		return
	}
	defer file.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": *track.Filename,
	}))
	http.ServeContent(w, r, *track.Filename, info.LastModified, file)
}

// DeleteTrackHandler removes the track row. Stored files and dependent rows are kept.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, "[Delete]", err)
		return
	}

	if err := h.trackRepo.DeleteTrack(r.Context(), trackID); err != nil {
		writeError(w, r, "[Delete]", err)
		return
	}

	logger.Info("[Delete] track deleted",
		logger.Int64("trackId", trackID),
		logger.Int64("userId", identity(r).UserID))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// loadTrack resolves the {id} route variable to an existing track.
func (h *APIHandler) loadTrack(r *http.Request) (*model.Track, error) {
	trackID, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	track, err := h.trackRepo.GetTrackByID(r.Context(), trackID)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, fmt.Errorf("%w: track %d", errNotFound, trackID)
	}
	return track, nil
}
