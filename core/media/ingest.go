package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"Tunebox/logger"
	"Tunebox/model"
	"Tunebox/repository"
	"Tunebox/storage"

	"github.com/bogem/id3v2"
)

// DefaultTitle is used when neither the request nor the file carries a title.
const DefaultTitle = "Untitled"

// TrackOptions carries the optional metadata of a new track.
type TrackOptions struct {
	Title   string
	Lyrics  string
	AlbumID *int64
	UserID  *int64
}

// ExternalTrack describes a track whose bytes are hosted elsewhere.
type ExternalTrack struct {
	AudioID string
	CoverID string
	TrackOptions
}

// Ingestor validates uploads, writes them to the file area and records tracks.
type Ingestor struct {
	tracks repository.TrackRepository
	files  storage.FileArea
	now    func() time.Time
}

// NewIngestor creates an Ingestor.
func NewIngestor(tracks repository.TrackRepository, files storage.FileArea) *Ingestor {
	return &Ingestor{
		tracks: tracks,
		files:  files,
		now:    time.Now,
	}
}

// IngestTrack stores audio and the optional cover, then records the track.
// Bytes are written before the row; if recording fails the written files are removed.
func (i *Ingestor) IngestTrack(ctx context.Context, audio Upload, cover *Upload, opts TrackOptions) (*model.Track, error) {
	audioType, err := checkType(audio.ContentType, AudioTypes)
	if err != nil {
		return nil, err
	}
	var coverType string
	if cover != nil {
		if coverType, err = checkType(cover.ContentType, ImageTypes); err != nil {
			return nil, err
		}
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" && (audioType == "audio/mpeg" || audioType == "audio/mp3") {
		if title, err = id3Title(audio.Body); err != nil {
			return nil, err
		}
	}
	if title == "" {
		title = DefaultTitle
	}

	audioName, err := i.save(ctx, audio, audioType, AudioTypes)
	if err != nil {
		return nil, err
	}
	written := []string{audioName}

	track := &model.Track{
		Title:    title,
		Filename: &audioName,
		Lyrics:   normalizeLyrics(opts.Lyrics),
		UserID:   opts.UserID,
		AlbumID:  opts.AlbumID,
	}

	if cover != nil {
		coverName, err := i.save(ctx, *cover, coverType, ImageTypes)
		if err != nil {
			i.cleanup(written...)
			return nil, err
		}
		written = append(written, coverName)
		track.CoverFilename = &coverName
	}

	if _, err := i.tracks.CreateTrack(ctx, track); err != nil {
		i.cleanup(written...)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	logger.Info("Track ingested",
		logger.Int64("trackId", track.ID),
		logger.String("filename", audioName),
		logger.Bool("hasCover", track.CoverFilename != nil))
	return track, nil
}

// AttachCover stores a new cover file for a local track and points the row at it.
// Repeating the call replaces the cover; the previous file is kept.
func (i *Ingestor) AttachCover(ctx context.Context, trackID int64, cover Upload) (*model.Track, error) {
	coverType, err := checkType(cover.ContentType, ImageTypes)
	if err != nil {
		return nil, err
	}

	track, err := i.getTrack(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if track.StorageMode() == model.StorageExternal {
		return nil, fmt.Errorf("%w: track %d is stored externally and takes a cover id", ErrValidation, trackID)
	}

	coverName, err := i.save(ctx, cover, coverType, ImageTypes)
	if err != nil {
		return nil, err
	}
	if err := i.tracks.UpdateTrackCover(ctx, trackID, repository.TrackCover{Filename: &coverName}); err != nil {
		i.cleanup(coverName)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	track.CoverFilename = &coverName
	return track, nil
}

// AttachExternalCover sets the cover id of an externally hosted track.
func (i *Ingestor) AttachExternalCover(ctx context.Context, trackID int64, coverID string) (*model.Track, error) {
	coverID = strings.TrimSpace(coverID)
	if coverID == "" {
		return nil, fmt.Errorf("%w: cover id is required", ErrValidation)
	}

	track, err := i.getTrack(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if track.StorageMode() != model.StorageExternal {
		return nil, fmt.Errorf("%w: track %d is stored locally and takes a cover file", ErrValidation, trackID)
	}

	if err := i.tracks.UpdateTrackCover(ctx, trackID, repository.TrackCover{ExternalID: &coverID}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	track.ExternalCoverID = &coverID
	return track, nil
}

// CreateExternalTrack records a track hosted outside the file area.
// The identifiers are not checked against the remote host.
func (i *Ingestor) CreateExternalTrack(ctx context.Context, ext ExternalTrack) (*model.Track, error) {
	audioID := strings.TrimSpace(ext.AudioID)
	if audioID == "" {
		return nil, fmt.Errorf("%w: external audio id is required", ErrValidation)
	}

	title := strings.TrimSpace(ext.Title)
	if title == "" {
		title = DefaultTitle
	}
	track := &model.Track{
		Title:           title,
		ExternalAudioID: &audioID,
		Lyrics:          normalizeLyrics(ext.Lyrics),
		UserID:          ext.UserID,
		AlbumID:         ext.AlbumID,
	}
	if coverID := strings.TrimSpace(ext.CoverID); coverID != "" {
		track.ExternalCoverID = &coverID
	}

	if _, err := i.tracks.CreateTrack(ctx, track); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return track, nil
}

func (i *Ingestor) getTrack(ctx context.Context, id int64) (*model.Track, error) {
	track, err := i.tracks.GetTrackByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if track == nil {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return track, nil
}

// save writes u under a fresh storage name. A name collision is retried once with a new name.
func (i *Ingestor) save(ctx context.Context, u Upload, mediaType string, allowed map[string]string) (string, error) {
	for attempt := 0; ; attempt++ {
		name, err := storedName(i.now(), u.Filename, allowed[mediaType])
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrStorage, err)
		}
		err = i.files.Save(ctx, name, u.Body, u.Size, mediaType)
		if err == nil {
			return name, nil
		}
		if errors.Is(err, storage.ErrExist) && attempt == 0 {
			continue
		}
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
}

func (i *Ingestor) cleanup(names ...string) {
	// The request context may already be cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, name := range names {
		if err := i.files.Remove(ctx, name); err != nil {
			logger.Error("Failed to remove orphaned upload",
				logger.String("filename", name),
				logger.ErrorField(err))
		}
	}
}

func normalizeLyrics(lyrics string) *string {
	lyrics = strings.TrimSpace(lyrics)
	if lyrics == "" {
		return nil
	}
	return &lyrics
}

// id3Title reads the ID3v2 title of an MP3 body and rewinds it.
// The title is "" when the body cannot seek or carries no title; an error
// means the body could not be rewound and must not be stored.
func id3Title(body io.Reader) (string, error) {
	rs, ok := body.(io.ReadSeeker)
	if !ok {
		return "", nil
	}

	var title string
	tag, err := id3v2.ParseReader(rs, id3v2.Options{Parse: true, ParseFrames: []string{"Title"}})
	if err != nil {
		logger.Debug("No readable ID3 tag", logger.ErrorField(err))
	} else {
		title = strings.TrimSpace(tag.Title())
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: failed to rewind upload: %v", ErrStorage, err)
	}
	return title, nil
}
