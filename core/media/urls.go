package media

import (
	"net/url"

	"Tunebox/config"
	"Tunebox/model"
)

// URLBuilder derives client-facing URLs for stored tracks.
type URLBuilder struct {
	UploadPrefix      string // e.g. "/uploads"
	ExternalAudioBase string
	ExternalCoverBase string
}

// NewURLBuilder returns a URLBuilder configured from cfg.
func NewURLBuilder(cfg *config.Config) URLBuilder {
	return URLBuilder{
		UploadPrefix:      cfg.UploadURLPrefix,
		ExternalAudioBase: cfg.ExternalAudioURLBase,
		ExternalCoverBase: cfg.ExternalCoverURLBase,
	}
}

func (b URLBuilder) local(name string) string {
	return b.UploadPrefix + "/" + url.PathEscape(name)
}

// FileURL returns the audio URL of t, or "" when it has none.
func (b URLBuilder) FileURL(t *model.Track) string {
	switch {
	case t.ExternalAudioID != nil:
		return b.ExternalAudioBase + url.QueryEscape(*t.ExternalAudioID)
	case t.Filename != nil:
		return b.local(*t.Filename)
	default:
		return ""
	}
}

// CoverURL returns the cover URL of t, or nil when it has no cover.
func (b URLBuilder) CoverURL(t *model.Track) *string {
	var u string
	switch {
	case t.ExternalAudioID != nil:
		if t.ExternalCoverID == nil {
			return nil
		}
		u = b.ExternalCoverBase + url.QueryEscape(*t.ExternalCoverID)
	case t.CoverFilename != nil:
		u = b.local(*t.CoverFilename)
	default:
		return nil
	}
	return &u
}

// View attaches the derived URLs to t.
func (b URLBuilder) View(t *model.Track) *model.TrackView {
	return &model.TrackView{
		Track:       t,
		StorageMode: t.StorageMode(),
		FileURL:     b.FileURL(t),
		CoverURL:    b.CoverURL(t),
	}
}

// Views converts a list of tracks.
func (b URLBuilder) Views(tracks []*model.Track) []*model.TrackView {
	views := make([]*model.TrackView, 0, len(tracks))
	for _, t := range tracks {
		views = append(views, b.View(t))
	}
	return views
}
