package media

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrUnsupportedMediaType is returned when an upload's MIME type is not allowed.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrValidation is returned for missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when the referenced track does not exist.
	ErrNotFound = errors.New("track not found")
	// ErrStorage wraps failures of the file area.
	ErrStorage = errors.New("storage error")
	// ErrDatabase wraps failures of the track store.
	ErrDatabase = errors.New("database error")
)

// Upload is one incoming file.
type Upload struct {
	Filename    string // client-side name, untrusted
	ContentType string
	Size        int64 // -1 when unknown
	Body        io.Reader
}

// AudioTypes maps each accepted audio MIME type to its fallback extension.
var AudioTypes = map[string]string{
	"audio/mpeg":   ".mp3",
	"audio/mp3":    ".mp3",
	"audio/wav":    ".wav",
	"audio/x-wav":  ".wav",
	"audio/wave":   ".wav",
	"audio/flac":   ".flac",
	"audio/x-flac": ".flac",
}

// ImageTypes maps each accepted cover MIME type to its fallback extension.
var ImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// normalizeMediaType strips parameters and lowercases a Content-Type value.
func normalizeMediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// checkType returns the normalized type when it is one of allowed.
func checkType(contentType string, allowed map[string]string) (string, error) {
	mediaType := normalizeMediaType(contentType)
	if _, ok := allowed[mediaType]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, contentType)
	}
	return mediaType, nil
}

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_\-\.]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

const maxNameLength = 100

// SanitizeFilename reduces a client-supplied name to a safe base name.
// It returns "" when nothing usable survives.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}

	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, ".")

	if len(name) > maxNameLength {
		ext := path.Ext(name)
		if len(ext) >= maxNameLength {
			ext = ""
		}
		name = name[:maxNameLength-len(ext)] + ext
	}
	return name
}

func randomSuffix() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// storedName builds "<unix-nanos>-<8 hex>-<sanitized name>".
func storedName(now time.Time, original, fallbackExt string) (string, error) {
	suffix, err := randomSuffix()
	if err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}
	base := SanitizeFilename(original)
	if base == "" {
		base = "upload" + fallbackExt
	}
	return fmt.Sprintf("%d-%s-%s", now.UnixNano(), suffix, base), nil
}
