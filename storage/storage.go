package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"Tunebox/config"
)

var (
	// ErrExist is returned by Save when the name is already taken.
	ErrExist = errors.New("file already exists")
	// ErrNotExist is returned when no file has the requested name.
	ErrNotExist = errors.New("file does not exist")
	// ErrInvalidName is returned for names that would escape the file area.
	ErrInvalidName = errors.New("invalid file name")
)

// File is an open stored file. It supports seeking so it can back range requests.
type File interface {
	io.ReadSeeker
	io.Closer
}

// ObjectInfo describes one stored file.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// BucketStats summarizes a listing.
type BucketStats struct {
	TotalObjects int64
	TotalSize    int64
	LastModified time.Time
}

// FileArea is a flat namespace of uploaded files addressed by storage name.
type FileArea interface {
	// Save writes r under name. It never overwrites: an existing name yields ErrExist,
	// checked atomically with the write (exclusive create locally, a conditional put
	// on MinIO). size may be -1 when unknown.
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (File, *ObjectInfo, error)
	Remove(ctx context.Context, name string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, *BucketStats, error)
	// Location names the backing directory or bucket, for logs and the CLI.
	Location() string
}

// New opens the file area selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (FileArea, error) {
	switch cfg.StorageBackend {
	case "local":
		return NewLocalArea(cfg.UploadDir)
	case "minio":
		return NewMinioArea(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}

// ValidateName rejects names that are empty, hidden, or contain path elements.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.HasPrefix(name, ".") ||
		strings.ContainsAny(name, `/\`) ||
		strings.ContainsRune(name, 0) ||
		path.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func (s *BucketStats) add(size int64, modified time.Time) {
	s.TotalObjects++
	s.TotalSize += size
	if modified.After(s.LastModified) {
		s.LastModified = modified
	}
}

// FormatSize renders a byte count with a binary unit, e.g. "1.5 MB".
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// Category groups a stored name by extension for usage reports.
func Category(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".mp3", ".wav", ".flac":
		return "audio"
	case ".jpg", ".jpeg", ".png", ".webp":
		return "image"
	default:
		return "other"
	}
}

// Usage sums object sizes per Category.
func Usage(objects []ObjectInfo) map[string]int64 {
	usage := make(map[string]int64)
	for _, obj := range objects {
		usage[Category(obj.Key)] += obj.Size
	}
	return usage
}
