package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalArea stores files in a single directory on the local filesystem.
type LocalArea struct {
	dir string
}

// NewLocalArea creates dir if needed and returns a LocalArea rooted there.
func NewLocalArea(dir string) (*LocalArea, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalArea{dir: dir}, nil
}

func (a *LocalArea) Location() string {
	return a.dir
}

// Save creates the file exclusively and removes it again if the copy fails.
func (a *LocalArea) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := filepath.Join(a.dir, name)
	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExist, name)
		}
		return fmt.Errorf("failed to create file %s: %w", name, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(fullPath)
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to close file %s: %w", name, err)
	}
	return nil
}

func (a *LocalArea) Open(ctx context.Context, name string) (File, *ObjectInfo, error) {
	if err := ValidateName(name); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(a.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotExist, name)
		}
		return nil, nil, fmt.Errorf("failed to open file %s: %w", name, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat file %s: %w", name, err)
	}
	if stat.IsDir() {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s", ErrNotExist, name)
	}

	return f, &ObjectInfo{
		Key:          name,
		Size:         stat.Size(),
		LastModified: stat.ModTime(),
		ContentType:  mime.TypeByExtension(filepath.Ext(name)),
	}, nil
}

// Remove deletes the named file. Removing a missing file is not an error.
func (a *LocalArea) Remove(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(a.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove file %s: %w", name, err)
	}
	return nil
}

// List returns regular files whose name starts with prefix, sorted by name.
func (a *LocalArea) List(ctx context.Context, prefix string) ([]ObjectInfo, *BucketStats, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read upload directory %s: %w", a.dir, err)
	}

	stats := &BucketStats{}
	objects := make([]ObjectInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		stats.add(info.Size(), info.ModTime())
		objects = append(objects, ObjectInfo{
			Key:          entry.Name(),
			Size:         info.Size(),
			LastModified: info.ModTime(),
			ContentType:  mime.TypeByExtension(filepath.Ext(entry.Name())),
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, stats, nil
}
