package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// fakeBucket is a minimal S3 endpoint that honours If-None-Match on PUT.
type fakeBucket struct {
	mu          sync.Mutex
	objects     map[string]bool
	ifNoneMatch []string
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	io.Copy(io.Discard, r.Body)
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.ifNoneMatch = append(b.ifNoneMatch, r.Header.Get("If-None-Match"))
	if b.objects[r.URL.Path] && r.Header.Get("If-None-Match") == "*" {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusPreconditionFailed)
		io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
			`<Error><Code>PreconditionFailed</Code>`+
			`<Message>At least one of the pre-conditions you specified did not hold</Message>`+
			`<Key>`+strings.TrimPrefix(r.URL.Path, "/tunebox/")+`</Key><BucketName>tunebox</BucketName></Error>`)
		return
	}
	b.objects[r.URL.Path] = true
	w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
	w.WriteHeader(http.StatusOK)
}

func TestMinioAreaSave(t *testing.T) {
	ctx := context.Background()
	bucket := &fakeBucket{objects: make(map[string]bool)}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	client, err := minio.New(strings.TrimPrefix(srv.URL, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Region: "us-east-1",
	})
	if err != nil {
		t.Fatalf("minio.New failed: %v", err)
	}
	area := &MinioArea{client: client, bucketName: "tunebox"}

	if err := area.Save(ctx, "1-abcd-song.mp3", strings.NewReader("ID3data"), 7, "audio/mpeg"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	err = area.Save(ctx, "1-abcd-song.mp3", strings.NewReader("other"), 5, "audio/mpeg")
	if !errors.Is(err, ErrExist) {
		t.Fatalf("expected ErrExist, got %v", err)
	}

	bucket.mu.Lock()
	defer bucket.mu.Unlock()
	if len(bucket.ifNoneMatch) != 2 {
		t.Fatalf("expected 2 puts, got %d", len(bucket.ifNoneMatch))
	}
	for i, h := range bucket.ifNoneMatch {
		if h != "*" {
			t.Errorf("put %d: expected If-None-Match *, got %q", i, h)
		}
	}
}

func TestIsPreconditionFailed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Code", minio.ErrorResponse{Code: "PreconditionFailed"}, true},
		{"Status", minio.ErrorResponse{StatusCode: http.StatusPreconditionFailed}, true},
		{"Missing", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, false},
		{"Plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPreconditionFailed(tt.err); got != tt.want {
				t.Errorf("isPreconditionFailed(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
