package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/noman024/pixalate-brandsafety/internal/errors"
)

func newTestAcquirer(t *testing.T) *LocalAcquirer {
	t.Helper()
	a, err := NewLocalAcquirer(t.TempDir(), 5*time.Second)
	if err != nil {
		t.Fatalf("failed to build acquirer: %v", err)
	}
	return a
}

func TestAcquireFromUpload(t *testing.T) {
	a := newTestAcquirer(t)
	payload := "fake image bytes"

	record, err := a.AcquireFromUpload(strings.NewReader(payload), "cat.png", "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(record.ID, ".jpg") {
		t.Errorf("stored identifier must carry the canonical extension, got %q", record.ID)
	}
	if record.Origin != OriginUpload {
		t.Errorf("expected origin %q, got %q", OriginUpload, record.Origin)
	}
	if record.Source != "cat.png" {
		t.Errorf("original filename not recorded: %q", record.Source)
	}
	if record.Size != int64(len(payload)) {
		t.Errorf("expected size %d, got %d", len(payload), record.Size)
	}

	data, err := os.ReadFile(record.Path)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != payload {
		t.Error("stored bytes differ from the uploaded stream")
	}
}

func TestAcquireFromUpload_UniqueIdentifiers(t *testing.T) {
	a := newTestAcquirer(t)

	first, err := a.AcquireFromUpload(strings.NewReader("one"), "same.jpg", "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.AcquireFromUpload(strings.NewReader("two"), "same.jpg", "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == second.ID {
		t.Errorf("two acquisitions produced the same identifier %q", first.ID)
	}
}

func TestAcquireFromURL(t *testing.T) {
	payload := "remote image bytes"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	a := newTestAcquirer(t)
	record, err := a.AcquireFromURL(context.Background(), server.URL+"/banner.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.Origin != OriginRemoteURL {
		t.Errorf("expected origin %q, got %q", OriginRemoteURL, record.Origin)
	}
	if record.Source != server.URL+"/banner.jpg" {
		t.Errorf("source URL not recorded: %q", record.Source)
	}
	if record.ContentType != "image/jpeg" {
		t.Errorf("content type not captured: %q", record.ContentType)
	}

	data, err := os.ReadFile(record.Path)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != payload {
		t.Error("stored bytes differ from the downloaded body")
	}
}

func TestAcquireFromURL_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	a := newTestAcquirer(t)
	record, err := a.AcquireFromURL(context.Background(), server.URL+"/missing.jpg")
	if record != nil {
		t.Fatal("expected no record for a failed download")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeAcquisition) {
		t.Fatalf("expected an acquisition error, got %v", err)
	}
	if !strings.Contains(err.Error(), "status code 404") {
		t.Errorf("error should name the status code: %v", err)
	}

	// A rejected download must not leave a partial artifact behind.
	entries, err := os.ReadDir(a.dataDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected an empty data dir, found %d entries", len(entries))
	}
}

func TestAcquireFromURL_ConnectionRefused(t *testing.T) {
	a := newTestAcquirer(t)

	_, err := a.AcquireFromURL(context.Background(), "http://127.0.0.1:1/unreachable.jpg")
	if !apperrors.IsType(err, apperrors.ErrorTypeAcquisition) {
		t.Fatalf("expected an acquisition error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	a := newTestAcquirer(t)
	record, err := a.AcquireFromUpload(strings.NewReader("bytes"), "x.jpg", "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}

	if err := a.Delete(record); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(record.Path); !os.IsNotExist(err) {
		t.Error("artifact still present after delete")
	}

	if err := a.Delete(&ImageRecord{ID: "nope.jpg", Path: filepath.Join(a.dataDir, "nope.jpg")}); err == nil {
		t.Error("deleting a missing artifact should report an error")
	}
}
