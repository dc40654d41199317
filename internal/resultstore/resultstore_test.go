package resultstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/noman024/pixalate-brandsafety/internal/storage"
	"github.com/noman024/pixalate-brandsafety/pkg/models"
)

func TestResultsFilename(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"jpg extension stripped", "1f2e3d.jpg", "1f2e3d_results.json"},
		{"no extension", "1f2e3d", "1f2e3d_results.json"},
		{"only the last extension stripped", "archive.tar.jpg", "archive.tar_results.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResultsFilename(&storage.ImageRecord{ID: tt.id})
			if got != tt.want {
				t.Errorf("ResultsFilename(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func sampleResult(path string) *models.Result {
	r := &models.Result{ImagePath: path}
	for _, category := range models.Categories {
		r.Categories = append(r.Categories, models.CategoryRating{
			Category:    category,
			Rating:      models.RatingLow,
			Confidence:  "91%",
			Explanation: "no signal for " + string(category),
		})
	}
	return r
}

func TestLocalResultStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalResultStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	record := &storage.ImageRecord{ID: "abc123.jpg", Path: filepath.Join(dir, "abc123.jpg")}
	result := sampleResult(record.Path)

	path, err := store.Save(context.Background(), result, record)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if path != filepath.Join(dir, "abc123_results.json") {
		t.Errorf("unexpected results path: %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("results file unreadable: %v", err)
	}

	var restored models.Result
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("results file is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(result, &restored) {
		t.Error("persisted result differs from the in-memory one")
	}
}

func TestLocalResultStore_SaveDegraded(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalResultStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	record := &storage.ImageRecord{ID: "bad456.jpg"}
	result := models.NewDegradedResult("data/bad456.jpg", "model said something odd")

	path, err := store.Save(context.Background(), result, record)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var flat map[string]interface{}
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatal(err)
	}
	if flat["raw_response"] != "model said something odd" {
		t.Errorf("raw response not persisted: %v", flat["raw_response"])
	}
	if flat["error"] != "Failed to parse model response" {
		t.Errorf("unexpected error field: %v", flat["error"])
	}
}

func TestLocalResultStore_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalResultStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	// Point the store at a path that cannot be a directory.
	store.dataDir = filepath.Join(dir, "not-a-dir", "nested")

	record := &storage.ImageRecord{ID: "x.jpg"}
	if _, err := store.Save(context.Background(), sampleResult("x"), record); err == nil {
		t.Error("expected a persistence error for an unwritable directory")
	}
}
