package normalizer

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/noman024/pixalate-brandsafety/internal/config"
	apperrors "github.com/noman024/pixalate-brandsafety/internal/errors"
	"github.com/noman024/pixalate-brandsafety/internal/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxImageSize:     10 * 1024 * 1024,
		SupportedFormats: []string{"jpg", "jpeg", "png", "webp"},
	}
}

// writeImage encodes a solid-color image of the given size into a temp file
// and returns a record pointing at it.
func writeImage(t *testing.T, width, height int, encode func(*os.File, image.Image) error) *storage.ImageRecord {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "img")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := encode(f, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return &storage.ImageRecord{ID: "img", Path: path}
}

func encodeJPEG(f *os.File, img image.Image) error {
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}

func encodePNG(f *os.File, img image.Image) error {
	return png.Encode(f, img)
}

func TestValidate(t *testing.T) {
	n := NewImageNormalizer(testConfig())

	t.Run("jpeg passes", func(t *testing.T) {
		record := writeImage(t, 40, 30, encodeJPEG)
		if err := n.Validate(record); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("png passes", func(t *testing.T) {
		record := writeImage(t, 40, 30, encodePNG)
		if err := n.Validate(record); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("garbage bytes fail closed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk")
		if err := os.WriteFile(path, []byte("definitely not an image"), 0o644); err != nil {
			t.Fatal(err)
		}
		err := n.Validate(&storage.ImageRecord{ID: "junk", Path: path})
		if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			t.Errorf("expected a validation error, got %v", err)
		}
	})

	t.Run("unsupported detected format", func(t *testing.T) {
		cfg := testConfig()
		cfg.SupportedFormats = []string{"jpg", "jpeg"}
		strict := NewImageNormalizer(cfg)

		record := writeImage(t, 40, 30, encodePNG)
		err := strict.Validate(record)
		if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			t.Errorf("expected a validation error, got %v", err)
		}
	})

	t.Run("oversized file", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxImageSize = 16 // bytes
		tiny := NewImageNormalizer(cfg)

		record := writeImage(t, 40, 30, encodeJPEG)
		err := tiny.Validate(record)
		if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			t.Errorf("expected a validation error, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		err := n.Validate(&storage.ImageRecord{ID: "gone", Path: filepath.Join(t.TempDir(), "gone")})
		if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			t.Errorf("expected a validation error, got %v", err)
		}
	})
}

func TestNormalize_DownscalesOversizedImages(t *testing.T) {
	n := NewImageNormalizer(testConfig())
	record := writeImage(t, 2000, 1000, encodeJPEG)

	if err := n.Normalize(record); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	info, err := n.Info(record)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if info.Width != 1024 || info.Height != 512 {
		t.Errorf("expected 1024x512, got %dx%d", info.Width, info.Height)
	}
	if info.Format != "jpeg" {
		t.Errorf("normalized image must be JPEG, got %q", info.Format)
	}
}

func TestNormalize_ReencodesWithoutResizing(t *testing.T) {
	n := NewImageNormalizer(testConfig())
	record := writeImage(t, 640, 480, encodePNG)

	if err := n.Normalize(record); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	info, err := n.Info(record)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if info.Width != 640 || info.Height != 480 {
		t.Errorf("in-bounds image must keep its dimensions, got %dx%d", info.Width, info.Height)
	}
	if info.Format != "jpeg" {
		t.Errorf("PNG input must be re-encoded as JPEG, got %q", info.Format)
	}
}

func TestNormalize_UndecodableImage(t *testing.T) {
	n := NewImageNormalizer(testConfig())
	path := filepath.Join(t.TempDir(), "junk")
	if err := os.WriteFile(path, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := n.Normalize(&storage.ImageRecord{ID: "junk", Path: path})
	if !apperrors.IsType(err, apperrors.ErrorTypeNormalization) {
		t.Errorf("expected a normalization error, got %v", err)
	}
}

func TestScaledDimensions(t *testing.T) {
	tests := []struct {
		name                  string
		width, height         int
		wantWidth, wantHeight int
	}{
		{"in bounds untouched", 800, 600, 800, 600},
		{"at the bound untouched", 1024, 1024, 1024, 1024},
		{"wide landscape", 2048, 1024, 1024, 512},
		{"tall portrait", 500, 2000, 256, 1024},
		{"non-integer ratio rounds", 1500, 1000, 1024, 683},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := scaledDimensions(tt.width, tt.height)
			if w != tt.wantWidth || h != tt.wantHeight {
				t.Errorf("scaledDimensions(%d, %d) = %dx%d, want %dx%d",
					tt.width, tt.height, w, h, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

// Normalizing twice must be stable: the second pass sees an in-bounds JPEG
// and only re-encodes it.
func TestNormalize_Idempotent(t *testing.T) {
	n := NewImageNormalizer(testConfig())
	record := writeImage(t, 3000, 1500, encodeJPEG)

	if err := n.Normalize(record); err != nil {
		t.Fatal(err)
	}
	if err := n.Normalize(record); err != nil {
		t.Fatal(err)
	}

	info, err := n.Info(record)
	if err != nil {
		t.Fatal(err)
	}
	if info.Width != 1024 || info.Height != 512 {
		t.Errorf("dimensions drifted on second pass: %dx%d", info.Width, info.Height)
	}
}

// Decoded bytes after normalization must round-trip through image.Decode,
// proving the output is a well-formed JPEG stream.
func TestNormalize_OutputDecodes(t *testing.T) {
	n := NewImageNormalizer(testConfig())
	record := writeImage(t, 1200, 900, encodeJPEG)

	if err := n.Normalize(record); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(record.Path)
	if err != nil {
		t.Fatal(err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("normalized output does not decode: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg, got %q", format)
	}
	if img.Bounds().Dx() != 1024 {
		t.Errorf("expected width 1024, got %d", img.Bounds().Dx())
	}
}
