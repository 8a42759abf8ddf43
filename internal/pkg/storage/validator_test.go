package storage

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestValidateArtworkAcceptsPNG(t *testing.T) {
	data, mimeType, err := ValidateArtwork(bytes.NewReader(pngBytes(t)), MaxArtworkSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mimeType != "image/png" || len(data) == 0 {
		t.Fatalf("unexpected result: %s, %d bytes", mimeType, len(data))
	}
}

func TestValidateArtworkRejects(t *testing.T) {
	if _, _, err := ValidateArtwork(bytes.NewReader(nil), MaxArtworkSize); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
	if _, _, err := ValidateArtwork(bytes.NewReader([]byte("plain text, not an image")), MaxArtworkSize); !errors.Is(err, ErrInvalidMimeType) {
		t.Fatalf("expected ErrInvalidMimeType, got %v", err)
	}
	if _, _, err := ValidateArtwork(bytes.NewReader(pngBytes(t)), 10); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}
