package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageService_ResizeImage(t *testing.T) {
	svc := NewImageService()

	out, err := svc.ResizeImage(context.Background(), testPNG(t, 1500, 1000), 1000, 1000)
	if err != nil {
		t.Fatalf("ResizeImage failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 1000 || bounds.Dy() != 666 {
		t.Errorf("resized to %dx%d, want 1000x666", bounds.Dx(), bounds.Dy())
	}
}

func TestImageService_ResizeImage_WithinBounds(t *testing.T) {
	svc := NewImageService()

	out, err := svc.ResizeImage(context.Background(), testPNG(t, 400, 300), 1000, 1000)
	if err != nil {
		t.Fatalf("ResizeImage failed: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 300 {
		t.Errorf("dimensions changed to %v, want 400x300 untouched", img.Bounds())
	}
}

func TestImageService_ConvertToJPEG(t *testing.T) {
	svc := NewImageService()

	out, err := svc.ConvertToJPEG(context.Background(), testPNG(t, 10, 10))
	if err != nil {
		t.Fatalf("ConvertToJPEG failed: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Errorf("output is not JPEG: %v", err)
	}
}

func TestImageService_BadData(t *testing.T) {
	svc := NewImageService()
	if _, err := svc.ConvertToJPEG(context.Background(), []byte("not an image")); err == nil {
		t.Error("expected decode error")
	}
}
