package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// jpegQuality is used for every poster encode.
const jpegQuality = 90

// ImageService processes course poster images: resizing them to a
// bounded size and normalizing them to JPEG so every course folder
// carries the same artwork format regardless of what the CDN served.
//
// Example usage:
//
//	svc := ioutils.NewImageService()
//	poster, _ := svc.ResizeImage(ctx, data, 1000, 1000)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ResizeImage resizes an image to fit within maxWidth x maxHeight,
// preserving aspect ratio, and returns it JPEG-encoded. An image
// already within bounds is re-encoded without scaling.
//
// Catmull-Rom is used for scaling quality.
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertToJPEG re-encodes an image (PNG, GIF, JPEG, ...) as JPEG.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
