// Package ioutils provides file system and image helpers.
//
// # File Operations
//
//	err := ioutils.EnsureDir("/videos/course-8540/01")
//	err = ioutils.WriteFile(ctx, path, data)
//	ok := ioutils.NonEmptyFile(path) // skip-if-downloaded checks
//
// MergeDir supports legacy-layout migration: it moves a directory's
// contents into another without ever overwriting an existing file,
// reporting conflicts instead of losing data.
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Lecture 3: Limits 1/2")
//
// # Poster Processing
//
// ImageService resizes and normalizes course poster images to JPEG:
//
//	svc := ioutils.NewImageService()
//	poster, _ := svc.ResizeImage(ctx, data, 1000, 1000)
package ioutils
