package model

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// minChapterWidth is the smallest zero-pad width for chapter indices.
const minChapterWidth = 2

// Layout computes the deterministic on-disk tree for one course:
//
//	<root>/course-<id>/<chapterIndex>/<lessonIndex>/lesson-<id>[_part-<n>].<ext>
//
// Chapter indices are 1-based and zero-padded wide enough for the
// course's total chapter count (minimum 2 digits); lesson indices are
// 1-based and always 2 digits. Indices are derived from the full
// course's chapter order, never from the filtered subset, so different
// chapter selections across runs never renumber existing folders.
type Layout struct {
	// Root is the downloads base directory.
	Root string

	// CourseID names the course directory.
	CourseID string

	// ChapterWidth is the zero-pad width for chapter indices.
	ChapterWidth int

	// Extension is the video file extension including the dot.
	Extension string
}

// NewLayout creates a Layout sized for a course with totalChapters
// chapters.
func NewLayout(root, courseID string, totalChapters int, ext string) Layout {
	width := len(strconv.Itoa(totalChapters))
	if width < minChapterWidth {
		width = minChapterWidth
	}
	return Layout{
		Root:         root,
		CourseID:     courseID,
		ChapterWidth: width,
		Extension:    ext,
	}
}

// CourseDir returns <root>/course-<id>.
func (l Layout) CourseDir() string {
	return filepath.Join(l.Root, "course-"+l.CourseID)
}

// ChapterDirName returns the zero-padded folder name for a 1-based
// chapter index.
func (l Layout) ChapterDirName(chapterIndex int) string {
	return fmt.Sprintf("%0*d", l.ChapterWidth, chapterIndex)
}

// ChapterDir returns the directory for a 1-based chapter index.
func (l Layout) ChapterDir(chapterIndex int) string {
	return filepath.Join(l.CourseDir(), l.ChapterDirName(chapterIndex))
}

// LessonDir returns the directory for a lesson, identified by its
// 1-based chapter and lesson-within-chapter indices.
func (l Layout) LessonDir(chapterIndex, lessonIndex int) string {
	return filepath.Join(l.ChapterDir(chapterIndex), fmt.Sprintf("%02d", lessonIndex))
}

// ItemFileName returns the file name for one video item of a lesson.
// Part 1 has no suffix; later parts get _part-<n>.
func (l Layout) ItemFileName(lessonID string, part int) string {
	if part <= 1 {
		return "lesson-" + lessonID + l.Extension
	}
	return fmt.Sprintf("lesson-%s_part-%d%s", lessonID, part, l.Extension)
}

// ItemPath returns the full path for one video item.
func (l Layout) ItemPath(chapterIndex, lessonIndex int, lessonID string, part int) string {
	return filepath.Join(l.LessonDir(chapterIndex, lessonIndex), l.ItemFileName(lessonID, part))
}
