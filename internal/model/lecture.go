package model

// VideoItem is one playable part of a lesson.
//
// Most lessons have exactly one part. When the upstream lesson carries
// a multi-part structure, each part becomes a VideoItem and item 1's
// URL and references are mirrored onto the owning lecture's top-level
// fields for backward compatibility with single-part consumers.
type VideoItem struct {
	// Index is 1-based and determines the _part-<n> file suffix.
	Index int

	Title    string
	VideoURL string

	// ReferencePages are companion page URLs shown alongside the
	// video. Defaults to the lesson-level references when the part
	// carries none of its own.
	ReferencePages []string
}

// ResolvedLecture is the unit the downloader consumes: a lesson or
// movie resolved to at least one concrete streamable URL.
type ResolvedLecture struct {
	CourseID  string
	ChapterID string
	LessonID  string

	CourseTitle  string
	ChapterTitle string
	LessonTitle  string

	// VideoURL is item 1's URL. Invariant: non-empty for every
	// lecture that appears in CourseStructure.Lessons.
	VideoURL string

	// ReferencePages mirror item 1's references.
	ReferencePages []string

	// Items holds all video parts, in part order. Always has at
	// least one entry.
	Items []VideoItem
}

// MultiPart reports whether the lecture has more than one video part.
func (l *ResolvedLecture) MultiPart() bool {
	return len(l.Items) > 1
}

// SkippedLesson records a lesson that failed resolution. Failures are
// recorded, never silently dropped.
type SkippedLesson struct {
	ChapterID string
	LessonID  string
	Reason    string
}

// CourseStructure is the output of catalog resolution: the selected
// chapters and every lesson that resolved to a video URL, in chapter
// order then section order.
type CourseStructure struct {
	CourseID    string
	CourseTitle string
	PosterURL   string

	// Chapters is the selected (possibly filtered) chapter subset,
	// sorted by Order.
	Chapters []Chapter

	// Lessons preserves enqueue order regardless of how fetches
	// within a resolution batch raced.
	Lessons []*ResolvedLecture

	Skipped []SkippedLesson
}
