package dto

// Legacy generation: every resource arrives inside a {"data": {...}}
// envelope with snake_case fields.

// LegacyCourse is the legacy course payload.
type LegacyCourse struct {
	Data *LegacyCourseData `json:"data"`
}

// LegacyCourseData is the body of a legacy course response.
type LegacyCourseData struct {
	ID       ID              `json:"id"`
	Title    string          `json:"title"`
	ImageURL string          `json:"image_url"`
	Chapters []LegacyChapter `json:"chapters"`
}

// LegacyChapter is one chapter summary inside a legacy course.
type LegacyChapter struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	SortOrder *int   `json:"sort_order"`
}

// LegacyChapterDetail is the legacy chapter payload, sections
// included.
type LegacyChapterDetail struct {
	Data *LegacyChapterData `json:"data"`
}

// LegacyChapterData is the body of a legacy chapter response.
type LegacyChapterData struct {
	ID       ID              `json:"id"`
	Title    string          `json:"title"`
	Sections []LegacySection `json:"sections"`
}

// LegacySection is one section summary inside a legacy chapter.
type LegacySection struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	SectionType string `json:"section_type"`
}

// LegacyLesson is the legacy lesson payload. The body shape is shared
// with the current generation.
type LegacyLesson struct {
	Data *LessonBody `json:"data"`
}
