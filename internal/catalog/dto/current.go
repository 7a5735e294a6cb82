package dto

// Current generation: each resource lives under a field named after
// the resource, with related collections sometimes split out into
// sibling fields.

// CurrentCourse is the current course payload. Chapters appear either
// as a sibling of the course body or nested inside it depending on
// the minor API version; both are read.
type CurrentCourse struct {
	Course   *CurrentCourseBody `json:"course"`
	Chapters []CurrentChapter   `json:"chapters"`
}

// CurrentCourseBody is the course resource itself.
type CurrentCourseBody struct {
	ID        ID               `json:"id"`
	Title     string           `json:"title"`
	PosterURL string           `json:"poster_url"`
	Chapters  []CurrentChapter `json:"chapters"`
}

// CurrentChapter is one chapter summary in the current generation.
type CurrentChapter struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
	Order *int   `json:"order"`
}

// CurrentChapterDetail is the current chapter payload. Sections, like
// course chapters, may sit beside the chapter body or inside it.
type CurrentChapterDetail struct {
	Chapter  *CurrentChapterBody `json:"chapter"`
	Sections []CurrentSection    `json:"sections"`
}

// CurrentChapterBody is the chapter resource itself.
type CurrentChapterBody struct {
	ID       ID               `json:"id"`
	Title    string           `json:"title"`
	Sections []CurrentSection `json:"sections"`
}

// CurrentSection is one section summary in the current generation.
type CurrentSection struct {
	ID           ID     `json:"id"`
	Title        string `json:"title"`
	ResourceType string `json:"resource_type"`
}

// CurrentLesson is the current lesson payload. The body shape is
// shared with the legacy generation.
type CurrentLesson struct {
	Lesson *LessonBody `json:"lesson"`
}
