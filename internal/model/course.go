package model

// SectionKind classifies a chapter content entry.
//
// Only lessons and movies resolve to a downloadable video stream;
// everything else the API returns (quizzes, surveys, text pages) is
// KindOther and is ignored by the resolution client.
type SectionKind int

const (
	// KindOther is any section type that carries no video.
	KindOther SectionKind = iota

	// KindLesson is a regular lecture backed by the lesson API.
	KindLesson

	// KindMovie is standalone video content backed by the movie API.
	KindMovie
)

// Downloadable reports whether sections of this kind resolve to a video.
func (k SectionKind) Downloadable() bool {
	return k == KindLesson || k == KindMovie
}

// String returns the lowercase name used in logs and skip reasons.
func (k SectionKind) String() string {
	switch k {
	case KindLesson:
		return "lesson"
	case KindMovie:
		return "movie"
	default:
		return "other"
	}
}

// Course is the normalized course resource: an ordered list of chapters.
//
// Course carries no sections; chapter contents are fetched separately
// per chapter and normalized into Section values.
type Course struct {
	// ID is the upstream course identifier. Upstream payloads mix
	// numeric and string ids, so ids are strings everywhere.
	ID string

	// Title is the course title. May be empty for older courses.
	Title string

	// PosterURL is an optional course artwork URL.
	PosterURL string

	// Chapters in upstream discovery order. Sorting by Order is the
	// resolution client's job, not the normalizer's.
	Chapters []Chapter
}

// Chapter is an ordered grouping of lessons/movies within a course.
type Chapter struct {
	ID    string
	Title string

	// Order is the upstream sort key. Nil means "unordered, keep
	// discovery order"; chapters with Order sort before those without.
	Order *int
}

// Section is a single chapter content entry.
type Section struct {
	ID    string
	Title string
	Kind  SectionKind
}
