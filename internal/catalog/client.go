package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/naokawa/campus-dl/internal/httpx"
	"github.com/naokawa/campus-dl/internal/model"
	"github.com/naokawa/campus-dl/internal/session"
	"golang.org/x/sync/errgroup"
)

// Logger is the logging surface the client needs. It matches the
// charmbracelet/log method set so a *log.Logger drops straight in.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(msg interface{}, keyvals ...interface{}) {}
func (nopLogger) Info(msg interface{}, keyvals ...interface{})  {}
func (nopLogger) Warn(msg interface{}, keyvals ...interface{})  {}
func (nopLogger) Error(msg interface{}, keyvals ...interface{}) {}

// Endpoints derives resource URLs from the API base URL.
//
// Lessons have two URL families because the lesson resource moved
// between API versions: LessonURL is tried first and LegacyLessonURL
// is the 404 fallback.
type Endpoints struct {
	BaseURL string
}

func (e Endpoints) url(format string, args ...interface{}) string {
	return strings.TrimRight(e.BaseURL, "/") + fmt.Sprintf(format, args...)
}

// CourseURL returns the course details endpoint.
func (e Endpoints) CourseURL(courseID string) string {
	return e.url("/v2/courses/%s", courseID)
}

// ChapterURL returns the chapter details endpoint, sections included.
func (e Endpoints) ChapterURL(chapterID string) string {
	return e.url("/v2/chapters/%s", chapterID)
}

// LessonURL returns the current lesson details endpoint.
func (e Endpoints) LessonURL(lessonID string) string {
	return e.url("/v2/lessons/%s", lessonID)
}

// LegacyLessonURL returns the pre-v2 lesson details endpoint, used
// when the current one answers 404.
func (e Endpoints) LegacyLessonURL(lessonID string) string {
	return e.url("/v1/lessons/%s", lessonID)
}

// MovieURL returns the movie details endpoint.
func (e Endpoints) MovieURL(movieID string) string {
	return e.url("/v2/movies/%s", movieID)
}

// MyCoursesURL returns the enrolled-courses endpoint.
func (e Endpoints) MyCoursesURL() string {
	return e.url("/v2/me/courses")
}

// CourseListing is one entry of the authenticated user's course list.
type CourseListing struct {
	ID    string
	Title string
}

// CourseLister lists the courses available to the authenticated user.
// *Client implements it against the enrolled-courses endpoint; the
// commands depend on the interface only.
type CourseLister interface {
	ListCourses(ctx context.Context) ([]CourseListing, error)
}

// Client resolves the course catalog into downloadable lectures.
//
// Resolution walks the hierarchy top-down: course details for the
// chapter list, chapter details for each chapter's sections, then one
// request per downloadable section for its stream URL. Per-section
// failures never abort a course; they are collected as skipped
// lessons so the caller can report them after the fact.
//
// Example usage:
//
//	client := catalog.NewClient(httpClient, sess, catalog.Endpoints{BaseURL: base}, logger)
//
//	structure, err := client.ResolveCourse(ctx, "8540", catalog.ResolveOptions{MaxConcurrency: 4})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, lec := range structure.Lessons {
//	    fmt.Println(lec.LessonTitle, lec.VideoURL)
//	}
type Client struct {
	http *httpx.Client
	sess *model.Session
	eps  Endpoints
	log  Logger
}

// NewClient creates a catalog Client. A nil logger disables logging.
func NewClient(httpClient *httpx.Client, sess *model.Session, eps Endpoints, logger Logger) *Client {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Client{http: httpClient, sess: sess, eps: eps, log: logger}
}

// fetchRaw performs an authenticated GET and hands back the raw JSON
// for the normalizers.
func (c *Client) fetchRaw(ctx context.Context, url string) (json.RawMessage, error) {
	header := http.Header{}
	cookie, err := session.BuildCookieHeader(c.sess, url)
	if err != nil {
		return nil, err
	}
	if cookie != "" {
		header.Set("Cookie", cookie)
	}

	var raw json.RawMessage
	if err := c.http.GetJSON(ctx, url, header, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// FetchCourse fetches and normalizes the course details.
func (c *Client) FetchCourse(ctx context.Context, courseID string) (*model.Course, error) {
	raw, err := c.fetchRaw(ctx, c.eps.CourseURL(courseID))
	if err != nil {
		return nil, err
	}
	return ParseCourse(raw)
}

// FetchChapter fetches and normalizes one chapter with its sections.
func (c *Client) FetchChapter(ctx context.Context, chapterID string) (model.Chapter, []model.Section, error) {
	raw, err := c.fetchRaw(ctx, c.eps.ChapterURL(chapterID))
	if err != nil {
		return model.Chapter{}, nil, err
	}
	return ParseChapter(raw)
}

// fetchLesson fetches a lesson, falling back to the legacy URL family
// when the current endpoint does not know the id.
func (c *Client) fetchLesson(ctx context.Context, lessonID string) (*Media, error) {
	raw, err := c.fetchRaw(ctx, c.eps.LessonURL(lessonID))
	if err != nil {
		var httpErr *httpx.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Status != http.StatusNotFound {
			return nil, err
		}
		c.log.Debug("lesson not on current endpoint, trying legacy", "lesson", lessonID)
		raw, err = c.fetchRaw(ctx, c.eps.LegacyLessonURL(lessonID))
		if err != nil {
			return nil, err
		}
	}
	return ParseLesson(raw)
}

// fetchMovie fetches and normalizes a movie section.
func (c *Client) fetchMovie(ctx context.Context, movieID string) (*Media, error) {
	raw, err := c.fetchRaw(ctx, c.eps.MovieURL(movieID))
	if err != nil {
		return nil, err
	}
	return ParseMovie(raw)
}

// fetchSectionMedia dispatches on the section kind.
func (c *Client) fetchSectionMedia(ctx context.Context, section model.Section) (*Media, error) {
	switch section.Kind {
	case model.KindLesson:
		return c.fetchLesson(ctx, section.ID)
	case model.KindMovie:
		return c.fetchMovie(ctx, section.ID)
	default:
		return nil, fmt.Errorf("section %s has non-downloadable kind %s", section.ID, section.Kind)
	}
}

// ListCourses implements CourseLister against the enrolled-courses
// endpoint.
func (c *Client) ListCourses(ctx context.Context) ([]CourseListing, error) {
	raw, err := c.fetchRaw(ctx, c.eps.MyCoursesURL())
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data    []json.RawMessage `json:"data"`
		Courses []json.RawMessage `json:"courses"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &SchemaError{Resource: "course list", Detail: err.Error()}
	}
	entries := payload.Data
	if len(entries) == 0 {
		entries = payload.Courses
	}

	var listings []CourseListing
	for _, entry := range entries {
		var item struct {
			ID    json.Number `json:"id"`
			Title string      `json:"title"`
		}
		if err := json.Unmarshal(entry, &item); err != nil || item.ID.String() == "" {
			continue
		}
		listings = append(listings, CourseListing{ID: item.ID.String(), Title: item.Title})
	}
	return listings, nil
}

// ResolveOptions tunes course resolution.
type ResolveOptions struct {
	// ChapterIDs restricts resolution to the named chapters. Empty
	// means all chapters.
	ChapterIDs []string

	// MaxConcurrency is the section resolution batch size. Values
	// below 1 are treated as 1.
	MaxConcurrency int

	// LimitLessons caps the number of sections resolved across the
	// whole course. 0 means no limit.
	LimitLessons int
}

// workItem is one enqueued section, remembering where in the course
// it came from.
type workItem struct {
	chapter model.Chapter
	section model.Section
}

// ResolveCourse resolves a course into its downloadable lectures.
//
// Chapters are sorted by their order hint ascending, ties and missing
// hints keeping discovery order, and fetched sequentially; sections
// of every selected chapter are enqueued in that order. The queue is
// then resolved in batches of MaxConcurrency, each batch joined
// before the next starts, and the output keeps the enqueue order
// regardless of which request finished first.
//
// A section whose resolution fails is recorded in Skipped with the
// failure reason and does not affect the others. A course with zero
// resolvable chapters or zero enqueued sections is an error.
func (c *Client) ResolveCourse(ctx context.Context, courseID string, opts ResolveOptions) (*model.CourseStructure, error) {
	course, err := c.FetchCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	chapters := selectChapters(course.Chapters, opts.ChapterIDs)
	if len(chapters) == 0 {
		return nil, fmt.Errorf("course %s: no matching chapters", courseID)
	}

	structure := &model.CourseStructure{
		CourseID:    course.ID,
		CourseTitle: course.Title,
		PosterURL:   course.PosterURL,
		Chapters:    chapters,
	}

	var queue []workItem
enqueue:
	for _, ch := range chapters {
		chapter, sections, err := c.FetchChapter(ctx, ch.ID)
		if err != nil {
			c.log.Warn("skipping chapter", "chapter", ch.ID, "err", err)
			continue
		}
		if chapter.Title == "" {
			chapter.Title = ch.Title
		}
		for _, s := range sections {
			if !s.Kind.Downloadable() {
				c.log.Debug("ignoring section", "section", s.ID, "kind", s.Kind.String())
				continue
			}
			queue = append(queue, workItem{chapter: chapter, section: s})
			if opts.LimitLessons > 0 && len(queue) >= opts.LimitLessons {
				break enqueue
			}
		}
	}

	if len(queue) == 0 {
		return nil, fmt.Errorf("course %s: no downloadable lessons", courseID)
	}

	results := make([]*model.ResolvedLecture, len(queue))
	skips := make([]*model.SkippedLesson, len(queue))

	batch := opts.MaxConcurrency
	if batch < 1 {
		batch = 1
	}
	for start := 0; start < len(queue); start += batch {
		end := min(start+batch, len(queue))

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			item := queue[i]
			g.Go(func() error {
				media, err := c.fetchSectionMedia(gctx, item.section)
				if err != nil {
					c.log.Warn("skipping lesson", "lesson", item.section.ID, "err", err)
					skips[i] = &model.SkippedLesson{
						ChapterID: item.chapter.ID,
						LessonID:  item.section.ID,
						Reason:    err.Error(),
					}
					return nil
				}
				results[i] = c.lectureFrom(course, item, media)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	for i := range queue {
		if results[i] != nil {
			structure.Lessons = append(structure.Lessons, results[i])
		} else if skips[i] != nil {
			structure.Skipped = append(structure.Skipped, *skips[i])
		}
	}

	c.log.Info("course resolved",
		"course", course.ID,
		"lessons", len(structure.Lessons),
		"skipped", len(structure.Skipped))
	return structure, nil
}

// ResolveFirstLecture resolves only the first downloadable section of
// a course, walking chapters in order until one yields a lecture.
func (c *Client) ResolveFirstLecture(ctx context.Context, courseID string) (*model.ResolvedLecture, error) {
	course, err := c.FetchCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	for _, ch := range SortChapters(course.Chapters) {
		chapter, sections, err := c.FetchChapter(ctx, ch.ID)
		if err != nil {
			c.log.Warn("skipping chapter", "chapter", ch.ID, "err", err)
			continue
		}
		if chapter.Title == "" {
			chapter.Title = ch.Title
		}
		for _, s := range sections {
			if !s.Kind.Downloadable() {
				continue
			}
			media, err := c.fetchSectionMedia(ctx, s)
			if err != nil {
				c.log.Warn("skipping lesson", "lesson", s.ID, "err", err)
				continue
			}
			return c.lectureFrom(course, workItem{chapter: chapter, section: s}, media), nil
		}
	}
	return nil, fmt.Errorf("course %s: no downloadable lessons", courseID)
}

func (c *Client) lectureFrom(course *model.Course, item workItem, media *Media) *model.ResolvedLecture {
	title := media.Title
	if title == "" {
		title = item.section.Title
	}
	return &model.ResolvedLecture{
		CourseID:       course.ID,
		ChapterID:      item.chapter.ID,
		LessonID:       item.section.ID,
		CourseTitle:    course.Title,
		ChapterTitle:   item.chapter.Title,
		LessonTitle:    title,
		VideoURL:       media.VideoURL,
		ReferencePages: media.ReferencePages,
		Items:          media.Items,
	}
}

// selectChapters sorts chapters by their order hint and applies the
// optional id filter.
func selectChapters(chapters []model.Chapter, ids []string) []model.Chapter {
	sorted := SortChapters(chapters)
	if len(ids) == 0 {
		return sorted
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []model.Chapter
	for _, ch := range sorted {
		if wanted[ch.ID] {
			out = append(out, ch)
		}
	}
	return out
}

// SortChapters orders chapters by their order hint ascending. Entries
// without a hint sort after hinted ones; ties keep discovery order.
func SortChapters(chapters []model.Chapter) []model.Chapter {
	sorted := make([]model.Chapter, len(chapters))
	copy(sorted, chapters)
	sort.SliceStable(sorted, func(i, j int) bool {
		oi, oj := sorted[i].Order, sorted[j].Order
		if oi == nil {
			return false
		}
		if oj == nil {
			return true
		}
		return *oi < *oj
	})
	return sorted
}
