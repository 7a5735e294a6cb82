package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/naokawa/campus-dl/internal/catalog"
	"github.com/naokawa/campus-dl/internal/config"
	"github.com/naokawa/campus-dl/internal/hls"
	"github.com/naokawa/campus-dl/internal/httpx"
	ioutils "github.com/naokawa/campus-dl/internal/io"
	"github.com/naokawa/campus-dl/internal/model"
	"github.com/naokawa/campus-dl/internal/session"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Resolver is the slice of the catalog client the orchestrator needs.
type Resolver interface {
	FetchCourse(ctx context.Context, courseID string) (*model.Course, error)
	ResolveCourse(ctx context.Context, courseID string, opts catalog.ResolveOptions) (*model.CourseStructure, error)
	ResolveFirstLecture(ctx context.Context, courseID string) (*model.ResolvedLecture, error)
}

// Options tunes a single course download.
type Options struct {
	// ChapterIDs restricts the download to the named chapters. Empty
	// means the whole course.
	ChapterIDs []string

	// LimitLessons caps how many lessons are resolved and downloaded.
	// 0 means no limit.
	LimitLessons int
}

// Manager coordinates course downloads: resolution, layout, legacy
// migration, media download, and the per-course extras.
type Manager struct {
	settings     *config.Settings
	sess         *model.Session
	resolver     Resolver
	httpClient   *httpx.Client
	hls          *hls.Downloader
	imageService *ioutils.ImageService
	playlist     *PlaylistCreator

	totalItems int32
	doneItems  int32

	onProgress func(ProgressEvent)
}

// GetProgress returns the number of finished video items (downloaded
// or skipped as already present) and the total known so far.
func (m *Manager) GetProgress() (done, total int32) {
	return atomic.LoadInt32(&m.doneItems), atomic.LoadInt32(&m.totalItems)
}

// NewManager creates a download Manager. The session must carry
// credentials; downloads without one fail immediately.
func NewManager(settings *config.Settings, sess *model.Session, resolver Resolver, httpClient *httpx.Client, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:     settings,
		sess:         sess,
		resolver:     resolver,
		httpClient:   httpClient,
		hls:          hls.NewDownloader(httpClient, nil),
		imageService: ioutils.NewImageService(),
		playlist:     NewPlaylistCreator(true),
		onProgress:   onProgress,
	}
}

// DownloadCourse resolves one course and downloads every resolved
// lesson into the deterministic layout under the output directory.
//
// Already-downloaded items (existing, non-empty files) are skipped,
// so re-running the same command is safe and cheap. A failed media
// download aborts the course; resolution-level skips do not.
func (m *Manager) DownloadCourse(ctx context.Context, courseID string, opts Options) error {
	if m.sess == nil || !m.sess.HasCredentials() {
		return errors.New("no session credentials; log in first")
	}

	structure, err := m.resolver.ResolveCourse(ctx, courseID, catalog.ResolveOptions{
		ChapterIDs:     opts.ChapterIDs,
		MaxConcurrency: m.settings.MaxConcurrency,
		LimitLessons:   opts.LimitLessons,
	})
	if err != nil {
		return err
	}

	for _, skip := range structure.Skipped {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Skipped lesson %s (chapter %s): %s", skip.LessonID, skip.ChapterID, skip.Reason),
			Level:   LevelWarning,
		})
	}

	for _, lec := range structure.Lessons {
		atomic.AddInt32(&m.totalItems, int32(len(lec.Items)))
	}

	layout, indexOf := m.courseLayout(ctx, courseID, structure)
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Downloading %d lessons of %s into %s", len(structure.Lessons), courseTitle(structure), layout.CourseDir()),
		Level:   LevelInfo,
	})

	migrated := make(map[string]bool)
	lessonCounter := make(map[string]int)
	var entries []PlaylistEntry

	for _, lec := range structure.Lessons {
		chapterIndex := indexOf(lec.ChapterID)
		lessonCounter[lec.ChapterID]++
		lessonIndex := lessonCounter[lec.ChapterID]

		if !migrated[lec.ChapterID] {
			migrated[lec.ChapterID] = true
			m.migrateChapterDir(layout, chapterFor(structure, lec.ChapterID), chapterIndex)
		}

		for _, item := range lec.Items {
			outPath := layout.ItemPath(chapterIndex, lessonIndex, lec.LessonID, item.Index)
			if err := m.downloadItem(ctx, lec, item, outPath); err != nil {
				return fmt.Errorf("lesson %s: %w", lec.LessonID, err)
			}
			rel, err := filepath.Rel(layout.CourseDir(), outPath)
			if err != nil {
				rel = outPath
			}
			entries = append(entries, PlaylistEntry{
				RelPath:      rel,
				ChapterTitle: lec.ChapterTitle,
				Title:        entryTitle(lec, item, lec.MultiPart()),
			})
		}

		if m.settings.WriteReferenceLog && len(lec.ReferencePages) > 0 {
			m.writeReferences(ctx, layout.LessonDir(chapterIndex, lessonIndex), lec)
		}
	}

	if m.settings.SavePoster && structure.PosterURL != "" {
		m.downloadPoster(ctx, structure.PosterURL, layout.CourseDir())
	}
	if m.settings.CreatePlaylist && len(entries) > 0 {
		content := m.playlist.CreatePlaylist(structure.CourseTitle, entries)
		path := filepath.Join(layout.CourseDir(), "course.m3u")
		if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Could not write playlist: %v", err), Level: LevelWarning})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist %s", path), Level: LevelVerbose})
		}
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Finished course %s: %d lessons, %d skipped", courseID, len(structure.Lessons), len(structure.Skipped)),
		Level:   LevelSuccess,
	})
	return nil
}

// DownloadAll downloads every course the lister reports. One course's
// failure is logged and does not stop the others; all failures are
// aggregated into the returned error.
func (m *Manager) DownloadAll(ctx context.Context, lister catalog.CourseLister, opts Options) error {
	runID := uuid.NewString()

	listings, err := lister.ListCourses(ctx)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		return errors.New("no courses available")
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Bulk run %s: %d courses", runID, len(listings)),
		Level:   LevelInfo,
	})

	var failures []error
	for i, listing := range listings {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("[%d/%d] Course %s %s", i+1, len(listings), listing.ID, listing.Title),
			Level:   LevelInfo,
		})
		if err := m.DownloadCourse(ctx, listing.ID, opts); err != nil {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Course %s failed: %v", listing.ID, err),
				Level:   LevelError,
			})
			failures = append(failures, fmt.Errorf("course %s: %w", listing.ID, err))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("bulk run %s: %d of %d courses failed: %w",
			runID, len(failures), len(listings), errors.Join(failures...))
	}
	return nil
}

// Preview resolves the first lecture of a course without downloading.
func (m *Manager) Preview(ctx context.Context, courseID string) (*model.ResolvedLecture, error) {
	if m.sess == nil || !m.sess.HasCredentials() {
		return nil, errors.New("no session credentials; log in first")
	}
	return m.resolver.ResolveFirstLecture(ctx, courseID)
}

// courseLayout builds the layout from the full course's chapter list,
// fetched independently of the resolved subset so chapter numbering
// stays stable across filtered runs. It returns the layout and an
// index function mapping chapter ids to 1-based positions; a chapter
// missing from the full list gets a synthetic next-available index
// with a warning.
func (m *Manager) courseLayout(ctx context.Context, courseID string, structure *model.CourseStructure) (model.Layout, func(string) int) {
	var full []model.Chapter
	if course, err := m.resolver.FetchCourse(ctx, courseID); err != nil {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Could not fetch full chapter list, numbering from resolved subset: %v", err),
			Level:   LevelWarning,
		})
		full = structure.Chapters
	} else {
		full = catalog.SortChapters(course.Chapters)
	}

	indexes := make(map[string]int, len(full))
	for i, ch := range full {
		indexes[ch.ID] = i + 1
	}
	next := len(full)

	layout := model.NewLayout(m.settings.OutputDir, courseID, len(full), m.settings.Extension())
	indexOf := func(chapterID string) int {
		if idx, ok := indexes[chapterID]; ok {
			return idx
		}
		next++
		indexes[chapterID] = next
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Chapter %s missing from course chapter list, using index %d", chapterID, next),
			Level:   LevelWarning,
		})
		return next
	}
	return layout, indexOf
}

// downloadItem fetches one video item unless its target file already
// exists with content.
func (m *Manager) downloadItem(ctx context.Context, lec *model.ResolvedLecture, item model.VideoItem, outPath string) error {
	if ioutils.NonEmptyFile(outPath) {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(outPath)),
			Level:   LevelVerbose,
		})
		atomic.AddInt32(&m.doneItems, 1)
		return nil
	}

	header, err := m.headerFor(item.VideoURL)
	if err != nil {
		return err
	}

	label := entryTitle(lec, item, lec.MultiPart())
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading %s", label), Level: LevelInfo})

	err = m.hls.Download(ctx, item.VideoURL, outPath, hls.Options{
		Header: header,
		OnProgress: func(segment, total int) {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("%s: segment %d/%d", label, segment, total),
				Level:   LevelVerbose,
			})
		},
	})
	if err != nil {
		return err
	}

	atomic.AddInt32(&m.doneItems, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded %s", filepath.Base(outPath)), Level: LevelSuccess})
	return nil
}

// downloadPoster saves the course poster as a normalized JPEG next to
// the course's lessons. Best-effort: failures warn and move on.
func (m *Manager) downloadPoster(ctx context.Context, posterURL, courseDir string) {
	header, err := m.headerFor(posterURL)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not build poster request: %v", err), Level: LevelWarning})
		return
	}
	body, err := m.httpClient.Get(ctx, posterURL, header)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not download poster: %v", err), Level: LevelWarning})
		return
	}
	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not read poster: %v", err), Level: LevelWarning})
		return
	}

	maxSize := m.settings.PosterMaxSize
	if maxSize > 0 {
		if resized, err := m.imageService.ResizeImage(ctx, data, maxSize, maxSize); err == nil {
			data = resized
		}
	} else if jpg, err := m.imageService.ConvertToJPEG(ctx, data); err == nil {
		data = jpg
	}

	path := filepath.Join(courseDir, "poster.jpg")
	if err := ioutils.WriteFile(ctx, path, data); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not save poster: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved poster %s", path), Level: LevelVerbose})
}

// writeReferences drops a references.txt with the lesson's companion
// page URLs into the lesson directory. Best-effort.
func (m *Manager) writeReferences(ctx context.Context, lessonDir string, lec *model.ResolvedLecture) {
	if err := ioutils.EnsureDir(lessonDir); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not create %s: %v", lessonDir, err), Level: LevelWarning})
		return
	}
	content := strings.Join(lec.ReferencePages, "\n") + "\n"
	path := filepath.Join(lessonDir, "references.txt")
	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not write references: %v", err), Level: LevelWarning})
	}
}

// headerFor builds the request headers for a media URL from the
// session.
func (m *Manager) headerFor(url string) (http.Header, error) {
	header := http.Header{}
	cookie, err := session.BuildCookieHeader(m.sess, url)
	if err != nil {
		return nil, err
	}
	if cookie != "" {
		header.Set("Cookie", cookie)
	}
	if m.settings.UserAgent != "" {
		header.Set("User-Agent", m.settings.UserAgent)
	}
	return header, nil
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

func courseTitle(structure *model.CourseStructure) string {
	if structure.CourseTitle != "" {
		return structure.CourseTitle
	}
	return "course " + structure.CourseID
}

func chapterFor(structure *model.CourseStructure, chapterID string) model.Chapter {
	for _, ch := range structure.Chapters {
		if ch.ID == chapterID {
			return ch
		}
	}
	return model.Chapter{ID: chapterID}
}
