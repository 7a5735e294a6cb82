package download

import (
	"fmt"
	"strings"

	"github.com/naokawa/campus-dl/internal/model"
)

// PlaylistCreator generates a per-course M3U playlist referencing the
// downloaded lesson files, so a whole course can be queued in a media
// player in catalog order.
//
// Example:
//
//	creator := NewPlaylistCreator(true)
//	content := creator.CreatePlaylist("Statistics", entries)
//	os.WriteFile(filepath.Join(courseDir, "course.m3u"), []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Week One - Lecture 1
//	// 01/01/lesson-77012.ts
type PlaylistCreator struct {
	extended bool // include #EXTINF lines with chapter/lesson titles
}

// PlaylistEntry is one playable file of the course, with its path
// relative to the course directory.
type PlaylistEntry struct {
	RelPath      string
	ChapterTitle string
	Title        string
}

// NewPlaylistCreator creates a new PlaylistCreator.
func NewPlaylistCreator(extended bool) *PlaylistCreator {
	return &PlaylistCreator{extended: extended}
}

// CreatePlaylist generates M3U content for a course. Segment
// durations are unknown at this point, so extended entries carry -1.
func (p *PlaylistCreator) CreatePlaylist(courseTitle string, entries []PlaylistEntry) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
		if courseTitle != "" {
			sb.WriteString(fmt.Sprintf("#PLAYLIST:%s\n", courseTitle))
		}
	}

	for _, entry := range entries {
		if p.extended {
			title := entry.Title
			if entry.ChapterTitle != "" {
				title = entry.ChapterTitle + " - " + title
			}
			sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s\n", title))
		}
		sb.WriteString(entry.RelPath + "\n")
	}

	return sb.String()
}

// entryTitle picks a display title for one video item, falling back
// through item title, lesson title, and the lesson id.
func entryTitle(lec *model.ResolvedLecture, item model.VideoItem, multiPart bool) string {
	switch {
	case item.Title != "":
		return item.Title
	case multiPart:
		return fmt.Sprintf("%s (part %d)", lec.LessonTitle, item.Index)
	case lec.LessonTitle != "":
		return lec.LessonTitle
	default:
		return "lesson-" + lec.LessonID
	}
}
