package download

import (
	"fmt"
	"os"
	"path/filepath"

	ioutils "github.com/naokawa/campus-dl/internal/io"
	"github.com/naokawa/campus-dl/internal/model"
)

// migrateChapterDir moves a chapter folder from an earlier layout to
// its zero-padded index name. Earlier releases named chapter folders
// by the raw chapter id or by the (unstable) chapter title.
//
// The migration is best-effort and never data-lossy: a plain rename
// when the target does not exist, otherwise a file-by-file merge that
// leaves conflicting files in the legacy folder and reports them. All
// failures downgrade to warnings; the download proceeds against the
// new path either way.
func (m *Manager) migrateChapterDir(layout model.Layout, chapter model.Chapter, chapterIndex int) {
	newDir := layout.ChapterDir(chapterIndex)
	newName := layout.ChapterDirName(chapterIndex)

	legacyNames := []string{chapter.ID}
	if title := ioutils.SanitizeFileName(chapter.Title); title != "" {
		legacyNames = append(legacyNames, title)
	}

	for _, name := range legacyNames {
		if name == "" || name == newName {
			continue
		}
		legacyDir := filepath.Join(layout.CourseDir(), name)
		info, err := os.Stat(legacyDir)
		if err != nil || !info.IsDir() {
			continue
		}

		if _, err := os.Stat(newDir); os.IsNotExist(err) {
			if err := os.Rename(legacyDir, newDir); err != nil {
				m.progress(ProgressEvent{
					Message: fmt.Sprintf("Could not migrate legacy folder %s: %v", legacyDir, err),
					Level:   LevelWarning,
				})
				continue
			}
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Migrated legacy folder %s -> %s", name, newName),
				Level:   LevelInfo,
			})
			continue
		}

		// Target already exists: merge without overwriting anything.
		conflicts, err := ioutils.MergeDir(legacyDir, newDir)
		if err != nil {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Could not merge legacy folder %s: %v", legacyDir, err),
				Level:   LevelWarning,
			})
			continue
		}
		for _, conflict := range conflicts {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Legacy file kept, not overwriting: %s", conflict),
				Level:   LevelWarning,
			})
		}
		if len(conflicts) == 0 {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Merged legacy folder %s into %s", name, newName),
				Level:   LevelInfo,
			})
		}
	}
}
