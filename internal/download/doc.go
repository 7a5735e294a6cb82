// Package download orchestrates course downloads end to end.
//
// # Manager
//
// The Manager ties the other packages together:
//
//  1. Resolve the course via the catalog client
//  2. Compute the on-disk layout from the full chapter list
//  3. Migrate folders left behind by earlier layout schemes
//  4. Download each lesson's video items, skipping finished files
//  5. Save the course poster and write playlist/reference extras
//
// # Basic Usage
//
//	manager := download.NewManager(settings, sess, client, httpClient, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	err := manager.DownloadCourse(ctx, "8540", download.Options{})
//
// # Idempotence
//
// Target files that already exist with non-zero size are never
// re-downloaded, so interrupting a run and restarting it picks up
// where it left off at lesson-item granularity.
//
// # Bulk Mode
//
// DownloadAll walks every course a CourseLister reports. A failing
// course is logged and does not stop the rest; the failures come back
// aggregated in one error after the final course.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives
// ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
package download
