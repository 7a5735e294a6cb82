// Package hls parses HLS manifests and downloads segmented streams
// into single local files.
//
// The parser is deliberately small: it distinguishes master from
// media playlists structurally, resolves URIs against the manifest's
// own URL, and flags encrypted streams. It does not implement the
// full manifest grammar; the catalog's streams never need it.
//
//	dl := hls.NewDownloader(httpClient, logger)
//	err := dl.Download(ctx, playlistURL, "out/lesson-77012.ts", hls.Options{
//	    Header: header,
//	    OnProgress: func(segment, total int) {
//	        fmt.Printf("\r%d/%d", segment, total)
//	    },
//	})
//
// Encrypted streams fail with *UnsupportedContentError before any
// segment is fetched. Any error from Download means the output file
// is incomplete.
package hls
