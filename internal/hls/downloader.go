package hls

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/naokawa/campus-dl/internal/httpx"
)

const (
	// segmentBufferSize is the write buffer between segment bodies and
	// the output file. Segments stream through it one at a time, so
	// memory stays bounded no matter how large the media file grows.
	segmentBufferSize = 1 << 20

	// outFileMode is applied to finished media files, best-effort.
	outFileMode = 0o644
)

// UnsupportedContentError indicates a stream this client refuses to
// download, currently only encrypted playlists. Never retried.
type UnsupportedContentError struct {
	URL    string
	Reason string
}

func (e *UnsupportedContentError) Error() string {
	return fmt.Sprintf("unsupported content at %s: %s", e.URL, e.Reason)
}

// Logger is the logging surface the downloader needs, matching the
// charmbracelet/log method set.
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

// Options tunes one Download call.
type Options struct {
	// Header is applied to the playlist and every segment request,
	// typically carrying the session Cookie.
	Header http.Header

	// OnProgress fires after each written segment with the 1-based
	// segment index and the total count.
	OnProgress func(segment, total int)
}

// Downloader fetches an HLS stream into a single local file.
//
// Master playlists are followed one level: the last declared variant
// is selected (streams are conventionally listed ascending by
// quality, so last is the highest bandwidth; kept as documented
// behavior rather than parsing bandwidth attributes). Segments are
// then streamed strictly sequentially into the output file.
//
// Any returned error means the download is incomplete; the output
// file may exist but must not be trusted.
type Downloader struct {
	http *httpx.Client
	log  Logger
}

// NewDownloader creates a Downloader. A nil logger disables logging.
func NewDownloader(client *httpx.Client, logger Logger) *Downloader {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Downloader{http: client, log: logger}
}

// Download fetches the playlist at playlistURL and writes its
// concatenated segments to outPath, creating parent directories as
// needed.
func (d *Downloader) Download(ctx context.Context, playlistURL, outPath string, opts Options) error {
	pl, mediaURL, err := d.resolveMediaPlaylist(ctx, playlistURL, opts.Header)
	if err != nil {
		return err
	}
	if len(pl.SegmentURLs) == 0 {
		return fmt.Errorf("media playlist %s has no segments", mediaURL)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}

	w := bufio.NewWriterSize(f, segmentBufferSize)
	downloadErr := d.writeSegments(ctx, pl.SegmentURLs, w, opts)
	if downloadErr == nil {
		downloadErr = w.Flush()
	}
	// The file handle is closed no matter how the download went.
	if err := f.Close(); err != nil && downloadErr == nil {
		downloadErr = err
	}
	if downloadErr != nil {
		return downloadErr
	}

	if err := os.Chmod(outPath, outFileMode); err != nil {
		d.log.Warn("could not set file mode", "path", outPath, "err", err)
	}
	return nil
}

// resolveMediaPlaylist fetches and parses playlistURL, following a
// master playlist to its last variant. Encryption is checked before
// anything is downloaded.
func (d *Downloader) resolveMediaPlaylist(ctx context.Context, playlistURL string, header http.Header) (*Playlist, string, error) {
	pl, err := d.fetchPlaylist(ctx, playlistURL, header)
	if err != nil {
		return nil, "", err
	}

	if !pl.IsMaster() {
		return pl, playlistURL, nil
	}

	mediaURL := pl.VariantURLs[len(pl.VariantURLs)-1]
	d.log.Debug("selected variant", "variants", len(pl.VariantURLs), "url", mediaURL)

	pl, err = d.fetchPlaylist(ctx, mediaURL, header)
	if err != nil {
		return nil, "", err
	}
	if pl.IsMaster() {
		return nil, "", fmt.Errorf("variant %s is itself a master playlist", mediaURL)
	}
	return pl, mediaURL, nil
}

func (d *Downloader) fetchPlaylist(ctx context.Context, playlistURL string, header http.Header) (*Playlist, error) {
	text, err := d.http.GetText(ctx, playlistURL, header)
	if err != nil {
		return nil, err
	}
	pl, err := Parse(text, playlistURL)
	if err != nil {
		return nil, err
	}
	if pl.Encrypted {
		return nil, &UnsupportedContentError{URL: playlistURL, Reason: "stream is encrypted"}
	}
	return pl, nil
}

// writeSegments streams the segments one at a time, in order, into w.
func (d *Downloader) writeSegments(ctx context.Context, segments []string, w io.Writer, opts Options) error {
	total := len(segments)
	for i, segURL := range segments {
		body, err := d.http.Get(ctx, segURL, opts.Header)
		if err != nil {
			return fmt.Errorf("segment %d/%d: %w", i+1, total, err)
		}
		_, err = io.Copy(w, body)
		body.Close()
		if err != nil {
			return fmt.Errorf("segment %d/%d: %w", i+1, total, err)
		}
		if opts.OnProgress != nil {
			opts.OnProgress(i+1, total)
		}
	}
	return nil
}
