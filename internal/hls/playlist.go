package hls

import (
	"net/url"
	"strings"
)

const (
	keyTag       = "#EXT-X-KEY"
	streamInfTag = "#EXT-X-STREAM-INF"
)

// Playlist is the parsed form of one manifest. Whether it is a master
// or a media playlist is determined structurally: a manifest that
// declares variants is a master, everything else is media.
type Playlist struct {
	// VariantURLs are the alternate-quality sub-manifests of a master
	// playlist, absolute, in declaration order.
	VariantURLs []string

	// SegmentURLs are the media chunks of a media playlist, absolute,
	// in file order.
	SegmentURLs []string

	// Encrypted is set when the manifest carries a key tag. Encrypted
	// streams cannot be downloaded.
	Encrypted bool
}

// IsMaster reports whether the playlist declares variant streams.
func (p *Playlist) IsMaster() bool {
	return len(p.VariantURLs) > 0
}

// Parse reads a manifest line by line. Relative URIs are resolved
// against playlistURL, which is also the only thing that can make
// Parse fail.
func Parse(body, playlistURL string) (*Playlist, error) {
	base, err := url.Parse(playlistURL)
	if err != nil {
		return nil, err
	}

	pl := &Playlist{}
	expectVariant := false
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			switch {
			case strings.HasPrefix(line, keyTag):
				pl.Encrypted = true
			case strings.HasPrefix(line, streamInfTag):
				expectVariant = true
			}
			continue
		}

		resolved := resolveURL(base, line)
		if expectVariant {
			pl.VariantURLs = append(pl.VariantURLs, resolved)
			expectVariant = false
		} else {
			pl.SegmentURLs = append(pl.SegmentURLs, resolved)
		}
	}
	return pl, nil
}

// resolveURL makes ref absolute against base. An unparseable ref is
// kept as-is and left for the fetch to reject.
func resolveURL(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
