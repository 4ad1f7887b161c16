package ingest

import "context"

// ThumbnailSize is the fixed edge length of generated thumbnails.
const ThumbnailSize = 200

// Metadata is the probed description of an uploaded media file.
type Metadata struct {
	Width  int
	Height int
	Size   int64
}

// Transcoder probes media files and renders their thumbnails. It is an
// interface so the pipeline can be exercised without libvips.
type Transcoder interface {
	// Probe returns the true resolution and byte size of the file.
	Probe(ctx context.Context, path string) (*Metadata, error)
	// Thumbnail renders one representative frame scaled to fit within
	// ThumbnailSize, padded to an exact square on white, as PNG bytes.
	Thumbnail(ctx context.Context, path string) ([]byte, error)
}
