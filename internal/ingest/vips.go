package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/davidbyttow/govips/v2/vips"
)

// VipsTranscoder implements Transcoder on top of libvips.
type VipsTranscoder struct{}

func NewVipsTranscoder() *VipsTranscoder {
	return &VipsTranscoder{}
}

// Probe returns resolution and byte size. The resolution comes from a
// header-only decode where possible, falling back to libvips for formats
// the stdlib cannot parse.
func (t *VipsTranscoder) Probe(ctx context.Context, path string) (*Metadata, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat media file: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open media file: %w", err)
	}
	width, height, decErr := DecodeDimensions(file)
	file.Close()
	if decErr == nil {
		return &Metadata{Width: width, Height: height, Size: stat.Size()}, nil
	}

	img, err := vips.NewImageFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load media file: %w", err)
	}
	defer img.Close()

	return &Metadata{Width: img.Width(), Height: img.Height(), Size: stat.Size()}, nil
}

// Thumbnail scales the first frame to fit within ThumbnailSize preserving
// aspect ratio, pads it to an exact ThumbnailSize square with white and
// exports PNG bytes.
func (t *VipsTranscoder) Thumbnail(ctx context.Context, path string) ([]byte, error) {
	img, err := vips.NewImageFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load media file: %w", err)
	}
	defer img.Close()

	if err := img.ThumbnailWithSize(ThumbnailSize, ThumbnailSize, vips.InterestingNone, vips.SizeDown); err != nil {
		return nil, fmt.Errorf("failed to scale thumbnail: %w", err)
	}

	// Drop any alpha channel before padding so the border is opaque white.
	if img.HasAlpha() {
		if err := img.Flatten(&vips.Color{R: 255, G: 255, B: 255}); err != nil {
			return nil, fmt.Errorf("failed to flatten thumbnail: %w", err)
		}
	}

	left := (ThumbnailSize - img.Width()) / 2
	top := (ThumbnailSize - img.Height()) / 2
	if err := img.EmbedBackground(left, top, ThumbnailSize, ThumbnailSize, &vips.Color{R: 255, G: 255, B: 255}); err != nil {
		return nil, fmt.Errorf("failed to pad thumbnail: %w", err)
	}

	data, _, err := img.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("failed to export thumbnail: %w", err)
	}
	return data, nil
}
