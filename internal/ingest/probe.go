package ingest

import (
	"image"
	"io"

	// Register decoders for the dimension probe.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeDimensions reads only the image header and returns its pixel
// dimensions. Cheaper than a full libvips load for common formats.
func DecodeDimensions(r io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
