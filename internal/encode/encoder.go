package encode

import (
	"fmt"
	"image"
)

// TileType constants matching PMTiles v3 spec; kept because PMTileType
// still reports them, even though only the PNG and WebP rows are reachable
// from NewEncoder.
const (
	TileTypeUnknown = 0
	TileTypeMVT     = 1
	TileTypePNG     = 2
	TileTypeWebP    = 4
)

// Encoder encodes a rendered canvas into output file bytes.
type Encoder interface {
	// Encode encodes an image to bytes in the output format.
	Encode(img image.Image) ([]byte, error)

	// Format returns the format name (e.g. "png", "webp").
	Format() string

	// PMTileType returns the PMTiles tile type constant this format maps to.
	PMTileType() uint8

	// FileExtension returns the appropriate file extension.
	FileExtension() string
}

// NewEncoder creates an encoder for the given format and quality. Quality
// is ignored by the PNG encoder.
func NewEncoder(format string, quality int) (Encoder, error) {
	switch format {
	case "png":
		return &PNGEncoder{}, nil
	case "webp":
		return newWebPEncoder(quality)
	default:
		return nil, fmt.Errorf("unsupported output format: %q (supported: png, webp)", format)
	}
}
