package render

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// FontCache memoizes font.Face lookups by pixel size. It belongs to a
// single Style and is not safe for concurrent use, matching the
// single-threaded pipeline.
type FontCache struct {
	src   *opentype.Font
	faces map[int]font.Face
}

// NewFontCache parses the embedded Go Bold face.
func NewFontCache() (*FontCache, error) {
	src, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	return &FontCache{src: src, faces: make(map[int]font.Face)}, nil
}

// Face returns a face whose em height is size pixels.
func (c *FontCache) Face(size int) font.Face {
	if f, ok := c.faces[size]; ok {
		return f
	}
	// At 72 DPI one point is one pixel, so Size doubles as pixel size.
	f, err := opentype.NewFace(c.src, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// Parse succeeded, so face creation cannot realistically fail;
		// fall back to the nearest cached face rather than panic.
		for _, cached := range c.faces {
			f = cached
			break
		}
	}
	c.faces[size] = f
	return f
}
