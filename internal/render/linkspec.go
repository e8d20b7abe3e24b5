package render

import "image"

// LinkSpec is one internal navigation link, in raster pixel space.
// SourcePage and TargetPage are 1-based output PDF pages; the source
// page of summary links is filled in once the summary's position in
// the page list is known.
type LinkSpec struct {
	Rect       image.Rectangle
	SourcePage int
	TargetPage int
}
