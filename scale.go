package img2sketch

import "math"

const (
	// MaxDimension bounds the longer side of the rendered sketch.
	MaxDimension = 900
	// MinWidth is the smallest width a sketch is rendered at.
	MinWidth = 260
)

// Dimensions is the pixel size of a rendered sketch.
type Dimensions struct {
	Width, Height int
}

// ScaleDimensions computes the output size for a w x h source.
//
// The longer side is scaled down to at most maxDimension, never up. The
// width is then raised to minWidth if it fell below it; the height is not
// rescaled in that case, so very narrow sources come out stretched.
func ScaleDimensions(w, h, maxDimension, minWidth int) (Dimensions, error) {
	if w <= 0 || h <= 0 {
		return Dimensions{}, &InvalidSourceImageError{Width: w, Height: h}
	}

	scale := math.Min(1, float64(maxDimension)/float64(max(w, h)))
	return Dimensions{
		Width:  max(minWidth, int(math.Floor(float64(w)*scale))),
		Height: int(math.Floor(float64(h) * scale)),
	}, nil
}
