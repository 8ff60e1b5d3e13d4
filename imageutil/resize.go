package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationLinear uses bilinear interpolation, the closest match
	// to what a browser canvas does in drawImage.
	InterpolationLinear Interpolation = iota

	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	InterpolationArea

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest
)

// String returns the flag spelling of the interpolation method.
func (i Interpolation) String() string {
	switch i {
	case InterpolationArea:
		return "area"
	case InterpolationNearest:
		return "nearest"
	default:
		return "linear"
	}
}

// ParseInterpolation maps "linear", "area" and "nearest" to an
// Interpolation. ok is false for anything else.
func ParseInterpolation(s string) (interp Interpolation, ok bool) {
	switch s {
	case "", "linear", "bilinear":
		return InterpolationLinear, true
	case "area", "catmullrom":
		return InterpolationArea, true
	case "nearest":
		return InterpolationNearest, true
	}
	return InterpolationLinear, false
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationArea:
		return draw.CatmullRom
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.BiLinear
	}
}

// Resize draws src into a fresh opaque width x height RGBAImage holding the
// straight colour of every scaled pixel. When the target size equals the
// source size the pixels are copied without resampling.
func Resize(src image.Image, width, height int, interp Interpolation) *RGBAImage {
	bounds := src.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return RGBAImageFromImage(src)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	interp.scaler().Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return flattenNRGBA(dst)
}
