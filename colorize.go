package img2sketch

import (
	"math"

	"github.com/wbrown/img2sketch/imageutil"
)

const (
	// posterizeStep is the width of one colour band; 256/32 gives 8 levels
	// per channel.
	posterizeStep = 32

	edgeExponent = 0.9  // concave curve favouring mid and strong edges
	edgeShade    = 0.88 // how much a full-strength edge darkens the base
	edgeBlend    = 0.95 // maximum share of the tint in the final colour
)

// Posterize quantizes a channel to the bottom of its 32-wide band, giving
// one of 0, 32, ..., 224.
func Posterize(c uint8) uint8 {
	return c / posterizeStep * posterizeStep
}

// EdgeFactor maps a normalized edge strength to e^0.9.
func EdgeFactor(e float64) float64 {
	return math.Pow(e, edgeExponent)
}

// shadeChannel applies the edge shade and theme boost to a posterized
// channel.
func shadeChannel(p uint8, shade, boost float64) uint8 {
	return imageutil.ClampUint8(float64(p) * shade * boost)
}

// blendChannel mixes the tint into a shaded channel. The explicit
// conversions round each product so no platform fuses them into an FMA.
func blendChannel(c, tint uint8, blend float64) uint8 {
	return imageutil.ClampUint8(float64(float64(c)*(1-blend)) + float64(float64(tint)*blend))
}

// SketchPixel computes the final colour of one pixel from its source
// colour, its normalized edge strength and the active tint.
func SketchPixel(src imageutil.RGB, e float64, tint ThemeTint) imageutil.RGB {
	ef := EdgeFactor(e)
	shade := 1 - float64(edgeShade*ef)
	blend := ef * edgeBlend

	return imageutil.RGB{
		R: blendChannel(shadeChannel(Posterize(src.R), shade, tint.Boost), tint.R, blend),
		G: blendChannel(shadeChannel(Posterize(src.G), shade, tint.Boost), tint.G, blend),
		B: blendChannel(shadeChannel(Posterize(src.B), shade, tint.Boost), tint.B, blend),
	}
}

// Colorize posterizes base, shades it by edge strength and blends in the
// tint, writing a fully opaque result into a new image. base and edges must
// have the same dimensions.
func Colorize(base *imageutil.RGBAImage, edges *EdgeMap, tint ThemeTint) *imageutil.RGBAImage {
	width, height := base.Width(), base.Height()
	out := imageutil.NewRGBAImage(width, height)

	for y := 0; y < height; y++ {
		src := base.Pix[y*base.Stride : y*base.Stride+width*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+width*4]
		for x := 0; x < width; x++ {
			i := x * 4
			c := SketchPixel(imageutil.RGB{R: src[i], G: src[i+1], B: src[i+2]}, edges.At(x, y), tint)
			dst[i] = c.R
			dst[i+1] = c.G
			dst[i+2] = c.B
			dst[i+3] = 255
		}
	}

	return out
}
