package imageutil

import "math"

// BT.601 luma weights, the same weights OpenCV uses for COLOR_BGR2GRAY.
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// Luma returns round(0.299*r + 0.587*g + 0.114*b), rounding halves up.
// The result always fits a byte because the weights sum to one. Each
// product is converted explicitly so it is never fused into an FMA.
func Luma(r, g, b uint8) uint8 {
	return uint8(RoundHalfUp(float64(LumaR*float64(r)) + float64(LumaG*float64(g)) + float64(LumaB*float64(b))))
}

// ToGrayscale converts an RGBA image to a row-major luma buffer of the
// same dimensions.
func ToGrayscale(img *RGBAImage) *GrayImage {
	width, height := img.Width(), img.Height()
	gray := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+width*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+width]
		for x := range dst {
			i := x * 4
			dst[x] = Luma(src[i], src[i+1], src[i+2])
		}
	}

	return gray
}

// RoundHalfUp rounds to the nearest integer with halves going towards
// positive infinity, so 2.5 becomes 3 and -2.5 becomes -2.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// ClampUint8 rounds v half-up and clamps it to [0, 255].
func ClampUint8(v float64) uint8 {
	v = RoundHalfUp(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
