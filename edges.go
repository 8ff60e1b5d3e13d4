package img2sketch

import (
	"github.com/wbrown/img2sketch/imageutil"
)

// EdgeMap holds the Sobel gradient magnitude of every pixel of an image
// and its normalization to [0, 1].
//
// Border pixels (first and last row and column) are never computed and are
// always zero in both Magnitude and Strength.
type EdgeMap struct {
	Width, Height int

	// Magnitude is hypot(Gx, Gy) per pixel, row-major and unclamped.
	Magnitude []float32
	// Max is the largest value in Magnitude.
	Max float32
	// Strength is Magnitude scaled by 1/Max and clamped to [0, 1]. It is
	// all zeros when Max is zero.
	Strength []float64
}

// ExtractEdges converts img to luma, runs the Sobel operator over it and
// normalizes the result by the global maximum. Normalization needs the
// full magnitude buffer, so nothing downstream may start before this
// returns.
func ExtractEdges(img *imageutil.RGBAImage) *EdgeMap {
	return extractEdges(imageutil.ToGrayscale(img))
}

func extractEdges(gray *imageutil.GrayImage) *EdgeMap {
	mag, peak := imageutil.SobelMagnitude(gray)

	var invMax float64
	if peak > 0 {
		invMax = 1 / float64(peak)
	}

	strength := make([]float64, len(mag))
	for i, m := range mag {
		strength[i] = min(1, max(0, float64(m)*invMax))
	}

	return &EdgeMap{
		Width:     gray.Width(),
		Height:    gray.Height(),
		Magnitude: mag,
		Max:       peak,
		Strength:  strength,
	}
}

// At returns the normalized edge strength at (x, y).
func (m *EdgeMap) At(x, y int) float64 {
	return m.Strength[y*m.Width+x]
}

// Gray renders the normalized strengths as an 8-bit image, 255 being the
// strongest edge in the picture.
func (m *EdgeMap) Gray() *imageutil.GrayImage {
	gray := imageutil.NewGrayImage(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			gray.SetGrayValue(x, y, imageutil.ClampUint8(m.At(x, y)*255))
		}
	}
	return gray
}
