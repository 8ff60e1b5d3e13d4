package imageutil

import "math"

// Kernel3 is a 3x3 convolution kernel in row-major order. Index 0 is the
// top-left weight and index 8 the bottom-right one.
type Kernel3 [9]float64

// Sobel kernels for horizontal and vertical intensity gradients.
var (
	SobelXKernel = Kernel3{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	}
	SobelYKernel = Kernel3{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	}
)

// At returns the kernel response centred on (x, y). The neighbourhood is
// enumerated row by row in the same order as the kernel weights, so the
// caller must keep (x, y) at least one pixel away from every border.
func (k *Kernel3) At(gray *GrayImage, x, y int) float64 {
	var sum float64
	i := 0
	for dy := -1; dy <= 1; dy++ {
		row := gray.Pix[(y+dy)*gray.Stride:]
		for dx := -1; dx <= 1; dx++ {
			sum += float64(row[x+dx]) * k[i]
			i++
		}
	}
	return sum
}

// SobelMagnitude computes hypot(Gx, Gy) for every interior pixel of gray.
// The result is row-major with one float32 per pixel; the first and last
// rows and columns are never computed and remain zero. peak is the largest
// magnitude in the buffer, zero for flat or degenerate images.
func SobelMagnitude(gray *GrayImage) (mag []float32, peak float32) {
	width, height := gray.Width(), gray.Height()
	mag = make([]float32, width*height)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			sx := SobelXKernel.At(gray, x, y)
			sy := SobelYKernel.At(gray, x, y)
			v := float32(math.Hypot(sx, sy))
			mag[y*width+x] = v
			if v > peak {
				peak = v
			}
		}
	}

	return mag, peak
}
