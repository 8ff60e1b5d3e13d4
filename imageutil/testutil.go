package imageutil

import "image/color"

// Synthetic images used by the tests of this module and its dependents.

// CreateGradientImage creates a horizontal gray gradient.
func CreateGradientImage(width, height int) *RGBAImage {
	img := NewRGBAImage(width, height)
	den := max(width-1, 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 * x / den)
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// CreateCheckerboardImage creates a black and white checkerboard.
func CreateCheckerboardImage(width, height, squareSize int) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				img.SetRGB(x, y, RGB{R: 255, G: 255, B: 255})
			} else {
				img.SetRGB(x, y, RGB{})
			}
		}
	}
	return img
}

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c RGB) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, c)
		}
	}
	return img
}

// CreateEdgeImage creates a gray image with a white centre rectangle and a
// black diagonal, giving a mix of strong and weak edges.
func CreateEdgeImage(width, height int) *RGBAImage {
	img := CreateSolidImage(width, height, RGB{R: 128, G: 128, B: 128})

	rx1, ry1 := width/4, height/4
	rx2, ry2 := 3*width/4, 3*height/4
	for y := ry1; y < ry2; y++ {
		for x := rx1; x < rx2; x++ {
			img.SetRGB(x, y, RGB{R: 255, G: 255, B: 255})
		}
	}

	for i := 0; i < min(width, height)/2; i++ {
		img.SetRGB(i, i, RGB{})
	}

	return img
}

// CreatePortraitImage creates a colourful test image: a warm radial
// "face" on a cool background with a dark band for "hair".
func CreatePortraitImage(width, height int) *RGBAImage {
	img := NewRGBAImage(width, height)
	cx, cy := width/2, height/2
	r2 := (min(width, height) / 3) * (min(width, height) / 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := x-cx, y-cy
			switch {
			case y < height/5:
				img.SetRGB(x, y, RGB{R: 40, G: 28, B: 20})
			case dx*dx+dy*dy <= r2:
				img.SetRGB(x, y, RGB{R: 230, G: uint8(160 + y%40), B: 130})
			default:
				img.SetRGB(x, y, RGB{R: 60, G: uint8(100 + x%60), B: 200})
			}
		}
	}
	return img
}

// CalculateMaxDiff returns the largest per-channel difference between two
// images, or 256 when their sizes differ.
func CalculateMaxDiff(img1, img2 *RGBAImage) int {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return 256
	}

	maxDiff := 0
	for i := range img1.Pix {
		d := int(img1.Pix[i]) - int(img2.Pix[i])
		if d < 0 {
			d = -d
		}
		maxDiff = max(maxDiff, d)
	}
	return maxDiff
}
