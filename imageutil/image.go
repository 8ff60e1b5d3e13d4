// Package imageutil provides the pure Go raster helpers behind the sketch
// pipeline: owned RGBA and grayscale buffers, luma conversion, 3x3
// convolution, resampling and image file I/O.
package imageutil

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to an opaque color.RGBA.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
// Its origin is always (0, 0) so Pix offsets can be computed directly.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new zeroed RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage copies any image.Image into a fresh opaque RGBAImage
// whose origin is (0, 0). The source is never aliased.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	bounds := img.Bounds()
	straight := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(straight, straight.Bounds(), img, bounds.Min, draw.Src)
	return flattenNRGBA(straight)
}

// flattenNRGBA keeps the un-premultiplied colour channels of img, the
// values a canvas reads back with getImageData, and drops alpha. Fully
// transparent pixels become black.
func flattenNRGBA(img *image.NRGBA) *RGBAImage {
	rgba := NewRGBAImage(img.Rect.Dx(), img.Rect.Dy())
	copy(rgba.Pix, img.Pix)
	for i := 0; i < len(rgba.Pix); i += 4 {
		if rgba.Pix[i+3] == 0 {
			rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2] = 0, 0, 0
		}
		rgba.Pix[i+3] = 255
	}
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	c := img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets the RGB value at (x, y) with full opacity.
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, c.ToColor())
}

// Clone creates a deep copy of the image.
func (img *RGBAImage) Clone() *RGBAImage {
	clone := NewRGBAImage(img.Width(), img.Height())
	copy(clone.Pix, img.Pix)
	return clone
}

// GrayImage wraps image.Gray for single-channel buffers (luma, edge maps).
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the grayscale value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.Pix[y*img.Stride+x]
}

// SetGrayValue sets the grayscale value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Pix[y*img.Stride+x] = v
}
