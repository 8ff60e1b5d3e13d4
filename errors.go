package img2sketch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSourceImage is returned when the source image is missing or
	// has a non-positive natural width or height. Nothing is rendered.
	ErrInvalidSourceImage = errors.New("invalid source image")

	// ErrUnknownTheme is returned by ParseTheme for anything other than
	// "light" or "dark".
	ErrUnknownTheme = errors.New("unknown theme")
)

// InvalidSourceImageError carries the offending natural dimensions.
// It matches ErrInvalidSourceImage with errors.Is.
type InvalidSourceImageError struct {
	Width, Height int
}

func (e *InvalidSourceImageError) Error() string {
	return fmt.Sprintf("%v: natural size %dx%d", ErrInvalidSourceImage, e.Width, e.Height)
}

func (e *InvalidSourceImageError) Is(target error) bool {
	return target == ErrInvalidSourceImage
}
