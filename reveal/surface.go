package reveal

import (
	"time"

	"github.com/wbrown/img2sketch"
)

// Surface is the display the choreography drives: a canvas showing the
// sketch, the original photo stacked over it and a progress bar inside a
// container. Every method is called with the choreographer's lock held,
// so implementations must not call back into the Choreographer.
type Surface interface {
	// Paint replaces the canvas content with a finished sketch in one step.
	Paint(res *img2sketch.RenderResult)

	// SetProgress moves the bar to percent (0-100). A zero transition
	// jumps there immediately; otherwise the bar animates linearly.
	SetProgress(percent float64, transition time.Duration)

	// HidePhoto makes the original photo fully transparent.
	HidePhoto()

	// RevealPhoto fades the original photo to full opacity over fade and
	// marks it loaded.
	RevealPhoto(fade time.Duration)

	// SetCanvasOpacity sets the opacity of the sketch canvas.
	SetCanvasOpacity(opacity float64)

	// SetProgressOpacity sets the opacity of the progress container.
	SetProgressOpacity(opacity float64)
}

// Clock schedules callbacks. The real clock uses time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback returned by Clock.AfterFunc.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or was stopped.
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return realClock{} }
