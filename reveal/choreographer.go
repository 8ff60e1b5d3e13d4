// Package reveal sequences the on-screen presentation of a sketch: paint
// the canvas, run a progress bar for a fixed time, fade the original photo
// in over the sketch and finally fade the sketch out.
//
// A Choreographer owns the source image. Loading a new image or switching
// theme re-renders and restarts the sequence; timers from the superseded
// cycle are stopped, and any that already fired are ignored because each
// callback checks the render generation it was scheduled for.
package reveal

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wbrown/img2sketch"
)

// ErrNoImage is returned by SetTheme and Replay before any image has been
// loaded.
var ErrNoImage = errors.New("reveal: no image loaded")

// State is a step of the reveal sequence.
type State int

const (
	Idle State = iota
	Rendering
	ProgressAnimating
	Revealing
	Settled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	case ProgressAnimating:
		return "progress"
	case Revealing:
		return "revealing"
	case Settled:
		return "settled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Schedule holds the durations of the timed phases.
type Schedule struct {
	// Progress is how long the bar takes to fill before the photo shows.
	Progress time.Duration
	// PhotoFade is the fade-in duration of the original photo.
	PhotoFade time.Duration
	// CanvasDelay is how long after the reveal starts the canvas hides.
	CanvasDelay time.Duration
}

// DefaultSchedule is 3s of progress, an 800ms photo fade and the canvas
// hidden 500ms into the reveal.
var DefaultSchedule = Schedule{
	Progress:    3000 * time.Millisecond,
	PhotoFade:   800 * time.Millisecond,
	CanvasDelay: 500 * time.Millisecond,
}

// StateHook observes transitions. gen is the render generation the
// transition belongs to.
type StateHook func(state State, gen uint64)

// Choreographer runs the reveal sequence against a Surface.
type Choreographer struct {
	mu sync.Mutex

	renderer *img2sketch.Renderer
	surface  Surface
	clock    Clock
	schedule Schedule
	logger   *log.Logger
	hook     StateHook

	image  image.Image
	theme  img2sketch.Theme
	state  State
	gen    uint64
	timers []Timer
	result *img2sketch.RenderResult
}

// Option configures a Choreographer.
type Option func(*Choreographer)

// WithRenderer sets the renderer used for every cycle.
func WithRenderer(r *img2sketch.Renderer) Option {
	return func(c *Choreographer) {
		if r != nil {
			c.renderer = r
		}
	}
}

// WithClock replaces the timer source.
func WithClock(clock Clock) Option {
	return func(c *Choreographer) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithSchedule sets the phase durations.
func WithSchedule(s Schedule) Option {
	return func(c *Choreographer) {
		c.schedule = s
	}
}

// WithLogger sets the logger for transitions and render failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Choreographer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStateHook registers a callback invoked on every transition, with
// the choreographer's lock held.
func WithStateHook(h StateHook) Option {
	return func(c *Choreographer) {
		c.hook = h
	}
}

// New creates an idle Choreographer driving surface.
func New(surface Surface, opts ...Option) *Choreographer {
	c := &Choreographer{
		renderer: img2sketch.NewRenderer(),
		surface:  surface,
		clock:    RealClock(),
		schedule: DefaultSchedule,
		logger:   log.New(io.Discard),
		theme:    img2sketch.DefaultTheme,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load takes ownership of a decoded image and starts a cycle for theme.
// On an invalid image the choreographer returns to Idle, nothing is
// painted, and the error is returned.
func (c *Choreographer) Load(img image.Image, theme img2sketch.Theme) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.image = img
	c.theme = theme
	return c.start()
}

// SetTheme re-renders the loaded image for theme and restarts the
// sequence from the beginning.
func (c *Choreographer) SetTheme(theme img2sketch.Theme) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.image == nil {
		return ErrNoImage
	}
	c.theme = theme
	return c.start()
}

// ToggleTheme switches between light and dark and restarts the sequence.
// It returns the theme now in effect.
func (c *Choreographer) ToggleTheme() (img2sketch.Theme, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.image == nil {
		return c.theme, ErrNoImage
	}
	c.theme = c.theme.Toggle()
	return c.theme, c.start()
}

// Replay restarts the sequence with the current image and theme.
func (c *Choreographer) Replay() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.image == nil {
		return ErrNoImage
	}
	return c.start()
}

// Stop cancels pending timers and returns to Idle. The surface is left as
// it is.
func (c *Choreographer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.cancelTimers()
	c.transition(Idle)
}

// State returns the current state.
func (c *Choreographer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Generation returns the number of cycles started so far.
func (c *Choreographer) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Theme returns the theme of the current or most recent cycle.
func (c *Choreographer) Theme() img2sketch.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// Result returns the most recently painted sketch, or nil.
func (c *Choreographer) Result() *img2sketch.RenderResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// start begins a new cycle. c.mu must be held.
func (c *Choreographer) start() error {
	c.gen++
	c.cancelTimers()
	gen := c.gen

	c.transition(Rendering)
	begin := time.Now()
	res, err := c.renderer.Render(img2sketch.RenderContext{Image: c.image, Theme: c.theme})
	if err != nil {
		c.logger.Warn("Render failed", "gen", gen, "err", err)
		c.transition(Idle)
		return err
	}
	c.logger.Debug("Rendered sketch",
		"gen", gen,
		"theme", res.Theme,
		"size", fmt.Sprintf("%dx%d", res.Dimensions.Width, res.Dimensions.Height),
		"took", time.Since(begin).Round(time.Millisecond))

	c.result = res
	c.surface.HidePhoto()
	c.surface.SetCanvasOpacity(1)
	c.surface.SetProgressOpacity(1)
	c.surface.Paint(res)

	// Jump to 0% without a transition, then animate to 100%.
	c.surface.SetProgress(0, 0)
	c.surface.SetProgress(100, c.schedule.Progress)
	c.transition(ProgressAnimating)

	c.after(gen, c.schedule.Progress, func() {
		c.surface.RevealPhoto(c.schedule.PhotoFade)
		c.surface.SetProgressOpacity(0)
		c.transition(Revealing)

		c.after(gen, c.schedule.CanvasDelay, func() {
			c.surface.SetCanvasOpacity(0)
			c.transition(Settled)
		})
	})
	return nil
}

// after runs f once d has elapsed, provided generation gen is still
// current. c.mu must be held; f runs with c.mu held.
func (c *Choreographer) after(gen uint64, d time.Duration, f func()) {
	t := c.clock.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.gen {
			return
		}
		f()
	})
	c.timers = append(c.timers, t)
}

func (c *Choreographer) cancelTimers() {
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = c.timers[:0]
}

func (c *Choreographer) transition(s State) {
	if c.state == s {
		return
	}
	c.logger.Debug("Reveal state", "gen", c.gen, "from", c.state, "to", s)
	c.state = s
	if c.hook != nil {
		c.hook(s, c.gen)
	}
}
