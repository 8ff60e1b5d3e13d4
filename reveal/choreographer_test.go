package reveal

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/wbrown/img2sketch"
	"github.com/wbrown/img2sketch/imageutil"
)

// fakeClock fires timers only when Advance is called. With leaky set,
// Stop reports success but the callback still runs, which is what happens
// when a real timer fires just before it is stopped.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
	leaky  bool
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	if !t.clock.leaky {
		t.stopped = true
	}
	return true
}

// Advance moves time forward by d, running due callbacks in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	for {
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.fired && !t.stopped && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			break
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at != due[j].at {
				return due[i].at < due[j].at
			}
			return due[i].seq < due[j].seq
		})
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

func (c *fakeClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// recordingSurface logs every call as "<ms> <event>".
type recordingSurface struct {
	mu     sync.Mutex
	clock  *fakeClock
	events []string
	paints []*img2sketch.RenderResult
}

func (s *recordingSurface) record(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var at time.Duration
	if s.clock != nil {
		at = s.clock.Now()
	}
	s.events = append(s.events, fmt.Sprintf("%d %s", at.Milliseconds(), fmt.Sprintf(format, args...)))
}

func (s *recordingSurface) Paint(res *img2sketch.RenderResult) {
	s.mu.Lock()
	s.paints = append(s.paints, res)
	s.mu.Unlock()
	s.record("paint %s", res.Theme)
}

func (s *recordingSurface) SetProgress(percent float64, transition time.Duration) {
	s.record("progress %.0f%% over %s", percent, transition)
}

func (s *recordingSurface) HidePhoto() { s.record("photo hidden") }

func (s *recordingSurface) RevealPhoto(fade time.Duration) { s.record("photo revealed over %s", fade) }

func (s *recordingSurface) SetCanvasOpacity(opacity float64) { s.record("canvas %.0f", opacity) }

func (s *recordingSurface) SetProgressOpacity(opacity float64) { s.record("bar %.0f", opacity) }

func (s *recordingSurface) take() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := s.events
	s.events = nil
	return ev
}

func newTestChoreographer(t *testing.T, opts ...Option) (*Choreographer, *fakeClock, *recordingSurface) {
	t.Helper()
	clock := &fakeClock{}
	surface := &recordingSurface{clock: clock}
	opts = append([]Option{WithClock(clock)}, opts...)
	return New(surface, opts...), clock, surface
}

func testImage() image.Image {
	return imageutil.CreatePortraitImage(320, 200)
}

func assertEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d events, got %d:\n%q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func assertState(t *testing.T, c *Choreographer, want State) {
	t.Helper()
	if got := c.State(); got != want {
		t.Fatalf("State = %s, want %s", got, want)
	}
}

func TestChoreographerFullSequence(t *testing.T) {
	c, clock, surface := newTestChoreographer(t)
	assertState(t, c, Idle)

	if err := c.Load(testImage(), img2sketch.ThemeLight); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	assertState(t, c, ProgressAnimating)
	assertEvents(t, surface.take(), []string{
		"0 photo hidden",
		"0 canvas 1",
		"0 bar 1",
		"0 paint light",
		"0 progress 0% over 0s",
		"0 progress 100% over 3s",
	})

	clock.Advance(2999 * time.Millisecond)
	assertState(t, c, ProgressAnimating)
	assertEvents(t, surface.take(), nil)

	clock.Advance(time.Millisecond)
	assertState(t, c, Revealing)
	assertEvents(t, surface.take(), []string{
		"3000 photo revealed over 800ms",
		"3000 bar 0",
	})

	clock.Advance(499 * time.Millisecond)
	assertState(t, c, Revealing)

	clock.Advance(time.Millisecond)
	assertState(t, c, Settled)
	assertEvents(t, surface.take(), []string{"3500 canvas 0"})

	if res := c.Result(); res == nil || res.Theme != img2sketch.ThemeLight {
		t.Errorf("Result should be the light sketch, got %+v", res)
	}
}

func TestChoreographerInvalidImage(t *testing.T) {
	c, clock, surface := newTestChoreographer(t)

	err := c.Load(image.NewRGBA(image.Rect(0, 0, 0, 0)), img2sketch.ThemeDark)
	if !errors.Is(err, img2sketch.ErrInvalidSourceImage) {
		t.Fatalf("Load error = %v, want ErrInvalidSourceImage", err)
	}
	assertState(t, c, Idle)

	clock.Advance(10 * time.Second)
	assertState(t, c, Idle)
	assertEvents(t, surface.take(), nil)
	if c.Result() != nil {
		t.Error("Failed render should not produce a result")
	}
}

func TestChoreographerNoImage(t *testing.T) {
	c, _, _ := newTestChoreographer(t)

	if err := c.SetTheme(img2sketch.ThemeLight); !errors.Is(err, ErrNoImage) {
		t.Errorf("SetTheme error = %v, want ErrNoImage", err)
	}
	if _, err := c.ToggleTheme(); !errors.Is(err, ErrNoImage) {
		t.Errorf("ToggleTheme error = %v, want ErrNoImage", err)
	}
	if err := c.Replay(); !errors.Is(err, ErrNoImage) {
		t.Errorf("Replay error = %v, want ErrNoImage", err)
	}
}

func TestChoreographerThemeChangeDuringProgress(t *testing.T) {
	c, clock, surface := newTestChoreographer(t)

	if err := c.Load(testImage(), img2sketch.ThemeLight); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	clock.Advance(2 * time.Second)
	surface.take()

	if err := c.SetTheme(img2sketch.ThemeDark); err != nil {
		t.Fatalf("SetTheme error: %v", err)
	}
	assertState(t, c, ProgressAnimating)
	assertEvents(t, surface.take(), []string{
		"2000 photo hidden",
		"2000 canvas 1",
		"2000 bar 1",
		"2000 paint dark",
		"2000 progress 0% over 0s",
		"2000 progress 100% over 3s",
	})

	// The first cycle would have revealed at 3000ms.
	clock.Advance(time.Second)
	assertState(t, c, ProgressAnimating)
	assertEvents(t, surface.take(), nil)

	clock.Advance(2 * time.Second)
	assertState(t, c, Revealing)
	assertEvents(t, surface.take(), []string{
		"5000 photo revealed over 800ms",
		"5000 bar 0",
	})

	clock.Advance(500 * time.Millisecond)
	assertState(t, c, Settled)
	if got := c.Generation(); got != 2 {
		t.Errorf("Generation = %d, want 2", got)
	}
	if len(surface.paints) != 2 || surface.paints[1].Theme != img2sketch.ThemeDark {
		t.Errorf("Expected a second paint in dark theme, got %d paints", len(surface.paints))
	}
}

func TestChoreographerStaleTimersIgnored(t *testing.T) {
	for _, leaky := range []bool{false, true} {
		t.Run(fmt.Sprintf("leaky=%v", leaky), func(t *testing.T) {
			c, clock, surface := newTestChoreographer(t)
			clock.leaky = leaky

			if err := c.Load(testImage(), img2sketch.ThemeDark); err != nil {
				t.Fatalf("Load error: %v", err)
			}
			clock.Advance(3200 * time.Millisecond)
			assertState(t, c, Revealing)
			surface.take()

			theme, err := c.ToggleTheme()
			if err != nil {
				t.Fatalf("ToggleTheme error: %v", err)
			}
			if theme != img2sketch.ThemeLight {
				t.Fatalf("ToggleTheme = %s, want light", theme)
			}
			surface.take()

			// The superseded canvas fade was due at 3500ms.
			clock.Advance(time.Second)
			assertState(t, c, ProgressAnimating)
			assertEvents(t, surface.take(), nil)

			clock.Advance(2500 * time.Millisecond)
			assertState(t, c, Settled)
			assertEvents(t, surface.take(), []string{
				"6200 photo revealed over 800ms",
				"6200 bar 0",
				"6700 canvas 0",
			})
		})
	}
}

func TestChoreographerStateHook(t *testing.T) {
	type step struct {
		state State
		gen   uint64
	}
	var steps []step
	c, clock, _ := newTestChoreographer(t, WithStateHook(func(s State, gen uint64) {
		steps = append(steps, step{s, gen})
	}))

	if err := c.Load(testImage(), img2sketch.ThemeLight); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	clock.Advance(time.Second)
	if err := c.Replay(); err != nil {
		t.Fatalf("Replay error: %v", err)
	}
	clock.Advance(4 * time.Second)

	want := []step{
		{Rendering, 1},
		{ProgressAnimating, 1},
		{Rendering, 2},
		{ProgressAnimating, 2},
		{Revealing, 2},
		{Settled, 2},
	}
	if len(steps) != len(want) {
		t.Fatalf("Expected %d transitions, got %v", len(want), steps)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("Transition %d = %+v, want %+v", i, steps[i], want[i])
		}
	}
}

func TestChoreographerStop(t *testing.T) {
	c, clock, surface := newTestChoreographer(t)

	if err := c.Load(testImage(), img2sketch.ThemeLight); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	surface.take()
	c.Stop()
	assertState(t, c, Idle)

	clock.Advance(10 * time.Second)
	assertState(t, c, Idle)
	assertEvents(t, surface.take(), nil)
}

func TestChoreographerCustomSchedule(t *testing.T) {
	c, clock, _ := newTestChoreographer(t, WithSchedule(Schedule{
		Progress:    time.Second,
		PhotoFade:   100 * time.Millisecond,
		CanvasDelay: 200 * time.Millisecond,
	}))

	if err := c.Load(testImage(), img2sketch.ThemeLight); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	clock.Advance(time.Second)
	assertState(t, c, Revealing)
	clock.Advance(200 * time.Millisecond)
	assertState(t, c, Settled)
}

func TestChoreographerRealClock(t *testing.T) {
	surface := &recordingSurface{}
	c := New(surface, WithSchedule(Schedule{
		Progress:    20 * time.Millisecond,
		PhotoFade:   time.Millisecond,
		CanvasDelay: 10 * time.Millisecond,
	}))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i == 0 {
				if err := c.Load(testImage(), img2sketch.ThemeDark); err != nil {
					t.Errorf("Load error: %v", err)
				}
				return
			}
			// Racing toggles may run before the image is loaded.
			if _, err := c.ToggleTheme(); err != nil && !errors.Is(err, ErrNoImage) {
				t.Errorf("ToggleTheme error: %v", err)
			}
		}()
	}
	wg.Wait()

	deadline := time.Now().Add(5 * time.Second)
	for c.State() != Settled {
		if time.Now().After(deadline) {
			t.Fatalf("Choreography did not settle, state %s", c.State())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStateString(t *testing.T) {
	names := map[State]string{
		Idle:              "idle",
		Rendering:         "rendering",
		ProgressAnimating: "progress",
		Revealing:         "revealing",
		Settled:           "settled",
		State(42):         "State(42)",
	}
	for s, want := range names {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
