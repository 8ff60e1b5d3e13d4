package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/wbrown/img2sketch"
	"github.com/wbrown/img2sketch/imageutil"
	"github.com/wbrown/img2sketch/reveal"
)

// Config is the on-disk configuration.
//
//	[render]
//	max_dimension = 900
//	min_width = 260
//	theme = "dark"
//	resampler = "linear"
//
//	[reveal]
//	progress = "3s"
//	photo_fade = "800ms"
//	canvas_delay = "500ms"
type Config struct {
	Render RenderConfig `toml:"render"`
	Reveal RevealConfig `toml:"reveal"`
}

type RenderConfig struct {
	MaxDimension int    `toml:"max_dimension"`
	MinWidth     int    `toml:"min_width"`
	Theme        string `toml:"theme"`
	Resampler    string `toml:"resampler"`
}

type RevealConfig struct {
	Progress    Duration `toml:"progress"`
	PhotoFade   Duration `toml:"photo_fade"`
	CanvasDelay Duration `toml:"canvas_delay"`
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %s", v)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig mirrors the library defaults.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			MaxDimension: img2sketch.MaxDimension,
			MinWidth:     img2sketch.MinWidth,
			Theme:        string(img2sketch.DefaultTheme),
			Resampler:    imageutil.InterpolationLinear.String(),
		},
		Reveal: RevealConfig{
			Progress:    Duration{reveal.DefaultSchedule.Progress},
			PhotoFade:   Duration{reveal.DefaultSchedule.PhotoFade},
			CanvasDelay: Duration{reveal.DefaultSchedule.CanvasDelay},
		},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/img2sketch/config.toml, or
// the empty string if no config directory can be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.toml")
}

type configNotFoundError struct {
	path string
}

func (e *configNotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.path)
}

// LoadConfig decodes path on top of DefaultConfig. found is false, with a
// nil error, when the file does not exist. Unknown keys are rejected.
func LoadConfig(path string) (cfg Config, found bool, err error) {
	cfg = DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), false, nil
	}
	if err != nil {
		return DefaultConfig(), true, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return DefaultConfig(), true, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), true, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, true, nil
}

// Validate checks values the library would otherwise silently replace.
func (c Config) Validate() error {
	if c.Render.MaxDimension <= 0 {
		return fmt.Errorf("max_dimension must be positive, got %d", c.Render.MaxDimension)
	}
	if c.Render.MinWidth < 0 {
		return fmt.Errorf("min_width must not be negative, got %d", c.Render.MinWidth)
	}
	if _, err := c.Theme(); err != nil {
		return err
	}
	if _, ok := imageutil.ParseInterpolation(c.Render.Resampler); !ok {
		return fmt.Errorf("unknown resampler %q", c.Render.Resampler)
	}
	return nil
}

// Theme returns the configured theme.
func (c Config) Theme() (img2sketch.Theme, error) {
	return img2sketch.ParseTheme(c.Render.Theme)
}

// Renderer builds a renderer from the render section.
func (c Config) Renderer() (*img2sketch.Renderer, error) {
	interp, ok := imageutil.ParseInterpolation(c.Render.Resampler)
	if !ok {
		return nil, fmt.Errorf("unknown resampler %q", c.Render.Resampler)
	}
	return img2sketch.NewRenderer(
		img2sketch.WithMaxDimension(c.Render.MaxDimension),
		img2sketch.WithMinWidth(c.Render.MinWidth),
		img2sketch.WithResampler(interp),
	), nil
}

// Schedule returns the reveal timings.
func (c Config) Schedule() reveal.Schedule {
	return reveal.Schedule{
		Progress:    c.Reveal.Progress.Duration,
		PhotoFade:   c.Reveal.PhotoFade.Duration,
		CanvasDelay: c.Reveal.CanvasDelay.Duration,
	}
}
