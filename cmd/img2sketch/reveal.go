package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wbrown/img2sketch"
	"github.com/wbrown/img2sketch/imageutil"
	"github.com/wbrown/img2sketch/reveal"
)

const (
	barWidth     = 40
	tickInterval = time.Second / 30
)

func (c *cli) revealCommand() *cobra.Command {
	var (
		flags  renderFlags
		frames string
	)

	cmd := &cobra.Command{
		Use:   "reveal <image>",
		Short: "Play the sketch-to-photo reveal in the terminal",
		Long: `Renders the sketch, fills a progress bar and then reveals the photo over
the sketch, the way the page does. Press t to switch theme (the sequence
restarts), r to replay and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(cmd, c.config)
			if err != nil {
				return err
			}
			theme, err := cfg.Theme()
			if err != nil {
				return err
			}
			renderer, err := cfg.Renderer()
			if err != nil {
				return err
			}
			if frames != "" {
				if err := os.MkdirAll(frames, 0o755); err != nil {
					return fmt.Errorf("failed to create frames directory: %w", err)
				}
			}

			input := args[0]
			img, err := imageutil.LoadImage(input)
			if err != nil {
				return err
			}

			surface := &teaSurface{}
			chor := reveal.New(surface,
				reveal.WithRenderer(renderer),
				reveal.WithSchedule(cfg.Schedule()),
				reveal.WithLogger(c.logger.With("component", "reveal")),
				reveal.WithStateHook(surface.onState),
			)

			model := newRevealModel(chor, img, filepath.Base(input), theme)
			model.frames = frames

			p := tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			surface.p = p

			final, err := p.Run()
			// Timer callbacks blocked on Send are released once Run returns.
			chor.Stop()
			if ctxErr := cmd.Context().Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				return err
			}
			if m, ok := final.(revealModel); ok && m.err != nil {
				return m.err
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&frames, "frames", "", "directory to save every painted sketch to")
	return cmd
}

// sender is the part of *tea.Program the surface needs.
type sender interface {
	Send(msg tea.Msg)
}

// teaSurface turns surface calls into messages for the program.
type teaSurface struct {
	p sender
}

type paintMsg struct{ res *img2sketch.RenderResult }

type progressMsg struct {
	percent    float64
	transition time.Duration
}

type photoMsg struct {
	visible bool
	fade    time.Duration
}

type canvasOpacityMsg struct{ opacity float64 }

type barOpacityMsg struct{ opacity float64 }

type stateMsg struct {
	state reveal.State
	gen   uint64
}

type themeMsg struct{ theme img2sketch.Theme }

type frameSavedMsg struct{ path string }

type errMsg struct{ err error }

type tickMsg time.Time

func (s *teaSurface) Paint(res *img2sketch.RenderResult) { s.p.Send(paintMsg{res}) }

func (s *teaSurface) SetProgress(percent float64, transition time.Duration) {
	s.p.Send(progressMsg{percent: percent, transition: transition})
}

func (s *teaSurface) HidePhoto() { s.p.Send(photoMsg{visible: false}) }

func (s *teaSurface) RevealPhoto(fade time.Duration) { s.p.Send(photoMsg{visible: true, fade: fade}) }

func (s *teaSurface) SetCanvasOpacity(opacity float64) { s.p.Send(canvasOpacityMsg{opacity}) }

func (s *teaSurface) SetProgressOpacity(opacity float64) { s.p.Send(barOpacityMsg{opacity}) }

func (s *teaSurface) onState(state reveal.State, gen uint64) {
	s.p.Send(stateMsg{state: state, gen: gen})
}

// barAnim is a linear progress transition.
type barAnim struct {
	from, to float64
	start    time.Time
	dur      time.Duration
}

func (b barAnim) at(t time.Time) float64 {
	if b.dur <= 0 || !t.Before(b.start.Add(b.dur)) {
		return b.to
	}
	if t.Before(b.start) {
		return b.from
	}
	frac := float64(t.Sub(b.start)) / float64(b.dur)
	return b.from + (b.to-b.from)*frac
}

// revealModel mirrors the page: a canvas with the sketch, the photo on top
// and a progress bar. The choreographer is only ever called from commands,
// never from Update, because its timer callbacks block on Send while
// holding its lock.
type revealModel struct {
	chor   *reveal.Choreographer
	img    image.Image
	source string
	frames string
	now    func() time.Time

	theme  img2sketch.Theme
	state  reveal.State
	gen    uint64
	dims   img2sketch.Dimensions
	paints int
	saved  string

	bar           barAnim
	barOpacity    float64
	canvasOpacity float64
	photoVisible  bool
	photoFade     time.Duration

	err error
}

func newRevealModel(chor *reveal.Choreographer, img image.Image, source string, theme img2sketch.Theme) revealModel {
	return revealModel{
		chor:          chor,
		img:           img,
		source:        source,
		theme:         theme,
		now:           time.Now,
		barOpacity:    1,
		canvasOpacity: 1,
	}
}

func (m revealModel) Init() tea.Cmd {
	chor, img, theme := m.chor, m.img, m.theme
	load := func() tea.Msg {
		if err := chor.Load(img, theme); err != nil {
			return errMsg{err}
		}
		return nil
	}
	return tea.Batch(load, tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m revealModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "t":
			chor := m.chor
			return m, func() tea.Msg {
				theme, err := chor.ToggleTheme()
				if err != nil {
					return errMsg{err}
				}
				return themeMsg{theme}
			}
		case "r":
			chor := m.chor
			return m, func() tea.Msg {
				if err := chor.Replay(); err != nil {
					return errMsg{err}
				}
				return nil
			}
		}

	case paintMsg:
		m.paints++
		m.dims = msg.res.Dimensions
		m.theme = msg.res.Theme
		m.err = nil
		if m.frames != "" {
			return m, saveFrame(m.frames, m.paints, msg.res)
		}

	case progressMsg:
		now := m.now()
		m.bar = barAnim{from: m.bar.at(now), to: msg.percent, start: now, dur: msg.transition}

	case photoMsg:
		m.photoVisible = msg.visible
		m.photoFade = msg.fade

	case canvasOpacityMsg:
		m.canvasOpacity = msg.opacity

	case barOpacityMsg:
		m.barOpacity = msg.opacity

	case stateMsg:
		m.state = msg.state
		m.gen = msg.gen

	case themeMsg:
		m.theme = msg.theme

	case frameSavedMsg:
		m.saved = msg.path

	case errMsg:
		m.err = msg.err

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

func saveFrame(dir string, n int, res *img2sketch.RenderResult) tea.Cmd {
	path := filepath.Join(dir, fmt.Sprintf("frame_%02d_%s.png", n, res.Theme))
	return func() tea.Msg {
		if err := imageutil.SaveImage(res.Image, path); err != nil {
			return errMsg{err}
		}
		return frameSavedMsg{path}
	}
}

func (m revealModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(appName) + "  " + styleDim.Render(m.source) + "\n\n")

	pct := m.bar.at(m.now())
	if m.barOpacity > 0 {
		b.WriteString("  " + renderBar(pct) + " " + styleValue.Render(fmt.Sprintf("%3.0f%%", pct)) + "\n\n")
	} else {
		b.WriteString("\n\n")
	}

	photo := "hidden"
	if m.photoVisible {
		photo = fmt.Sprintf("shown (fade %s)", m.photoFade)
	}
	size := "-"
	if m.paints > 0 {
		size = fmt.Sprintf("%dx%d", m.dims.Width, m.dims.Height)
	}

	rows := [][2]string{
		{"state", fmt.Sprintf("%s (cycle %d)", m.state, m.gen)},
		{"theme", m.theme.String()},
		{"size", size},
		{"canvas", fmt.Sprintf("%.0f%%", m.canvasOpacity*100)},
		{"photo", photo},
	}
	if m.saved != "" {
		rows = append(rows, [2]string{"saved", m.saved})
	}
	for _, row := range rows {
		b.WriteString("  " + styleLabel.Width(8).Render(row[0]) + " " + styleValue.Render(row[1]) + "\n")
	}

	if m.err != nil {
		b.WriteString("\n  " + styleError.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + styleDim.Render("t toggle theme · r replay · q quit") + "\n")
	return b.String()
}

func renderBar(pct float64) string {
	pct = min(100, max(0, pct))
	filled := int(pct/100*barWidth + 0.5)
	return styleBarFilled.Render(strings.Repeat("█", filled)) +
		styleBarEmpty.Render(strings.Repeat("░", barWidth-filled))
}
