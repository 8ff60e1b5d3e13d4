package img2sketch

import (
	"image"

	"github.com/wbrown/img2sketch/imageutil"
)

// RenderContext is everything a render reads: the source image and the
// theme to render for. It replaces any page-wide theme state; a render
// never looks anywhere else.
type RenderContext struct {
	Image image.Image
	Theme Theme
}

// RenderResult is a finished sketch. Image is a fresh buffer owned by the
// caller and never aliases the source image.
type RenderResult struct {
	Image      *image.RGBA
	Dimensions Dimensions
	Theme      Theme
}

// Renderer turns still images into theme-aware pencil sketches. A Renderer
// holds configuration only, so it is safe for concurrent use.
type Renderer struct {
	MaxDimension int
	MinWidth     int
	Resampler    imageutil.Interpolation
}

// RendererOption is a functional option for configuring a Renderer.
type RendererOption func(*Renderer)

// NewRenderer creates a new Renderer with the given options.
// Default values: MaxDimension=900, MinWidth=260, Resampler=bilinear.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		MaxDimension: MaxDimension,
		MinWidth:     MinWidth,
		Resampler:    imageutil.InterpolationLinear,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithMaxDimension bounds the longer side of the output. Non-positive
// values keep the default.
func WithMaxDimension(n int) RendererOption {
	return func(r *Renderer) {
		if n > 0 {
			r.MaxDimension = n
		}
	}
}

// WithMinWidth sets the width floor of the output. Negative values keep
// the default.
func WithMinWidth(n int) RendererOption {
	return func(r *Renderer) {
		if n >= 0 {
			r.MinWidth = n
		}
	}
}

// WithResampler sets how the source is scaled to the output dimensions.
func WithResampler(interp imageutil.Interpolation) RendererOption {
	return func(r *Renderer) {
		r.Resampler = interp
	}
}

// Dimensions returns the output size for img without rendering it.
func (r *Renderer) Dimensions(img image.Image) (Dimensions, error) {
	if img == nil {
		return Dimensions{}, &InvalidSourceImageError{}
	}
	b := img.Bounds()
	return ScaleDimensions(b.Dx(), b.Dy(), r.MaxDimension, r.MinWidth)
}

// Prepare scales the source image to the output dimensions. The returned
// buffer is the base every later stage reads.
func (r *Renderer) Prepare(img image.Image) (*imageutil.RGBAImage, error) {
	dim, err := r.Dimensions(img)
	if err != nil {
		return nil, err
	}
	return imageutil.Resize(img, dim.Width, dim.Height, r.Resampler), nil
}

// Render runs the full pipeline for ctx: scale, extract edges, posterize
// and shade, then blend the theme tint. Every call recomputes every stage
// from the source image, so equal contexts produce byte-identical output.
func (r *Renderer) Render(ctx RenderContext) (*RenderResult, error) {
	base, err := r.Prepare(ctx.Image)
	if err != nil {
		return nil, err
	}

	theme := ctx.Theme
	if theme == "" {
		theme = DefaultTheme
	}

	edges := ExtractEdges(base)
	out := Colorize(base, edges, theme.Tint())

	return &RenderResult{
		Image:      out.RGBA,
		Dimensions: Dimensions{Width: base.Width(), Height: base.Height()},
		Theme:      theme,
	}, nil
}

// Edges scales img like Render does and returns its edge map.
func (r *Renderer) Edges(img image.Image) (*EdgeMap, error) {
	base, err := r.Prepare(img)
	if err != nil {
		return nil, err
	}
	return ExtractEdges(base), nil
}

var defaultRenderer = NewRenderer()

// Render renders img for theme with the default settings.
func Render(img image.Image, theme Theme) (*RenderResult, error) {
	return defaultRenderer.Render(RenderContext{Image: img, Theme: theme})
}
