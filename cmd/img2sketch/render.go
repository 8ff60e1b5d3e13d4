package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wbrown/img2sketch"
	"github.com/wbrown/img2sketch/imageutil"
)

// renderFlags are the render settings that can override the config file.
type renderFlags struct {
	theme        string
	maxDimension int
	minWidth     int
	resampler    string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.theme, "theme", "t", "", "page theme: light or dark")
	cmd.Flags().IntVar(&f.maxDimension, "max-dimension", 0, "longest side of the output in pixels")
	cmd.Flags().IntVar(&f.minWidth, "min-width", 0, "minimum output width in pixels")
	cmd.Flags().StringVar(&f.resampler, "resampler", "", "scaling method: linear, area or nearest")
}

// apply overlays the flags the user set on cfg and validates the result.
func (f *renderFlags) apply(cmd *cobra.Command, cfg Config) (Config, error) {
	if cmd.Flags().Changed("theme") {
		cfg.Render.Theme = f.theme
	}
	if cmd.Flags().Changed("max-dimension") {
		cfg.Render.MaxDimension = f.maxDimension
	}
	if cmd.Flags().Changed("min-width") {
		cfg.Render.MinWidth = f.minWidth
	}
	if cmd.Flags().Changed("resampler") {
		cfg.Render.Resampler = f.resampler
	}
	return cfg, cfg.Validate()
}

// defaultOutput derives "<stem>_<suffix>.png" next to the input.
func defaultOutput(input, suffix string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_" + suffix + ".png"
}

func (c *cli) renderCommand() *cobra.Command {
	var (
		flags  renderFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "render <image>",
		Short: "Render a sketch of an image to a file",
		Args:  cobra.ExactArgs(1),
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

			input := args[0]
			if output == "" {
				output = defaultOutput(input, "sketch_"+string(theme))
			}

			img, err := imageutil.LoadImage(input)
			if err != nil {
				return err
			}

			p := newProgress(c.logger)
			res, err := renderer.Render(img2sketch.RenderContext{Image: img, Theme: theme})
			if err != nil {
				return fmt.Errorf("render %s: %w", input, err)
			}
			p.done("Rendered sketch", "theme", res.Theme)

			if err := imageutil.SaveImage(res.Image, output); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Sketch rendered")
			printKeyValue(out, "theme", string(res.Theme))
			printKeyValue(out, "size", fmt.Sprintf("%dx%d", res.Dimensions.Width, res.Dimensions.Height))
			printFile(out, output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.png, .jpg or .gif)")
	return cmd
}

func (c *cli) edgesCommand() *cobra.Command {
	var (
		flags  renderFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "edges <image>",
		Short: "Write the normalized Sobel edge map of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(cmd, c.config)
			if err != nil {
				return err
			}
			renderer, err := cfg.Renderer()
			if err != nil {
				return err
			}

			input := args[0]
			if output == "" {
				output = defaultOutput(input, "edges")
			}

			img, err := imageutil.LoadImage(input)
			if err != nil {
				return err
			}

			p := newProgress(c.logger)
			edges, err := renderer.Edges(img)
			if err != nil {
				return fmt.Errorf("edges %s: %w", input, err)
			}
			p.done("Extracted edges", "max", edges.Max)

			if err := imageutil.SaveImage(edges.Gray().Gray, output); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Edge map written")
			printKeyValue(out, "size", fmt.Sprintf("%dx%d", edges.Width, edges.Height))
			printKeyValue(out, "peak", fmt.Sprintf("%.1f", edges.Max))
			printFile(out, output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.png, .jpg or .gif)")
	return cmd
}
