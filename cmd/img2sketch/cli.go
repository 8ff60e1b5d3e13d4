package main

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const appName = "img2sketch"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// cli holds state shared by all commands.
type cli struct {
	logger     *log.Logger
	config     Config
	configPath string
	verbose    bool
}

func newCLI(w io.Writer) *cli {
	return &cli{
		logger: newLogger(w, log.InfoLevel),
		config: DefaultConfig(),
	}
}

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Render pencil sketches of portraits",
		Long:          `img2sketch renders a posterized, edge-tinted sketch of a still image for a light or dark page theme, and can play the timed sketch-to-photo reveal in the terminal.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.logger.SetLevel(log.DebugLevel)
			}
			return c.loadConfig(cmd.Flags().Changed("config"))
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", DefaultConfigPath(), "path to a TOML config file")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.edgesCommand())
	root.AddCommand(c.revealCommand())
	root.AddCommand(versionCommand())

	return root
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printKeyValue(cmd.OutOrStdout(), appName, version)
		},
	}
}

// loadConfig reads the config file. A missing file is only an error when
// the path was given explicitly.
func (c *cli) loadConfig(explicit bool) error {
	if c.configPath == "" {
		return nil
	}
	cfg, found, err := LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if !found {
		if explicit {
			return &configNotFoundError{path: c.configPath}
		}
		c.logger.Debug("No config file", "path", c.configPath)
		return nil
	}
	c.logger.Debug("Loaded config", "path", c.configPath)
	c.config = cfg
	return nil
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg followed by the elapsed time, e.g. "Rendered sketch (84ms)".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg+" ("+time.Since(p.start).Round(time.Millisecond).String()+")", keyvals...)
}
