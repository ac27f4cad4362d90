package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/markview/internal/config"
	"github.com/vango-dev/markview/internal/errors"
	"github.com/vango-dev/markview/internal/source"
	"github.com/vango-dev/markview/pkg/markdown"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
	noColor    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "markview",
		Short: "Render and preview HAST documents with memoized components",
		Long: `markview renders HAST documents (rendered markdown) to HTML through
component overrides that are memoized per block, so re-rendering a
document only re-renders the blocks that changed.

Documents are HAST JSON or HTML files, "-" for standard input, or
s3://bucket/key URLs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: markview.json or markview.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		renderCmd(opts),
		diffCmd(opts),
		inspectCmd(opts),
		serveCmd(opts),
		versionCmd(),
	)

	return rootCmd
}

// setup configures logging and color for the command run.
func (o *globalOptions) setup(stderr io.Writer) {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	if o.noColor || !isTerminal(stderr) {
		color.NoColor = true
		errors.DisableColors()
		pp.ColoringEnabled = false
	}
}

// loadConfig loads the --config file, or the working directory's config,
// falling back to the defaults.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.LoadOrDefault(".")
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLoader(cfg *config.Config, stdin io.Reader) *source.Loader {
	return source.NewLoader(
		source.WithS3Config(cfg.S3),
		source.WithStdin(stdin),
	)
}

// components returns the built-in components, memoized unless disabled.
func components(cfg *config.Config) markdown.Components {
	c := markdown.Defaults()
	if cfg.Memoized() {
		c = markdown.MemoizeComponents(c)
	}
	return c
}

func newRenderer(cfg *config.Config) *markdown.Renderer {
	return markdown.NewRenderer(components(cfg),
		markdown.WithTracerName(cfg.Tracing.Name),
		markdown.WithRawHTML(cfg.Render.AllowRawHTML))
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
