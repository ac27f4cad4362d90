package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/markview/internal/preview"
	"github.com/vango-dev/markview/internal/source"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		port  int
		host  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Start the live preview server",
		Long: `Start the live preview server.

With a source the document is shown at / and, with --watch, re-sent to
every open page when the file changes. Editors can also stream documents
over /ws as snapshots and JSON patches.

Examples:
  markview serve
  markview serve doc.json --watch
  markview serve --port=8080 --host=0.0.0.0`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			srv := preview.New(preview.Options{Config: cfg})
			loader := newLoader(cfg, cmd.InOrStdin())

			if len(args) == 1 {
				doc, err := loader.Load(ctx, args[0])
				if err != nil {
					return err
				}
				srv.SetDocument(ctx, doc.Root, "")
				if watch {
					if args[0] == source.Stdin {
						return fmt.Errorf("--watch needs a file source")
					}
					go func() {
						if err := srv.Watch(ctx, loader, args[0]); err != nil && !errors.Is(err, context.Canceled) {
							cmd.PrintErrln(err)
						}
					}()
				}
			}

			errOut := cmd.ErrOrStderr()
			success(errOut, "Preview at %s", cfg.URL())
			if cfg.Metrics.Enabled {
				info(errOut, "metrics at %s%s", cfg.URL(), cfg.Metrics.Path)
			}
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the document when the file changes")

	return cmd
}
