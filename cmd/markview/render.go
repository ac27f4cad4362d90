package main

import (
	"bytes"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vango-dev/markview/pkg/render"
)

func renderCmd(opts *globalOptions) *cobra.Command {
	var (
		output string
		page   bool
		title  string
		pretty bool
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "render <source>",
		Short: "Render a document to HTML",
		Long: `Render a HAST JSON or HTML document to HTML.

Examples:
  markview render doc.json
  markview render doc.json --page --title "Guide" -o guide.html
  markview render s3://docs/intro.json --stats`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			doc, err := newLoader(cfg, cmd.InOrStdin()).Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out, st, err := newRenderer(cfg).Render(cmd.Context(), doc.Root)
			if err != nil {
				return err
			}

			usePretty := cfg.Render.Pretty
			if cmd.Flags().Changed("pretty") {
				usePretty = pretty
			} else if output == "" && isTerminal(cmd.OutOrStdout()) {
				usePretty = true
			}
			html := render.NewRenderer(render.RendererConfig{Pretty: usePretty, Indent: cfg.Render.Indent})

			var buf bytes.Buffer
			if page {
				if title == "" {
					title = cfg.Server.Title
				}
				err = html.RenderPage(&buf, render.PageData{Body: out, Title: title})
			} else {
				err = html.RenderToWriter(&buf, out)
				buf.WriteByte('\n')
			}
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
					return err
				}
			} else if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
				return err
			}

			if stats || output != "" {
				errOut := cmd.ErrOrStderr()
				if output != "" {
					success(errOut, "Wrote %s (%s)", output, humanize.Bytes(uint64(buf.Len())))
				}
				info(errOut, "%s elements, %s components rendered in %s",
					humanize.Comma(int64(st.Elements)), humanize.Comma(int64(st.Rendered)), st.Duration.Round(time.Microsecond))
				info(errOut, "source %s, %s", doc.Name, humanize.Bytes(uint64(doc.Size)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write HTML to a file instead of stdout")
	cmd.Flags().BoolVar(&page, "page", false, "Render a complete HTML page")
	cmd.Flags().StringVar(&title, "title", "", "Page title (with --page)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the HTML (default: when writing to a terminal)")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print render statistics to stderr")

	return cmd
}
