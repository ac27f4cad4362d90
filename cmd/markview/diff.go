package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/vango-dev/markview/pkg/render"
	"github.com/vango-dev/markview/pkg/vdom"
)

func diffCmd(opts *globalOptions) *cobra.Command {
	var patches bool

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show what re-rendering a changed document does",
		Long: `Render <old> and then <new> through the same memoizing renderer and
report how many components were re-rendered or reused, the virtual DOM
patches between the two outputs, and a line diff of the HTML.

Examples:
  markview diff v1.json v2.json
  markview diff v1.json v2.json --patches`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			loader := newLoader(cfg, cmd.InOrStdin())
			ctx := cmd.Context()

			oldDoc, err := loader.Load(ctx, args[0])
			if err != nil {
				return err
			}
			newDoc, err := loader.Load(ctx, args[1])
			if err != nil {
				return err
			}

			r := newRenderer(cfg)
			oldOut, _, err := r.Render(ctx, oldDoc.Root)
			if err != nil {
				return err
			}
			newOut, st, err := r.Render(ctx, newDoc.Root)
			if err != nil {
				return err
			}

			html := render.NewRenderer(render.RendererConfig{Pretty: true, Indent: cfg.Render.Indent})
			oldHTML, err := html.RenderToString(oldOut)
			if err != nil {
				return err
			}
			newHTML, err := html.RenderToString(newOut)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ops := vdom.Diff(oldOut, newOut)
			fmt.Fprintf(out, "%s rendered, %s reused, %d patches\n",
				yellow(st.Rendered), green(st.Skipped), len(ops))
			if patches {
				for _, p := range ops {
					info(out, "%s", p)
				}
			}
			if oldHTML == newHTML {
				fmt.Fprintln(out, faint("no HTML changes"))
				return nil
			}
			fmt.Fprintln(out)
			writeLineDiff(out, oldHTML, newHTML)
			return nil
		},
	}

	cmd.Flags().BoolVar(&patches, "patches", false, "List the virtual DOM patches")

	return cmd
}

// writeLineDiff writes a unified-style line diff of a and b.
func writeLineDiff(w io.Writer, a, b string) {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				fmt.Fprintln(w, green("+ "+line))
			case diffmatchpatch.DiffDelete:
				fmt.Fprintln(w, red("- "+line))
			default:
				fmt.Fprintln(w, faint("  "+line))
			}
		}
	}
}
