package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/markview/pkg/hast"
	"github.com/vango-dev/markview/pkg/markdown"
)

func inspectCmd(opts *globalOptions) *cobra.Command {
	var (
		asJSON  bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <source>",
		Short: "Print the decoded document tree",
		Long: `Decode a document and print its tree. HTML sources show the HAST tree
they convert to.

Examples:
  markview inspect doc.html
  markview inspect doc.json --summary`,
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
			out := cmd.OutOrStdout()

			if summary {
				writeSummary(cmd, doc.Root)
				info(out, "%s, %s", doc.Format, humanize.Bytes(uint64(doc.Size)))
				return nil
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(doc.Root)
			}
			_, err = pp.Fprintln(out, doc.Root)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tree as HAST JSON")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print node counts instead of the tree")

	return cmd
}

// writeSummary prints node counts by type and by tag, and the code block
// languages.
func writeSummary(cmd *cobra.Command, root *hast.Node) {
	types := map[hast.NodeType]int{}
	tags := map[string]int{}
	langs := map[string]int{}

	hast.Walk(root, func(n *hast.Node, _ []int) bool {
		types[n.Type]++
		if n.Type == hast.TypeElement {
			tags[n.TagName]++
			if n.TagName == "code" {
				if lang := markdown.Language(n); lang != "" {
					langs[lang]++
				}
			}
		}
		return true
	})

	out := cmd.OutOrStdout()
	for _, t := range []hast.NodeType{hast.TypeRoot, hast.TypeElement, hast.TypeText, hast.TypeComment, hast.TypeRaw, hast.TypeDoctype} {
		if types[t] > 0 {
			fmt.Fprintf(out, "%-8s %s\n", t, humanize.Comma(int64(types[t])))
		}
	}
	for _, k := range sortedKeys(tags) {
		fmt.Fprintf(out, "  <%s> %d\n", k, tags[k])
	}
	if len(langs) > 0 {
		fmt.Fprintf(out, "languages:")
		for _, k := range sortedKeys(langs) {
			fmt.Fprintf(out, " %s(%d)", k, langs[k])
		}
		fmt.Fprintln(out)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
