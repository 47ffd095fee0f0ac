package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/nuchat/internal/render"
	"github.com/diogo/nuchat/internal/responder"
)

// NewResponsesCmd creates the command that shows the local keyword table
func NewResponsesCmd(deps *Dependencies) *cobra.Command {
	var matchFlag string

	cmd := &cobra.Command{
		Use:   "responses",
		Short: "Show the built-in Nushell answers",
		Long: `Show the keyword table used by the local assistant, in match order.
The first keyword found in a message wins. Use --match to see which answer
a message would get.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			tbl := responder.Default()

			if matchFlag != "" {
				entry, ok := tbl.MatchEntry(matchFlag)
				keyword := "(default)"
				if ok {
					keyword = entry.Keyword
				}
				fmt.Fprintf(out, "Matched: %s\n\n", keyword)

				text := tbl.Match(matchFlag)
				if deps.IsTTY() {
					if rendered, err := render.Markdown(text, render.DefaultOptions().WithWidth(getTerminalWidth()-4)); err == nil {
						text = rendered
					}
				}
				fmt.Fprintln(out, strings.TrimRight(text, "\n"))
				return nil
			}

			t := newTable("#", "KEYWORD", "ANSWER")
			for i, e := range tbl.Entries() {
				first, _, _ := strings.Cut(e.Response, "\n")
				t.Row(strconv.Itoa(i+1), e.Keyword, truncate(first, 48))
			}
			fmt.Fprintln(out, t.Render())

			if suggestions := tbl.Suggestions(); len(suggestions) > 0 {
				fmt.Fprintln(out, "\nSuggested questions:")
				for _, s := range suggestions {
					fmt.Fprintf(out, "  • %s\n", s)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&matchFlag, "match", "", "Show the answer for a message")

	return cmd
}
