package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	keywordService "github.com/reshetovitsme/autopost/internal/modules/keyword/service"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

func newKeywordsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "keywords <file>",
		Short: "Print the search keywords extracted from a description",
		Long: `Print the keywords reply mode would search for, most frequent first.
Markdown is reduced to plain text before extraction. Use - to read stdin.

Examples:
  autopost keywords description.md
  autopost keywords -n 3 - < description.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return printKeywords(cmd.OutOrStdout(), contentDomain.MarkdownToText(text), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "max", "n", 5, "maximum number of keywords")
	return cmd
}

func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", oops.With("path", path).Wrap(err)
	}
	return string(data), nil
}

func printKeywords(w io.Writer, text string, limit int) error {
	ranked := keywordService.Rank(text)
	if limit < len(ranked) {
		ranked = ranked[:max(limit, 0)]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, kw := range ranked {
		fmt.Fprintf(tw, "%s\t%d\n", kw.Term, kw.Frequency)
	}
	return tw.Flush()
}
