package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/mdblog/content"
)

var (
	showTOC    bool
	showOutput string
)

var showCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Print a post's rendered HTML or table of contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showTOC, "toc", false, "print the table of contents instead of the HTML")
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "", "output format: json or yaml")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	lib, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	rp, err := lib.Render(args[0])
	if err != nil {
		return notFound(args[0], err)
	}

	var v interface{} = rp
	if showTOC {
		v = rp.TOC
	}
	switch showOutput {
	case "json":
		return writeJSON(cmd, v)
	case "yaml":
		return writeYAML(cmd, v)
	case "":
	default:
		return unknownFormat(showOutput)
	}

	if showTOC {
		writeTOC(cmd.OutOrStdout(), rp.TOC, 0)
		return nil
	}
	_, err = io.WriteString(cmd.OutOrStdout(), rp.HTML)
	return err
}

func writeTOC(w io.Writer, nodes []*content.TOCNode, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(w, "%s- %s (#%s)\n", strings.Repeat("  ", depth), n.Text, n.ID)
		writeTOC(w, n.Children, depth+1)
	}
}
