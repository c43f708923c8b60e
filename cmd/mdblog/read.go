package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const defaultReadWidth = 80

var (
	readWidth int
	readStyle string
)

var readCmd = &cobra.Command{
	Use:   "read <slug>",
	Short: "Read a post in the terminal",
	Long: `Renders a post's markdown for the terminal. When stdout is not a
terminal the raw markdown is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	readCmd.Flags().IntVarP(&readWidth, "width", "w", defaultReadWidth, "word wrap width")
	readCmd.Flags().StringVar(&readStyle, "style", "", "glamour style (default: detect from the terminal)")
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	lib, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	post, err := lib.Service().GetPostBySlug(args[0])
	if err != nil {
		return notFound(args[0], err)
	}

	out := cmd.OutOrStdout()
	if !isTerminal(out) {
		_, err = io.WriteString(out, post.Content)
		return err
	}

	style := glamour.WithAutoStyle()
	if readStyle != "" {
		style = glamour.WithStandardStyle(readStyle)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(readWidth))
	if err != nil {
		return err
	}
	rendered, err := r.Render(post.Content)
	if err != nil {
		return fmt.Errorf("render %s: %w", post.Slug, err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
