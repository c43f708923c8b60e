package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var tagsPopular bool

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags",
	Long: `Lists every tag with its number of posts. With --popular the
configured popular tags are printed instead.`,
	Args: cobra.NoArgs,
	RunE: runTags,
}

func init() {
	tagsCmd.Flags().BoolVar(&tagsPopular, "popular", false, "print the configured popular tags")
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, _ []string) error {
	lib, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	svc := lib.Service()

	if tagsPopular {
		for _, t := range svc.GetPopularTags() {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, t := range svc.GetAllTags() {
		fmt.Fprintf(w, "%s\t%d\n", t, len(svc.GetPostsByTag(t)))
	}
	return w.Flush()
}
