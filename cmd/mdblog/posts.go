package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/eringen/mdblog"
)

var (
	postsCategory string
	postsTag      string
	postsSearch   string
	postsLimit    int
	postsOutput   string
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List posts",
	Long: `Lists posts newest first. Filters combine: --category, --tag and
--search must all match.`,
	Args: cobra.NoArgs,
	RunE: runPosts,
}

func init() {
	postsCmd.Flags().StringVar(&postsCategory, "category", "", "only posts in this category")
	postsCmd.Flags().StringVar(&postsTag, "tag", "", "only posts with this tag")
	postsCmd.Flags().StringVarP(&postsSearch, "search", "s", "", "only posts matching this text")
	postsCmd.Flags().IntVarP(&postsLimit, "limit", "n", 0, "maximum number of posts (0 for all)")
	postsCmd.Flags().StringVarP(&postsOutput, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(postsCmd)
}

func runPosts(cmd *cobra.Command, _ []string) error {
	lib, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	svc := lib.Service()

	posts := svc.GetAllPosts()
	if postsSearch != "" {
		posts = intersect(posts, svc.SearchPosts(postsSearch))
	}
	if postsCategory != "" {
		posts = intersect(posts, svc.GetPostsByCategory(postsCategory))
	}
	if postsTag != "" {
		posts = intersect(posts, svc.GetPostsByTag(postsTag))
	}
	if postsLimit > 0 && len(posts) > postsLimit {
		posts = posts[:postsLimit]
	}

	switch postsOutput {
	case "json":
		return writeJSON(cmd, posts)
	case "yaml":
		return writeYAML(cmd, posts)
	case "table":
		return writePostsTable(cmd, posts)
	default:
		return unknownFormat(postsOutput)
	}
}

// intersect keeps the posts of a that are also in b, in a's order.
func intersect(a, b []mdblog.Article) []mdblog.Article {
	keep := make(map[string]bool, len(b))
	for _, p := range b {
		keep[p.Slug] = true
	}
	out := a[:0:0]
	for _, p := range a {
		if keep[p.Slug] {
			out = append(out, p)
		}
	}
	return out
}

func writePostsTable(cmd *cobra.Command, posts []mdblog.Article) error {
	if len(posts) == 0 {
		cmd.Println("No posts found.")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tTITLE\tCATEGORY\tPUBLISHED\tREAD")
	for _, p := range posts {
		published := p.Date
		if t, ok := p.Published(); ok {
			published = humanize.Time(t)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d min\n", p.Slug, p.Title, p.Category, published, p.ReadingTime)
	}
	return w.Flush()
}
