package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/mdblog"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Serves posts, rendered HTML, tables of contents, categories and tags
as a JSON API. With --watch the content directory is reloaded on change.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides the config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload when the content directory changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	c := cfg
	if serveAddr != "" {
		c.Addr = serveAddr
	}
	if cmd.Flags().Changed("watch") {
		c.Watch = serveWatch
	}
	app := mdblog.New(c)
	cmd.Printf("mdblog serving %s on %s\n", c.ContentDir, c.Addr)
	return app.Start(cmd.Context())
}
