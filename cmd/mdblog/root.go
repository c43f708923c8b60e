package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/eringen/mdblog"
	"github.com/eringen/mdblog/markdown"
)

var (
	// Global flags
	configPath string
	contentDir string

	// Resolved in PersistentPreRunE
	cfg mdblog.SiteConfig
)

var rootCmd = &cobra.Command{
	Use:   "mdblog",
	Short: "mdblog - a markdown blog engine",
	Long: `mdblog loads a tree of markdown posts with frontmatter and serves them
as a JSON API, or lists and renders them from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "version", "new", "help", "completion":
			return nil
		}
		return loadConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "mdblog.toml", "config file")
	rootCmd.PersistentFlags().StringVar(&contentDir, "content", "", "content directory (overrides the config)")
}

func loadConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	c, err := mdblog.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if contentDir != "" {
		c.ContentDir = contentDir
	}
	cfg = c
	return nil
}

// openLibrary loads the configured content tree. Warnings go to stderr.
func openLibrary(cmd *cobra.Command) (*mdblog.Library, error) {
	logger := log.New("mdblog")
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(log.WARN)

	lib := mdblog.NewLibrary(os.DirFS(cfg.ContentDir),
		mdblog.WithRenderer(markdown.New(
			markdown.WithCodeStyle(cfg.CodeStyle),
			markdown.WithLogger(logger),
		)),
		mdblog.WithPopularTags(cfg.PopularTags),
		mdblog.WithLogger(logger),
	)
	if err := lib.Reload(cmd.Context()); err != nil {
		return nil, err
	}
	if lib.UsingSamples() {
		logger.Warnf("no posts in %s, showing the sample posts", cfg.ContentDir)
	}
	return lib, nil
}

func notFound(slug string, err error) error {
	if errors.Is(err, mdblog.ErrNotFound) {
		return fmt.Errorf("post %q not found", slug)
	}
	return err
}
