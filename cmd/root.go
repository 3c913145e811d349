package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "blogsmith",
	Short: "AI-assisted blog writing and webpage publishing",
	Long: `Blogsmith drafts blog content with AI, lays it out as a webpage,
and publishes the result. Generate title, introduction and body for a
topic, compose them into a page, enrich it with AI images and
templates, then host it and share the link.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".blogsmith.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
