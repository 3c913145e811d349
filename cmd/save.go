package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blogsmith/blogsmith/internal/api"
	"github.com/blogsmith/blogsmith/internal/markdown"
)

var (
	saveTopicID string
	saveSection string
	saveContent string
	saveFile    string
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save edited section content",
	Long: `Persists one section of a topic. Content comes from --content or from
--file; markdown files are rendered to HTML before saving.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		coord, client, cleanup, err := newCoordinator(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		section, ok := api.ParseSection(saveSection)
		if !ok {
			return fmt.Errorf("unknown section %q: use title, introduction or body", saveSection)
		}

		content := saveContent
		if saveFile != "" {
			data, err := os.ReadFile(saveFile)
			if err != nil {
				return fmt.Errorf("reading %s: %w", saveFile, err)
			}
			switch strings.ToLower(filepath.Ext(saveFile)) {
			case ".md", ".markdown":
				content, err = markdown.Render(data)
				if err != nil {
					return err
				}
			default:
				content = string(data)
			}
		}
		if content == "" {
			return fmt.Errorf("nothing to save: pass --content or --file")
		}

		ctx := context.Background()
		sess, err := activeSession(cfg)
		if err != nil {
			return err
		}
		topic, err := pickTopic(ctx, client, sess.UserID, saveTopicID)
		if err != nil {
			return err
		}
		coord.SetTopic(topic)

		if err := coord.SaveSection(ctx, section, content); err != nil {
			return err
		}
		fmt.Printf("Saved %s for topic %s\n", section, topic.Title)
		return nil
	},
}

func init() {
	saveCmd.Flags().StringVar(&saveTopicID, "topic-id", "", "topic to save to (interactive picker if omitted)")
	saveCmd.Flags().StringVar(&saveSection, "section", "", "section to save: title, introduction or body")
	saveCmd.Flags().StringVar(&saveContent, "content", "", "content to save")
	saveCmd.Flags().StringVar(&saveFile, "file", "", "read content from a file (.md is rendered to HTML)")
	_ = saveCmd.MarkFlagRequired("section")
	rootCmd.AddCommand(saveCmd)
}
