package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blogsmith/blogsmith/internal/api"
	"github.com/blogsmith/blogsmith/internal/progress"
)

var (
	generateTopicID string
	generateSection string
	generatePrompt  string
	generateSave    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate blog section content with AI",
	Long: `Generates one section (title, introduction or body) for a topic, or
all three with --section all. Generated content is printed for review;
pass --save to persist it immediately.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateTopicID, "topic-id", "", "topic to generate for (interactive picker if omitted)")
	generateCmd.Flags().StringVar(&generateSection, "section", "all", "section to generate: title, introduction, body or all")
	generateCmd.Flags().StringVar(&generatePrompt, "prompt", "", "additional instructions for the generator")
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "save generated content to the backend")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	coord, client, cleanup, err := newCoordinator(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	sess, err := activeSession(cfg)
	if err != nil {
		return err
	}

	topic, err := pickTopic(ctx, client, sess.UserID, generateTopicID)
	if err != nil {
		return err
	}
	coord.SetTopic(topic)

	if generateSection == "all" {
		secs, err := coord.GenerateAll(ctx, progress.NewReporter(), generatePrompt)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		}
		for _, sec := range api.AllSections {
			if content := secs.Get(sec); content != "" {
				fmt.Printf("== %s ==\n%s\n\n", sec, content)
				if generateSave {
					if err := coord.SaveSection(ctx, sec, content); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
					}
				}
			}
		}
		return nil
	}

	section, ok := api.ParseSection(generateSection)
	if !ok {
		return fmt.Errorf("unknown section %q: use title, introduction, body or all", generateSection)
	}

	content, err := coord.GenerateSection(ctx, section, generatePrompt)
	if err != nil {
		return err
	}
	fmt.Println(content)

	if generateSave {
		if err := coord.SaveSection(ctx, section, content); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s for topic %s\n", section, topic.Title)
	}
	return nil
}
