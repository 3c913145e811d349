package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/workflow"
)

var composeTopicID string

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Edit a topic's page interactively",
	Long: `Opens a topic in the page editor and runs an action loop: generate or
rewrite content, add images, apply an AI template, then save, host or
export the result. Actions gated off in the config are hidden.`,
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().StringVar(&composeTopicID, "topic-id", "", "topic to edit (interactive picker if omitted)")
	rootCmd.AddCommand(composeCmd)
}

type composeAction struct {
	label string
	run   func(ctx context.Context, coord *workflow.Coordinator, cfg *config.Config) error
}

func runCompose(cmd *cobra.Command, args []string) error {
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

	topic, err := pickTopic(ctx, client, sess.UserID, composeTopicID)
	if err != nil {
		return err
	}
	if err := coord.OpenTopic(ctx, topic); err != nil {
		return err
	}
	fmt.Printf("Editing %q\n", topic.Title)

	actions := composeActions(cfg)
	labels := make([]string, 0, len(actions)+1)
	for _, a := range actions {
		labels = append(labels, a.label)
	}
	labels = append(labels, "Quit")

	for {
		prompt := promptui.Select{
			Label: "Action",
			Items: labels,
			Size:  len(labels),
		}
		idx, _, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("action selection: %w", err)
		}
		if idx == len(actions) {
			return nil
		}

		if err := actions[idx].run(ctx, coord, cfg); err != nil {
			if errors.Is(err, promptui.ErrInterrupt) {
				return nil
			}
			// Keep the loop alive: an action failure should not cost
			// the user their editing session.
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
}

// composeActions builds the action menu, omitting feature-flagged
// entries whose flags are off.
func composeActions(cfg *config.Config) []composeAction {
	actions := []composeAction{
		{"Generate or rewrite content", actionGenerateOrModify},
		{"List blocks", actionListBlocks},
		{"Select block", actionSelectBlock},
		{"Clear selection", actionClearSelection},
	}
	if cfg.Features.AIImage {
		actions = append(actions, composeAction{"Add AI-generated image", actionAIImage})
	}
	if cfg.Features.LocalUpload {
		actions = append(actions, composeAction{"Upload local image", actionUploadImage})
	}
	if cfg.Features.AITemplate {
		actions = append(actions, composeAction{"Apply AI template", actionApplyTemplate})
	}
	actions = append(actions,
		composeAction{"Save page", actionSavePage},
		composeAction{"Host page", actionHostPage},
		composeAction{"Share hosted page", actionShare},
		composeAction{"Export to file", actionExport},
	)
	return actions
}

func askLine(label string) (string, error) {
	prompt := promptui.Prompt{Label: label}
	return prompt.Run()
}

func actionGenerateOrModify(ctx context.Context, coord *workflow.Coordinator, cfg *config.Config) error {
	prompt, err := askLine("Prompt")
	if err != nil {
		return err
	}
	if err := coord.GenerateOrModify(ctx, prompt); err != nil {
		return err
	}
	fmt.Println("Content updated.")
	return nil
}

func actionListBlocks(ctx context.Context, coord *workflow.Coordinator, cfg *config.Config) error {
	nodes, err := coord.Nodes()
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		fmt.Println("No blocks yet.")
		return nil
	}
	for i, id := range nodes {
		fmt.Printf("%d\t%s\n", i+1, id)
	}
	return nil
}

func actionSelectBlock(ctx context.Context, coord *workflow.Coordinator, cfg *config.Config) error {
	nodes, err := coord.Nodes()
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		fmt.Println("No blocks to select.")
		return nil
	}

	items := make([]string, len(nodes))
	for i, id := range nodes {
		items[i] = string(id)
	}
	prompt := promptui.Select{Label: "Block", Items: items}
	idx, _, err := prompt.Run()
	if err != nil {
		return err
	}
	return coord.SelectNode(nodes[idx])
}

func actionClearSelection(ctx context.Context, coord *workflow.Coordinator, cfg *config.Config) error {
	return coord.ClearSelection()
}

func actionAIImage(ctx context.Context, coord *workflow.Coordinator, cfg *config.Config) error {
	prompt, err := askLine("Image prompt")
	if err != nil {
		return err
	}
	url, err := coord.GenerateImage(ctx, prompt)
	if err != nil {
		return err
	}
	if err := coord.AddImage(url); err != nil {
		return err
	}
	fmt.Printf("Added image %s\n", url)
	return nil
}

func actionUploadImage(ctx context.Context, coord *workflow.Coordinator, cfg *config.Config) error {
	path, err := askLine("Image file path")
	if err != nil {
		return err
	}
	url, err := coord.UploadImageFile(ctx, path)
	if err != nil {
		return err
	}
	if err := coord.AddImage(url); err != nil {
		return err
	}
	fmt.Printf("Uploaded and added image %s\n", url)
	return nil
}

func actionApplyTemplate(ctx context.Context, coord *workflow.Coordinator, cfg *config.Config) error {
	prompt, err := askLine("Template instructions (optional)")
	if err != nil {
		return err
	}
	if err := coord.ApplyTemplate(ctx, prompt); err != nil {
		return err
	}
	fmt.Println("Template applied.")
	return nil
}

func actionSavePage(ctx context.Context, coord *workflow.Coordinator, cfg *config.Config) error {
	if err := coord.Save(ctx); err != nil {
		return err
	}
	fmt.Println("Page saved.")
	return nil
}

func actionHostPage(ctx context.Context, coord *workflow.Coordinator, cfg *config.Config) error {
	url, err := coord.Host(ctx)
	if url != "" {
		fmt.Printf("Hosted at %s\n", url)
	}
	return err
}

func actionShare(ctx context.Context, coord *workflow.Coordinator, cfg *config.Config) error {
	link, err := coord.Share(cfg.SharePlatform)
	if err != nil {
		return err
	}
	fmt.Printf("Share link: %s\n", link)
	return nil
}

func actionExport(ctx context.Context, coord *workflow.Coordinator, cfg *config.Config) error {
	path, err := askLine("Output file (empty for default)")
	if err != nil {
		return err
	}
	written, err := coord.Export(path)
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", written)
	return nil
}
