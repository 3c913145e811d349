package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	publishTopicID string
	publishShare   bool
	publishSave    bool
	publishExport  string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Host a topic's page and get a public URL",
	Long: `Assembles the topic's page into a standalone HTML document and uploads
it to hosting. The upload happens in two phases so the page carries its
own canonical URL in its social metadata.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishTopicID, "topic-id", "", "topic to publish (interactive picker if omitted)")
	publishCmd.Flags().BoolVar(&publishShare, "share", false, "print a share link for the configured platform")
	publishCmd.Flags().BoolVar(&publishSave, "save", false, "also save the document to the backend")
	publishCmd.Flags().StringVar(&publishExport, "export", "", "also export the document to a local file")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
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

	topic, err := pickTopic(ctx, client, sess.UserID, publishTopicID)
	if err != nil {
		return err
	}
	if err := coord.OpenTopic(ctx, topic); err != nil {
		return err
	}

	url, hostErr := coord.Host(ctx)
	if url != "" {
		fmt.Printf("Hosted at %s\n", url)
	}
	if hostErr != nil {
		// A partial URL from the first upload phase is still usable,
		// so report the failure without discarding it.
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", hostErr)
		if url == "" {
			return hostErr
		}
	}

	if publishSave {
		if err := coord.Save(ctx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: saving page: %v\n", err)
		}
	}
	if publishExport != "" {
		written, err := coord.Export(publishExport)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: exporting page: %v\n", err)
		} else {
			fmt.Printf("Exported to %s\n", written)
		}
	}
	if publishShare {
		link, err := coord.Share(cfg.SharePlatform)
		if err != nil {
			return err
		}
		fmt.Printf("Share link: %s\n", link)
	}
	return nil
}
