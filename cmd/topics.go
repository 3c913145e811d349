package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List your topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess, err := activeSession(cfg)
		if err != nil {
			return err
		}

		client := newClient(cfg)
		client.SetToken(sess.Token)

		topics, err := client.ListTopics(context.Background(), sess.UserID)
		if err != nil {
			return err
		}

		if len(topics) == 0 {
			fmt.Println("No topics yet. Create one with `blogsmith topics create <title>`.")
			return nil
		}
		for _, t := range topics {
			fmt.Printf("%s\t%s\n", t.ID, t.Title)
		}
		return nil
	},
}

var topicsCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess, err := activeSession(cfg)
		if err != nil {
			return err
		}

		client := newClient(cfg)
		client.SetToken(sess.Token)

		id, err := client.CreateTopic(context.Background(), sess.UserID, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Created topic %s (%s)\n", args[0], id)
		return nil
	},
}

func init() {
	topicsCmd.AddCommand(topicsCreateCmd)
	rootCmd.AddCommand(topicsCmd)
}
