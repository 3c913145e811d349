package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blogsmith/blogsmith/internal/publish"
)

var (
	previewTopicID string
	previewPort    int
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a topic's page in the browser",
	Long: `Serves the assembled page on localhost with live reload and opens it
in the system browser. Stop with Ctrl-C.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewTopicID, "topic-id", "", "topic to preview (interactive picker if omitted)")
	previewCmd.Flags().IntVar(&previewPort, "port", 0, "port to serve on (overrides config)")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
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

	topic, err := pickTopic(ctx, client, sess.UserID, previewTopicID)
	if err != nil {
		return err
	}
	if err := coord.OpenTopic(ctx, topic); err != nil {
		return err
	}

	doc, err := coord.Document()
	if err != nil {
		return err
	}

	port := cfg.Preview.Port
	if previewPort != 0 {
		port = previewPort
	}

	server := publish.NewPreviewServer(doc, newLogger())

	done := make(chan error, 1)
	go func() { done <- server.Start(port) }()

	url := server.URL(port)
	fmt.Printf("Previewing %q at %s (Ctrl-C to stop)\n", topic.Title, url)
	if cfg.Preview.OpenBrowser {
		publish.OpenBrowser(url)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-done:
		return err
	case <-sig:
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-done
}
