package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog"

	"github.com/blogsmith/blogsmith/internal/api"
	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/editor"
	"github.com/blogsmith/blogsmith/internal/session"
	"github.com/blogsmith/blogsmith/internal/store"
	"github.com/blogsmith/blogsmith/internal/workflow"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `blogsmith init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the CLI logger. Verbose mode enables debug output.
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// newClient creates a backend API client from config.
func newClient(cfg *config.Config) *api.Client {
	return api.New(cfg.APIURL, api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
}

// activeSession loads the stored session, with a hint when none exists.
func activeSession(cfg *config.Config) (*session.Session, error) {
	dir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	sess, err := session.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("%w\nRun `blogsmith login` first", err)
	}
	return sess, nil
}

// newCoordinator wires a workflow coordinator for the logged-in user.
// The returned cleanup closes the draft cache; a cache failure degrades
// to no caching rather than blocking the workflow.
func newCoordinator(cfg *config.Config) (*workflow.Coordinator, *api.Client, func(), error) {
	sess, err := activeSession(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	client := newClient(cfg)
	client.SetToken(sess.Token)

	logger := newLogger()

	var cache *store.Store
	if dir, derr := cfg.ResolveDataDir(); derr == nil {
		cache, err = store.Open(filepath.Join(dir, "drafts.db"))
		if err != nil {
			logger.Warn().Err(err).Msg("draft cache unavailable")
			cache = nil
		}
	}

	cleanup := func() {
		if cache != nil {
			cache.Close()
		}
	}

	coord := workflow.New(client, editor.NewHeadless(), cache, cfg.Features, sess.UserID, logger)
	return coord, client, cleanup, nil
}

// findTopic resolves a topic id against the user's topic list.
func findTopic(ctx context.Context, client *api.Client, userID, topicID string) (api.Topic, error) {
	topics, err := client.ListTopics(ctx, userID)
	if err != nil {
		return api.Topic{}, err
	}
	for _, t := range topics {
		if t.ID == topicID {
			return t, nil
		}
	}
	return api.Topic{}, fmt.Errorf("topic %q not found", topicID)
}

// pickTopic resolves --topic-id, falling back to an interactive picker.
func pickTopic(ctx context.Context, client *api.Client, userID, topicID string) (api.Topic, error) {
	if topicID != "" {
		return findTopic(ctx, client, userID, topicID)
	}

	topics, err := client.ListTopics(ctx, userID)
	if err != nil {
		return api.Topic{}, err
	}
	if len(topics) == 0 {
		return api.Topic{}, fmt.Errorf("no topics yet: create one with `blogsmith topics create <title>`")
	}

	titles := make([]string, len(topics))
	for i, t := range topics {
		titles[i] = t.Title
	}
	prompt := promptui.Select{
		Label: "Select topic",
		Items: titles,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return api.Topic{}, fmt.Errorf("topic selection: %w", err)
	}
	return topics[idx], nil
}
