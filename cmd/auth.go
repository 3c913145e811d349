package cmd

import (
	"context"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/blogsmith/blogsmith/internal/session"
)

var (
	authUsername string
	authPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the blogsmith backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		username, password, err := credentials()
		if err != nil {
			return err
		}

		client := newClient(cfg)
		creds, err := client.Login(context.Background(), username, password)
		if err != nil {
			return err
		}

		dir, err := cfg.ResolveDataDir()
		if err != nil {
			return fmt.Errorf("resolving data directory: %w", err)
		}
		err = session.Save(dir, &session.Session{
			Token:    creds.Token,
			UserID:   creds.UserID,
			Username: username,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s\n", username)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		username, password, err := credentials()
		if err != nil {
			return err
		}

		client := newClient(cfg)
		if err := client.Register(context.Background(), username, password); err != nil {
			return err
		}

		fmt.Println("Account created. Log in with `blogsmith login`.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir, err := cfg.ResolveDataDir()
		if err != nil {
			return fmt.Errorf("resolving data directory: %w", err)
		}
		if err := session.Clear(dir); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

// credentials returns the username/password from flags, prompting for
// whichever is missing.
func credentials() (string, string, error) {
	username := authUsername
	if username == "" {
		prompt := promptui.Prompt{Label: "Username"}
		var err error
		username, err = prompt.Run()
		if err != nil {
			return "", "", fmt.Errorf("username: %w", err)
		}
	}

	password := authPassword
	if password == "" {
		prompt := promptui.Prompt{Label: "Password", Mask: '*'}
		var err error
		password, err = prompt.Run()
		if err != nil {
			return "", "", fmt.Errorf("password: %w", err)
		}
	}

	return username, password, nil
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVarP(&authUsername, "username", "u", "", "account username")
		c.Flags().StringVarP(&authPassword, "password", "p", "", "account password (prompted if omitted)")
	}
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
}
