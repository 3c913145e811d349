package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .blogsmith.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to blogsmith! Let's configure your workspace.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend URL.
	urlPrompt := promptui.Prompt{
		Label:   "Backend API base URL",
		Default: cfg.APIURL,
	}
	apiURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("api url: %w", err)
	}
	cfg.APIURL = apiURL

	// 2. Default share platform.
	sharePrompt := promptui.Select{
		Label: "Default share platform",
		Items: []string{"linkedin", "x", "facebook"},
	}
	_, platform, err := sharePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("share platform: %w", err)
	}
	cfg.SharePlatform = platform

	// 3. Optional AI features.
	cfg.Features.AITemplate, err = confirm("Enable AI page templates")
	if err != nil {
		return nil, err
	}
	cfg.Features.AIImage, err = confirm("Enable AI image generation")
	if err != nil {
		return nil, err
	}
	cfg.Features.LocalUpload, err = confirm("Enable local image upload")
	if err != nil {
		return nil, err
	}

	// 4. Preview port.
	portPrompt := promptui.Prompt{
		Label:   "Preview server port",
		Default: strconv.Itoa(cfg.Preview.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("preview port: %w", err)
	}
	cfg.Preview.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	path := ".blogsmith.yml"
	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Default:   "y",
	}
	_, err := prompt.Run()
	if err == promptui.ErrAbort {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", label, err)
	}
	return true, nil
}
