package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to canvas! Let's configure your playground.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Port.
	portPrompt := promptui.Prompt{
		Label:    "Port to serve the playground on",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 2. Default theme.
	themePrompt := promptui.Select{
		Label: "Default theme (used until a visitor picks one)",
		Items: []string{"dark", "light"},
	}
	_, cfg.DefaultTheme, err = themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}

	// 3. Auto refresh.
	refreshPrompt := promptui.Select{
		Label: "Preview refresh",
		Items: []string{
			"manual - refresh with the Run button",
			"auto   - refresh shortly after typing stops",
		},
	}
	refreshIdx, _, err := refreshPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("refresh selection: %w", err)
	}
	cfg.Preview.AutoRefresh = refreshIdx == 1

	// 4. Export title.
	titlePrompt := promptui.Prompt{
		Label:   "Title of downloaded pages",
		Default: cfg.Export.Title,
	}
	cfg.Export.Title, err = titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("export title: %w", err)
	}

	// 5. Snippets.
	snippetPrompt := promptui.Prompt{
		Label:   "Starter snippet directory (leave blank for builtin starters)",
		Default: "",
	}
	cfg.Snippets.Dir, err = snippetPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("snippet dir: %w", err)
	}
	if cfg.Snippets.Dir != "" {
		includePrompt := promptui.Prompt{
			Label:   "Snippet include patterns (comma-separated globs)",
			Default: strings.Join(cfg.Snippets.Include, ","),
		}
		includeStr, err := includePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("include patterns: %w", err)
		}
		cfg.Snippets.Include = splitAndTrim(includeStr)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	port, err := strconv.Atoi(s)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
