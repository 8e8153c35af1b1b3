package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storyforge/internal/domain"
)

var (
	settingsProvider   string
	settingsAPIKey     string
	settingsBaseURL    string
	settingsLargeModel string
	settingsSmallModel string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change AI provider settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := getStore().State().Settings
		cfg := settings.Active()

		fmt.Printf("Provider:    %s\n", settings.Provider)
		fmt.Printf("API key:     %s\n", maskKey(cfg.APIKey))
		if cfg.BaseURL != "" {
			fmt.Printf("Base URL:    %s\n", cfg.BaseURL)
		}
		if cfg.LargeModel != "" {
			fmt.Printf("Large model: %s\n", cfg.LargeModel)
		}
		if cfg.SmallModel != "" {
			fmt.Printf("Small model: %s\n", cfg.SmallModel)
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change AI provider settings",
	Long: `Change AI provider settings. Only the given flags change; the rest of
the provider configuration is kept.

Examples:
  storyforge-cli settings set --api-key sk-...
  storyforge-cli settings set --large-model gpt-4o --small-model gpt-4o-mini`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := getStore().State().Settings
		if settingsProvider != "" {
			settings.Provider = settingsProvider
		}
		if settings.Provider == "" {
			settings.Provider = "openai"
		}
		if settings.Providers == nil {
			settings.Providers = make(map[string]domain.ProviderConfig)
		}

		cfg := settings.Providers[settings.Provider]
		if settingsAPIKey != "" {
			cfg.APIKey = settingsAPIKey
		}
		if settingsBaseURL != "" {
			cfg.BaseURL = settingsBaseURL
		}
		if settingsLargeModel != "" {
			cfg.LargeModel = settingsLargeModel
		}
		if settingsSmallModel != "" {
			cfg.SmallModel = settingsSmallModel
		}
		settings.Providers[settings.Provider] = cfg

		getStore().UpdateSettings(settings)
		fmt.Println("Settings updated")
		return nil
	},
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 4) + key[len(key)-4:]
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	settingsSetCmd.Flags().StringVar(&settingsProvider, "provider", "", "active provider name")
	settingsSetCmd.Flags().StringVar(&settingsAPIKey, "api-key", "", "provider API key")
	settingsSetCmd.Flags().StringVar(&settingsBaseURL, "base-url", "", "provider base URL")
	settingsSetCmd.Flags().StringVar(&settingsLargeModel, "large-model", "", "model for heavy rewrites")
	settingsSetCmd.Flags().StringVar(&settingsSmallModel, "small-model", "", "model for short summaries")
}
