// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the newsletter-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/newsletter-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the newsletter-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "newsletter-engine",
	Short: "Draft, generate, and assemble AI-written newsletters",
	Long: `newsletter-engine builds newsletters section by section. Each section is
generated from source article URLs, free-form notes, and a prompt, using a
configurable LLM provider. Drafts persist as JSON files and can be resumed,
edited, and assembled into the final section sequence.

Each workflow step is a subcommand: draft manages saved drafts, discover
finds candidate article URLs, fetch previews extracted article text,
generate and edit produce section content, and assemble renders the
newsletter in canonical section order.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./newsletter-engine.yaml or ~/.config/newsletter-engine/config.yaml)")
	rootCmd.PersistentFlags().String("drafts-dir", "drafts", "directory for draft files and the index database")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("newsletter-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "newsletter-engine"))
		}
	}

	viper.SetEnvPrefix("NEWSLETTER_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
