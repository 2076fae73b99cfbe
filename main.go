package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tinytrans/internal/config"
	"tinytrans/internal/logger"
)

var errCacheDisabled = errors.New("translation cache is disabled")

var (
	configPath string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tinytrans",
		Short:         "Translate XLIFF messages with an LLM backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config")

	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(providersCmd())
	rootCmd.AddCommand(cacheCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openApp loads the config, installs the logger and wires the services.
func openApp() (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger.Init(logger.ParseLevel(level))
	return NewApp(cfg)
}

func translateCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Auto-translate display texts such as \"Hello {{0}}\" and print the units",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			api, err := app.OpenTexts("cli", from, to, args)
			if err != nil {
				return err
			}
			n, err := api.AutoTranslateAll()
			if err != nil {
				return err
			}
			logger.Info("translated", "module", "cli", "action", "translate", "units", n)
			return printJSON(cmd, api.List())
		},
	}
	cmd.Flags().StringVar(&from, "from", "en", "source language")
	cmd.Flags().StringVar(&to, "to", "", "target language")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func providersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Inspect the configured translation provider",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the configured providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()
			return printJSON(cmd, app.providers.List())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Check that every provider answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()
			results := app.providers.Test()
			if err := printJSON(cmd, results); err != nil {
				return err
			}
			for _, r := range results {
				if !r.Ok {
					return fmt.Errorf("provider %s failed: %s", r.Name, r.Error)
				}
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "models [name]",
		Short: "List the models a provider offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()
			models, err := app.providers.ListModels(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, models)
		},
	})
	return cmd
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the translation memory",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print the number of remembered translations",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()
			n, err := app.CacheCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d entries\n", n)
			return nil
		},
	})
	var olderThan time.Duration
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete remembered translations older than a given age",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()
			n, err := app.PurgeCache(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			logger.Info("cache purged", "module", "cli", "action", "cache_purge", "removed", n)
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", n)
			return nil
		},
	}
	purge.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age of the entries to delete")
	cmd.AddCommand(purge)
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
