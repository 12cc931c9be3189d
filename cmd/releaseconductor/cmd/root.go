package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grokify/releaseconductor/internal/cache"
	"github.com/grokify/releaseconductor/internal/config"
	"github.com/grokify/releaseconductor/internal/repository"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "releaseconductor",
	Short: "Compute, stage and publish releases from merged pull requests",
	Long: `ReleaseConductor computes the release state of a git repository from its
version tags and the pull requests merged since the latest one.

Features:
  - Show the latest version, the changes since it and the proposed next version
  - Stage release notes and bump version strings in project files
  - Publish a GitHub release with the staged notes and build assets

Pull request labels decide the release type: "BREAKING CHANGE" in a title or
description is a major release, "enhancement" a minor and "bug" a patch release.
Project settings are read from .changes.yaml in the repository root.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.releaseconductor.yaml)")
	flags.String("token", "", "GitHub token (or set GITHUB_AUTH_TOKEN / GITHUB_TOKEN env var)")
	flags.String("remote", "origin", "Git remote the GitHub repository is read from")
	flags.String("repo", "", "GitHub repository (owner/repo format), overrides the remote")
	flags.String("format", "table", "Output format: table, json, markdown, csv")
	flags.Bool("dry-run", false, "Show what would happen without making changes")
	flags.Bool("verbose", false, "Enable verbose output")
	flags.Int("concurrency", repository.DefaultConcurrency, "Number of pull requests fetched in parallel")
	flags.Duration("timeout", 10*time.Second, "Timeout for each GitHub request")
	flags.Int("retries", 3, "Maximum retries for rate limited GitHub requests")
	flags.Bool("no-cache", false, "Disable the GitHub response cache")
	flags.String("cache-dir", "", "GitHub response cache directory")
	flags.Duration("cache-ttl", cache.DefaultTTL, "GitHub response cache TTL")

	// Bind flags to viper
	_ = viper.BindPFlag(config.KeyToken, flags.Lookup("token"))
	_ = viper.BindPFlag(config.KeyRemote, flags.Lookup("remote"))
	_ = viper.BindPFlag(config.KeyRepo, flags.Lookup("repo"))
	_ = viper.BindPFlag(config.KeyFormat, flags.Lookup("format"))
	_ = viper.BindPFlag(config.KeyDryRun, flags.Lookup("dry-run"))
	_ = viper.BindPFlag(config.KeyVerbose, flags.Lookup("verbose"))
	_ = viper.BindPFlag(config.KeyConcurrency, flags.Lookup("concurrency"))
	_ = viper.BindPFlag(config.KeyRetries, flags.Lookup("retries"))
	_ = viper.BindPFlag(config.KeyCacheDisabled, flags.Lookup("no-cache"))
	_ = viper.BindPFlag(config.KeyCacheDir, flags.Lookup("cache-dir"))
	_ = viper.BindPFlag(config.KeyTimeout, flags.Lookup("timeout"))
	_ = viper.BindPFlag(config.KeyCacheTTL, flags.Lookup("cache-ttl"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".releaseconductor" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".releaseconductor")
	}

	// Defaults and environment variables
	config.SetDefaults(viper.GetViper())

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool(config.KeyVerbose) {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
