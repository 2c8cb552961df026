// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-analyzer CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-analyzer/internal/logging"
	"github.com/pdiddy/paper-analyzer/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the validated configuration, populated before any command runs.
	cfg types.AnalyzerConfig

	// logger is the process logger, also installed as zap's global.
	logger = zap.NewNop()
)

// rootCmd is the base command for the paper-analyzer CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-analyzer",
	Short: "Extract metadata and citations from academic papers",
	Long: `paper-analyzer reads the text of an academic paper (PDF or plain text) and
extracts its bibliographic metadata (title, authors, journal, year, DOI) along
with inline citations, DOIs, URLs, and reference-list lines.

Metadata comes from a language model when an API key is configured and falls
back to deterministic heuristics otherwise. Keys are read from flags, config,
PAPER_ANALYZER_* variables, the .secrets/ directory, or a .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return configError{err}
		}

		l, err := logging.New(c.Log)
		if err != nil {
			return configError{err}
		}
		zap.ReplaceGlobals(l)
		cfg, logger = c, l

		logger.Debug("configuration loaded",
			zap.String("provider", cfg.AI.Provider),
			zap.String("cache", string(cfg.Cache.Backend)),
			zap.String("store", cfg.Store.Dir))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./paper-analyzer.yaml or ~/.config/paper-analyzer/config.yaml)")
	pf.String("provider", "", "model provider: claude, cohere, or openai (default: first with a key)")
	pf.String("model", "", "model identifier (default: provider default)")
	pf.String("api-key", "", "model API key")
	pf.String("cache", "", "cache backend: memory, redis, or none")
	pf.String("log-level", "", "log level: debug, info, warn, or error")

	for key, flag := range map[string]string{
		"ai.provider":   "provider",
		"ai.model":      "model",
		"ai.api_key":    "api-key",
		"cache.backend": "cache",
		"log.level":     "log-level",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}

	setDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-analyzer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-analyzer"))
		}
	}

	viper.SetEnvPrefix("PAPER_ANALYZER")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}
