// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-analyzer/internal/analyzer"
	"github.com/pdiddy/paper-analyzer/internal/extract"
	"github.com/pdiddy/paper-analyzer/internal/secrets"
	"github.com/pdiddy/paper-analyzer/internal/textract"
	"github.com/pdiddy/paper-analyzer/pkg/types"
)

const (
	secretsDir = ".secrets/"
	dotenvFile = ".env"
)

// envKeyReplacer maps viper keys to environment names:
// ai.max_tokens becomes PAPER_ANALYZER_AI_MAX_TOKENS.
var envKeyReplacer = strings.NewReplacer(".", "_")

func setDefaults() {
	viper.SetDefault("ai.temperature", extract.DefaultTemperature)
	viper.SetDefault("ai.max_tokens", extract.DefaultMaxTokens)
	viper.SetDefault("ai.max_retries", 2)
	viper.SetDefault("ai.timeout", analyzer.DefaultTimeout)
	viper.SetDefault("ai.requests_per_minute", 0)
	viper.SetDefault("cache.backend", string(types.CacheMemory))
	viper.SetDefault("cache.prefix", "paper-analyzer:")
	viper.SetDefault("store.dir", "analyses")
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("min_text_length", textract.MinLength)
}

// loadConfig assembles the configuration from viper and resolves the model
// API key from the secrets directory and .env file.
func loadConfig() (types.AnalyzerConfig, error) {
	c := types.AnalyzerConfig{
		AI: types.AIConfig{
			Provider:          strings.ToLower(viper.GetString("ai.provider")),
			Model:             viper.GetString("ai.model"),
			APIKey:            viper.GetString("ai.api_key"),
			BaseURL:           viper.GetString("ai.base_url"),
			Temperature:       viper.GetFloat64("ai.temperature"),
			MaxTokens:         viper.GetInt("ai.max_tokens"),
			MaxRetries:        viper.GetInt("ai.max_retries"),
			Timeout:           viper.GetDuration("ai.timeout"),
			RequestsPerMinute: viper.GetInt("ai.requests_per_minute"),
		},
		Cache: types.CacheConfig{
			Backend:       types.CacheBackend(viper.GetString("cache.backend")),
			RedisAddr:     viper.GetString("cache.redis_addr"),
			RedisPassword: viper.GetString("cache.redis_password"),
			Prefix:        viper.GetString("cache.prefix"),
		},
		Store: types.StoreConfig{
			Dir: viper.GetString("store.dir"),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
			File:   viper.GetString("log.file"),
		},
		MinTextLength: viper.GetInt("min_text_length"),
	}

	files, err := secrets.Load(secretsDir)
	if err != nil {
		return c, err
	}
	dotenv, err := secrets.LoadEnv(dotenvFile)
	if err != nil {
		return c, err
	}

	if c.AI.Provider == "" {
		c.AI.Provider = secrets.DetectProvider(files, dotenv)
	}
	c.AI.APIKey = secrets.APIKey(c.AI.Provider, c.AI.APIKey, files, dotenv)

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}
