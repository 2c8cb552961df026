// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Provider names accepted in AIConfig.Provider.
const (
	ProviderClaude = "claude"
	ProviderCohere = "cohere"
	ProviderOpenAI = "openai"
)

// AIConfig holds settings for the language-model collaborator.
type AIConfig struct {
	// Provider selects the backend: claude, cohere, or openai. Empty disables
	// the model path and every extraction runs on heuristics alone.
	Provider string `json:"provider" yaml:"provider" validate:"omitempty,oneof=claude cohere openai"`

	// Model is the model identifier (e.g. "command-a-03-2025"). Empty selects
	// the provider default.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the provider API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (used for proxies and tests).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`

	// Temperature is the sampling temperature for metadata extraction (default 0.1).
	Temperature float64 `json:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`

	// MaxTokens bounds the metadata response length (default 400).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" validate:"gte=0"`

	// MaxRetries is the number of retry attempts for failed calls (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" validate:"gte=0,lte=10"`

	// Timeout bounds a single metadata call, retries included (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"gte=0"`

	// RequestsPerMinute rate-limits provider calls. Zero means unlimited.
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute" validate:"gte=0"`
}

// CacheBackend identifies the memoization store.
type CacheBackend string

const (
	CacheMemory CacheBackend = "memory"
	CacheRedis  CacheBackend = "redis"
	CacheNone   CacheBackend = "none"
)

// CacheConfig holds settings for the content-addressed result cache.
type CacheConfig struct {
	// Backend selects memory, redis, or none (default memory).
	Backend CacheBackend `json:"backend" yaml:"backend" validate:"omitempty,oneof=memory redis none"`

	// RedisAddr is the host:port of the Redis server when Backend is redis.
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty" validate:"required_if=Backend redis"`

	// RedisPassword is the optional Redis password.
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`

	// Prefix namespaces cache keys in shared stores (default "paper-analyzer:").
	Prefix string `json:"prefix" yaml:"prefix"`
}

// StoreConfig holds settings for the analysis history database.
type StoreConfig struct {
	// Dir is the directory holding history.db and exports (default "analyses").
	Dir string `json:"dir" yaml:"dir"`
}

// LogConfig holds settings for structured logging.
type LogConfig struct {
	// Level is debug, info, warn, or error (default warn).
	Level string `json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`

	// Format is console or json (default console).
	Format string `json:"format" yaml:"format" validate:"omitempty,oneof=console json"`

	// File, when set, also writes JSON logs to a rotating file.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// AnalyzerConfig groups all stage configurations.
type AnalyzerConfig struct {
	AI    AIConfig    `json:"ai" yaml:"ai"`
	Cache CacheConfig `json:"cache" yaml:"cache"`
	Store StoreConfig `json:"store" yaml:"store"`
	Log   LogConfig   `json:"log" yaml:"log"`

	// MinTextLength is the minimum number of characters of extracted text
	// required before any extraction runs (default 80).
	MinTextLength int `json:"min_text_length" yaml:"min_text_length" validate:"gte=0"`
}

var validate = validator.New()

// Validate checks field constraints across the configuration tree.
func (c AnalyzerConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
