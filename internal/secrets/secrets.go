// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads model API keys from a directory of plain-text files
// and a dotenv file. Each file in the directory holds one secret: the
// filename is the key name and the trimmed contents are the value.
//
// Supported key files: anthropic-api-key, cohere-api-key, openai-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-analyzer/pkg/types"
)

// keyFiles maps each provider to its secret file name and environment
// variable.
var keyFiles = map[string]struct{ file, env string }{
	types.ProviderClaude: {"anthropic-api-key", "ANTHROPIC_API_KEY"},
	types.ProviderCohere: {"cohere-api-key", "COHERE_API_KEY"},
	types.ProviderOpenAI: {"openai-api-key", "OPENAI_API_KEY"},
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			zap.L().Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// LoadEnv reads KEY=value pairs from a dotenv file. A missing file yields
// an empty map. The process environment is not modified.
func LoadEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return env, nil
}

// APIKey resolves the key for provider: an explicit value wins, then the
// secret file, then the process environment, then the dotenv map.
func APIKey(provider, explicit string, files, dotenv map[string]string) string {
	if explicit != "" {
		return explicit
	}
	k, ok := keyFiles[provider]
	if !ok {
		return ""
	}
	if v := files[k.file]; v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(k.env)); v != "" {
		return v
	}
	return strings.TrimSpace(dotenv[k.env])
}

// DetectProvider returns the first provider, in claude, cohere, openai
// order, for which a key is available. It returns "" when none is.
func DetectProvider(files, dotenv map[string]string) string {
	for _, p := range []string{types.ProviderClaude, types.ProviderCohere, types.ProviderOpenAI} {
		if APIKey(p, "", files, dotenv) != "" {
			return p
		}
	}
	return ""
}
