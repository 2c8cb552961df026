// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "cohere-api-key", "  co_abc123  \n")
				writeFile(t, dir, "openai-api-key", "sk_xyz789")
				writeFile(t, dir, "anthropic-api-key", "ak_456\n")
				return dir
			},
			want: map[string]string{
				"cohere-api-key":    "co_abc123",
				"openai-api-key":    "sk_xyz789",
				"anthropic-api-key": "ak_456",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "cohere-api-key", "co_real")
				return dir
			},
			want: map[string]string{
				"cohere-api-key": "co_real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "ak_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "COHERE_API_KEY=co_from_env\n# comment\nOTHER=x\n")

	got, err := LoadEnv(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "co_from_env", got["COHERE_API_KEY"])

	got, err = LoadEnv(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAPIKey(t *testing.T) {
	t.Setenv("COHERE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	files := map[string]string{"anthropic-api-key": "from-file"}
	dotenv := map[string]string{"COHERE_API_KEY": "from-dotenv", "ANTHROPIC_API_KEY": "dotenv-claude"}

	tests := []struct {
		name     string
		provider string
		explicit string
		env      map[string]string
		want     string
	}{
		{name: "explicit wins", provider: "claude", explicit: "flag", want: "flag"},
		{name: "secret file before dotenv", provider: "claude", want: "from-file"},
		{name: "dotenv fallback", provider: "cohere", want: "from-dotenv"},
		{name: "environment before dotenv", provider: "cohere", env: map[string]string{"COHERE_API_KEY": "from-env"}, want: "from-env"},
		{name: "nothing available", provider: "openai", want: ""},
		{name: "unknown provider", provider: "mystery", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.want, APIKey(tt.provider, tt.explicit, files, dotenv))
		})
	}
}

func TestDetectProvider(t *testing.T) {
	t.Setenv("COHERE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	assert.Equal(t, "", DetectProvider(nil, nil))
	assert.Equal(t, "cohere", DetectProvider(nil, map[string]string{"COHERE_API_KEY": "k"}))
	assert.Equal(t, "claude", DetectProvider(map[string]string{"anthropic-api-key": "a"}, map[string]string{"COHERE_API_KEY": "k"}))

	t.Setenv("OPENAI_API_KEY", "o")
	assert.Equal(t, "openai", DetectProvider(nil, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
