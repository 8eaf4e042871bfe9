package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SergeyParamoshkin/articlefront/internal/config"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("API_KEY", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("UPSTREAM_TIMEOUT", "")
	t.Setenv("SLUG_MISMATCH", "")
	t.Setenv("MINIFY_HTML", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_DEVELOPMENT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	require.Equal(t, "secret", cfg.APIKey)
	require.Equal(t, 50, cfg.PageSize)
	require.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, config.SlugRedirect, cfg.SlugMismatch)
	require.True(t, cfg.MinifyHTML)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.LogDevelopment)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("SLUG_MISMATCH", "Serve")
	t.Setenv("MINIFY_HTML", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_DEVELOPMENT", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 25, cfg.PageSize)
	require.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, config.SlugServe, cfg.SlugMismatch)
	require.False(t, cfg.MinifyHTML)
	require.Equal(t, "debug", cfg.LogLevel)
	require.True(t, cfg.LogDevelopment)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("API_KEY", "")

	cfg, err := config.Load()
	require.ErrorIs(t, err, config.ErrMissingAPIKey)
	require.Nil(t, cfg)
}

func TestLoadMissingBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("API_KEY", "secret")

	_, err := config.Load()
	require.ErrorIs(t, err, config.ErrMissingBaseURL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"relative url": {"API_BASE_URL", "api.example.com"},
		"ftp url":      {"API_BASE_URL", "ftp://api.example.com"},
		"zero page":    {"PAGE_SIZE", "0"},
		"zero timeout": {"UPSTREAM_TIMEOUT", "0s"},
		"unknown slug": {"SLUG_MISMATCH", "ignore"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(kv[0], kv[1])

			_, err := config.Load()
			require.Error(t, err)
		})
	}
}

func TestLoadRejectsUnparsableValues(t *testing.T) {
	cases := map[string][2]string{
		"page size":   {"PAGE_SIZE", "abc"},
		"timeout":     {"UPSTREAM_TIMEOUT", "abc"},
		"bare number": {"UPSTREAM_TIMEOUT", "10"},
		"minify":      {"MINIFY_HTML", "maybe"},
		"development": {"LOG_DEVELOPMENT", "sometimes"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(kv[0], kv[1])

			cfg, err := config.Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), kv[0])
			require.Nil(t, cfg)
		})
	}
}

func TestLoadEnvFilesKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ARTICLEFRONT_TEST_A=from-file\nARTICLEFRONT_TEST_B=from-file\n"), 0o600))

	t.Setenv("ARTICLEFRONT_TEST_A", "from-env")
	t.Setenv("ARTICLEFRONT_TEST_B", "")
	require.NoError(t, os.Unsetenv("ARTICLEFRONT_TEST_B"))

	config.LoadEnvFiles(path, filepath.Join(dir, "missing.env"))

	require.Equal(t, "from-env", os.Getenv("ARTICLEFRONT_TEST_A"))
	require.Equal(t, "from-file", os.Getenv("ARTICLEFRONT_TEST_B"))
}
