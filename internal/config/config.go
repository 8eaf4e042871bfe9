package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingAPIKey  = errors.New("API_KEY must be set")
	ErrMissingBaseURL = errors.New("API_BASE_URL must be set")
)

// SlugPolicy decides what the detail page does when the requested slug is
// not the one derived from the article title.
type SlugPolicy string

const (
	SlugRedirect SlugPolicy = "redirect"
	SlugServe    SlugPolicy = "serve"
)

// Config is the renderer configuration, read once at startup.
type Config struct {
	APIBaseURL      string
	APIKey          string
	PageSize        int
	UpstreamTimeout time.Duration
	SlugMismatch    SlugPolicy
	MinifyHTML      bool
	LogLevel        string
	LogDevelopment  bool
}

// LoadEnvFiles seeds the environment from the given dotenv files. Missing
// files are skipped and variables already set are left alone.
func LoadEnvFiles(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load builds a Config from environment variables.
func Load() (*Config, error) {
	pageSize, err := getInt("PAGE_SIZE", 50)
	if err != nil {
		return nil, err
	}
	timeout, err := getDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	minify, err := getBool("MINIFY_HTML", true)
	if err != nil {
		return nil, err
	}
	development, err := getBool("LOG_DEVELOPMENT", false)
	if err != nil {
		return nil, err
	}

	c := &Config{
		APIBaseURL:      strings.TrimRight(GetEnv("API_BASE_URL", ""), "/"),
		APIKey:          GetEnv("API_KEY", ""),
		PageSize:        pageSize,
		UpstreamTimeout: timeout,
		SlugMismatch:    SlugPolicy(strings.ToLower(GetEnv("SLUG_MISMATCH", string(SlugRedirect)))),
		MinifyHTML:      minify,
		LogLevel:        GetEnv("LOG_LEVEL", "info"),
		LogDevelopment:  development,
	}

	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if c.APIBaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("API_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}

	if c.PageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive")
	}
	if c.UpstreamTimeout <= 0 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}

	switch c.SlugMismatch {
	case SlugRedirect, SlugServe:
	default:
		return nil, fmt.Errorf("SLUG_MISMATCH must be %q or %q, got %q", SlugRedirect, SlugServe, c.SlugMismatch)
	}

	return c, nil
}

// GetEnv returns the value of key, or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func GetEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}

	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}

	return parsed, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}

	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}

	return parsed, nil
}
