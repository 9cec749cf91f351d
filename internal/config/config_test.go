package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("SECRETS_FILE", "")
	t.Setenv("SERPAPI_KEY", "serp-key")
	t.Setenv("OPENROUTER_API_KEY", "router-key")
	t.Setenv("SESSION_SECRET", "cookie-secret")
}

func TestLoad(t *testing.T) {
	setSecrets(t)
	t.Setenv("PORT", "9000")
	t.Setenv("OPENROUTER_TIMEOUT", "5s")
	t.Setenv("PLACES_LIMIT", "10")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SerpAPIKey != "serp-key" || cfg.OpenRouterAPIKey != "router-key" {
		t.Fatalf("unexpected secrets: %+v", cfg)
	}
	if cfg.Port != "9000" {
		t.Fatalf("unexpected port: %s", cfg.Port)
	}
	if cfg.Chat.Timeout != 5*time.Second {
		t.Fatalf("expected chat timeout 5s, got %s", cfg.Chat.Timeout)
	}
	if cfg.Places.Limit != 10 {
		t.Fatalf("expected places limit 10, got %d", cfg.Places.Limit)
	}
	if cfg.Session.Secret != "cookie-secret" {
		t.Fatalf("unexpected session secret: %q", cfg.Session.Secret)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Fatalf("expected session ttl 2h, got %s", cfg.Session.TTL)
	}
}

func TestLoadDefaults(t *testing.T) {
	setSecrets(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Geocoder.Timeout != 15*time.Second || cfg.Places.Timeout != 20*time.Second || cfg.Chat.Timeout != 40*time.Second {
		t.Fatalf("unexpected default timeouts: %+v %+v %+v", cfg.Geocoder, cfg.Places, cfg.Chat)
	}
	if cfg.Chat.Model != "inflection/inflection-3-pi" {
		t.Fatalf("unexpected default model: %s", cfg.Chat.Model)
	}
	if cfg.Places.Limit != 50 || cfg.Places.Zoom != 14 {
		t.Fatalf("unexpected places defaults: %+v", cfg.Places)
	}
	if cfg.Planner.MinBudget != 50 || cfg.Planner.Currency != "₹" {
		t.Fatalf("unexpected planner defaults: %+v", cfg.Planner)
	}
}

func TestLoadMissingSecrets(t *testing.T) {
	setSecrets(t)
	os.Unsetenv("SERPAPI_KEY")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SERPAPI_KEY is unset")
	}

	t.Setenv("SERPAPI_KEY", "  ")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SERPAPI_KEY is blank")
	}

	t.Setenv("SERPAPI_KEY", "serp-key")
	os.Unsetenv("OPENROUTER_API_KEY")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when OPENROUTER_API_KEY is unset")
	}
}

func TestLoadMissingSessionSecret(t *testing.T) {
	setSecrets(t)
	os.Unsetenv("SESSION_SECRET")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SESSION_SECRET is unset")
	}

	t.Setenv("SESSION_SECRET", " ")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SESSION_SECRET is blank")
	}
}

func TestLoadEmptyUserAgent(t *testing.T) {
	setSecrets(t)
	t.Setenv("GEOCODER_USER_AGENT", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for empty GEOCODER_USER_AGENT")
	}

	t.Setenv("GEOCODER_USER_AGENT", "mapmymeal-test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Geocoder.UserAgent != "mapmymeal-test" {
		t.Fatalf("unexpected user agent: %q", cfg.Geocoder.UserAgent)
	}
}

func TestLoadInvalidLimit(t *testing.T) {
	setSecrets(t)
	t.Setenv("PLACES_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero places limit")
	}
}

func TestLoadFromSecretsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets.toml")
	content := "SERPAPI_KEY = \"file-serp\"\nOPENROUTER_API_KEY = \"file-router\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write secrets: %v", err)
	}

	t.Setenv("SERPAPI_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	os.Unsetenv("SERPAPI_KEY")
	os.Unsetenv("OPENROUTER_API_KEY")
	t.Setenv("SESSION_SECRET", "cookie-secret")
	t.Setenv("SECRETS_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SerpAPIKey != "file-serp" || cfg.OpenRouterAPIKey != "file-router" {
		t.Fatalf("expected secrets from file, got %+v", cfg)
	}

	t.Setenv("SECRETS_FILE", filepath.Join(dir, "missing.toml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing secrets file")
	}
}

func TestLoadChat(t *testing.T) {
	t.Setenv("SECRETS_FILE", "")
	t.Setenv("OPENROUTER_API_KEY", "router-key")
	t.Setenv("SERPAPI_KEY", "")
	os.Unsetenv("SERPAPI_KEY")

	cfg, err := LoadChat()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenRouterAPIKey != "router-key" || cfg.Chat.BaseURL != "https://openrouter.ai/api/v1" {
		t.Fatalf("unexpected chat config: %+v", cfg)
	}
}

func TestSecretsFile(t *testing.T) {
	t.Setenv("SECRETS_FILE", " custom.toml ")
	if got := secretsFile(); got != "custom.toml" {
		t.Fatalf("expected explicit path, got %q", got)
	}
	t.Setenv("SECRETS_FILE", "")
	if got := secretsFile(); got != "" {
		t.Fatalf("expected empty path, got %q", got)
	}
}
