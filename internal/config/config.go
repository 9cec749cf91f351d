package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultSecretsFile is read when SECRETS_FILE is not set and the file exists.
const DefaultSecretsFile = "secrets.toml"

// GeocoderConfig points at the Nominatim-compatible search endpoint.
type GeocoderConfig struct {
	BaseURL   string        `env:"GEOCODER_BASE_URL" env-default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `env:"GEOCODER_USER_AGENT" env-default:"meal-recommendation-app (educational use)"`
	Timeout   time.Duration `env:"GEOCODER_TIMEOUT" env-default:"15s"`
}

// PlacesConfig configures the SerpAPI google_maps search.
type PlacesConfig struct {
	BaseURL      string        `env:"PLACES_BASE_URL" env-default:"https://serpapi.com"`
	GoogleDomain string        `env:"PLACES_GOOGLE_DOMAIN" env-default:"google.com"`
	Language     string        `env:"PLACES_LANGUAGE" env-default:"en"`
	Zoom         int           `env:"PLACES_ZOOM" env-default:"14"`
	Limit        int           `env:"PLACES_LIMIT" env-default:"50"`
	Timeout      time.Duration `env:"PLACES_TIMEOUT" env-default:"20s"`
}

// ChatConfig configures the OpenRouter chat-completions endpoint.
type ChatConfig struct {
	BaseURL string        `env:"OPENROUTER_BASE_URL" env-default:"https://openrouter.ai/api/v1"`
	Model   string        `env:"OPENROUTER_MODEL" env-default:"inflection/inflection-3-pi"`
	Referer string        `env:"OPENROUTER_REFERER" env-default:"http://localhost:8080"`
	Title   string        `env:"OPENROUTER_TITLE" env-default:"Meal Recommendation App"`
	Timeout time.Duration `env:"OPENROUTER_TIMEOUT" env-default:"40s"`
}

// PlannerConfig tunes the meal-plan prompt.
type PlannerConfig struct {
	Cuisine     string `env:"PLANNER_CUISINE" env-default:"Indian"`
	Currency    string `env:"PLANNER_CURRENCY" env-default:"₹"`
	MinBudget   int    `env:"PLANNER_MIN_BUDGET" env-default:"50"`
	PhoneRegion string `env:"PHONE_REGION" env-default:"IN"`
}

// SessionConfig controls the signed session cookie and the in-memory state store.
type SessionConfig struct {
	Secret     string        `env:"SESSION_SECRET"`
	CookieName string        `env:"SESSION_COOKIE" env-default:"mapmymeal_session"`
	TTL        time.Duration `env:"SESSION_TTL" env-default:"24h"`
	Capacity   int           `env:"SESSION_CAPACITY" env-default:"1024"`
	Secure     bool          `env:"SESSION_SECURE" env-default:"false"`
}

// Config aggregates application-wide configuration values.
type Config struct {
	SerpAPIKey       string `toml:"SERPAPI_KEY" env:"SERPAPI_KEY" env-required:"true"`
	OpenRouterAPIKey string `toml:"OPENROUTER_API_KEY" env:"OPENROUTER_API_KEY" env-required:"true"`

	Port      string `toml:"-" env:"PORT" env-default:"8080"`
	LogLevel  string `toml:"-" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `toml:"-" env:"LOG_FORMAT" env-default:"json"`

	Geocoder GeocoderConfig `toml:"-"`
	Places   PlacesConfig   `toml:"-"`
	Chat     ChatConfig     `toml:"-"`
	Planner  PlannerConfig  `toml:"-"`
	Session  SessionConfig  `toml:"-"`
}

// ChatOnly is the subset needed by tools that only talk to the chat provider.
type ChatOnly struct {
	OpenRouterAPIKey string     `toml:"OPENROUTER_API_KEY" env:"OPENROUTER_API_KEY" env-required:"true"`
	Chat             ChatConfig `toml:"-"`
}

// Load reads configuration from the secrets file (if any) and environment variables.
// Missing secrets are reported as an error so callers can abort before serving.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := read(cfg); err != nil {
		return nil, err
	}

	if err := requireSecret("SERPAPI_KEY", cfg.SerpAPIKey); err != nil {
		return nil, err
	}
	if err := requireSecret("OPENROUTER_API_KEY", cfg.OpenRouterAPIKey); err != nil {
		return nil, err
	}
	if err := requireSecret("SESSION_SECRET", cfg.Session.Secret); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Geocoder.UserAgent) == "" {
		return nil, fmt.Errorf("GEOCODER_USER_AGENT must not be empty")
	}
	if cfg.Places.Limit <= 0 {
		return nil, fmt.Errorf("invalid PLACES_LIMIT value: %d", cfg.Places.Limit)
	}
	if cfg.Planner.MinBudget < 0 {
		return nil, fmt.Errorf("invalid PLANNER_MIN_BUDGET value: %d", cfg.Planner.MinBudget)
	}

	return cfg, nil
}

// LoadChat reads only the chat provider settings.
func LoadChat() (*ChatOnly, error) {
	cfg := &ChatOnly{}
	if err := read(cfg); err != nil {
		return nil, err
	}
	if err := requireSecret("OPENROUTER_API_KEY", cfg.OpenRouterAPIKey); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(cfg any) error {
	path := secretsFile()
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return fmt.Errorf("read config from %s: %w", path, err)
		}
		return nil
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read config from environment: %w", err)
	}
	return nil
}

// secretsFile resolves the optional TOML secrets file. An explicitly configured
// path is always returned so a typo surfaces as a read error.
func secretsFile() string {
	if path, ok := os.LookupEnv("SECRETS_FILE"); ok {
		return strings.TrimSpace(path)
	}
	if _, err := os.Stat(DefaultSecretsFile); err == nil {
		return DefaultSecretsFile
	}
	return ""
}

func requireSecret(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing secret: %s", name)
	}
	return nil
}
