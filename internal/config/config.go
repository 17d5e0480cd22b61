package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	FeedURL       string         `yaml:"feed_url"`
	MaxPapers     int            `yaml:"max_papers"`
	MaxTextLength int            `yaml:"max_text_length"`
	Schedule      string         `yaml:"schedule"`
	RunOnStart    bool           `yaml:"run_on_start"`
	Analyzer      AnalyzerConfig `yaml:"analyzer"`
	Store         StoreConfig    `yaml:"store"`
}

type AnalyzerConfig struct {
	Type        string  `yaml:"type"`
	Endpoint    string  `yaml:"endpoint"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type StoreConfig struct {
	Type     string         `yaml:"type"`
	Table    string         `yaml:"table"`
	Supabase SupabaseConfig `yaml:"supabase"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type SupabaseConfig struct {
	URL string `yaml:"url"`
	Key string `yaml:"key"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
// Patterns referencing unset variables are left as-is so validation can name
// the variable in its error message.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.FeedURL == "" {
		cfg.FeedURL = "https://dash.harvard.edu/feed/rss_1.0/site"
	}
	if cfg.MaxPapers == 0 {
		cfg.MaxPapers = 10
	}
	if cfg.MaxTextLength == 0 {
		cfg.MaxTextLength = 8000
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 6 * * *"
	}
	if cfg.Analyzer.Type == "" {
		cfg.Analyzer.Type = "openai"
	}
	if cfg.Analyzer.Endpoint == "" {
		cfg.Analyzer.Endpoint = os.Getenv("AZURE_AI_ENDPOINT")
	}
	if cfg.Analyzer.APIKey == "" {
		cfg.Analyzer.APIKey = os.Getenv("AZURE_AI_KEY")
	}
	if cfg.Analyzer.Model == "" {
		cfg.Analyzer.Model = "gpt-3.5-turbo"
	}
	if cfg.Analyzer.MaxTokens == 0 {
		cfg.Analyzer.MaxTokens = 800
	}
	if cfg.Analyzer.Temperature == 0 {
		cfg.Analyzer.Temperature = 0.3
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "supabase"
	}
	if cfg.Store.Table == "" {
		cfg.Store.Table = "harvard_papers"
	}
	if cfg.Store.Supabase.URL == "" {
		cfg.Store.Supabase.URL = os.Getenv("SUPABASE_URL")
	}
	if cfg.Store.Supabase.Key == "" {
		cfg.Store.Supabase.Key = os.Getenv("SUPABASE_KEY")
	}
	if cfg.Store.Postgres.DSN == "" {
		cfg.Store.Postgres.DSN = os.Getenv("DATABASE_URL")
	}
}

// requireSet reports an error for a required field that is empty or still
// carries an unexpanded ${VAR} placeholder.
func requireSet(field, value, envVar string) error {
	if value == "" {
		return fmt.Errorf("config: %s is required (set %s env var)", field, envVar)
	}
	if m := envVarRegex.FindStringSubmatch(value); m != nil {
		return fmt.Errorf("config: %s references unset environment variable %s", field, m[1])
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.FeedURL == "" {
		return fmt.Errorf("config: feed_url is required")
	}
	if cfg.Analyzer.Type != "openai" {
		return fmt.Errorf("config: unsupported analyzer type %q (supported: openai)", cfg.Analyzer.Type)
	}
	if err := requireSet("analyzer.endpoint", cfg.Analyzer.Endpoint, "AZURE_AI_ENDPOINT"); err != nil {
		return err
	}
	if err := requireSet("analyzer.api_key", cfg.Analyzer.APIKey, "AZURE_AI_KEY"); err != nil {
		return err
	}
	switch cfg.Store.Type {
	case "supabase":
		if err := requireSet("store.supabase.url", cfg.Store.Supabase.URL, "SUPABASE_URL"); err != nil {
			return err
		}
		if err := requireSet("store.supabase.key", cfg.Store.Supabase.Key, "SUPABASE_KEY"); err != nil {
			return err
		}
	case "postgres":
		if err := requireSet("store.postgres.dsn", cfg.Store.Postgres.DSN, "DATABASE_URL"); err != nil {
			return err
		}
	case "stdout":
	default:
		return fmt.Errorf("config: unsupported store type %q (supported: supabase, postgres, stdout)", cfg.Store.Type)
	}
	return nil
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration. Validation runs before any network call,
// so a missing credential halts the process with nothing sent anywhere.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
