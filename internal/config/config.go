package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".sitesearch.yml"

const envPrefix = "SITESEARCH_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SITESEARCH_*). A double underscore
// separates nested keys: SITESEARCH_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validBackends = map[Backend]bool{
	BackendMemory: true,
	BackendSQLite: true,
	BackendVector: true,
	BackendMeili:  true,
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if !validBackends[c.Index.Backend] {
		return fmt.Errorf("invalid index.backend %q: must be one of memory, sqlite, vector, meili", c.Index.Backend)
	}
	switch c.Index.Tokenizer {
	case "", "word", "kagome":
	default:
		return fmt.Errorf("invalid index.tokenizer %q: must be word or kagome", c.Index.Tokenizer)
	}
	if c.Index.Limit < 0 {
		return fmt.Errorf("index.limit must be non-negative")
	}

	if c.Widget.MinQueryLength < 1 {
		return fmt.Errorf("widget.min_query_length must be at least 1")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	if c.Log.Level != "" && !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}

	if c.Index.Backend == BackendVector {
		switch c.Embedding.Provider {
		case "openai", "ollama":
		default:
			return fmt.Errorf("invalid embedding.provider %q: must be openai or ollama", c.Embedding.Provider)
		}
	}
	if c.Index.Backend == BackendMeili && c.Meili.Host == "" {
		return fmt.Errorf("meili.host is required for the meili backend")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given embedding provider.
func APIKeyEnvVar(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
