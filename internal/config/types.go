package config

import "time"

// Backend names an index implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
	BackendVector Backend = "vector"
	BackendMeili  Backend = "meili"
)

// Config is the top-level sitesearch configuration, corresponding to .sitesearch.yml.
type Config struct {
	SiteDir    string          `yaml:"site_dir" koanf:"site_dir"`
	ContentDir string          `yaml:"content_dir" koanf:"content_dir"`
	Output     string          `yaml:"output" koanf:"output"`
	BaseURL    string          `yaml:"base_url" koanf:"base_url"`
	Include    []string        `yaml:"include" koanf:"include"`
	Exclude    []string        `yaml:"exclude" koanf:"exclude"`
	Workers    int             `yaml:"workers" koanf:"workers"`
	DataSource string          `yaml:"data_source" koanf:"data_source"`
	Index      IndexConfig     `yaml:"index" koanf:"index"`
	Widget     WidgetConfig    `yaml:"widget" koanf:"widget"`
	Server     ServerConfig    `yaml:"server" koanf:"server"`
	Log        LogConfig       `yaml:"log" koanf:"log"`
	Embedding  EmbeddingConfig `yaml:"embedding" koanf:"embedding"`
	Meili      MeiliConfig     `yaml:"meili" koanf:"meili"`
	S3         S3Config        `yaml:"s3" koanf:"s3"`
}

// IndexConfig selects and tunes the index backend.
type IndexConfig struct {
	Backend    Backend `yaml:"backend" koanf:"backend"`
	Tokenizer  string  `yaml:"tokenizer" koanf:"tokenizer"`
	Limit      int     `yaml:"limit" koanf:"limit"`
	Window     int     `yaml:"window" koanf:"window"`
	Suggest    bool    `yaml:"suggest" koanf:"suggest"`
	SQLitePath string  `yaml:"sqlite_path" koanf:"sqlite_path"`
}

// WidgetConfig holds result rendering settings.
type WidgetConfig struct {
	MinQueryLength int    `yaml:"min_query_length" koanf:"min_query_length"`
	DefaultImage   string `yaml:"default_image" koanf:"default_image"`
	DateLayout     string `yaml:"date_layout" koanf:"date_layout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host" koanf:"host"`
	Port            int           `yaml:"port" koanf:"port"`
	CORSOrigins     []string      `yaml:"cors_origins" koanf:"cors_origins"`
	RequestTimeout  time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`
}

// LogConfig controls the zerolog logger.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Pretty bool   `yaml:"pretty" koanf:"pretty"`
}

// EmbeddingConfig configures the vector backend's embedder. The API key is
// read from the provider's conventional environment variable.
type EmbeddingConfig struct {
	Provider      string  `yaml:"provider" koanf:"provider"`
	Model         string  `yaml:"model" koanf:"model"`
	BaseURL       string  `yaml:"base_url" koanf:"base_url"`
	Dimensions    int     `yaml:"dimensions" koanf:"dimensions"`
	MinSimilarity float32 `yaml:"min_similarity" koanf:"min_similarity"`
}

// MeiliConfig locates the Meilisearch index.
type MeiliConfig struct {
	Host   string `yaml:"host" koanf:"host"`
	APIKey string `yaml:"api_key,omitempty" koanf:"api_key"`
	Index  string `yaml:"index" koanf:"index"`
}

// S3Config tunes the s3:// data source. Credentials come from the default
// AWS chain.
type S3Config struct {
	Region   string `yaml:"region" koanf:"region"`
	Endpoint string `yaml:"endpoint" koanf:"endpoint"`
}
