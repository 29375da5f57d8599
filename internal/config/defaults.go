package config

import "time"

// DefaultExcludes are glob patterns skipped when building the document set.
var DefaultExcludes = []string{
	"**/_*.md",
	"**/drafts/**",
	"**/node_modules/**",
	".git/**",
}

// DefaultImage is the thumbnail shown for documents without an image.
const DefaultImage = "/images/profile.png"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SiteDir:    "public",
		ContentDir: "content",
		Output:     "public/index.json",
		Include:    []string{"**/*.md"},
		Exclude:    DefaultExcludes,
		Workers:    4,
		DataSource: "public/index.json",
		Index: IndexConfig{
			Backend:   BackendMemory,
			Tokenizer: "word",
			Limit:     20,
			Window:    160,
			Suggest:   true,
		},
		Widget: WidgetConfig{
			MinQueryLength: 2,
			DefaultImage:   DefaultImage,
			DateLayout:     "Jan 2, 2006",
		},
		Server: ServerConfig{
			Host:            "",
			Port:            1313,
			CORSOrigins:     []string{"*"},
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Embedding: EmbeddingConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		Meili: MeiliConfig{
			Host:  "http://localhost:7700",
			Index: "site",
		},
	}
}
