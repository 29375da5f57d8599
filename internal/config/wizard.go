package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// siteGenerators maps marker files to the generator name and its usual
// content and output directories.
var siteGenerators = []struct {
	Marker  string
	Name    string
	Content string
	Output  string
}{
	{Marker: "hugo.toml", Name: "Hugo", Content: "content", Output: "public"},
	{Marker: "config.toml", Name: "Hugo", Content: "content", Output: "public"},
	{Marker: "mkdocs.yml", Name: "MkDocs", Content: "docs", Output: "site"},
	{Marker: "_config.yml", Name: "Jekyll", Content: ".", Output: "_site"},
	{Marker: "docusaurus.config.js", Name: "Docusaurus", Content: "docs", Output: "build"},
}

// detectGenerator checks the current directory for well-known static site
// generator config files.
func detectGenerator() (name, content, output string) {
	for _, g := range siteGenerators {
		if _, err := os.Stat(g.Marker); err == nil {
			return g.Name, g.Content, g.Output
		}
	}
	return "", "content", "public"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to sitesearch! Let's configure your site.")
	fmt.Println()

	gen, contentDefault, outputDefault := detectGenerator()
	if gen != "" {
		fmt.Printf("Detected site generator: %s\n\n", gen)
	}

	contentDir, err := (&promptui.Prompt{Label: "Markdown content directory", Default: contentDefault}).Run()
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}

	includeStr, err := (&promptui.Prompt{Label: "Include patterns (comma-separated globs)", Default: "**/*.md"}).Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}

	siteDir, err := (&promptui.Prompt{Label: "Built site directory", Default: outputDefault}).Run()
	if err != nil {
		return nil, fmt.Errorf("site dir: %w", err)
	}

	backendPrompt := promptui.Select{
		Label: "Select index backend",
		Items: []string{
			"memory: in-process prefix index (no setup)",
			"sqlite: SQLite FTS5",
			"vector: semantic search with embeddings",
			"meili : external Meilisearch server",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend selection: %w", err)
	}
	backends := []Backend{BackendMemory, BackendSQLite, BackendVector, BackendMeili}

	tokenizerPrompt := promptui.Select{
		Label: "Select tokenizer",
		Items: []string{"word", "kagome"},
	}
	_, tokenizer, err := tokenizerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("tokenizer selection: %w", err)
	}

	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: "1313",
		Validate: func(s string) error {
			if _, err := strconv.Atoi(s); err != nil {
				return fmt.Errorf("port must be a number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	cfg := DefaultConfig()
	cfg.ContentDir = strings.TrimSpace(contentDir)
	cfg.SiteDir = strings.TrimSpace(siteDir)
	if include := splitAndTrim(includeStr); len(include) > 0 {
		cfg.Include = include
	}
	cfg.Output = cfg.SiteDir + "/index.json"
	cfg.DataSource = cfg.Output
	cfg.Index.Backend = backends[backendIdx]
	cfg.Index.Tokenizer = tokenizer
	cfg.Server.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Index.Backend == BackendVector {
		if envVar := APIKeyEnvVar(cfg.Embedding.Provider); envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running sitesearch serve.\n", envVar)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
