package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Run struct {
		Topic    string `yaml:"topic"`
		Concepts int    `yaml:"concepts"`
		Outcomes int    `yaml:"outcomes"`
		Edges    int    `yaml:"edges"`
		UseLLM   bool   `yaml:"use_llm"`
	} `yaml:"run"`
	AI struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"ai"`
	Output struct {
		Dir     string `yaml:"dir"`
		Journal string `yaml:"journal"` // defaults to <dir>/events.db
	} `yaml:"output"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Run.Topic = "Design Recipe"
	cfg.Run.Concepts = 25
	cfg.Run.Outcomes = 5
	cfg.Run.Edges = 40
	cfg.AI.Provider = "gemini"
	cfg.AI.Model = "gemini-2.5-flash"
	cfg.Output.Dir = "out"
	return cfg
}

// LoadConfig builds the effective configuration. A missing file keeps the
// defaults; YAML keys override them and environment variables win last.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Merge the YAML config over the defaults
	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, err
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("LOOM_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("LOOM_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if model := os.Getenv("LOOM_MODEL"); model != "" {
		cfg.AI.Model = model
	}
	if topic := os.Getenv("LOOM_TOPIC"); topic != "" {
		cfg.Run.Topic = topic
	}

	if cfg.Output.Journal == "" {
		cfg.Output.Journal = filepath.Join(cfg.Output.Dir, "events.db")
	}

	return cfg, nil
}
