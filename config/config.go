// Package config loads the application configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds connection details for an OpenAI-compatible provider
// serving both embeddings and completions.
type OpenAIConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIKeyEnv       string `yaml:"api_key_env"`
	EmbeddingModel  string `yaml:"embedding_model"`
	CompletionModel string `yaml:"completion_model"`
}

// GeminiConfig holds connection details for the Gemini completion API.
type GeminiConfig struct {
	Host      string `yaml:"host"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// HuggingFaceConfig holds connection details for the Hugging Face
// feature-extraction endpoint.
type HuggingFaceConfig struct {
	Endpoint  string `yaml:"endpoint"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// ProviderConfig selects and configures the model provider. Type "openai"
// serves embeddings and completions from one host; type "split" pairs a
// Hugging Face embedder with a Gemini completer.
type ProviderConfig struct {
	Type        string             `yaml:"type"`
	Dimension   int                `yaml:"dimension"`
	Fallback    string             `yaml:"fallback"`
	OpenAI      *OpenAIConfig      `yaml:"openai,omitempty"`
	Gemini      *GeminiConfig      `yaml:"gemini,omitempty"`
	HuggingFace *HuggingFaceConfig `yaml:"huggingface,omitempty"`
}

// BadgerConfig contains settings for the embedded BadgerDB index.
type BadgerConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

// QdrantConfig contains connection details for a Qdrant server.
type QdrantConfig struct {
	URL       string `yaml:"url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// IndexConfig selects and configures the vector index implementation.
type IndexConfig struct {
	Type       string        `yaml:"type"`
	Collection string        `yaml:"collection"`
	Badger     *BadgerConfig `yaml:"badger,omitempty"`
	Qdrant     *QdrantConfig `yaml:"qdrant,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
// Overlap is a pointer so an explicit 0 in the file is distinguishable
// from an absent key; nil gets the default.
type ChunkerConfig struct {
	ChunkSize int  `yaml:"chunk_size"`
	Overlap   *int `yaml:"overlap"`
}

// FetchConfig configures the resilient HTTP client used for all outbound
// provider and index calls. Retries is a pointer so an explicit 0 in the
// file is distinguishable from an absent key; nil gets the default.
type FetchConfig struct {
	TimeoutSecs   int  `yaml:"timeout_secs"`
	Retries       *int `yaml:"retries"`
	BackoffMillis int  `yaml:"backoff_millis"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Provider ProviderConfig `yaml:"provider"`
	Index    IndexConfig    `yaml:"index"`
	Chunker  ChunkerConfig  `yaml:"chunker"`
	Fetch    FetchConfig    `yaml:"fetch"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects selector values the wiring cannot honor.
func (c *AppConfig) Validate() error {
	switch c.Provider.Type {
	case "openai", "split":
	default:
		return fmt.Errorf("unknown provider type %q", c.Provider.Type)
	}
	switch c.Index.Type {
	case "badger", "qdrant":
	default:
		return fmt.Errorf("unknown index type %q", c.Index.Type)
	}
	if c.Provider.Dimension <= 0 {
		return fmt.Errorf("invalid embedding dimension %d", c.Provider.Dimension)
	}
	if c.Chunker.Overlap == nil {
		return errors.New("chunker overlap not set")
	}
	if c.Fetch.Retries == nil {
		return errors.New("fetch retries not set")
	}
	return nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Provider.Type == "" {
		cfg.Provider.Type = "openai"
	}
	if cfg.Provider.Dimension == 0 {
		cfg.Provider.Dimension = 384
	}
	if cfg.Provider.Fallback == "" {
		cfg.Provider.Fallback = "strict"
	}

	if cfg.Provider.Type == "openai" {
		if cfg.Provider.OpenAI == nil {
			cfg.Provider.OpenAI = &OpenAIConfig{}
		}
		if cfg.Provider.OpenAI.BaseURL == "" {
			cfg.Provider.OpenAI.BaseURL = "http://localhost:11434/v1"
		}
		if cfg.Provider.OpenAI.APIKeyEnv == "" {
			cfg.Provider.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Provider.OpenAI.EmbeddingModel == "" {
			cfg.Provider.OpenAI.EmbeddingModel = "embeddinggemma"
		}
		if cfg.Provider.OpenAI.CompletionModel == "" {
			cfg.Provider.OpenAI.CompletionModel = "qwen2.5:3b"
		}
	}

	if cfg.Provider.Type == "split" {
		if cfg.Provider.Gemini == nil {
			cfg.Provider.Gemini = &GeminiConfig{}
		}
		if cfg.Provider.Gemini.Model == "" {
			cfg.Provider.Gemini.Model = "gemini-2.0-flash"
		}
		if cfg.Provider.Gemini.APIKeyEnv == "" {
			cfg.Provider.Gemini.APIKeyEnv = "GEMINI_API_KEY"
		}
		if cfg.Provider.HuggingFace == nil {
			cfg.Provider.HuggingFace = &HuggingFaceConfig{}
		}
		if cfg.Provider.HuggingFace.Endpoint == "" {
			cfg.Provider.HuggingFace.Endpoint = "https://router.huggingface.co/hf-inference/models/sentence-transformers/all-MiniLM-L6-v2/pipeline/feature-extraction"
		}
		if cfg.Provider.HuggingFace.APIKeyEnv == "" {
			cfg.Provider.HuggingFace.APIKeyEnv = "HF_API_KEY"
		}
	}

	if cfg.Index.Type == "" {
		cfg.Index.Type = "badger"
	}
	if cfg.Index.Collection == "" {
		cfg.Index.Collection = "documents"
	}
	if cfg.Index.Type == "badger" {
		if cfg.Index.Badger == nil {
			cfg.Index.Badger = &BadgerConfig{}
		}
		if cfg.Index.Badger.Path == "" && !cfg.Index.Badger.InMemory {
			cfg.Index.Badger.Path = "./data/index"
		}
	}
	if cfg.Index.Type == "qdrant" {
		if cfg.Index.Qdrant == nil {
			cfg.Index.Qdrant = &QdrantConfig{}
		}
		if cfg.Index.Qdrant.URL == "" {
			cfg.Index.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.Index.Qdrant.APIKeyEnv == "" {
			cfg.Index.Qdrant.APIKeyEnv = "QDRANT_API_KEY"
		}
	}

	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 500
	}
	if cfg.Chunker.Overlap == nil {
		overlap := 50
		cfg.Chunker.Overlap = &overlap
	}

	if cfg.Fetch.TimeoutSecs == 0 {
		cfg.Fetch.TimeoutSecs = 20
	}
	if cfg.Fetch.Retries == nil {
		retries := 3
		cfg.Fetch.Retries = &retries
	}
	if cfg.Fetch.BackoffMillis == 0 {
		cfg.Fetch.BackoffMillis = 1000
	}
}
