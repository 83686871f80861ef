// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (./config.yaml or ~/.concierge/config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - Generation: Gemini model selection and sampling parameters
//   - Retrieval: embedding model, result count, chunking geometry
//   - Storage: corpus directory, vector index directory, chats database
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidTopP indicates the top-p value is out of range.
	ErrInvalidTopP = errors.New("invalid top_p")

	// ErrInvalidTopK indicates the top-k value is out of range.
	ErrInvalidTopK = errors.New("invalid top_k")

	// ErrInvalidMaxOutputTokens indicates the output token cap is out of range.
	ErrInvalidMaxOutputTokens = errors.New("invalid max output tokens")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidTopResults indicates the retrieval result count is out of range.
	ErrInvalidTopResults = errors.New("invalid top results")

	// ErrInvalidChunking indicates the chunk size/overlap pair is unusable.
	ErrInvalidChunking = errors.New("invalid chunking")

	// ErrInvalidPath indicates a required storage path is empty.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidTimeout indicates a timeout value is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// Default values for the knowledge-base pipeline. The chunking geometry
// determines chunk identity, so changing it invalidates an existing index;
// reset the index when these change.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
	DefaultTopResults   = 3
)

// Config stores application configuration.
// SECURITY: Sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields (API keys, license keys), update MarshalJSON.
type Config struct {
	// Generation configuration
	ModelName       string  `mapstructure:"model_name" json:"model_name"`
	Temperature     float32 `mapstructure:"temperature" json:"temperature"`
	TopP            float32 `mapstructure:"top_p" json:"top_p"`
	TopK            int32   `mapstructure:"top_k" json:"top_k"`
	MaxOutputTokens int32   `mapstructure:"max_output_tokens" json:"max_output_tokens"`

	// PropertyName describes the rental the assistant speaks for,
	// e.g. "an Airbnb in Paris". Interpolated into the priming instruction.
	PropertyName string `mapstructure:"property_name" json:"property_name"`

	// Retrieval configuration
	EmbedderModel string `mapstructure:"embedder_model" json:"embedder_model"`
	TopResults    int    `mapstructure:"top_results" json:"top_results"`

	// Corpus and chunking configuration
	DocsDir      string `mapstructure:"docs_dir" json:"docs_dir"`
	ChunkSize    int    `mapstructure:"chunk_size" json:"chunk_size"`
	ChunkOverlap int    `mapstructure:"chunk_overlap" json:"chunk_overlap"`

	// Storage configuration
	IndexDir       string `mapstructure:"index_dir" json:"index_dir"`
	CollectionName string `mapstructure:"collection_name" json:"collection_name"`
	ChatsDBPath    string `mapstructure:"chats_db_path" json:"chats_db_path"`

	// Timeouts and rate limiting
	EmbedTimeout      time.Duration `mapstructure:"embed_timeout" json:"embed_timeout"`
	GenerateTimeout   time.Duration `mapstructure:"generate_timeout" json:"generate_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" json:"requests_per_minute"`

	// UniDoc license key for PDF extraction (optional; unlicensed
	// extraction is attempted and failures are skipped per document).
	UnidocLicenseKey string `mapstructure:"unidoc_license_key" json:"unidoc_license_key"` // SENSITIVE: masked in MarshalJSON
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".concierge")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	// Read configuration file (if exists)
	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// Validate immediately (fail-fast)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// Generation defaults (Gemini API)
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("temperature", 1.0)
	viper.SetDefault("top_p", 0.95)
	viper.SetDefault("top_k", 40)
	viper.SetDefault("max_output_tokens", 8192)
	viper.SetDefault("property_name", "an Airbnb in Paris")

	// Retrieval defaults
	viper.SetDefault("embedder_model", "text-embedding-004")
	viper.SetDefault("top_results", DefaultTopResults)

	// Corpus defaults
	viper.SetDefault("docs_dir", "data")
	viper.SetDefault("chunk_size", DefaultChunkSize)
	viper.SetDefault("chunk_overlap", DefaultChunkOverlap)

	// Storage defaults
	viper.SetDefault("index_dir", "chroma_db")
	viper.SetDefault("collection_name", "guesthouse_docs")
	viper.SetDefault("chats_db_path", "chats.db")

	// Timeouts and rate limiting
	viper.SetDefault("embed_timeout", 30*time.Second)
	viper.SetDefault("generate_timeout", 2*time.Minute)
	viper.SetDefault("requests_per_minute", 30)
}

// bindEnvVariables binds environment variables explicitly.
//
// GEMINI_API_KEY is read directly by Genkit, not via Viper; Validate()
// only checks its presence.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "CONCIERGE_MODEL_NAME")
	mustBind("property_name", "CONCIERGE_PROPERTY_NAME")
	mustBind("docs_dir", "CONCIERGE_DOCS_DIR")
	mustBind("index_dir", "CONCIERGE_INDEX_DIR")
	mustBind("chats_db_path", "CONCIERGE_CHATS_DB")
	mustBind("unidoc_license_key", "UNIDOC_LICENSE_KEY")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks (U+2588) avoid accidental substring matches against
// the real secret.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 characters or fewer are fully masked; longer secrets show
// the first and last 2 characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.UnidocLicenseKey = maskSecret(a.UnidocLicenseKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
