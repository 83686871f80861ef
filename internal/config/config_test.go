package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		ModelName:         "gemini-2.5-flash",
		Temperature:       1.0,
		TopP:              0.95,
		TopK:              40,
		MaxOutputTokens:   8192,
		PropertyName:      "an Airbnb in Paris",
		EmbedderModel:     "text-embedding-004",
		TopResults:        3,
		DocsDir:           "data",
		ChunkSize:         500,
		ChunkOverlap:      50,
		IndexDir:          "chroma_db",
		CollectionName:    "guesthouse_docs",
		ChatsDBPath:       "chats.db",
		EmbedTimeout:      30 * time.Second,
		GenerateTimeout:   2 * time.Minute,
		RequestsPerMinute: 30,
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid defaults", func(*Config) {}, nil},
		{"empty model name", func(c *Config) { c.ModelName = "" }, ErrInvalidModelName},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, ErrInvalidTemperature},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }, ErrInvalidTemperature},
		{"top_p above one", func(c *Config) { c.TopP = 1.5 }, ErrInvalidTopP},
		{"zero top_k", func(c *Config) { c.TopK = 0 }, ErrInvalidTopK},
		{"zero output tokens", func(c *Config) { c.MaxOutputTokens = 0 }, ErrInvalidMaxOutputTokens},
		{"empty embedder model", func(c *Config) { c.EmbedderModel = "" }, ErrInvalidEmbedderModel},
		{"zero top results", func(c *Config) { c.TopResults = 0 }, ErrInvalidTopResults},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, ErrInvalidChunking},
		{"overlap equals chunk size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }, ErrInvalidChunking},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }, ErrInvalidChunking},
		{"empty docs dir", func(c *Config) { c.DocsDir = "" }, ErrInvalidPath},
		{"empty index dir", func(c *Config) { c.IndexDir = "" }, ErrInvalidPath},
		{"empty collection", func(c *Config) { c.CollectionName = "" }, ErrInvalidPath},
		{"empty chats path", func(c *Config) { c.ChatsDBPath = "" }, ErrInvalidPath},
		{"zero embed timeout", func(c *Config) { c.EmbedTimeout = 0 }, ErrInvalidTimeout},
		{"zero generate timeout", func(c *Config) { c.GenerateTimeout = 0 }, ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	if err := validConfig().Validate(); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Validate() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestValidateNilConfig(t *testing.T) {
	t.Parallel()

	var cfg *Config
	if err := cfg.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Fatalf("Validate() error = %v, want ErrConfigNil", err)
	}
}

func TestMaskSecret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		secret string
		want   string
	}{
		{"empty", "", ""},
		{"short fully masked", "abc123", maskedValue},
		{"exactly eight fully masked", "12345678", maskedValue},
		{"long shows edges", "my_long_license_key_42", "my<" + maskedValue + ">42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := maskSecret(tt.secret); got != tt.want {
				t.Errorf("maskSecret(%q) = %q, want %q", tt.secret, got, tt.want)
			}
		})
	}
}

func TestStringMasksLicenseKey(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.UnidocLicenseKey = "super-secret-license-key"

	out := cfg.String()
	if strings.Contains(out, "super-secret-license-key") {
		t.Fatalf("String() leaked the license key: %s", out)
	}
	if !strings.Contains(out, maskedValue) {
		t.Errorf("String() missing mask placeholder: %s", out)
	}
}
