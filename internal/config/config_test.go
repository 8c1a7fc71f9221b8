package config

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// validConfig returns a config that passes Validate when GEMINI_API_KEY
// is present.
func validConfig() *Config {
	return &Config{
		ModelName:        "googleai/gemini-2.5-flash",
		EmbedderModel:    "gemini-embedding-001",
		TopK:             3,
		MaxContextChars:  8000,
		Addr:             ":8080",
		InternalSecret:   "a-long-internal-secret",
		RateLimitRPS:     10,
		RateLimitBurst:   20,
		PostgresHost:     "localhost",
		PostgresPort:     5432,
		PostgresUser:     "bhoomi",
		PostgresPassword: "supersecretpw",
		PostgresDBName:   "bhoomi",
		PostgresSSLMode:  "disable",
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"missing model", func(c *Config) { c.ModelName = "" }, ErrInvalidModelName},
		{"missing embedder", func(c *Config) { c.EmbedderModel = "" }, ErrInvalidEmbedderModel},
		{"top-k zero", func(c *Config) { c.TopK = 0 }, ErrInvalidTopK},
		{"top-k too large", func(c *Config) { c.TopK = 50 }, ErrInvalidTopK},
		{"context cap too small", func(c *Config) { c.MaxContextChars = 10 }, ErrInvalidMaxContextChars},
		{"missing secret", func(c *Config) { c.InternalSecret = "" }, ErrMissingInternalSecret},
		{"short secret", func(c *Config) { c.InternalSecret = "short" }, ErrInvalidInternalSecret},
		{"zero rps", func(c *Config) { c.RateLimitRPS = 0 }, ErrInvalidRateLimit},
		{"zero burst", func(c *Config) { c.RateLimitBurst = 0 }, ErrInvalidRateLimit},
		{"missing host", func(c *Config) { c.PostgresHost = "" }, ErrInvalidPostgresHost},
		{"bad port", func(c *Config) { c.PostgresPort = 70000 }, ErrInvalidPostgresPort},
		{"missing db name", func(c *Config) { c.PostgresDBName = "" }, ErrInvalidPostgresDBName},
		{"short password", func(c *Config) { c.PostgresPassword = "short" }, ErrInvalidPostgresPassword},
		{"bad ssl mode", func(c *Config) { c.PostgresSSLMode = "prefer" }, ErrInvalidPostgresSSLMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	err := validConfig().Validate()
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Validate() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestValidate_NilConfig(t *testing.T) {
	var c *Config
	if !errors.Is(c.Validate(), ErrConfigNil) {
		t.Error("Validate() on nil config should return ErrConfigNil")
	}
}

func TestMarshalJSON_MasksSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.PostgresPassword = "topsecretdbpassword"
	cfg.InternalSecret = "topsecretapitoken123"

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	out := string(data)
	if strings.Contains(out, "topsecretdbpassword") {
		t.Error("marshaled config leaks the database password")
	}
	if strings.Contains(out, "topsecretapitoken123") {
		t.Error("marshaled config leaks the internal secret")
	}
	if !strings.Contains(out, maskedValue) {
		t.Error("marshaled config should contain the mask placeholder")
	}
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.InternalSecret = "topsecretapitoken123"

	if strings.Contains(cfg.String(), "topsecretapitoken123") {
		t.Error("String() leaks the internal secret")
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"short", maskedValue},
		{"12345678", maskedValue},
		{"my_long_secret_key_123", "my<" + maskedValue + ">23"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.in); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFullModelName(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"googleai/gemini-2.5-flash", "googleai/gemini-2.5-flash"},
		{"gemini-2.5-flash", "googleai/gemini-2.5-flash"},
	}
	for _, tt := range tests {
		c := &Config{ModelName: tt.model}
		if got := c.FullModelName(); got != tt.want {
			t.Errorf("FullModelName(%q) = %q, want %q", tt.model, got, tt.want)
		}
	}
}
