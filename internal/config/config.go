// Package config loads the solace.yml configuration plus .env overrides.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "solace.yml"

// RedisConfig locates the backing Redis server.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// MediaConfig configures the media gateway. BaseURL is the externally
// visible prefix under which resolved blob URLs are formed; ListenAddr is
// where `solace serve` binds.
type MediaConfig struct {
	BaseURL    string `yaml:"base_url"`
	ListenAddr string `yaml:"listen_addr"`
}

// CounsellorConfig configures the companion client. The API key itself is
// never stored in the file, only the name of the env var carrying it.
type CounsellorConfig struct {
	Endpoint  string `yaml:"endpoint"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// AuthConfig names the env var carrying the session-token HMAC secret.
type AuthConfig struct {
	SecretEnv string `yaml:"secret_env"`
}

// Config is the top-level solace.yml structure.
type Config struct {
	Instance   string           `yaml:"instance"`
	Redis      RedisConfig      `yaml:"redis"`
	Media      MediaConfig      `yaml:"media"`
	Counsellor CounsellorConfig `yaml:"counsellor"`
	Auth       AuthConfig       `yaml:"auth"`
}

// Default returns the configuration used when no solace.yml exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Instance == "" {
		c.Instance = "solace"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Media.ListenAddr == "" {
		c.Media.ListenAddr = ":8480"
	}
	if c.Media.BaseURL == "" {
		c.Media.BaseURL = "http://localhost:8480"
	}
	if c.Counsellor.APIKeyEnv == "" {
		c.Counsellor.APIKeyEnv = "GEMINI_API_KEY"
	}
	if c.Auth.SecretEnv == "" {
		c.Auth.SecretEnv = "SOLACE_AUTH_SECRET"
	}
}

// Load reads configuration from the given path (DefaultPath when empty).
// A missing default file yields defaults; a missing explicit path is an
// error. A .env file in the working directory is loaded first, if present.
func Load(path string) (*Config, error) {
	// Best effort: absence of a .env file is not an error.
	_ = godotenv.Load()

	explicit := path != ""
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// CounsellorAPIKey reads the companion API key from the configured env var.
func (c *Config) CounsellorAPIKey() string {
	return os.Getenv(c.Counsellor.APIKeyEnv)
}

// AuthSecret reads the session-token HMAC secret from the configured env var.
func (c *Config) AuthSecret() []byte {
	return []byte(os.Getenv(c.Auth.SecretEnv))
}
