// Package config resolves the service settings from an optional YAML file and
// the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort            = "5000"
	DefaultCORSOrigin      = "http://localhost:3000"
	DefaultOpenAIModel     = "gpt-4o-mini"
	LocalOpenAIBaseURL     = "http://localhost:1234/v1"
	DefaultMaxTextChars    = 1000
	MinMaxTextChars        = 100
	DefaultProviderTimeout = 60 * time.Second
)

// ProviderConfig holds the credential and model for one provider.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type Config struct {
	Port       string `yaml:"port"`
	LogLevel   string `yaml:"log_level"`
	CORSOrigin string `yaml:"cors_origin"`

	OpenAI      ProviderConfig `yaml:"openai"`
	Grok        ProviderConfig `yaml:"grok"`
	Moonshot    ProviderConfig `yaml:"moonshot"`
	Gemini      ProviderConfig `yaml:"gemini"`
	HuggingFace ProviderConfig `yaml:"huggingface"`
	ElevenLabs  ProviderConfig `yaml:"elevenlabs"`

	MaxTextChars    int           `yaml:"tts_max_text_chars"`
	ProviderTimeout time.Duration `yaml:"provider_timeout"`
}

// Load reads the file named by CONFIG_FILE, if any, then applies the
// environment and defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: open %q: %w", path, err)
		}
		defer f.Close()
		if cfg, err = LoadFromReader(f); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config without applying env or defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("PORT", &c.Port)
	str("LOG_LEVEL", &c.LogLevel)
	str("CORS_ORIGIN", &c.CORSOrigin)
	str("OPENAI_API_KEY", &c.OpenAI.APIKey)
	str("OPENAI_MODEL", &c.OpenAI.Model)
	str("OPENAI_BASE_URL", &c.OpenAI.BaseURL)
	str("GROK_API_KEY", &c.Grok.APIKey)
	str("GROK_MODEL", &c.Grok.Model)
	str("MOONSHOT_API_KEY", &c.Moonshot.APIKey)
	str("MOONSHOT_MODEL", &c.Moonshot.Model)
	str("GEMINI_API_KEY", &c.Gemini.APIKey)
	str("GEMINI_MODEL", &c.Gemini.Model)
	str("HF_API_KEY", &c.HuggingFace.APIKey)
	str("HF_IMAGE_MODEL", &c.HuggingFace.Model)
	str("ELEVENLABS_API_KEY", &c.ElevenLabs.APIKey)
	str("ELEVENLABS_VOICE_MODEL", &c.ElevenLabs.Model)

	var errs []error
	if v, ok := lookup("TTS_MAX_TEXT_CHARS"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("TTS_MAX_TEXT_CHARS %q is not an integer", v))
		} else {
			c.MaxTextChars = n
		}
	}
	if v, ok := lookup("PROVIDER_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("PROVIDER_TIMEOUT %q: %w", v, err))
		} else {
			c.ProviderTimeout = d
		}
	}
	return errors.Join(errs...)
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if c.CORSOrigin == "" {
		c.CORSOrigin = DefaultCORSOrigin
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = DefaultOpenAIModel
	}
	if c.MaxTextChars <= 0 {
		c.MaxTextChars = DefaultMaxTextChars
	}
	c.MaxTextChars = max(c.MaxTextChars, MinMaxTextChars)
	if c.ProviderTimeout <= 0 {
		c.ProviderTimeout = DefaultProviderTimeout
	}
}

// Validate checks values that defaults cannot repair.
func Validate(c *Config) error {
	var errs []error
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", c.LogLevel))
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("port %q is not a number", c.Port))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// CORSOrigins splits the comma-separated origin list.
func (c *Config) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
