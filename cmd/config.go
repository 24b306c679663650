package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattsolo1/grove-core/config"

	"github.com/protalker/protalker/pkg/backend"
)

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"

// ProtalkerConfig defines the structure for the 'protalker' section in grove.yml.
type ProtalkerConfig struct {
	ChatURL        string          `yaml:"chat_url" jsonschema:"description=Base URL of the chat backend"`
	DemoURL        string          `yaml:"demo_url" jsonschema:"description=Base URL of the voice demo backend"`
	RequestTimeout string          `yaml:"request_timeout" jsonschema:"description=Timeout for backend requests (Go duration)"`
	Auth           AuthConfig      `yaml:"auth"`
	Speech         SpeechConfig    `yaml:"speech"`
	DevServer      DevServerConfig `yaml:"devserver"`
	Log            LogConfig       `yaml:"log"`
}

// AuthConfig selects the auth provider and where credentials are kept.
type AuthConfig struct {
	Provider        string `yaml:"provider" jsonschema:"enum=supabase,enum=local"`
	SupabaseURL     string `yaml:"supabase_url"`
	SupabaseAnonKey string `yaml:"supabase_anon_key"`
	Store           string `yaml:"store" jsonschema:"enum=file,enum=memory,enum=redis"`
	StateFile       string `yaml:"state_file"`
	RedisURL        string `yaml:"redis_url"`
}

// SpeechConfig tunes the simulated dictation.
type SpeechConfig struct {
	Delay string `yaml:"delay" jsonschema:"description=How long simulated dictation takes (Go duration)"`
}

// DevServerConfig configures 'protalker devserver'.
type DevServerConfig struct {
	Addr         string `yaml:"addr"`
	DemoCommand  string `yaml:"demo_command" jsonschema:"description=Command line started by /api/run-prueba"`
	RecordDSN    string `yaml:"record_dsn" jsonschema:"description=sqlite path or postgres URL for the exchange log"`
	OpenAIModel  string `yaml:"openai_model"`
	OpenAIAPIKey string `yaml:"openai_api_key" jsonschema:"description=OpenAI key for the dev server responder (messages are echoed without it)"`
}

// LogConfig controls log level and the log file used while the TUI runs.
type LogConfig struct {
	Level string `yaml:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	File  string `yaml:"file"`
}

const (
	providerSupabase = "supabase"
	providerLocal    = "local"
)

// loadConfig loads .env, the grove config hierarchy and environment overrides.
func loadConfig() (*ProtalkerConfig, error) {
	_ = godotenv.Load()

	coreCfg, err := config.LoadFrom(".")
	if err != nil {
		// It's okay if the core config doesn't exist, we'll just use an empty one.
		coreCfg = &config.Config{}
	}

	var cfg ProtalkerConfig
	if err := coreCfg.UnmarshalExtension("protalker", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse 'protalker' configuration from grove.yml: %w", err)
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ProtalkerConfig) applyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.ChatURL, "PROTALKER_CHAT_URL")
	set(&c.DemoURL, "PROTALKER_DEMO_URL")
	set(&c.Auth.Provider, "PROTALKER_AUTH_PROVIDER")
	set(&c.Auth.SupabaseURL, "SUPABASE_URL")
	set(&c.Auth.SupabaseAnonKey, "SUPABASE_ANON_KEY")
	set(&c.Auth.Store, "PROTALKER_SESSION_STORE")
	set(&c.Auth.RedisURL, "REDIS_URL")
	set(&c.DevServer.OpenAIModel, "OPENAI_MODEL")
	set(&c.DevServer.OpenAIAPIKey, "OPENAI_API_KEY")
	set(&c.Log.Level, "PROTALKER_LOG_LEVEL")
}

func (c *ProtalkerConfig) applyDefaults() {
	if c.ChatURL == "" {
		c.ChatURL = backend.DefaultChatBaseURL
	}
	if c.DemoURL == "" {
		c.DemoURL = backend.DefaultDemoBaseURL
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = backend.DefaultTimeout.String()
	}
	if c.Auth.Provider == "" {
		if c.Auth.SupabaseURL != "" && c.Auth.SupabaseAnonKey != "" {
			c.Auth.Provider = providerSupabase
		} else {
			c.Auth.Provider = providerLocal
		}
	}
	if c.Auth.Store == "" {
		c.Auth.Store = "file"
	}
	if c.Speech.Delay == "" {
		c.Speech.Delay = "3s"
	}
	if c.DevServer.Addr == "" {
		c.DevServer.Addr = ":5000"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Log.File = filepath.Join(home, ".protalker", "logs", "protalker.log")
		}
	}
}

func (c *ProtalkerConfig) validate() error {
	if _, err := c.timeout(); err != nil {
		return fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
	}
	if _, err := c.speechDelay(); err != nil {
		return fmt.Errorf("invalid speech.delay %q: %w", c.Speech.Delay, err)
	}
	switch strings.ToLower(c.Auth.Provider) {
	case providerSupabase:
		if c.Auth.SupabaseURL == "" || c.Auth.SupabaseAnonKey == "" {
			return fmt.Errorf("auth provider 'supabase' requires SUPABASE_URL and SUPABASE_ANON_KEY")
		}
	case providerLocal:
	default:
		return fmt.Errorf("unknown auth provider %q", c.Auth.Provider)
	}
	return nil
}

func (c *ProtalkerConfig) timeout() (time.Duration, error) {
	return time.ParseDuration(c.RequestTimeout)
}

func (c *ProtalkerConfig) speechDelay() (time.Duration, error) {
	return time.ParseDuration(c.Speech.Delay)
}
