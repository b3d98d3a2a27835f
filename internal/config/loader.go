package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Environment variables override
	v.SetEnvPrefix("AGENTBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about; keys
	// without defaults must be bound explicitly for env overrides to work.
	for _, key := range []string{
		"server.api.jwt_secret",
		"server.api.api_key",
		"server.api.cors_origins",
		"banking.username",
		"banking.password",
		"banking.consumer_key",
		"llm.openai.api_key",
		"llm.openai.org_id",
		"llm.openai.base_url",
		"llm.anthropic.api_key",
		"agent.system_prompt",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("server.api.enabled", true)
	v.SetDefault("server.api.listen_addr", ":8080")
	v.SetDefault("server.api.jwt_expiry", 24*time.Hour)
	v.SetDefault("server.api.enable_cors", false)

	// Inbox defaults
	v.SetDefault("inbox.user_address", "user@example.com")
	v.SetDefault("inbox.seed_on_start", true)
	v.SetDefault("inbox.sample_count", 5)
	v.SetDefault("inbox.bank_count", 10)

	// Banking defaults
	v.SetDefault("banking.enabled", false)
	v.SetDefault("banking.base_url", "https://apisandbox.openbankproject.com")
	v.SetDefault("banking.timeout", 30*time.Second)

	// LLM defaults
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.ollama.endpoint", "http://localhost:11434")

	// Agent defaults
	v.SetDefault("agent.max_steps", 10)

	// Events defaults
	v.SetDefault("events.workers", 2)
	v.SetDefault("events.queue_size", 256)
	v.SetDefault("events.audit", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
}
