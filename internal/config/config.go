package config

import "time"

// Config is the root configuration structure
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Inbox   InboxConfig   `mapstructure:"inbox"`
	Banking BankingConfig `mapstructure:"banking"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Events  EventsConfig  `mapstructure:"events"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig contains all server-related settings
type ServerConfig struct {
	API APIConfig `mapstructure:"api"`
}

// APIConfig defines REST API settings
type APIConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	ListenAddr  string        `mapstructure:"listen_addr"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	JWTExpiry   time.Duration `mapstructure:"jwt_expiry"`
	APIKey      string        `mapstructure:"api_key"`
	EnableCORS  bool          `mapstructure:"enable_cors"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
}

// InboxConfig defines the simulated inbox settings
type InboxConfig struct {
	// UserAddress is the simulated owner of the inbox. Generated emails are
	// addressed to it and sent mail originates from it.
	UserAddress string `mapstructure:"user_address"`
	SeedOnStart bool   `mapstructure:"seed_on_start"`
	SampleCount int    `mapstructure:"sample_count"`
	BankCount   int    `mapstructure:"bank_count"`
}

// BankingConfig defines Open Bank Project API settings
type BankingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	BaseURL     string        `mapstructure:"base_url"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	ConsumerKey string        `mapstructure:"consumer_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// LLMConfig for LLM providers
type LLMConfig struct {
	Provider    string          `mapstructure:"provider"`
	Model       string          `mapstructure:"model"`
	Timeout     time.Duration   `mapstructure:"timeout"`
	MaxTokens   int             `mapstructure:"max_tokens"`
	Temperature float64         `mapstructure:"temperature"`
	OpenAI      OpenAIConfig    `mapstructure:"openai"`
	Anthropic   AnthropicConfig `mapstructure:"anthropic"`
	Ollama      OllamaConfig    `mapstructure:"ollama"`
}

// OpenAIConfig for OpenAI
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	OrgID   string `mapstructure:"org_id"`
	BaseURL string `mapstructure:"base_url"`
}

// AnthropicConfig for Anthropic
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// OllamaConfig for local Ollama
type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

// AgentConfig defines agent loop settings
type AgentConfig struct {
	MaxSteps     int    `mapstructure:"max_steps"`
	SystemPrompt string `mapstructure:"system_prompt"`
}

// EventsConfig defines event system settings
type EventsConfig struct {
	Workers   int  `mapstructure:"workers"`
	QueueSize int  `mapstructure:"queue_size"`
	Audit     bool `mapstructure:"audit"`
}

// LoggingConfig defines logging settings
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	AddSource bool   `mapstructure:"add_source"`
}
