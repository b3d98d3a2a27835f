package config

import (
	"strings"
	"testing"
)

func loadWithSecrets(t *testing.T) *Config {
	t.Helper()
	t.Setenv("AGENTBOX_SERVER_API_JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("AGENTBOX_SERVER_API_API_KEY", "test-key")
	t.Setenv("AGENTBOX_LLM_OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := loadWithSecrets(t)

	if cfg.Server.API.ListenAddr != ":8080" {
		t.Errorf("unexpected default listen addr: %s", cfg.Server.API.ListenAddr)
	}
	if cfg.Inbox.UserAddress != "user@example.com" {
		t.Errorf("unexpected default user address: %s", cfg.Inbox.UserAddress)
	}
	if !cfg.Inbox.SeedOnStart {
		t.Error("expected seed_on_start default true")
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("unexpected default llm provider: %s", cfg.LLM.Provider)
	}
	if cfg.Agent.MaxSteps != 10 {
		t.Errorf("unexpected default max steps: %d", cfg.Agent.MaxSteps)
	}
	if cfg.Banking.BaseURL != "https://apisandbox.openbankproject.com" {
		t.Errorf("unexpected default banking base url: %s", cfg.Banking.BaseURL)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("unexpected default logging format: %s", cfg.Logging.Format)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("AGENTBOX_LLM_PROVIDER", "ollama")
	t.Setenv("AGENTBOX_LLM_MODEL", "llama3.2")
	cfg := loadWithSecrets(t)

	if cfg.LLM.Provider != "ollama" {
		t.Errorf("env override ignored, provider = %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "llama3.2" {
		t.Errorf("env override ignored, model = %s", cfg.LLM.Model)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.Server.API.JWTSecret = "" },
			wantErr: "jwt_secret",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Server.API.JWTSecret = "short" },
			wantErr: "at least 32",
		},
		{
			name:    "bad listen addr",
			mutate:  func(c *Config) { c.Server.API.ListenAddr = "no-port" },
			wantErr: "listen_addr",
		},
		{
			name:    "missing user address",
			mutate:  func(c *Config) { c.Inbox.UserAddress = "" },
			wantErr: "user_address",
		},
		{
			name:    "unknown llm provider",
			mutate:  func(c *Config) { c.LLM.Provider = "bard" },
			wantErr: "llm.provider",
		},
		{
			name: "ollama requires endpoint",
			mutate: func(c *Config) {
				c.LLM.Provider = "ollama"
				c.LLM.Ollama.Endpoint = ""
			},
			wantErr: "ollama.endpoint",
		},
		{
			name: "banking enabled requires credentials",
			mutate: func(c *Config) {
				c.Banking.Enabled = true
				c.Banking.Username = ""
			},
			wantErr: "banking.username",
		},
		{
			name:    "non-positive max steps",
			mutate:  func(c *Config) { c.Agent.MaxSteps = 0 },
			wantErr: "max_steps",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadWithSecrets(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
