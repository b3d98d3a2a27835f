package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	var errs []error

	// Validate API config
	if c.Server.API.Enabled {
		if err := validateAddr(c.Server.API.ListenAddr, "server.api.listen_addr"); err != nil {
			errs = append(errs, err)
		}
		if c.Server.API.JWTSecret == "" {
			errs = append(errs, errors.New("server.api.jwt_secret is required when API is enabled"))
		} else if len(c.Server.API.JWTSecret) < 32 {
			errs = append(errs, errors.New("server.api.jwt_secret should be at least 32 characters"))
		}
		if c.Server.API.APIKey == "" {
			errs = append(errs, errors.New("server.api.api_key is required when API is enabled"))
		}
	}

	// Validate inbox config
	if c.Inbox.UserAddress == "" {
		errs = append(errs, errors.New("inbox.user_address is required"))
	}
	if c.Inbox.SampleCount < 0 {
		errs = append(errs, errors.New("inbox.sample_count must not be negative"))
	}
	if c.Inbox.BankCount < 0 {
		errs = append(errs, errors.New("inbox.bank_count must not be negative"))
	}

	// Validate banking config
	if c.Banking.Enabled {
		if c.Banking.BaseURL == "" {
			errs = append(errs, errors.New("banking.base_url is required when banking is enabled"))
		}
		if c.Banking.Username == "" {
			errs = append(errs, errors.New("banking.username is required when banking is enabled"))
		}
		if c.Banking.Password == "" {
			errs = append(errs, errors.New("banking.password is required when banking is enabled"))
		}
		if c.Banking.ConsumerKey == "" {
			errs = append(errs, errors.New("banking.consumer_key is required when banking is enabled"))
		}
	}

	// Validate LLM config. A missing API key is not an error; the server
	// then runs without the agent endpoint.
	switch c.LLM.Provider {
	case "", "openai", "anthropic":
		// Valid
	case "ollama":
		if c.LLM.Ollama.Endpoint == "" {
			errs = append(errs, errors.New("llm.ollama.endpoint is required when provider is ollama"))
		}
	default:
		errs = append(errs, fmt.Errorf("llm.provider must be one of: openai, anthropic, ollama (got: %s)", c.LLM.Provider))
	}
	if c.LLM.Provider != "" && c.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model is required"))
	}

	// Validate agent config
	if c.Agent.MaxSteps <= 0 {
		errs = append(errs, errors.New("agent.max_steps must be positive"))
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of: debug, info, warn, error (got: %s)", c.Logging.Level))
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("logging.format must be one of: json, text (got: %s)", c.Logging.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func validateAddr(addr, name string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", name)
	}
	_, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	return nil
}
