// Package main provides the entry point for the agentbox server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dstoyanov/agentbox/internal/agent"
	"github.com/dstoyanov/agentbox/internal/api"
	"github.com/dstoyanov/agentbox/internal/banking"
	"github.com/dstoyanov/agentbox/internal/config"
	"github.com/dstoyanov/agentbox/internal/event"
	"github.com/dstoyanov/agentbox/internal/llm"
	"github.com/dstoyanov/agentbox/internal/logging"
	"github.com/dstoyanov/agentbox/internal/mailbox"
	"github.com/dstoyanov/agentbox/internal/seed"
	"github.com/dstoyanov/agentbox/internal/tools"
	"github.com/dstoyanov/agentbox/internal/version"
)

var (
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agentbox-server",
		Short: "Agentbox - simulated mailbox and banking agent sandbox",
		Long:  "Sandboxed environment exposing a simulated email inbox and the Open Bank Project API as tools to an LLM agent, with a REST API on top.",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the agentbox server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Agentbox Server %s\n", version.Version)
			fmt.Printf("Commit: %s\n", version.Commit)
			fmt.Printf("Built: %s\n", version.BuildTime)
		},
	}
}

func runServer() error {
	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.New(cfg.Logging)
	logger.Info("starting agentbox server",
		"version", version.Version,
		"config", configFile,
	)

	// Event bus for store mutation events
	bus := event.NewBus(event.BusConfig{
		Workers:   cfg.Events.Workers,
		QueueSize: cfg.Events.QueueSize,
	}, logger)
	if cfg.Events.Audit {
		bus.Subscribe("*", event.NewAuditSubscriber(logger))
	}
	bus.Start()
	defer bus.Stop()

	// In-memory mailbox
	store := mailbox.New(logger, mailbox.WithPublisher(bus))
	generator := seed.New(store, cfg.Inbox.UserAddress, logger)

	if cfg.Inbox.SeedOnStart {
		result := generator.InitializeFixtures()
		if result.Applied {
			logger.Info("inbox seeded",
				"total", result.TotalEmails,
				"bank", result.BankEmails,
				"regular", result.RegularEmails,
			)
		}
		if cfg.Inbox.SampleCount > 0 {
			generator.Samples(cfg.Inbox.SampleCount)
		}
		if cfg.Inbox.BankCount > 0 {
			generator.BankEmails(cfg.Inbox.BankCount)
		}
	}

	// Tool registry
	registry := tools.NewRegistry(logger)
	emailTools := tools.NewEmailTools(store, generator, cfg.Inbox.UserAddress)
	if err := emailTools.Register(registry); err != nil {
		return fmt.Errorf("failed to register email tools: %w", err)
	}

	// Banking tools if the Open Bank Project connection is configured
	if cfg.Banking.Enabled {
		client, err := banking.New(banking.Config{
			BaseURL:     cfg.Banking.BaseURL,
			Username:    cfg.Banking.Username,
			Password:    cfg.Banking.Password,
			ConsumerKey: cfg.Banking.ConsumerKey,
			Timeout:     cfg.Banking.Timeout,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to create banking client: %w", err)
		}
		defer client.Close()

		if err := tools.NewBankingTools(client).Register(registry); err != nil {
			return fmt.Errorf("failed to register banking tools: %w", err)
		}
		logger.Info("banking tools enabled", "base_url", cfg.Banking.BaseURL)
	}

	// Create cancellable context for shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start API server if enabled
	if cfg.Server.API.Enabled {
		apiCfg := api.Config{
			ListenAddr:  cfg.Server.API.ListenAddr,
			JWTSecret:   cfg.Server.API.JWTSecret,
			JWTExpiry:   cfg.Server.API.JWTExpiry,
			APIKey:      cfg.Server.API.APIKey,
			EnableCORS:  cfg.Server.API.EnableCORS,
			CORSOrigins: cfg.Server.API.CORSOrigins,
		}
		apiServer := api.New(apiCfg, store, generator, registry, logger)

		// LLM client; the server runs without the workflow endpoint when
		// no provider is configured.
		llmClient := llm.NewClientWithFallback(llmConfig(cfg), logger)
		if llmClient != nil {
			defer llmClient.Close()
			orchestrator := agent.New(llmClient, registry, agent.Config{
				MaxSteps:     cfg.Agent.MaxSteps,
				SystemPrompt: cfg.Agent.SystemPrompt,
			}, logger)
			apiServer.SetOrchestrator(orchestrator)
			logger.Info("agent enabled", "provider", llmClient.Name())
		}

		go func() {
			if err := apiServer.Start(ctx); err != nil {
				logger.Error("API server error", "error", err)
			}
		}()
		defer apiServer.Stop(ctx)
	}

	logger.Info("agentbox server started successfully")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down...")
	cancel()

	return nil
}

func llmConfig(cfg *config.Config) llm.Config {
	out := llm.DefaultConfig()
	if cfg.LLM.Provider != "" {
		out.Provider = cfg.LLM.Provider
	}
	if cfg.LLM.Model != "" {
		out.Model = cfg.LLM.Model
	}
	if cfg.LLM.Timeout > 0 {
		out.Timeout = cfg.LLM.Timeout
	}
	if cfg.LLM.MaxTokens > 0 {
		out.MaxTokens = cfg.LLM.MaxTokens
	}
	if cfg.LLM.Temperature > 0 {
		out.Temperature = cfg.LLM.Temperature
	}
	out.OpenAI.APIKey = cfg.LLM.OpenAI.APIKey
	out.OpenAI.OrgID = cfg.LLM.OpenAI.OrgID
	out.OpenAI.BaseURL = cfg.LLM.OpenAI.BaseURL
	out.Anthropic.APIKey = cfg.LLM.Anthropic.APIKey
	out.Ollama.Endpoint = cfg.LLM.Ollama.Endpoint
	return out
}
