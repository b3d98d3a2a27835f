// Package main provides the entry point for the agentbox CLI tool.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dstoyanov/agentbox/internal/mailbox"
	"github.com/dstoyanov/agentbox/internal/seed"
	"github.com/dstoyanov/agentbox/internal/tools"
	"github.com/dstoyanov/agentbox/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agentbox-cli",
		Short: "Agentbox CLI - command line tool for agentbox",
		Long:  "Command line tool for inspecting the agentbox mailbox simulator.",
	}

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(toolsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Agentbox CLI %s\n", version.Version)
			fmt.Printf("Commit: %s\n", version.Commit)
			fmt.Printf("Built: %s\n", version.BuildTime)
		},
	}
}

func seedCmd() *cobra.Command {
	var (
		userAddress string
		samples     int
		bank        int
		fixtures    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate seed emails and print them as JSON",
		Long:  "Generates emails into a throwaway in-memory store and prints them, for inspecting what the seeding endpoints would produce.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			store := mailbox.New(logger)
			generator := seed.New(store, userAddress, logger)

			var emails []*mailbox.Email
			if fixtures {
				emails = seed.Fixtures(userAddress)
			} else {
				emails = append(emails, generator.Samples(samples)...)
				emails = append(emails, generator.BankEmails(bank)...)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(emails)
		},
	}

	cmd.Flags().StringVar(&userAddress, "user", "user@example.com", "inbox owner address")
	cmd.Flags().IntVar(&samples, "samples", 5, "number of generic sample emails")
	cmd.Flags().IntVar(&bank, "bank", 10, "number of bank emails")
	cmd.Flags().BoolVar(&fixtures, "fixtures", false, "print the fixed startup fixtures instead of random emails")
	return cmd
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the email tool definitions as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			store := mailbox.New(logger)
			generator := seed.New(store, "user@example.com", logger)

			registry := tools.NewRegistry(logger)
			if err := tools.NewEmailTools(store, generator, "user@example.com").Register(registry); err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(registry.Definitions())
		},
	}
}
