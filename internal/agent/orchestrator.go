// Package agent runs the model/tool loop: the model is shown the registered
// tools, its tool calls are executed, and the results are fed back until it
// produces a final answer or the step budget runs out.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dstoyanov/agentbox/internal/llm"
	"github.com/dstoyanov/agentbox/internal/tools"
)

// DefaultSystemPrompt frames the agent as a financial coach over the mailbox
// and banking tools.
const DefaultSystemPrompt = `You are an AI Financial Coach designed to help users make better financial decisions and improve their financial well-being. You provide personalized advice, detect harmful spending patterns, and offer practical solutions for financial management. You have tools to read and manage the user's email inbox and to query their bank accounts. Use them to ground your answers in the user's actual data.`

// ErrMaxSteps is returned when the loop hits its step budget without a final
// answer.
var ErrMaxSteps = errors.New("agent: max steps exceeded without final answer")

// Config for the orchestrator.
type Config struct {
	MaxSteps     int    `mapstructure:"max_steps"`
	SystemPrompt string `mapstructure:"system_prompt"`
}

// ToolInvocation records one executed tool call for the run trace.
type ToolInvocation struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	Result    json.RawMessage `json:"result"`
	Error     string          `json:"error,omitempty"`
}

// Result of one agent run.
type Result struct {
	Answer    string           `json:"answer"`
	Steps     int              `json:"steps"`
	ToolCalls []ToolInvocation `json:"tool_calls"`
	Usage     llm.Usage        `json:"usage"`
}

// Orchestrator drives the conversation between the model and the tools.
type Orchestrator struct {
	client   llm.Client
	registry *tools.Registry
	maxSteps int
	system   string
	logger   *slog.Logger
}

func New(client llm.Client, registry *tools.Registry, cfg Config, logger *slog.Logger) *Orchestrator {
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 10
	}
	system := cfg.SystemPrompt
	if system == "" {
		system = DefaultSystemPrompt
	}
	return &Orchestrator{
		client:   client,
		registry: registry,
		maxSteps: maxSteps,
		system:   system,
		logger:   logger.With("component", "agent"),
	}
}

// Run executes one agent task. Tool failures are reported back to the model
// as results so it can recover; transport failures abort the run.
func (o *Orchestrator) Run(ctx context.Context, userMessage string) (*Result, error) {
	defs := o.registry.Definitions()
	toolSet := make([]llm.Tool, 0, len(defs))
	for _, def := range defs {
		toolSet = append(toolSet, llm.Tool{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  def.Schema,
		})
	}

	messages := []llm.Message{llm.UserMessage(userMessage)}
	result := &Result{ToolCalls: []ToolInvocation{}}

	for step := 0; step < o.maxSteps; step++ {
		result.Steps = step + 1

		resp, err := o.client.Chat(ctx, &llm.ChatRequest{
			System:   o.system,
			Messages: messages,
			Tools:    toolSet,
		})
		if err != nil {
			return nil, fmt.Errorf("agent step %d: %w", step+1, err)
		}
		result.Usage.InputTokens += resp.Usage.InputTokens
		result.Usage.OutputTokens += resp.Usage.OutputTokens

		if len(resp.ToolCalls) == 0 {
			result.Answer = resp.Content
			o.logger.Info("agent run finished",
				"steps", result.Steps, "tool_calls", len(result.ToolCalls))
			return result, nil
		}

		messages = append(messages, llm.AssistantMessage(resp))
		for _, call := range resp.ToolCalls {
			invocation := ToolInvocation{Name: call.Name, Arguments: call.Arguments}

			output, err := o.registry.Call(ctx, call.Name, call.Arguments)
			if err != nil {
				// Let the model see the failure instead of aborting.
				o.logger.Warn("tool call failed", "tool", call.Name, "error", err)
				invocation.Error = err.Error()
				output, _ = json.Marshal(map[string]any{
					"success": false,
					"error":   err.Error(),
				})
			}
			invocation.Result = output
			result.ToolCalls = append(result.ToolCalls, invocation)
			messages = append(messages, llm.ToolResultMessage(call, output))
		}
	}

	return result, ErrMaxSteps
}
