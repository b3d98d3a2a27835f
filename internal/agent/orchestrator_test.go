package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dstoyanov/agentbox/internal/llm"
	"github.com/dstoyanov/agentbox/internal/mailbox"
	"github.com/dstoyanov/agentbox/internal/seed"
	"github.com/dstoyanov/agentbox/internal/tools"
)

// scriptedClient returns canned responses in order.
type scriptedClient struct {
	responses []*llm.ChatResponse
	requests  []*llm.ChatRequest
	err       error
}

func (s *scriptedClient) Name() string { return "scripted" }

func (s *scriptedClient) Chat(_ context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.requests = append(s.requests, req)
	if len(s.responses) == 0 {
		return &llm.ChatResponse{Content: "done", StopReason: "stop"}, nil
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func (s *scriptedClient) Close() error { return nil }

func newOrchestrator(t *testing.T, client llm.Client, cfg Config) (*Orchestrator, *mailbox.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := mailbox.New(logger)
	gen := seed.New(store, "user@example.com", logger)
	reg := tools.NewRegistry(logger)
	if err := tools.NewEmailTools(store, gen, "user@example.com").Register(reg); err != nil {
		t.Fatalf("register tools: %v", err)
	}
	return New(client, reg, cfg, logger), store
}

func TestRunDirectAnswer(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ChatResponse{
		{Content: "Hello! How can I help?", StopReason: "stop"},
	}}
	orch, _ := newOrchestrator(t, client, Config{})

	result, err := orch.Run(context.Background(), "hi")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Answer != "Hello! How can I help?" || result.Steps != 1 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.ToolCalls) != 0 {
		t.Errorf("unexpected tool calls: %+v", result.ToolCalls)
	}
}

func TestRunExecutesToolCalls(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ChatResponse{
		{
			ToolCalls: []llm.ToolCall{{
				ID:        "call_1",
				Name:      "get_inbox_status",
				Arguments: json.RawMessage(`{}`),
			}},
			StopReason: "tool_calls",
			Usage:      llm.Usage{InputTokens: 10, OutputTokens: 5},
		},
		{Content: "Your inbox is empty.", StopReason: "stop", Usage: llm.Usage{InputTokens: 20, OutputTokens: 8}},
	}}
	orch, _ := newOrchestrator(t, client, Config{})

	result, err := orch.Run(context.Background(), "how is my inbox?")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Answer != "Your inbox is empty." || result.Steps != 2 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.ToolCalls) != 1 || result.ToolCalls[0].Name != "get_inbox_status" {
		t.Fatalf("tool calls = %+v", result.ToolCalls)
	}
	var status struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(result.ToolCalls[0].Result, &status); err != nil {
		t.Fatalf("decode tool result: %v", err)
	}
	if !status.Success || status.Status != "empty" {
		t.Errorf("tool result = %+v", status)
	}
	if result.Usage.InputTokens != 30 || result.Usage.OutputTokens != 13 {
		t.Errorf("usage = %+v", result.Usage)
	}

	// Second request must carry the assistant turn and the tool result.
	second := client.requests[1]
	if len(second.Messages) != 3 {
		t.Fatalf("second request has %d messages, want 3", len(second.Messages))
	}
	if second.Messages[1].Role != llm.RoleAssistant || second.Messages[2].Role != llm.RoleTool {
		t.Errorf("message roles = %s, %s", second.Messages[1].Role, second.Messages[2].Role)
	}
	if second.Messages[2].ToolCallID != "call_1" {
		t.Errorf("tool result call id = %q", second.Messages[2].ToolCallID)
	}
}

func TestRunToolMutatesStore(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ChatResponse{
		{ToolCalls: []llm.ToolCall{{
			ID:        "call_1",
			Name:      "initialize_email_inbox",
			Arguments: json.RawMessage(`{}`),
		}}},
		{Content: "Initialized your inbox with 11 emails.", StopReason: "stop"},
	}}
	orch, store := newOrchestrator(t, client, Config{})

	if _, err := orch.Run(context.Background(), "set up my inbox"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if totals := store.TotalCounts(); totals.Emails != 11 {
		t.Errorf("store has %d emails after run, want 11", totals.Emails)
	}
}

func TestRunUnknownToolReportedToModel(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ChatResponse{
		{ToolCalls: []llm.ToolCall{{
			ID:        "call_1",
			Name:      "fabricated_tool",
			Arguments: json.RawMessage(`{}`),
		}}},
		{Content: "Sorry, I cannot do that.", StopReason: "stop"},
	}}
	orch, _ := newOrchestrator(t, client, Config{})

	result, err := orch.Run(context.Background(), "do something strange")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Answer != "Sorry, I cannot do that." {
		t.Fatalf("answer = %q", result.Answer)
	}
	if len(result.ToolCalls) != 1 || result.ToolCalls[0].Error == "" {
		t.Fatalf("tool calls = %+v", result.ToolCalls)
	}

	// Failure payload handed back to the model, not an aborted run.
	var failure struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(result.ToolCalls[0].Result, &failure); err != nil {
		t.Fatalf("decode failure payload: %v", err)
	}
	if failure.Success || failure.Error == "" {
		t.Errorf("failure payload = %+v", failure)
	}
}

func TestRunMaxSteps(t *testing.T) {
	loop := &llm.ChatResponse{ToolCalls: []llm.ToolCall{{
		ID:        "call_1",
		Name:      "get_inbox_status",
		Arguments: json.RawMessage(`{}`),
	}}}
	client := &scriptedClient{responses: []*llm.ChatResponse{loop, loop, loop, loop}}
	orch, _ := newOrchestrator(t, client, Config{MaxSteps: 3})

	result, err := orch.Run(context.Background(), "loop forever")
	if !errors.Is(err, ErrMaxSteps) {
		t.Fatalf("err = %v, want ErrMaxSteps", err)
	}
	if result == nil || result.Steps != 3 {
		t.Fatalf("result = %+v", result)
	}
}

func TestRunChatError(t *testing.T) {
	client := &scriptedClient{err: errors.New("connection refused")}
	orch, _ := newOrchestrator(t, client, Config{})

	if _, err := orch.Run(context.Background(), "hi"); err == nil {
		t.Fatal("expected error when chat fails")
	}
}

func TestRunPassesToolDefinitions(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ChatResponse{
		{Content: "ok", StopReason: "stop"},
	}}
	orch, _ := newOrchestrator(t, client, Config{SystemPrompt: "custom prompt"})

	if _, err := orch.Run(context.Background(), "hi"); err != nil {
		t.Fatalf("run: %v", err)
	}
	req := client.requests[0]
	if req.System != "custom prompt" {
		t.Errorf("system = %q", req.System)
	}
	if len(req.Tools) != 12 {
		t.Errorf("got %d tools, want 12", len(req.Tools))
	}
}
