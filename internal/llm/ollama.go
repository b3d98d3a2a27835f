package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// OllamaClient implements Client for a local Ollama server.
type OllamaClient struct {
	httpClient *http.Client
	model      string
	endpoint   string
	maxTokens  int
	temp       float64
	logger     *slog.Logger
}

// Ollama API request/response types.
type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Tools    []openAITool    `json:"tools,omitempty"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaToolCall `json:"tool_calls,omitempty"`
}

// Ollama tool calls carry arguments as a JSON object and have no call id.
type ollamaToolCall struct {
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model      string        `json:"model"`
	Message    ollamaMessage `json:"message"`
	Done       bool          `json:"done"`
	DoneReason string        `json:"done_reason"`
	Error      string        `json:"error,omitempty"`
}

// NewOllama creates an Ollama client.
func NewOllama(cfg Config, logger *slog.Logger) (*OllamaClient, error) {
	endpoint := cfg.Ollama.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second // local models can be slow
	}

	return &OllamaClient{
		httpClient: &http.Client{Timeout: timeout},
		model:      cfg.Model,
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		maxTokens:  cfg.MaxTokens,
		temp:       cfg.Temperature,
		logger:     logger,
	}, nil
}

// Name returns the provider name.
func (c *OllamaClient) Name() string { return "ollama" }

// Chat sends a conversation with tool definitions and returns the reply.
func (c *OllamaClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	chatReq := ollamaChatRequest{
		Model:    c.model,
		Messages: c.convertMessages(req),
		Stream:   false,
		Options: ollamaOptions{
			Temperature: c.temp,
			NumPredict:  c.maxTokens,
		},
	}
	for _, tool := range req.Tools {
		chatReq.Tools = append(chatReq.Tools, openAITool{
			Type: "function",
			Function: openAIFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if chatResp.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", chatResp.Error)
	}

	out := &ChatResponse{
		Content:    strings.TrimSpace(chatResp.Message.Content),
		StopReason: chatResp.DoneReason,
	}
	// Ollama does not assign call ids, so synthesize stable ones.
	for i, call := range chatResp.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        fmt.Sprintf("call_%d", i),
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	if len(out.ToolCalls) > 0 && out.StopReason == "" {
		out.StopReason = "tool_calls"
	}
	return out, nil
}

func (c *OllamaClient) convertMessages(req *ChatRequest) []ollamaMessage {
	messages := make([]ollamaMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: req.System})
	}
	for _, msg := range req.Messages {
		out := ollamaMessage{Role: msg.Role, Content: msg.Content}
		for _, call := range msg.ToolCalls {
			converted := ollamaToolCall{}
			converted.Function.Name = call.Name
			converted.Function.Arguments = call.Arguments
			out.ToolCalls = append(out.ToolCalls, converted)
		}
		messages = append(messages, out)
	}
	return messages
}

// Close cleans up resources.
func (c *OllamaClient) Close() error {
	return nil
}
