package llm

import (
	"context"
	"encoding/json"
	"time"
)

// Client interface for LLM providers with tool calling.
type Client interface {
	// Name returns the provider name.
	Name() string

	// Chat sends a conversation to the model and returns its reply, which
	// is either text or a set of tool calls to execute.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Close cleans up resources.
	Close() error
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`

	// ToolCalls is set on assistant messages that requested tools.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID and ToolName identify the call a tool-result message
	// answers.
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`
}

// ToolCall is a model request to run one tool.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Tool describes a callable tool to the model. Parameters is a JSON Schema.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ChatRequest for one model turn.
type ChatRequest struct {
	System   string
	Messages []Message
	Tools    []Tool
}

// ChatResponse from the model. When ToolCalls is non-empty the caller is
// expected to run them and continue the conversation with tool results.
type ChatResponse struct {
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	StopReason string     `json:"stop_reason"`
	Usage      Usage      `json:"usage"`
}

// Usage is token accounting for one turn.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// UserMessage builds a user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant turn carrying the model's reply.
func AssistantMessage(resp *ChatResponse) Message {
	return Message{Role: RoleAssistant, Content: resp.Content, ToolCalls: resp.ToolCalls}
}

// ToolResultMessage builds a tool-result turn answering one tool call.
func ToolResultMessage(call ToolCall, result json.RawMessage) Message {
	return Message{
		Role:       RoleTool,
		Content:    string(result),
		ToolCallID: call.ID,
		ToolName:   call.Name,
	}
}

// Config for LLM providers.
type Config struct {
	Provider string `mapstructure:"provider"` // openai, anthropic, ollama
	Model    string `mapstructure:"model"`

	// Provider-specific settings
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`

	// Common settings
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
}

// OpenAIConfig for OpenAI.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	OrgID   string `mapstructure:"org_id"`
	BaseURL string `mapstructure:"base_url"` // For Azure OpenAI or compatible APIs
}

// AnthropicConfig for Anthropic Claude.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// OllamaConfig for local Ollama.
type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"` // http://localhost:11434
}

// DefaultConfig returns the default LLM configuration.
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Timeout:     60 * time.Second,
		MaxTokens:   1024,
		Temperature: 0.1,
		Ollama: OllamaConfig{
			Endpoint: "http://localhost:11434",
		},
	}
}
