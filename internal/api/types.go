package api

import (
	"time"

	"github.com/dstoyanov/agentbox/internal/agent"
	"github.com/dstoyanov/agentbox/internal/llm"
	"github.com/dstoyanov/agentbox/internal/mailbox"
)

// Response is the standard API response wrapper.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Uptime   string            `json:"uptime"`
	Services map[string]string `json:"services"`
}

// TokenRequest exchanges the configured API key for a JWT.
type TokenRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

// TokenResponse carries a freshly issued JWT.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WorkflowRequest is the request for running an agent workflow.
type WorkflowRequest struct {
	Message string `json:"message" validate:"required,min=1"`
}

// WorkflowResponse is the result of an agent run. Truncated is set when the
// loop ran out of steps before the model produced a final answer.
type WorkflowResponse struct {
	Answer    string                 `json:"answer"`
	Steps     int                    `json:"steps"`
	ToolCalls []agent.ToolInvocation `json:"tool_calls"`
	Usage     llm.Usage              `json:"usage"`
	Truncated bool                   `json:"truncated,omitempty"`
}

// SendEmailRequest is the request for composing an outgoing email.
type SendEmailRequest struct {
	To       []string `json:"to" validate:"required,min=1,dive,email"`
	CC       []string `json:"cc,omitempty" validate:"omitempty,dive,email"`
	Subject  string   `json:"subject" validate:"required"`
	Body     string   `json:"body" validate:"required"`
	Priority string   `json:"priority,omitempty"`
}

// MoveEmailRequest is the request for moving an email between folders.
type MoveEmailRequest struct {
	Folder string `json:"folder" validate:"required"`
}

// SeedRequest controls how many emails a seeding endpoint generates.
type SeedRequest struct {
	Count int `json:"count,omitempty" validate:"omitempty,min=1,max=100"`
}

// SeedResponse reports what a seeding endpoint created.
type SeedResponse struct {
	Generated int            `json:"generated"`
	Emails    []EmailSummary `json:"emails"`
}

// EmailSummary is the compact listing form of an email.
type EmailSummary struct {
	ID       string           `json:"id"`
	Subject  string           `json:"subject"`
	Sender   string           `json:"sender"`
	Date     time.Time        `json:"date"`
	Status   mailbox.Status   `json:"status"`
	Priority mailbox.Priority `json:"priority"`
	Folder   string           `json:"folder"`
	Tags     []string         `json:"tags,omitempty"`
}

// InboxStatusResponse reports store-wide counts.
type InboxStatusResponse struct {
	Status       string `json:"status"`
	TotalEmails  int    `json:"total_emails"`
	UnreadCount  int    `json:"unread_count"`
	RBSEmails    int    `json:"rbs_emails"`
	FIBankEmails int    `json:"fi_bank_emails"`
}

func summarize(e *mailbox.Email) EmailSummary {
	return EmailSummary{
		ID:       e.ID,
		Subject:  e.Subject,
		Sender:   e.Sender,
		Date:     e.Timestamp,
		Status:   e.Status,
		Priority: e.Priority,
		Folder:   e.Folder,
		Tags:     e.Tags,
	}
}
