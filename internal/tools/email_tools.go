package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dstoyanov/agentbox/internal/mailbox"
	"github.com/dstoyanov/agentbox/internal/seed"
)

const summaryDateFormat = "2006-01-02 15:04"

// EmailSummary is the compact listing shape returned by list and search.
type EmailSummary struct {
	ID       string `json:"id"`
	Subject  string `json:"subject"`
	Sender   string `json:"sender"`
	Date     string `json:"date"`
	Folder   string `json:"folder,omitempty"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// EmailDetail is the full email shape returned by read_email.
type EmailDetail struct {
	ID          string               `json:"id"`
	Subject     string               `json:"subject"`
	Sender      string               `json:"sender"`
	Recipients  []string             `json:"recipients"`
	CC          []string             `json:"cc"`
	BCC         []string             `json:"bcc"`
	Body        string               `json:"body"`
	HTMLBody    string               `json:"html_body"`
	Timestamp   string               `json:"timestamp"`
	Status      string               `json:"status"`
	Priority    string               `json:"priority"`
	Folder      string               `json:"folder"`
	Attachments []mailbox.Attachment `json:"attachments"`
	Tags        []string             `json:"tags"`
}

type ListEmailsResult struct {
	Success bool           `json:"success"`
	Emails  []EmailSummary `json:"emails"`
	Folder  string         `json:"folder"`
	Count   int            `json:"count"`
	Limit   int            `json:"limit,omitempty"`
	Offset  int            `json:"offset,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type ReadEmailResult struct {
	Success bool         `json:"success"`
	Email   *EmailDetail `json:"email"`
	Error   string       `json:"error,omitempty"`
}

type SearchEmailsResult struct {
	Success bool           `json:"success"`
	Emails  []EmailSummary `json:"emails"`
	Query   string         `json:"query"`
	Folder  string         `json:"folder,omitempty"`
	Count   int            `json:"count"`
	Message string         `json:"message,omitempty"`
}

type EmailActionResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	EmailID      string `json:"email_id"`
	TargetFolder string `json:"target_folder,omitempty"`
}

type SendEmailResult struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message,omitempty"`
	EmailID  string   `json:"email_id,omitempty"`
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	CC       []string `json:"cc,omitempty"`
	Priority string   `json:"priority,omitempty"`
	Error    string   `json:"error,omitempty"`
}

type InboxStatusResult struct {
	Success       bool   `json:"success"`
	Status        string `json:"status"`
	TotalEmails   int    `json:"total_emails"`
	BankEmails    int    `json:"bank_emails"`
	RegularEmails int    `json:"regular_emails"`
	UnreadEmails  int    `json:"unread_emails,omitempty"`
	Message       string `json:"message"`
	Initialized   bool   `json:"initialized"`
}

type FolderInfo struct {
	Name        string `json:"name"`
	EmailCount  int    `json:"email_count"`
	UnreadCount int    `json:"unread_count"`
}

type FolderSummaryResult struct {
	Success      bool         `json:"success"`
	Folders      []FolderInfo `json:"folders"`
	TotalFolders int          `json:"total_folders"`
}

type GeneratedEmail struct {
	ID       string `json:"id"`
	Subject  string `json:"subject"`
	Sender   string `json:"sender"`
	Bank     string `json:"bank,omitempty"`
	Priority string `json:"priority,omitempty"`
}

type GenerateEmailsResult struct {
	Success         bool             `json:"success"`
	GeneratedEmails []GeneratedEmail `json:"generated_emails"`
	Count           int              `json:"count"`
	Message         string           `json:"message"`
}

type InitializeResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TotalEmails   int    `json:"total_emails,omitempty"`
	BankEmails    int    `json:"bank_emails,omitempty"`
	RegularEmails int    `json:"regular_emails,omitempty"`
	EmailCount    int    `json:"email_count,omitempty"`
	Action        string `json:"action"`
}

// EmailTools wires mailbox operations into the tool registry.
type EmailTools struct {
	store       *mailbox.Store
	generator   *seed.Generator
	userAddress string
}

func NewEmailTools(store *mailbox.Store, generator *seed.Generator, userAddress string) *EmailTools {
	return &EmailTools{store: store, generator: generator, userAddress: userAddress}
}

// Register adds all email tools to the registry.
func (e *EmailTools) Register(reg *Registry) error {
	tools := []Tool{
		{
			Definition: Definition{
				Name:        "list_emails",
				Description: "List emails in a specific folder (inbox, sent, drafts, trash, spam, archive).",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"folder": {"type": "string", "description": "Folder name", "default": "inbox"},
						"limit": {"type": "integer", "description": "Maximum emails to return", "default": 20},
						"offset": {"type": "integer", "description": "Emails to skip", "default": 0}
					}
				}`),
			},
			Handler: e.listEmails,
		},
		{
			Definition: Definition{
				Name:        "read_email",
				Description: "Read the full content of a specific email by ID. Marks the email as read.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"email_id": {"type": "string", "description": "Email ID"}
					},
					"required": ["email_id"]
				}`),
			},
			Handler: e.readEmail,
		},
		{
			Definition: Definition{
				Name:        "search_emails",
				Description: "Search emails by subject, sender, or content.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"query": {"type": "string", "description": "Search text"},
						"folder": {"type": "string", "description": "Restrict to one folder"}
					},
					"required": ["query"]
				}`),
			},
			Handler: e.searchEmails,
		},
		{
			Definition: Definition{
				Name:        "mark_email_read",
				Description: "Mark an email as read.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"email_id": {"type": "string", "description": "Email ID"}
					},
					"required": ["email_id"]
				}`),
			},
			Handler: e.markEmailRead,
		},
		{
			Definition: Definition{
				Name:        "delete_email",
				Description: "Delete an email (move to trash, or permanently remove if already in trash).",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"email_id": {"type": "string", "description": "Email ID"}
					},
					"required": ["email_id"]
				}`),
			},
			Handler: e.deleteEmail,
		},
		{
			Definition: Definition{
				Name:        "move_email",
				Description: "Move an email to a different folder.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"email_id": {"type": "string", "description": "Email ID"},
						"target_folder": {"type": "string", "description": "Destination folder"}
					},
					"required": ["email_id", "target_folder"]
				}`),
			},
			Handler: e.moveEmail,
		},
		{
			Definition: Definition{
				Name:        "send_email",
				Description: "Send a new email. The message is placed in the sent folder.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"to": {"type": "array", "items": {"type": "string"}, "description": "Recipient addresses"},
						"subject": {"type": "string"},
						"body": {"type": "string"},
						"cc": {"type": "array", "items": {"type": "string"}},
						"priority": {"type": "string", "enum": ["low", "normal", "high", "urgent"], "default": "normal"}
					},
					"required": ["to", "subject", "body"]
				}`),
			},
			Handler: e.sendEmail,
		},
		{
			Definition: Definition{
				Name:        "get_inbox_status",
				Description: "Get current inbox status including email counts and initialization state.",
				Schema:      json.RawMessage(`{"type": "object", "properties": {}}`),
			},
			Handler: e.inboxStatus,
		},
		{
			Definition: Definition{
				Name:        "get_folder_summary",
				Description: "Get a summary of all email folders with counts.",
				Schema:      json.RawMessage(`{"type": "object", "properties": {}}`),
			},
			Handler: e.folderSummary,
		},
		{
			Definition: Definition{
				Name:        "generate_sample_emails",
				Description: "Generate sample emails for testing (simulates receiving new emails).",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"count": {"type": "integer", "description": "Number of emails", "default": 5}
					}
				}`),
			},
			Handler: e.generateSamples,
		},
		{
			Definition: Definition{
				Name:        "generate_bank_emails",
				Description: "Generate bank emails from RBS and FI Bank covering overdraft, security, statement, terms and promotional scenarios.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"count": {"type": "integer", "description": "Number of emails", "default": 10}
					}
				}`),
			},
			Handler: e.generateBankEmails,
		},
		{
			Definition: Definition{
				Name:        "initialize_email_inbox",
				Description: "Initialize the email inbox with sample emails if it is empty.",
				Schema:      json.RawMessage(`{"type": "object", "properties": {}}`),
			},
			Handler: e.initializeInbox,
		},
	}

	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func (e *EmailTools) listEmails(_ context.Context, args json.RawMessage) (any, error) {
	params := struct {
		Folder string `json:"folder"`
		Limit  int    `json:"limit"`
		Offset int    `json:"offset"`
	}{Folder: mailbox.FolderInbox, Limit: 20}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	if !e.store.HasFolder(params.Folder) {
		return ListEmailsResult{
			Success: false,
			Emails:  []EmailSummary{},
			Folder:  params.Folder,
			Error:   fmt.Sprintf("unknown folder: %s", params.Folder),
		}, nil
	}

	emails := e.store.List(params.Folder, params.Limit, params.Offset)
	if len(emails) == 0 {
		return ListEmailsResult{
			Success: true,
			Emails:  []EmailSummary{},
			Folder:  params.Folder,
			Message: fmt.Sprintf("No emails found in %s folder.", params.Folder),
		}, nil
	}

	return ListEmailsResult{
		Success: true,
		Emails:  summarize(emails, false),
		Folder:  params.Folder,
		Count:   len(emails),
		Limit:   params.Limit,
		Offset:  params.Offset,
	}, nil
}

func (e *EmailTools) readEmail(_ context.Context, args json.RawMessage) (any, error) {
	params := struct {
		EmailID string `json:"email_id"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	email := e.store.Get(params.EmailID)
	if email == nil {
		return ReadEmailResult{
			Success: false,
			Error:   fmt.Sprintf("Email with ID %s not found.", params.EmailID),
		}, nil
	}

	// Viewing marks unread mail as read.
	e.store.MarkAsRead(params.EmailID)
	if email.Status == mailbox.StatusUnread {
		email.Status = mailbox.StatusRead
	}

	detail := &EmailDetail{
		ID:          email.ID,
		Subject:     email.Subject,
		Sender:      email.Sender,
		Recipients:  email.Recipients,
		CC:          email.CC,
		BCC:         email.BCC,
		Body:        email.Body,
		HTMLBody:    email.HTMLBody,
		Timestamp:   email.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		Status:      string(email.Status),
		Priority:    string(email.Priority),
		Folder:      email.Folder,
		Attachments: email.Attachments,
		Tags:        email.Tags,
	}
	if detail.CC == nil {
		detail.CC = []string{}
	}
	if detail.BCC == nil {
		detail.BCC = []string{}
	}
	if detail.Attachments == nil {
		detail.Attachments = []mailbox.Attachment{}
	}
	if detail.Tags == nil {
		detail.Tags = []string{}
	}
	return ReadEmailResult{Success: true, Email: detail}, nil
}

func (e *EmailTools) searchEmails(_ context.Context, args json.RawMessage) (any, error) {
	params := struct {
		Query  string `json:"query"`
		Folder string `json:"folder"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	results := e.store.Search(params.Query, params.Folder)
	if len(results) == 0 {
		scope := ""
		if params.Folder != "" {
			scope = " in " + params.Folder
		}
		return SearchEmailsResult{
			Success: true,
			Emails:  []EmailSummary{},
			Query:   params.Query,
			Folder:  params.Folder,
			Message: fmt.Sprintf("No emails found matching %q%s.", params.Query, scope),
		}, nil
	}

	return SearchEmailsResult{
		Success: true,
		Emails:  summarize(results, true),
		Query:   params.Query,
		Folder:  params.Folder,
		Count:   len(results),
	}, nil
}

func (e *EmailTools) markEmailRead(_ context.Context, args json.RawMessage) (any, error) {
	params := struct {
		EmailID string `json:"email_id"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	if e.store.MarkAsRead(params.EmailID) {
		return EmailActionResult{
			Success: true,
			Message: fmt.Sprintf("Email %s marked as read.", params.EmailID),
			EmailID: params.EmailID,
		}, nil
	}
	return EmailActionResult{
		Success: false,
		Message: fmt.Sprintf("Could not mark email %s as read. Email not found or already read.", params.EmailID),
		EmailID: params.EmailID,
	}, nil
}

func (e *EmailTools) deleteEmail(_ context.Context, args json.RawMessage) (any, error) {
	params := struct {
		EmailID string `json:"email_id"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	if e.store.Delete(params.EmailID) {
		return EmailActionResult{
			Success: true,
			Message: fmt.Sprintf("Email %s deleted successfully.", params.EmailID),
			EmailID: params.EmailID,
		}, nil
	}
	return EmailActionResult{
		Success: false,
		Message: fmt.Sprintf("Could not delete email %s. Email not found.", params.EmailID),
		EmailID: params.EmailID,
	}, nil
}

func (e *EmailTools) moveEmail(_ context.Context, args json.RawMessage) (any, error) {
	params := struct {
		EmailID      string `json:"email_id"`
		TargetFolder string `json:"target_folder"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	if e.store.Move(params.EmailID, params.TargetFolder) {
		return EmailActionResult{
			Success:      true,
			Message:      fmt.Sprintf("Email %s moved to %s folder.", params.EmailID, params.TargetFolder),
			EmailID:      params.EmailID,
			TargetFolder: params.TargetFolder,
		}, nil
	}
	return EmailActionResult{
		Success:      false,
		Message:      fmt.Sprintf("Could not move email %s to %s. Email or folder not found.", params.EmailID, params.TargetFolder),
		EmailID:      params.EmailID,
		TargetFolder: params.TargetFolder,
	}, nil
}

func (e *EmailTools) sendEmail(_ context.Context, args json.RawMessage) (any, error) {
	params := struct {
		To       []string `json:"to"`
		Subject  string   `json:"subject"`
		Body     string   `json:"body"`
		CC       []string `json:"cc"`
		Priority string   `json:"priority"`
	}{Priority: string(mailbox.PriorityNormal)}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	if params.CC == nil {
		params.CC = []string{}
	}

	priority, err := mailbox.ParsePriority(params.Priority)
	if err != nil {
		return SendEmailResult{
			Success: false,
			To:      params.To,
			Subject: params.Subject,
			Error:   err.Error(),
		}, nil
	}

	// Sent mail goes straight to the sent folder, already read.
	id := e.store.Add(&mailbox.Email{
		Subject:    params.Subject,
		Sender:     e.userAddress,
		Recipients: params.To,
		CC:         params.CC,
		Body:       params.Body,
		Priority:   priority,
		Folder:     mailbox.FolderSent,
		Status:     mailbox.StatusRead,
	})

	return SendEmailResult{
		Success:  true,
		Message:  "Email sent successfully!",
		EmailID:  id,
		To:       params.To,
		Subject:  params.Subject,
		CC:       params.CC,
		Priority: params.Priority,
	}, nil
}

func (e *EmailTools) inboxStatus(_ context.Context, _ json.RawMessage) (any, error) {
	totals := e.store.TotalCounts(seed.BankRBS, seed.BankFI)
	if totals.Emails == 0 {
		return InboxStatusResult{
			Success: true,
			Status:  "empty",
			Message: "Email inbox is empty. Use initialize_email_inbox to populate with sample emails.",
		}, nil
	}

	bank := totals.Tagged[seed.BankRBS] + totals.Tagged[seed.BankFI]
	return InboxStatusResult{
		Success:       true,
		Status:        "initialized",
		TotalEmails:   totals.Emails,
		BankEmails:    bank,
		RegularEmails: totals.Emails - bank,
		UnreadEmails:  totals.Unread,
		Message: fmt.Sprintf("Email inbox contains %d emails (%d bank emails, %d unread)",
			totals.Emails, bank, totals.Unread),
		Initialized: true,
	}, nil
}

func (e *EmailTools) folderSummary(_ context.Context, _ json.RawMessage) (any, error) {
	folders := e.store.FolderSummaries()
	summary := make([]FolderInfo, 0, len(folders))
	for _, f := range folders {
		summary = append(summary, FolderInfo{
			Name:        f.Name,
			EmailCount:  f.EmailCount,
			UnreadCount: f.UnreadCount,
		})
	}
	return FolderSummaryResult{
		Success:      true,
		Folders:      summary,
		TotalFolders: len(summary),
	}, nil
}

func (e *EmailTools) generateSamples(_ context.Context, args json.RawMessage) (any, error) {
	params := struct {
		Count int `json:"count"`
	}{Count: 5}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	generated := e.generator.Samples(params.Count)
	out := make([]GeneratedEmail, 0, len(generated))
	for _, email := range generated {
		out = append(out, GeneratedEmail{ID: email.ID, Subject: email.Subject, Sender: email.Sender})
	}
	return GenerateEmailsResult{
		Success:         true,
		GeneratedEmails: out,
		Count:           params.Count,
		Message:         fmt.Sprintf("Generated %d sample emails", params.Count),
	}, nil
}

func (e *EmailTools) generateBankEmails(_ context.Context, args json.RawMessage) (any, error) {
	params := struct {
		Count int `json:"count"`
	}{Count: 10}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	generated := e.generator.BankEmails(params.Count)
	out := make([]GeneratedEmail, 0, len(generated))
	for _, email := range generated {
		bank := ""
		switch {
		case email.HasTag(seed.BankRBS):
			bank = seed.BankRBS
		case email.HasTag(seed.BankFI):
			bank = seed.BankFI
		}
		out = append(out, GeneratedEmail{
			ID:       email.ID,
			Subject:  email.Subject,
			Sender:   email.Sender,
			Bank:     bank,
			Priority: string(email.Priority),
		})
	}
	return GenerateEmailsResult{
		Success:         true,
		GeneratedEmails: out,
		Count:           params.Count,
		Message:         fmt.Sprintf("Generated %d bank emails from RBS and FI Bank", params.Count),
	}, nil
}

func (e *EmailTools) initializeInbox(_ context.Context, _ json.RawMessage) (any, error) {
	res := e.generator.InitializeFixtures()
	if !res.Applied {
		return InitializeResult{
			Success:    true,
			Message:    fmt.Sprintf("Email inbox already initialized with %d emails", res.TotalEmails),
			EmailCount: res.TotalEmails,
			Action:     "skipped",
		}, nil
	}
	return InitializeResult{
		Success:       true,
		Message:       "Email inbox initialized successfully",
		TotalEmails:   res.TotalEmails,
		BankEmails:    res.BankEmails,
		RegularEmails: res.RegularEmails,
		Action:        "initialized",
	}, nil
}

func summarize(emails []*mailbox.Email, withFolder bool) []EmailSummary {
	out := make([]EmailSummary, 0, len(emails))
	for _, email := range emails {
		s := EmailSummary{
			ID:       email.ID,
			Subject:  email.Subject,
			Sender:   email.Sender,
			Date:     email.Timestamp.Format(summaryDateFormat),
			Status:   string(email.Status),
			Priority: string(email.Priority),
		}
		if withFolder {
			s.Folder = email.Folder
		}
		out = append(out, s)
	}
	return out
}
