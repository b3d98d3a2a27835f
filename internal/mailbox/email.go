package mailbox

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an email.
type Status string

const (
	StatusUnread    Status = "unread"
	StatusRead      Status = "read"
	StatusReplied   Status = "replied"
	StatusForwarded Status = "forwarded"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

// ParseStatus converts a string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusUnread, StatusRead, StatusReplied, StatusForwarded, StatusArchived, StatusDeleted:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown email status: %q", s)
	}
}

// Priority indicates how urgent an email is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ParsePriority converts a string into a Priority, rejecting unknown values.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return Priority(s), nil
	default:
		return "", fmt.Errorf("unknown email priority: %q", s)
	}
}

// Attachment holds attachment metadata. Binary content is not stored.
type Attachment struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// NewAttachment creates attachment metadata with a generated id.
func NewAttachment(filename string, size int64, contentType string) Attachment {
	return Attachment{
		ID:          uuid.New().String(),
		Filename:    filename,
		Size:        size,
		ContentType: contentType,
	}
}

// Email is a single message record. ID and Timestamp are immutable once the
// record is stored; Status and Folder are mutated only through Store
// operations.
type Email struct {
	ID          string       `json:"id"`
	Subject     string       `json:"subject"`
	Sender      string       `json:"sender"`
	Recipients  []string     `json:"recipients"`
	CC          []string     `json:"cc,omitempty"`
	BCC         []string     `json:"bcc,omitempty"`
	Body        string       `json:"body"`
	HTMLBody    string       `json:"html_body,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
	Status      Status       `json:"status"`
	Priority    Priority     `json:"priority"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Folder      string       `json:"folder"`
	ThreadID    string       `json:"thread_id,omitempty"`
	InReplyTo   string       `json:"in_reply_to,omitempty"`
	Tags        []string     `json:"tags,omitempty"`

	// seq is the insertion order, used as the deterministic tie-break when
	// two emails share a timestamp.
	seq uint64
}

// HasTag reports whether the email carries the given tag.
func (e *Email) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Folder is a named partition of emails with cached counts. The counts are
// derived data, refreshed by the store after every relevant mutation.
type Folder struct {
	Name        string `json:"name"`
	EmailCount  int    `json:"email_count"`
	UnreadCount int    `json:"unread_count"`
}
