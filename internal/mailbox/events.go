package mailbox

import "strings"

// Event types published by the store.
const (
	EmailAdded   = "email.added"
	EmailRead    = "email.read"
	EmailMoved   = "email.moved"
	EmailDeleted = "email.deleted"
	EmailPurged  = "email.purged"
)

// EmailEventData is the payload attached to store events.
type EmailEventData struct {
	EmailID string `json:"email_id"`
	Folder  string `json:"folder"`
}

// containsFold reports whether substr occurs in s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
