// Package mailbox implements an in-memory transactional store of email
// records organized into folders with cached counts. State lives only for
// the lifetime of the process.
package mailbox

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Well-known folder names. The folder set is fixed at store construction.
const (
	FolderInbox   = "inbox"
	FolderSent    = "sent"
	FolderDrafts  = "drafts"
	FolderTrash   = "trash"
	FolderSpam    = "spam"
	FolderArchive = "archive"
)

// DefaultFolders is the fixed folder set every store starts with.
var DefaultFolders = []string{
	FolderInbox,
	FolderSent,
	FolderDrafts,
	FolderTrash,
	FolderSpam,
	FolderArchive,
}

// Publisher receives store mutation events. The event bus satisfies this.
type Publisher interface {
	Publish(eventType string, data any)
}

// Store owns all email records and the folder registry. Every operation,
// read or write, runs under a single mutex so cached folder counts always
// match a full rescan between operations.
type Store struct {
	mu      sync.Mutex
	emails  map[string]*Email
	folders map[string]*Folder
	nextSeq uint64
	logger  *slog.Logger
	events  Publisher
}

// Option configures a Store.
type Option func(*Store)

// WithPublisher attaches an event publisher to the store. Mutations are
// published after the store state has been updated.
func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.events = p }
}

// New creates an empty store with the default folder set.
func New(logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		emails:  make(map[string]*Email),
		folders: make(map[string]*Folder, len(DefaultFolders)),
		logger:  logger.With("component", "mailbox-store"),
	}
	for _, name := range DefaultFolders {
		s.folders[name] = &Folder{Name: name}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add inserts an email and returns its id. Missing fields are defaulted:
// id is generated, folder falls back to inbox, status to unread, priority
// to normal and the timestamp to now. An explicit id that already exists
// overwrites the previous record (last write wins).
func (s *Store) Add(email *Email) string {
	s.mu.Lock()

	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	if email.Folder == "" {
		email.Folder = FolderInbox
	}
	if email.Status == "" {
		email.Status = StatusUnread
	}
	if email.Priority == "" {
		email.Priority = PriorityNormal
	}
	if email.Timestamp.IsZero() {
		email.Timestamp = time.Now()
	}

	s.nextSeq++
	email.seq = s.nextSeq
	s.emails[email.ID] = email
	s.recompute(email.Folder)

	id, folder := email.ID, email.Folder
	s.mu.Unlock()

	s.logger.Debug("email added", "email_id", id, "folder", folder)
	s.publish(EmailAdded, id, folder)
	return id
}

// Get returns a snapshot of the email with the given id, or nil if it does
// not exist. Deleted records still in trash are returned; purged records
// are not.
func (s *Store) Get(id string) *Email {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.emails[id]
	if !ok {
		return nil
	}
	return snapshot(email)
}

// List returns emails in a folder ordered newest first, excluding deleted
// records, windowed by offset and limit. An out-of-range offset yields an
// empty slice. Results are snapshots; mutating them does not touch the
// store.
func (s *Store) List(folder string, limit, offset int) []*Email {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.collect(func(e *Email) bool {
		return e.Folder == folder && e.Status != StatusDeleted
	})

	if offset >= len(matched) || offset < 0 {
		return []*Email{}
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end]
}

// Search returns non-deleted emails whose subject, sender or body contains
// the query, matched case-insensitively. Any single field matching is
// sufficient. A non-empty folder restricts the scope. Results are ordered
// newest first and are not paginated.
func (s *Store) Search(query, folder string) []*Email {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(e *Email) bool {
		if e.Status == StatusDeleted {
			return false
		}
		if folder != "" && e.Folder != folder {
			return false
		}
		return containsFold(e.Subject, query) ||
			containsFold(e.Sender, query) ||
			containsFold(e.Body, query)
	})
}

// MarkAsRead transitions an unread email to read and returns true. It
// returns false, without side effects, when the email does not exist or is
// in any state other than unread. The transition is one-way.
func (s *Store) MarkAsRead(id string) bool {
	s.mu.Lock()

	email, ok := s.emails[id]
	if !ok || email.Status != StatusUnread {
		s.mu.Unlock()
		return false
	}
	email.Status = StatusRead
	s.recompute(email.Folder)

	folder := email.Folder
	s.mu.Unlock()

	s.logger.Debug("email marked read", "email_id", id)
	s.publish(EmailRead, id, folder)
	return true
}

// Move relocates an email to the target folder, recomputing counts for both
// endpoints. It returns false when either the email or the folder does not
// exist. Moving to the current folder is legal and leaves counts unchanged.
func (s *Store) Move(id, targetFolder string) bool {
	s.mu.Lock()

	email, ok := s.emails[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	if _, ok := s.folders[targetFolder]; !ok {
		s.mu.Unlock()
		return false
	}

	oldFolder := email.Folder
	email.Folder = targetFolder
	s.recompute(oldFolder)
	s.recompute(targetFolder)
	s.mu.Unlock()

	s.logger.Debug("email moved", "email_id", id, "from", oldFolder, "to", targetFolder)
	s.publish(EmailMoved, id, targetFolder)
	return true
}

// Delete applies two-tier delete semantics. An email outside trash moves to
// trash with status deleted and stays retrievable via Get. An email already
// in trash is removed permanently, attachments included. Returns false only
// when the id does not resolve. There is no path back out of deleted.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()

	email, ok := s.emails[id]
	if !ok {
		s.mu.Unlock()
		return false
	}

	if email.Folder == FolderTrash {
		delete(s.emails, id)
		s.recompute(FolderTrash)
		s.mu.Unlock()

		s.logger.Debug("email purged", "email_id", id)
		s.publish(EmailPurged, id, FolderTrash)
		return true
	}

	oldFolder := email.Folder
	email.Folder = FolderTrash
	email.Status = StatusDeleted
	s.recompute(oldFolder)
	s.recompute(FolderTrash)
	s.mu.Unlock()

	s.logger.Debug("email trashed", "email_id", id, "from", oldFolder)
	s.publish(EmailDeleted, id, FolderTrash)
	return true
}

// FolderSummaries returns the cached counts for every folder, ordered by the
// default folder set.
func (s *Store) FolderSummaries() []Folder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Folder, 0, len(DefaultFolders))
	for _, name := range DefaultFolders {
		out = append(out, *s.folders[name])
	}
	return out
}

// HasFolder reports whether a folder name exists in the registry.
func (s *Store) HasFolder(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.folders[name]
	return ok
}

// Totals holds store-wide aggregate counts.
type Totals struct {
	Emails int
	Unread int
	Tagged map[string]int
}

// TotalCounts returns store-wide counts. Tagged contains, for each of the
// given tags, the number of records carrying it. Deleted records in trash
// are included in Emails since they still occupy the store.
func (s *Store) TotalCounts(tags ...string) Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Totals{Emails: len(s.emails), Tagged: make(map[string]int, len(tags))}
	for _, email := range s.emails {
		if email.Status == StatusUnread {
			t.Unread++
		}
		for _, tag := range tags {
			if email.HasTag(tag) {
				t.Tagged[tag]++
			}
		}
	}
	return t
}

// recompute rescans the store and refreshes the cached counts of one
// folder. Callers must hold s.mu. This is the only mutation path for
// counts.
func (s *Store) recompute(folderName string) {
	folder, ok := s.folders[folderName]
	if !ok {
		return
	}

	emails, unread := 0, 0
	for _, email := range s.emails {
		if email.Folder != folderName || email.Status == StatusDeleted {
			continue
		}
		emails++
		if email.Status == StatusUnread {
			unread++
		}
	}
	folder.EmailCount = emails
	folder.UnreadCount = unread
}

// collect returns snapshots of all emails matching the predicate, ordered
// newest first with insertion order as the tie-break. Callers must hold
// s.mu.
func (s *Store) collect(match func(*Email) bool) []*Email {
	matched := make([]*Email, 0)
	for _, email := range s.emails {
		if match(email) {
			matched = append(matched, email)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].seq > matched[j].seq
	})
	for i, email := range matched {
		matched[i] = snapshot(email)
	}
	return matched
}

func (s *Store) publish(eventType, emailID, folder string) {
	if s.events == nil {
		return
	}
	s.events.Publish(eventType, EmailEventData{EmailID: emailID, Folder: folder})
}

// snapshot deep-copies an email so callers never hold a reference into the
// store.
func snapshot(e *Email) *Email {
	c := *e
	c.Recipients = append([]string(nil), e.Recipients...)
	c.CC = append([]string(nil), e.CC...)
	c.BCC = append([]string(nil), e.BCC...)
	c.Attachments = append([]Attachment(nil), e.Attachments...)
	c.Tags = append([]string(nil), e.Tags...)
	return &c
}
