package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dstoyanov/agentbox/internal/agent"
	"github.com/dstoyanov/agentbox/internal/llm"
	"github.com/dstoyanov/agentbox/internal/mailbox"
	"github.com/dstoyanov/agentbox/internal/seed"
	"github.com/dstoyanov/agentbox/internal/tools"
)

const testAPIKey = "test-api-key"

// testResponse mirrors Response with raw data for per-test decoding.
type testResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
	Meta    *Meta           `json:"meta"`
}

func newTestServer(t *testing.T) (*Server, *mailbox.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := mailbox.New(logger)
	generator := seed.New(store, "user@example.com", logger)

	registry := tools.NewRegistry(logger)
	if err := tools.NewEmailTools(store, generator, "user@example.com").Register(registry); err != nil {
		t.Fatalf("register tools: %v", err)
	}

	cfg := DefaultConfig()
	cfg.APIKey = testAPIKey
	cfg.EnableCORS = false

	return New(cfg, store, generator, registry, logger), store
}

func doRequest(t *testing.T, s *Server, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("X-API-Key", testAPIKey)
	}

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) testResponse {
	t.Helper()

	var resp testResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func addEmail(t *testing.T, store *mailbox.Store, subject string) string {
	t.Helper()

	return store.Add(&mailbox.Email{
		Subject:    subject,
		Sender:     "sender@example.com",
		Recipients: []string{"user@example.com"},
		Body:       "body of " + subject,
		Timestamp:  time.Now(),
		Status:     mailbox.StatusUnread,
		Priority:   mailbox.PriorityNormal,
		Folder:     mailbox.FolderInbox,
	})
}

func TestHealthNoAuth(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/health", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := decodeResponse(t, w)
	var health HealthResponse
	if err := json.Unmarshal(resp.Data, &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("expected status ok, got %q", health.Status)
	}
	if health.Services["agent"] != "disabled" {
		t.Errorf("expected agent disabled, got %q", health.Services["agent"])
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/v1/mailbox/emails", nil, false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}

	resp := decodeResponse(t, w)
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.Error == nil || resp.Error.Code != "UNAUTHORIZED" {
		t.Errorf("expected UNAUTHORIZED error, got %+v", resp.Error)
	}
}

func TestTokenExchangeAndBearerAuth(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/v1/auth/token", TokenRequest{APIKey: testAPIKey}, false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	var tok TokenResponse
	if err := json.Unmarshal(resp.Data, &tok); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("expected a token")
	}
	if !tok.ExpiresAt.After(time.Now()) {
		t.Error("token already expired")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestTokenExchangeInvalidKey(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/v1/auth/token", TokenRequest{APIKey: "wrong"}, false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestListEmailsDefaultFolder(t *testing.T) {
	s, store := newTestServer(t)
	addEmail(t, store, "First")
	addEmail(t, store, "Second")

	w := doRequest(t, s, http.MethodGet, "/api/v1/mailbox/emails", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := decodeResponse(t, w)
	var summaries []EmailSummary
	if err := json.Unmarshal(resp.Data, &summaries); err != nil {
		t.Fatalf("decode summaries: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(summaries))
	}
	if resp.Meta == nil || resp.Meta.Total != 2 {
		t.Errorf("expected meta total 2, got %+v", resp.Meta)
	}
	if summaries[0].Folder != mailbox.FolderInbox {
		t.Errorf("expected inbox folder, got %q", summaries[0].Folder)
	}
}

func TestListEmailsUnknownFolder(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/v1/mailbox/emails?folder=nope", nil, true)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	resp := decodeResponse(t, w)
	if resp.Error == nil || resp.Error.Code != "FOLDER_NOT_FOUND" {
		t.Errorf("expected FOLDER_NOT_FOUND, got %+v", resp.Error)
	}
}

func TestGetEmailNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/v1/mailbox/emails/missing", nil, true)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestSendEmail(t *testing.T) {
	s, store := newTestServer(t)

	req := SendEmailRequest{
		To:      []string{"dest@example.com"},
		Subject: "Hello",
		Body:    "Hi there",
	}
	w := doRequest(t, s, http.MethodPost, "/api/v1/mailbox/emails", req, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	var summary EmailSummary
	if err := json.Unmarshal(resp.Data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Folder != mailbox.FolderSent {
		t.Errorf("expected sent folder, got %q", summary.Folder)
	}
	if summary.Sender != "user@example.com" {
		t.Errorf("expected configured sender, got %q", summary.Sender)
	}
	if store.Get(summary.ID) == nil {
		t.Error("sent email not in store")
	}
}

func TestSendEmailValidation(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/v1/mailbox/emails", SendEmailRequest{Subject: "no recipients"}, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	resp := decodeResponse(t, w)
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %+v", resp.Error)
	}
}

func TestSendEmailInvalidPriority(t *testing.T) {
	s, _ := newTestServer(t)

	req := SendEmailRequest{
		To:       []string{"dest@example.com"},
		Subject:  "Hello",
		Body:     "Hi",
		Priority: "extreme",
	}
	w := doRequest(t, s, http.MethodPost, "/api/v1/mailbox/emails", req, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestMarkReadTwice(t *testing.T) {
	s, store := newTestServer(t)
	id := addEmail(t, store, "Unread")

	w := doRequest(t, s, http.MethodPost, "/api/v1/mailbox/emails/"+id+"/read", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	w = doRequest(t, s, http.MethodPost, "/api/v1/mailbox/emails/"+id+"/read", nil, true)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status %d on second read, got %d", http.StatusConflict, w.Code)
	}
}

func TestMoveEmail(t *testing.T) {
	s, store := newTestServer(t)
	id := addEmail(t, store, "Movable")

	w := doRequest(t, s, http.MethodPost, "/api/v1/mailbox/emails/"+id+"/move", MoveEmailRequest{Folder: mailbox.FolderArchive}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	if got := store.Get(id).Folder; got != mailbox.FolderArchive {
		t.Errorf("expected archive folder, got %q", got)
	}

	w = doRequest(t, s, http.MethodPost, "/api/v1/mailbox/emails/"+id+"/move", MoveEmailRequest{Folder: "nope"}, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d for unknown folder, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestDeleteEmailTwoStage(t *testing.T) {
	s, store := newTestServer(t)
	id := addEmail(t, store, "Doomed")

	w := doRequest(t, s, http.MethodDelete, "/api/v1/mailbox/emails/"+id, nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := decodeResponse(t, w)
	var first struct {
		Permanent bool   `json:"permanent"`
		Folder    string `json:"folder"`
	}
	if err := json.Unmarshal(resp.Data, &first); err != nil {
		t.Fatalf("decode delete result: %v", err)
	}
	if first.Permanent {
		t.Error("first delete should be soft")
	}
	if first.Folder != mailbox.FolderTrash {
		t.Errorf("expected trash folder, got %q", first.Folder)
	}

	w = doRequest(t, s, http.MethodDelete, "/api/v1/mailbox/emails/"+id, nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d on purge, got %d", http.StatusOK, w.Code)
	}
	if store.Get(id) != nil {
		t.Error("email should be purged")
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/v1/mailbox/emails/search", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestSearchEmails(t *testing.T) {
	s, store := newTestServer(t)
	addEmail(t, store, "Quarterly report")
	addEmail(t, store, "Lunch plans")

	w := doRequest(t, s, http.MethodGet, "/api/v1/mailbox/emails/search?q=quarterly", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := decodeResponse(t, w)
	var summaries []EmailSummary
	if err := json.Unmarshal(resp.Data, &summaries); err != nil {
		t.Fatalf("decode summaries: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 match, got %d", len(summaries))
	}
	if summaries[0].Subject != "Quarterly report" {
		t.Errorf("unexpected match: %q", summaries[0].Subject)
	}
}

func TestSeedFixturesOnce(t *testing.T) {
	s, store := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/v1/mailbox/seed/fixtures", nil, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	if got := store.TotalCounts().Emails; got != 11 {
		t.Fatalf("expected 11 fixture emails, got %d", got)
	}

	w = doRequest(t, s, http.MethodPost, "/api/v1/mailbox/seed/fixtures", nil, true)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status %d on repeat, got %d", http.StatusConflict, w.Code)
	}
}

func TestSeedSamplesCount(t *testing.T) {
	s, store := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/v1/mailbox/seed/samples", SeedRequest{Count: 3}, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	var seeded SeedResponse
	if err := json.Unmarshal(resp.Data, &seeded); err != nil {
		t.Fatalf("decode seed response: %v", err)
	}
	if seeded.Generated != 3 {
		t.Errorf("expected 3 generated, got %d", seeded.Generated)
	}
	if got := store.TotalCounts().Emails; got != 3 {
		t.Errorf("expected 3 emails in store, got %d", got)
	}
}

func TestInboxStatus(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/v1/mailbox/status", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := decodeResponse(t, w)
	var status InboxStatusResponse
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Status != "empty" {
		t.Errorf("expected empty status, got %q", status.Status)
	}

	doRequest(t, s, http.MethodPost, "/api/v1/mailbox/seed/fixtures", nil, true)

	w = doRequest(t, s, http.MethodGet, "/api/v1/mailbox/status", nil, true)
	resp = decodeResponse(t, w)
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Status != "initialized" {
		t.Errorf("expected initialized status, got %q", status.Status)
	}
	if status.RBSEmails != 4 || status.FIBankEmails != 4 {
		t.Errorf("expected 4 emails per bank, got rbs=%d fi=%d", status.RBSEmails, status.FIBankEmails)
	}
}

func TestListFolders(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/v1/mailbox/folders", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := decodeResponse(t, w)
	var folders []mailbox.Folder
	if err := json.Unmarshal(resp.Data, &folders); err != nil {
		t.Fatalf("decode folders: %v", err)
	}
	if len(folders) != 6 {
		t.Errorf("expected 6 folders, got %d", len(folders))
	}
}

func TestListTools(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/v1/tools", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := decodeResponse(t, w)
	var defs []tools.Definition
	if err := json.Unmarshal(resp.Data, &defs); err != nil {
		t.Fatalf("decode definitions: %v", err)
	}
	if len(defs) != 12 {
		t.Errorf("expected 12 tool definitions, got %d", len(defs))
	}
}

func TestRunWorkflowDisabled(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/v1/run-workflow", WorkflowRequest{Message: "hello"}, true)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
}

// staticClient always answers with canned content, no tool calls.
type staticClient struct {
	content string
}

func (c *staticClient) Name() string { return "static" }

func (c *staticClient) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	return &llm.ChatResponse{
		Content:    c.content,
		StopReason: "stop",
		Usage:      llm.Usage{InputTokens: 10, OutputTokens: 5},
	}, nil
}

func (c *staticClient) Close() error { return nil }

func TestRunWorkflow(t *testing.T) {
	s, _ := newTestServer(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.SetOrchestrator(agent.New(&staticClient{content: "All done."}, s.registry, agent.Config{}, logger))

	w := doRequest(t, s, http.MethodPost, "/api/v1/run-workflow", WorkflowRequest{Message: "do something"}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	var result WorkflowResponse
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		t.Fatalf("decode workflow response: %v", err)
	}
	if result.Answer != "All done." {
		t.Errorf("unexpected answer: %q", result.Answer)
	}
	if result.Steps != 1 {
		t.Errorf("expected 1 step, got %d", result.Steps)
	}
	if result.Truncated {
		t.Error("run should not be truncated")
	}
}

func TestRunWorkflowValidation(t *testing.T) {
	s, _ := newTestServer(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.SetOrchestrator(agent.New(&staticClient{content: "x"}, s.registry, agent.Config{}, logger))

	w := doRequest(t, s, http.MethodPost, "/api/v1/run-workflow", WorkflowRequest{}, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
