package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dstoyanov/agentbox/internal/agent"
	"github.com/dstoyanov/agentbox/internal/mailbox"
	"github.com/dstoyanov/agentbox/internal/seed"
	"github.com/dstoyanov/agentbox/internal/version"
)

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	agentStatus := "ok"
	if s.orchestrator == nil {
		agentStatus = "disabled"
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.Short(),
		Uptime:  time.Since(s.startTime).String(),
		Services: map[string]string{
			"mailbox": "ok",
			"agent":   agentStatus,
		},
	})
}

// Auth handlers

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	if !s.jwtAuth.CheckAPIKey(req.APIKey) {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid API key")
		return
	}

	token, expiresAt, err := s.jwtAuth.GenerateToken("api")
	if err != nil {
		s.logger.Error("failed to generate token", "error", err)
		respondError(w, http.StatusInternalServerError, "TOKEN_ERROR", "failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"name":    claims.Name,
		"subject": claims.Subject,
	})
}

// Workflow handlers

func (s *Server) handleRunWorkflow(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		respondError(w, http.StatusServiceUnavailable, "AGENT_DISABLED", "no LLM provider configured")
		return
	}

	var req WorkflowRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := s.orchestrator.Run(r.Context(), req.Message)
	truncated := false
	switch {
	case errors.Is(err, agent.ErrMaxSteps):
		truncated = true
	case err != nil:
		s.logger.Error("workflow run failed", "error", err)
		respondError(w, http.StatusBadGateway, "AGENT_ERROR", "agent run failed")
		return
	}

	respondJSON(w, http.StatusOK, WorkflowResponse{
		Answer:    result.Answer,
		Steps:     result.Steps,
		ToolCalls: result.ToolCalls,
		Usage:     result.Usage,
		Truncated: truncated,
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.registry.Definitions())
}

// Mailbox handlers

func (s *Server) handleListEmails(w http.ResponseWriter, r *http.Request) {
	folder := r.URL.Query().Get("folder")
	if folder == "" {
		folder = mailbox.FolderInbox
	}
	if !s.store.HasFolder(folder) {
		respondError(w, http.StatusNotFound, "FOLDER_NOT_FOUND", "unknown folder: "+folder)
		return
	}

	limit := queryInt(r, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	emails := s.store.List(folder, limit, offset)
	summaries := make([]EmailSummary, 0, len(emails))
	for _, e := range emails {
		summaries = append(summaries, summarize(e))
	}

	total := 0
	for _, f := range s.store.FolderSummaries() {
		if f.Name == folder {
			total = f.EmailCount
			break
		}
	}

	respondJSONWithMeta(w, http.StatusOK, summaries, &Meta{
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *Server) handleSearchEmails(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "MISSING_QUERY", "query parameter 'q' is required")
		return
	}

	folder := r.URL.Query().Get("folder")
	if folder != "" && !s.store.HasFolder(folder) {
		respondError(w, http.StatusNotFound, "FOLDER_NOT_FOUND", "unknown folder: "+folder)
		return
	}

	emails := s.store.Search(query, folder)
	summaries := make([]EmailSummary, 0, len(emails))
	for _, e := range emails {
		summaries = append(summaries, summarize(e))
	}

	respondJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetEmail(w http.ResponseWriter, r *http.Request) {
	email := s.store.Get(chi.URLParam(r, "emailID"))
	if email == nil {
		respondError(w, http.StatusNotFound, "EMAIL_NOT_FOUND", "email not found")
		return
	}

	respondJSON(w, http.StatusOK, email)
}

func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req SendEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	priority := mailbox.PriorityNormal
	if req.Priority != "" {
		p, err := mailbox.ParsePriority(req.Priority)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PRIORITY", err.Error())
			return
		}
		priority = p
	}

	email := &mailbox.Email{
		Subject:    req.Subject,
		Sender:     s.generator.UserAddress(),
		Recipients: req.To,
		CC:         req.CC,
		Body:       req.Body,
		Timestamp:  time.Now(),
		Status:     mailbox.StatusRead,
		Priority:   priority,
		Folder:     mailbox.FolderSent,
	}
	id := s.store.Add(email)

	s.logger.Info("email sent", "email_id", id, "recipients", len(req.To))
	respondJSON(w, http.StatusCreated, summarize(s.store.Get(id)))
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "emailID")
	if s.store.MarkAsRead(id) {
		respondJSON(w, http.StatusOK, summarize(s.store.Get(id)))
		return
	}

	if s.store.Get(id) == nil {
		respondError(w, http.StatusNotFound, "EMAIL_NOT_FOUND", "email not found")
		return
	}
	respondError(w, http.StatusConflict, "NOT_UNREAD", "email is not unread")
}

func (s *Server) handleMoveEmail(w http.ResponseWriter, r *http.Request) {
	var req MoveEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	if !s.store.HasFolder(req.Folder) {
		respondError(w, http.StatusBadRequest, "FOLDER_NOT_FOUND", "unknown folder: "+req.Folder)
		return
	}

	id := chi.URLParam(r, "emailID")
	if !s.store.Move(id, req.Folder) {
		respondError(w, http.StatusNotFound, "EMAIL_NOT_FOUND", "email not found")
		return
	}

	respondJSON(w, http.StatusOK, summarize(s.store.Get(id)))
}

func (s *Server) handleDeleteEmail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "emailID")
	if !s.store.Delete(id) {
		respondError(w, http.StatusNotFound, "EMAIL_NOT_FOUND", "email not found")
		return
	}

	// Still present means it was soft-deleted into trash.
	if email := s.store.Get(id); email != nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"deleted":   true,
			"permanent": false,
			"folder":    email.Folder,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"deleted":   true,
		"permanent": true,
	})
}

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.FolderSummaries())
}

func (s *Server) handleInboxStatus(w http.ResponseWriter, r *http.Request) {
	totals := s.store.TotalCounts(seed.BankRBS, seed.BankFI)

	status := "initialized"
	if totals.Emails == 0 {
		status = "empty"
	}

	respondJSON(w, http.StatusOK, InboxStatusResponse{
		Status:       status,
		TotalEmails:  totals.Emails,
		UnreadCount:  totals.Unread,
		RBSEmails:    totals.Tagged[seed.BankRBS],
		FIBankEmails: totals.Tagged[seed.BankFI],
	})
}

// Seeding handlers

func (s *Server) handleSeedSamples(w http.ResponseWriter, r *http.Request) {
	count, ok := s.decodeSeedCount(w, r, 5)
	if !ok {
		return
	}

	emails := s.generator.Samples(count)
	respondJSON(w, http.StatusCreated, seedResponse(emails))
}

func (s *Server) handleSeedBank(w http.ResponseWriter, r *http.Request) {
	count, ok := s.decodeSeedCount(w, r, 10)
	if !ok {
		return
	}

	emails := s.generator.BankEmails(count)
	respondJSON(w, http.StatusCreated, seedResponse(emails))
}

func (s *Server) handleSeedFixtures(w http.ResponseWriter, r *http.Request) {
	result := s.generator.InitializeFixtures()
	if !result.Applied {
		respondError(w, http.StatusConflict, "ALREADY_INITIALIZED", "inbox already contains emails")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"total_emails":   result.TotalEmails,
		"bank_emails":    result.BankEmails,
		"regular_emails": result.RegularEmails,
	})
}

// decodeSeedCount reads an optional SeedRequest body. An empty body is valid
// and yields the default count.
func (s *Server) decodeSeedCount(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	var req SeedRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return 0, false
	}

	if err := s.validator.Struct(req); err != nil {
		respondValidationError(w, err)
		return 0, false
	}

	if req.Count == 0 {
		return def, true
	}
	return req.Count, true
}

func seedResponse(emails []*mailbox.Email) SeedResponse {
	summaries := make([]EmailSummary, 0, len(emails))
	for _, e := range emails {
		summaries = append(summaries, summarize(e))
	}
	return SeedResponse{Generated: len(summaries), Emails: summaries}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
