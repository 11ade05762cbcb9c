package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driving"
)

// validate checks request DTOs against their struct tags
var validate = validator.New()

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse represents a simple status response
type StatusResponse struct {
	Status string `json:"status"`
}

// Health endpoints

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports readiness plus current capability flags, so
// operators can see at a glance whether AI providers are wired up.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	if err := s.responseCache.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "cache unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":               "ready",
		"cache_backend":        s.runtimeConfig.CacheBackend,
		"embedding_available":  s.runtimeConfig.EmbeddingAvailable(),
		"completion_available": s.runtimeConfig.CompletionAvailable(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// RegisterRequest is the account creation payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "email, name, and a password of at least 8 characters are required")
		return
	}

	user, err := s.userService.Register(r.Context(), driving.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "email already registered")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid input")
		default:
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// LoginRequest is the authentication payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries a minted token and its user
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := s.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "authentication failed")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: result.Token, User: result.User})
}

// User endpoints

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := s.userService.Get(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Document endpoints

// DocumentRequest is the create/update payload for a knowledge document
type DocumentRequest struct {
	Title         string            `json:"title" validate:"required"`
	Content       string            `json:"content" validate:"required"`
	Category      string            `json:"category" validate:"required"`
	Keywords      []string          `json:"keywords,omitempty"`
	EvidenceLevel string            `json:"evidence_level" validate:"required"`
	Source        string            `json:"source,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`

	// Personal scopes the document to the authenticated user instead of
	// the shared general pool.
	Personal bool `json:"personal,omitempty"`
}

func (req *DocumentRequest) toDomain(userID string) *domain.Document {
	doc := &domain.Document{
		Title:         req.Title,
		Content:       req.Content,
		Category:      domain.Category(req.Category),
		Keywords:      req.Keywords,
		EvidenceLevel: domain.EvidenceLevel(req.EvidenceLevel),
		Source:        req.Source,
		Tags:          req.Tags,
		Metadata:      req.Metadata,
	}
	if req.Personal {
		doc.UserID = userID
	}
	return doc
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "title, content, category, and evidence_level are required")
		return
	}

	doc, err := s.documentService.Create(r.Context(), req.toDomain(claims.UserID))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid category or evidence level")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create document")
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documentService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load document")
		return
	}

	claims := GetClaims(r.Context())
	if claims == nil || !doc.VisibleTo(claims.UserID) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "title, content, category, and evidence_level are required")
		return
	}

	doc := req.toDomain(claims.UserID)
	doc.ID = r.PathValue("id")

	updated, err := s.documentService.Update(r.Context(), doc)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid category or evidence level")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update document")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.documentService.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	filter := &domain.DocumentFilter{}
	if c := r.URL.Query().Get("category"); c != "" {
		filter.Categories = []domain.Category{domain.Category(c)}
	}
	if e := r.URL.Query().Get("evidence_level"); e != "" {
		filter.EvidenceLevels = []domain.EvidenceLevel{domain.EvidenceLevel(e)}
	}
	if src := r.URL.Query().Get("source"); src != "" {
		filter.Sources = []string{src}
	}
	if r.URL.Query().Get("mine") == "true" {
		filter.OwnerID = &claims.UserID
	}

	limit := queryInt(r, "limit", 20)

	docs, err := s.documentService.List(r.Context(), filter, limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid filter")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"count":     len(docs),
	})
}

// BulkLoadRequest is a batch of documents for background ingestion
type BulkLoadRequest struct {
	Documents []DocumentRequest `json:"documents" validate:"required,min=1,dive"`
}

// BulkLoadResponse returns the queued task handle
type BulkLoadResponse struct {
	TaskID string `json:"task_id"`
	Count  int    `json:"count"`
}

func (s *Server) handleBulkLoad(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req BulkLoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "at least one complete document is required")
		return
	}

	docs := make([]*domain.Document, len(req.Documents))
	for i := range req.Documents {
		docs[i] = req.Documents[i].toDomain(claims.UserID)
	}

	taskID, err := s.documentService.BulkLoad(r.Context(), docs)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "batch contains invalid documents")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to enqueue batch")
		return
	}

	writeJSON(w, http.StatusAccepted, BulkLoadResponse{TaskID: taskID, Count: len(docs)})
}

// Search endpoints

// SearchRequest asks for ranked citations
type SearchRequest struct {
	Query          string   `json:"query" validate:"required"`
	Limit          int      `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
	Categories     []string `json:"categories,omitempty"`
	EvidenceLevels []string `json:"evidence_levels,omitempty"`
	Sources        []string `json:"sources,omitempty"`

	// Personal includes the caller's own documents alongside the
	// general pool.
	Personal bool `json:"personal,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	filter := &domain.DocumentFilter{Sources: req.Sources}
	for _, c := range req.Categories {
		filter.Categories = append(filter.Categories, domain.Category(c))
	}
	for _, e := range req.EvidenceLevels {
		filter.EvidenceLevels = append(filter.EvidenceLevels, domain.EvidenceLevel(e))
	}

	opts := domain.SearchOptions{
		Filter: filter,
		Limit:  req.Limit,
	}
	if req.Personal {
		opts.UserID = claims.UserID
		filter.OwnerID = &claims.UserID
	}

	resp, err := s.retrievalService.SearchDocuments(r.Context(), req.Query, opts)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid search filter")
			return
		}
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Chat endpoints

// GenerateRequest asks for a contextual natural-language response
type GenerateRequest struct {
	Query        string `json:"query" validate:"required"`
	SessionID    string `json:"session_id" validate:"required"`
	GenerationID string `json:"generation_id,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "query and session_id are required")
		return
	}

	result, err := s.retrievalService.GenerateContextualResponse(r.Context(), driving.GenerationRequest{
		Query:        req.Query,
		UserID:       claims.UserID,
		SessionID:    req.SessionID,
		GenerationID: req.GenerationID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGenerationCancelled):
			writeError(w, http.StatusConflict, "generation cancelled")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid input")
		default:
			writeError(w, http.StatusInternalServerError, "generation failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCancelGeneration(w http.ResponseWriter, r *http.Request) {
	if err := s.retrievalService.CancelGeneration(r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrGenerationNotFound) {
			writeError(w, http.StatusNotFound, "no active generation with that id")
			return
		}
		writeError(w, http.StatusInternalServerError, "cancellation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	limit := queryInt(r, "limit", 20)

	msgs, err := s.conversationService.History(r.Context(), claims.UserID, r.PathValue("session"), limit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": msgs,
		"count":    len(msgs),
	})
}

// ProfileRequest replaces the caller's declared wellness profile
type ProfileRequest struct {
	Conditions  []string `json:"conditions,omitempty"`
	Medications []string `json:"medications,omitempty"`
	Goals       []string `json:"goals,omitempty"`
	Style       string   `json:"style,omitempty"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := domain.UserProfile{
		Conditions:  req.Conditions,
		Medications: req.Medications,
		Goals:       req.Goals,
		Style:       domain.CommunicationStyle(req.Style),
	}

	if err := s.conversationService.UpdateProfile(r.Context(), claims.UserID, r.PathValue("session"), profile); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Admin endpoints

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := s.responseCache.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cache")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helper functions

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
