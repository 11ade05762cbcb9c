package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven/mocks"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driving"
)

// Mock services for testing

type mockUserService struct {
	registerFn      func(ctx context.Context, input driving.RegisterInput) (*domain.User, error)
	loginFn         func(ctx context.Context, email, password string) (*driving.LoginResult, error)
	getFn           func(ctx context.Context, id string) (*domain.User, error)
	validateTokenFn func(ctx context.Context, token string) (*domain.TokenClaims, error)
}

func (m *mockUserService) Register(ctx context.Context, input driving.RegisterInput) (*domain.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*driving.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	if m.validateTokenFn != nil {
		return m.validateTokenFn(ctx, token)
	}
	// Default: any token belongs to user-1
	return &domain.TokenClaims{UserID: "user-1", Email: "amy@example.com"}, nil
}

type mockDocumentService struct {
	createFn   func(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	getFn      func(ctx context.Context, id string) (*domain.Document, error)
	updateFn   func(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	deleteFn   func(ctx context.Context, id string) error
	listFn     func(ctx context.Context, filter *domain.DocumentFilter, limit int) ([]*domain.Document, error)
	bulkLoadFn func(ctx context.Context, docs []*domain.Document) (string, error)
}

func (m *mockDocumentService) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if m.createFn != nil {
		return m.createFn(ctx, doc)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) Update(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, doc)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockDocumentService) List(ctx context.Context, filter *domain.DocumentFilter, limit int) ([]*domain.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) BulkLoad(ctx context.Context, docs []*domain.Document) (string, error) {
	if m.bulkLoadFn != nil {
		return m.bulkLoadFn(ctx, docs)
	}
	return "", errors.New("not implemented")
}

func (m *mockDocumentService) Ingest(ctx context.Context, docs []*domain.Document) error {
	return errors.New("not implemented")
}

type mockSearchService struct{}

func (m *mockSearchService) SearchSimilar(ctx context.Context, query string, filter *domain.DocumentFilter, limit int, threshold float64) []*domain.SearchResult {
	return nil
}

func (m *mockSearchService) HybridSearch(ctx context.Context, query string, filter *domain.DocumentFilter, limit int) []*domain.SearchResult {
	return nil
}

type mockRetrievalService struct {
	searchFn   func(ctx context.Context, query string, opts domain.SearchOptions) (*domain.RetrievalResponse, error)
	generateFn func(ctx context.Context, req driving.GenerationRequest) (*domain.GenerationResult, error)
	cancelFn   func(id string) error
}

func (m *mockRetrievalService) SearchDocuments(ctx context.Context, query string, opts domain.SearchOptions) (*domain.RetrievalResponse, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, opts)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRetrievalService) GenerateContextualResponse(ctx context.Context, req driving.GenerationRequest) (*domain.GenerationResult, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRetrievalService) CancelGeneration(id string) error {
	if m.cancelFn != nil {
		return m.cancelFn(id)
	}
	return errors.New("not implemented")
}

type mockConversationService struct {
	historyFn       func(ctx context.Context, userID, sessionID string, limit int) ([]domain.Message, error)
	updateProfileFn func(ctx context.Context, userID, sessionID string, profile domain.UserProfile) error
}

func (m *mockConversationService) GetOrCreate(ctx context.Context, userID, sessionID string) (*domain.ConversationContext, error) {
	return nil, errors.New("not implemented")
}

func (m *mockConversationService) AppendMessage(ctx context.Context, userID, sessionID string, msg domain.Message) error {
	return errors.New("not implemented")
}

func (m *mockConversationService) UpdateProfile(ctx context.Context, userID, sessionID string, profile domain.UserProfile) error {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, userID, sessionID, profile)
	}
	return errors.New("not implemented")
}

func (m *mockConversationService) History(ctx context.Context, userID, sessionID string, limit int) ([]domain.Message, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, userID, sessionID, limit)
	}
	return nil, errors.New("not implemented")
}

// pingerFunc adapts a function to the Pinger interface
type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// testServer bundles a server wired with mocks and its routed handler
type testServer struct {
	server       *Server
	handler      http.Handler
	users        *mockUserService
	documents    *mockDocumentService
	retrieval    *mockRetrievalService
	conversation *mockConversationService
	cache        *mocks.MockResponseCache
}

func newTestServer() *testServer {
	ts := &testServer{
		users:        &mockUserService{},
		documents:    &mockDocumentService{},
		retrieval:    &mockRetrievalService{},
		conversation: &mockConversationService{},
		cache:        mocks.NewMockResponseCache(),
	}

	ts.server = &Server{
		router:              http.NewServeMux(),
		version:             "test",
		userService:         ts.users,
		documentService:     ts.documents,
		searchService:       &mockSearchService{},
		retrievalService:    ts.retrieval,
		conversationService: ts.conversation,
		runtimeConfig:       domain.NewRuntimeConfig("memory"),
		responseCache:       ts.cache,
		db:                  pingerFunc(func(ctx context.Context) error { return nil }),
	}
	ts.handler = ts.server.buildHandler()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer test-token")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthHandler(t *testing.T) {
	ts := newTestServer()

	rr := ts.do(t, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}

func TestReadyHandler(t *testing.T) {
	ts := newTestServer()

	rr := ts.do(t, "GET", "/ready", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "ready" {
		t.Errorf("expected status 'ready', got %v", response["status"])
	}
	if response["cache_backend"] != "memory" {
		t.Errorf("expected cache_backend 'memory', got %v", response["cache_backend"])
	}
	if response["embedding_available"] != false {
		t.Errorf("expected embedding_available false, got %v", response["embedding_available"])
	}
}

func TestReadyHandler_DatabaseDown(t *testing.T) {
	ts := newTestServer()
	ts.server.db = pingerFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	rr := ts.do(t, "GET", "/ready", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}
}

func TestVersionHandler(t *testing.T) {
	ts := newTestServer()

	rr := ts.do(t, "GET", "/version", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["version"] != "test" {
		t.Errorf("expected version 'test', got %s", response["version"])
	}
}

func TestHandleRegister_Success(t *testing.T) {
	ts := newTestServer()
	ts.users.registerFn = func(ctx context.Context, input driving.RegisterInput) (*domain.User, error) {
		return &domain.User{ID: "user-1", Email: input.Email, Name: input.Name}, nil
	}

	rr := ts.do(t, "POST", "/api/v1/auth/register", RegisterRequest{
		Email:    "amy@example.com",
		Name:     "Amy",
		Password: "longenough",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var user domain.User
	if err := json.NewDecoder(rr.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("expected user-1, got %s", user.ID)
	}
}

func TestHandleRegister_ShortPassword(t *testing.T) {
	ts := newTestServer()

	rr := ts.do(t, "POST", "/api/v1/auth/register", RegisterRequest{
		Email:    "amy@example.com",
		Name:     "Amy",
		Password: "short",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	ts := newTestServer()
	ts.users.registerFn = func(ctx context.Context, input driving.RegisterInput) (*domain.User, error) {
		return nil, domain.ErrAlreadyExists
	}

	rr := ts.do(t, "POST", "/api/v1/auth/register", RegisterRequest{
		Email:    "amy@example.com",
		Name:     "Amy",
		Password: "longenough",
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rr.Code)
	}
}

func TestHandleLogin_Success(t *testing.T) {
	ts := newTestServer()
	ts.users.loginFn = func(ctx context.Context, email, password string) (*driving.LoginResult, error) {
		return &driving.LoginResult{
			User:  &domain.User{ID: "user-1", Email: email},
			Token: "signed-token",
		}, nil
	}

	rr := ts.do(t, "POST", "/api/v1/auth/login", LoginRequest{
		Email:    "amy@example.com",
		Password: "longenough",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var response LoginResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Token != "signed-token" {
		t.Errorf("expected signed-token, got %s", response.Token)
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	ts := newTestServer()
	ts.users.loginFn = func(ctx context.Context, email, password string) (*driving.LoginResult, error) {
		return nil, domain.ErrInvalidCredentials
	}

	rr := ts.do(t, "POST", "/api/v1/auth/login", LoginRequest{
		Email:    "amy@example.com",
		Password: "wrong",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestHandleLogin_InvalidJSON(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewBufferString("invalid json"))
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestAuthenticatedRoute_MissingToken(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestHandleGetMe(t *testing.T) {
	ts := newTestServer()
	ts.users.getFn = func(ctx context.Context, id string) (*domain.User, error) {
		if id != "user-1" {
			t.Errorf("expected lookup of user-1, got %s", id)
		}
		return &domain.User{ID: id, Email: "amy@example.com"}, nil
	}

	rr := ts.do(t, "GET", "/api/v1/me", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestHandleCreateDocument(t *testing.T) {
	ts := newTestServer()
	ts.documents.createFn = func(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
		if doc.UserID != "user-1" {
			t.Errorf("expected personal document owned by user-1, got %q", doc.UserID)
		}
		doc.ID = "doc-1"
		return doc, nil
	}

	rr := ts.do(t, "POST", "/api/v1/documents", DocumentRequest{
		Title:         "Sleep hygiene",
		Content:       "Keep a schedule.",
		Category:      "lifestyle",
		EvidenceLevel: "high",
		Personal:      true,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var doc domain.Document
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if doc.ID != "doc-1" {
		t.Errorf("expected doc-1, got %s", doc.ID)
	}
}

func TestHandleCreateDocument_MissingFields(t *testing.T) {
	ts := newTestServer()

	rr := ts.do(t, "POST", "/api/v1/documents", DocumentRequest{Title: "only a title"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleGetDocument_NotFound(t *testing.T) {
	ts := newTestServer()
	ts.documents.getFn = func(ctx context.Context, id string) (*domain.Document, error) {
		return nil, domain.ErrNotFound
	}

	rr := ts.do(t, "GET", "/api/v1/documents/ghost", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleGetDocument_HidesForeignPersonalDocument(t *testing.T) {
	ts := newTestServer()
	ts.documents.getFn = func(ctx context.Context, id string) (*domain.Document, error) {
		return &domain.Document{ID: id, Title: "private", UserID: "someone-else"}, nil
	}

	rr := ts.do(t, "GET", "/api/v1/documents/doc-1", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for another user's document, got %d", rr.Code)
	}
}

func TestHandleListDocuments_MineScopesOwner(t *testing.T) {
	ts := newTestServer()
	ts.documents.listFn = func(ctx context.Context, filter *domain.DocumentFilter, limit int) ([]*domain.Document, error) {
		if filter.OwnerID == nil || *filter.OwnerID != "user-1" {
			t.Errorf("expected owner scope user-1, got %v", filter.OwnerID)
		}
		if limit != 5 {
			t.Errorf("expected limit 5, got %d", limit)
		}
		return []*domain.Document{{ID: "doc-1"}}, nil
	}

	rr := ts.do(t, "GET", "/api/v1/documents?mine=true&limit=5", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestHandleBulkLoad(t *testing.T) {
	ts := newTestServer()
	ts.documents.bulkLoadFn = func(ctx context.Context, docs []*domain.Document) (string, error) {
		if len(docs) != 2 {
			t.Errorf("expected 2 documents, got %d", len(docs))
		}
		return "task-1", nil
	}

	doc := DocumentRequest{Title: "t", Content: "c", Category: "lifestyle", EvidenceLevel: "high"}
	rr := ts.do(t, "POST", "/api/v1/documents/bulk", BulkLoadRequest{
		Documents: []DocumentRequest{doc, doc},
	})
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", rr.Code, rr.Body.String())
	}

	var response BulkLoadResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.TaskID != "task-1" || response.Count != 2 {
		t.Errorf("unexpected response %+v", response)
	}
}

func TestHandleBulkLoad_EmptyBatch(t *testing.T) {
	ts := newTestServer()

	rr := ts.do(t, "POST", "/api/v1/documents/bulk", BulkLoadRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleSearch(t *testing.T) {
	ts := newTestServer()
	ts.retrieval.searchFn = func(ctx context.Context, query string, opts domain.SearchOptions) (*domain.RetrievalResponse, error) {
		if query != "better sleep" {
			t.Errorf("unexpected query %q", query)
		}
		if opts.UserID != "user-1" {
			t.Errorf("expected personal search for user-1, got %q", opts.UserID)
		}
		return &domain.RetrievalResponse{
			TotalResults: 1,
			Confidence:   0.8,
			Timestamp:    time.Now(),
		}, nil
	}

	rr := ts.do(t, "POST", "/api/v1/search", SearchRequest{
		Query:    "better sleep",
		Personal: true,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var response domain.RetrievalResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Confidence != 0.8 {
		t.Errorf("expected confidence 0.8, got %f", response.Confidence)
	}
}

func TestHandleSearch_EmptyQuery(t *testing.T) {
	ts := newTestServer()

	rr := ts.do(t, "POST", "/api/v1/search", SearchRequest{Query: ""})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleGenerate(t *testing.T) {
	ts := newTestServer()
	ts.retrieval.generateFn = func(ctx context.Context, req driving.GenerationRequest) (*domain.GenerationResult, error) {
		if req.UserID != "user-1" || req.SessionID != "sess-1" {
			t.Errorf("unexpected request %+v", req)
		}
		return &domain.GenerationResult{Text: "an answer", Outcome: domain.OutcomeCompleted}, nil
	}

	rr := ts.do(t, "POST", "/api/v1/chat/generate", GenerateRequest{
		Query:     "how do I sleep better",
		SessionID: "sess-1",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var result domain.GenerationResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Outcome != domain.OutcomeCompleted {
		t.Errorf("expected completed outcome, got %s", result.Outcome)
	}
}

func TestHandleGenerate_Cancelled(t *testing.T) {
	ts := newTestServer()
	ts.retrieval.generateFn = func(ctx context.Context, req driving.GenerationRequest) (*domain.GenerationResult, error) {
		return nil, domain.ErrGenerationCancelled
	}

	rr := ts.do(t, "POST", "/api/v1/chat/generate", GenerateRequest{
		Query:     "anything",
		SessionID: "sess-1",
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rr.Code)
	}
}

func TestHandleCancelGeneration_NotFound(t *testing.T) {
	ts := newTestServer()
	ts.retrieval.cancelFn = func(id string) error {
		return domain.ErrGenerationNotFound
	}

	rr := ts.do(t, "DELETE", "/api/v1/chat/generate/gen-1", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleHistory(t *testing.T) {
	ts := newTestServer()
	ts.conversation.historyFn = func(ctx context.Context, userID, sessionID string, limit int) ([]domain.Message, error) {
		if userID != "user-1" || sessionID != "sess-1" {
			t.Errorf("unexpected lookup %s/%s", userID, sessionID)
		}
		return []domain.Message{{Role: domain.RoleUser, Content: "hi"}}, nil
	}

	rr := ts.do(t, "GET", "/api/v1/chat/sess-1/history", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestHandleUpdateProfile(t *testing.T) {
	ts := newTestServer()
	ts.conversation.updateProfileFn = func(ctx context.Context, userID, sessionID string, profile domain.UserProfile) error {
		if len(profile.Conditions) != 1 || profile.Conditions[0] != "hypertension" {
			t.Errorf("unexpected profile %+v", profile)
		}
		return nil
	}

	rr := ts.do(t, "PUT", "/api/v1/chat/sess-1/profile", ProfileRequest{
		Conditions: []string{"hypertension"},
		Style:      "friendly",
	})
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}

func TestHandleClearCache(t *testing.T) {
	ts := newTestServer()

	rr := ts.do(t, "DELETE", "/api/v1/admin/cache", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "invalid input")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "invalid input" {
		t.Errorf("expected error 'invalid input', got %s", response["error"])
	}
}
