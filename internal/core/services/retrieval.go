package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driving"
	"github.com/verdant-labs/wellspring-core/internal/runtime"
)

// Ensure retrievalService implements RetrievalService
var _ driving.RetrievalService = (*retrievalService)(nil)

const (
	// responseTTL is how long computed retrieval responses stay cached
	responseTTL = time.Hour

	// nominalConfidence is reported whenever results were found.
	// Not a calibrated probability.
	nominalConfidence = 0.8

	searchModelLabel    = "wellspring-hybrid"
	fallbackModelLabel  = "fallback"
	maxCompletionTokens = 1000
	recentTurnsInPrompt = 3

	// Two-pool blend parameters: personal documents outrank general
	// knowledge unless clearly less relevant.
	generalPoolLimit       = 3
	generalPoolDiscount    = 0.7
	userPoolBaseRelevance  = 0.8
	userPoolSimilarityGate = 0.5
	userPoolCandidateLimit = 20
	conditionBonusWeight   = 0.2
	blendLimit             = 5
)

const (
	stopAcknowledgement = "Understood - I'll stop here. Reach out whenever you'd like to continue."

	conversationEndedMessage = "This conversation has ended. Start a new session whenever you're ready to talk again."

	providerFallbackMessage = "I'm sorry, I can't generate a response right now. " +
		"For guidance on this topic, please consult a healthcare professional."

	generalContextPlaceholder = "General wellness principles: balanced nutrition, regular physical activity, " +
		"adequate sleep, stress management, and routine preventive care."

	promptInstructions = "You are a wellness assistant. Answer naturally and conversationally using the " +
		"context provided. Do not ask unnecessary follow-up questions. If the user asks you to stop, " +
		"acknowledge and stop immediately."
)

// retrievalService orchestrates the retrieval pipeline: cache lookup,
// hybrid search, user/general pool blending, prompt assembly and the
// completion provider call.
type retrievalService struct {
	search            driving.SearchService
	cache             driven.ResponseCache
	documentStore     driven.DocumentStore
	conversationStore driven.ConversationStore
	services          *runtime.Services
	generations       *generationRegistry
	logger            *slog.Logger
}

// NewRetrievalService creates a new RetrievalService
func NewRetrievalService(
	search driving.SearchService,
	cache driven.ResponseCache,
	documentStore driven.DocumentStore,
	conversationStore driven.ConversationStore,
	services *runtime.Services,
	logger *slog.Logger,
) driving.RetrievalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &retrievalService{
		search:            search,
		cache:             cache,
		documentStore:     documentStore,
		conversationStore: conversationStore,
		services:          services,
		generations:       newGenerationRegistry(),
		logger:            logger,
	}
}

// SearchDocuments returns ranked citations for a query, cache-first
func (s *retrievalService) SearchDocuments(ctx context.Context, query string, opts domain.SearchOptions) (*domain.RetrievalResponse, error) {
	if err := opts.Filter.Validate(); err != nil {
		return nil, err
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	key := domain.CacheKey(query, opts.Filter, opts.UserID, limit)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		// Copy before flagging: the in-memory cache hands every hit the
		// same pointer, so concurrent hits must not write through it.
		hit := *cached
		hit.Cached = true
		return &hit, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		// Cache trouble degrades to a recompute, never to a failure.
		s.logger.Warn("response cache read failed", "error", err)
	}

	start := time.Now()
	results := s.search.HybridSearch(ctx, query, s.scopedFilter(opts), limit)

	resp := &domain.RetrievalResponse{
		Results:        results,
		TotalResults:   len(results),
		ProcessingTime: domain.SplitProcessingTime(time.Since(start)),
		Sources:        collectSources(results),
		Confidence:     nominalConfidence,
		Model:          searchModelLabel,
		Timestamp:      time.Now(),
	}
	if len(results) == 0 {
		resp.Confidence = 0.0
		resp.Model = fallbackModelLabel
	}

	if err := s.cache.Set(ctx, key, resp, responseTTL); err != nil {
		s.logger.Warn("response cache write failed", "error", err)
	}

	return resp, nil
}

// GenerateContextualResponse produces a natural-language answer grounded
// in retrieved context and the conversation state.
func (s *retrievalService) GenerateContextualResponse(ctx context.Context, req driving.GenerationRequest) (*domain.GenerationResult, error) {
	// Stop signals short-circuit before any state is touched.
	if domain.IsStopSignal(req.Query) {
		return &domain.GenerationResult{Text: stopAcknowledgement, Outcome: domain.OutcomeStopped}, nil
	}

	conv, err := s.loadOrCreateContext(ctx, req.UserID, req.SessionID)
	if err != nil {
		return nil, err
	}
	if conv.Stopped() {
		return &domain.GenerationResult{Text: conversationEndedMessage, Outcome: domain.OutcomeStopped}, nil
	}

	conv.Append(domain.Message{Role: domain.RoleUser, Content: req.Query})
	if err := s.conversationStore.Save(ctx, conv); err != nil {
		s.logger.Warn("conversation save failed", "error", err)
	}

	results := s.blendPools(ctx, req.Query, req.UserID, conv.Profile)
	messages := buildPrompt(req.Query, results, conv)

	completer := s.services.CompletionService()
	if completer == nil {
		s.logger.Warn("no completion service configured")
		return &domain.GenerationResult{Text: providerFallbackMessage, Outcome: domain.OutcomeDegraded}, nil
	}

	generationID := req.GenerationID
	if generationID == "" {
		generationID = uuid.New().String()
	}
	genCtx, cancel := s.generations.Register(ctx, generationID)
	defer func() {
		cancel()
		s.generations.Remove(generationID)
	}()

	completion, err := completer.Complete(genCtx, driven.CompletionRequest{
		Messages:    messages,
		MaxTokens:   maxCompletionTokens,
		Temperature: 0.7,
		TopP:        0.9,
	})
	if err != nil {
		if genCtx.Err() != nil && ctx.Err() == nil {
			// Our handle was cancelled, not the caller's context.
			return &domain.GenerationResult{Outcome: domain.OutcomeCancelled}, domain.ErrGenerationCancelled
		}
		s.logger.Error("completion failed", "error", err, "generation_id", generationID)
		return &domain.GenerationResult{Text: providerFallbackMessage, Outcome: domain.OutcomeDegraded}, nil
	}

	conv.Append(domain.Message{Role: domain.RoleAssistant, Content: completion.Content})
	if err := s.conversationStore.Save(ctx, conv); err != nil {
		s.logger.Warn("conversation save failed", "error", err)
	}
	s.bumpUsage(ctx, results)

	return &domain.GenerationResult{
		Text:       completion.Content,
		Outcome:    domain.OutcomeCompleted,
		TokensUsed: completion.TokensUsed,
	}, nil
}

// CancelGeneration aborts an in-flight generation by id
func (s *retrievalService) CancelGeneration(id string) error {
	if !s.generations.Cancel(id) {
		return domain.ErrGenerationNotFound
	}
	return nil
}

// scopedFilter widens the filter to the caller's pool: with a user the
// search sees their documents plus the general pool, without one it
// sees the general pool only.
func (s *retrievalService) scopedFilter(opts domain.SearchOptions) *domain.DocumentFilter {
	f := domain.DocumentFilter{}
	if opts.Filter != nil {
		f = *opts.Filter
	}
	if opts.UserID != "" {
		userID := opts.UserID
		f.OwnerID = &userID
	}
	return &f
}

// loadOrCreateContext fetches the session context, creating it lazily
func (s *retrievalService) loadOrCreateContext(ctx context.Context, userID, sessionID string) (*domain.ConversationContext, error) {
	conv, err := s.conversationStore.Get(ctx, userID, sessionID)
	if err == nil {
		return conv, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewConversationContext(userID, sessionID), nil
	}
	return nil, err
}

// blendPools merges the user's own documents with general knowledge.
// Personal documents carry a higher base relevance; general results are
// discounted so non-personal material ranks below personal context of
// comparable quality.
func (s *retrievalService) blendPools(ctx context.Context, query, userID string, profile domain.UserProfile) []*domain.SearchResult {
	results := s.userPool(ctx, query, userID, profile)

	general, err := s.SearchDocuments(ctx, query, domain.SearchOptions{Limit: generalPoolLimit})
	if err != nil {
		s.logger.Warn("general pool search failed", "error", err)
	} else {
		for _, r := range general.Results {
			// Copy before discounting: the original may live in the cache.
			results = append(results, &domain.SearchResult{
				Document:   r.Document,
				Similarity: r.Similarity * generalPoolDiscount,
				Relevance:  r.Relevance * generalPoolDiscount,
				Context:    r.Context,
			})
		}
	}

	sortByCombinedScore(results)
	if len(results) > blendLimit {
		results = results[:blendLimit]
	}
	return results
}

// userPool scores the user's own documents. Each must clear the cosine
// gate against the query; relevance starts from the personal-pool base,
// raised by lexical match and by overlap with declared conditions.
func (s *retrievalService) userPool(ctx context.Context, query, userID string, profile domain.UserProfile) []*domain.SearchResult {
	if userID == "" {
		return nil
	}

	embedder := s.services.EmbeddingService()
	if embedder == nil {
		return nil
	}
	queryEmbedding, err := embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Error("query embedding failed", "error", err)
		return nil
	}

	filter := &domain.DocumentFilter{OwnerID: &userID, RequireEmbedding: true}
	docs, err := s.documentStore.List(ctx, filter, userPoolCandidateLimit)
	if err != nil {
		s.logger.Error("user pool load failed", "error", err)
		return nil
	}

	var results []*domain.SearchResult
	for _, doc := range docs {
		if !doc.Owned() {
			continue // general documents come in via the discounted pool
		}

		similarity, err := domain.Cosine(queryEmbedding.Vector, doc.Embedding)
		if err != nil {
			continue
		}
		similarity = domain.ClampScore(similarity)
		if similarity < userPoolSimilarityGate {
			continue
		}

		relevance := lexicalRelevance(query, doc)
		if relevance < userPoolBaseRelevance {
			relevance = userPoolBaseRelevance
		}
		relevance += conditionOverlap(profile.Conditions, doc.Content) * conditionBonusWeight
		if relevance > 1.0 {
			relevance = 1.0
		}

		results = append(results, &domain.SearchResult{
			Document:   doc,
			Similarity: similarity,
			Relevance:  relevance,
			Context:    extractContext(query, doc.Content),
		})
	}
	return results
}

// conditionOverlap returns the fraction of declared conditions that
// literally appear in the content
func conditionOverlap(conditions []string, content string) float64 {
	if len(conditions) == 0 {
		return 0
	}
	contentLower := strings.ToLower(content)
	matched := 0
	for _, c := range conditions {
		if strings.Contains(contentLower, strings.ToLower(c)) {
			matched++
		}
	}
	return float64(matched) / float64(len(conditions))
}

// bumpUsage best-effort increments usage counters for cited documents
func (s *retrievalService) bumpUsage(ctx context.Context, results []*domain.SearchResult) {
	for _, r := range results {
		if err := s.documentStore.IncrementUsage(ctx, r.Document.ID); err != nil {
			s.logger.Debug("usage increment failed", "document_id", r.Document.ID, "error", err)
		}
	}
}

// buildPrompt assembles the completion messages: instruction header,
// retrieved context, the user's declared profile (explicit placeholders
// rather than omitted sections), recent turns, and the query.
func buildPrompt(query string, results []*domain.SearchResult, conv *domain.ConversationContext) []driven.CompletionMessage {
	var b strings.Builder
	b.WriteString(promptInstructions)
	b.WriteString("\n\nContext:\n")
	if len(results) == 0 {
		b.WriteString(generalContextPlaceholder)
		b.WriteString("\n")
	} else {
		for _, r := range results {
			b.WriteString(r.Document.Title)
			b.WriteString(": ")
			b.WriteString(r.Document.Content)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nUser profile:\n")
	b.WriteString("Health conditions: " + orPlaceholder(conv.Profile.Conditions) + "\n")
	b.WriteString("Medications: " + orPlaceholder(conv.Profile.Medications) + "\n")
	b.WriteString("Wellness goals: " + orPlaceholder(conv.Profile.Goals) + "\n")
	style := string(conv.Profile.Style)
	if style == "" {
		style = "none specified"
	}
	b.WriteString("Communication style: " + style + "\n")

	messages := []driven.CompletionMessage{
		{Role: "system", Content: b.String()},
	}
	for _, m := range conv.RecentTurns(recentTurnsInPrompt) {
		messages = append(messages, driven.CompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	// The query is already the most recent user turn in context, but the
	// provider call must end on the user's message regardless of history.
	if len(messages) == 1 || messages[len(messages)-1].Content != query {
		messages = append(messages, driven.CompletionMessage{Role: "user", Content: query})
	}
	return messages
}

// orPlaceholder joins a list or substitutes the explicit placeholder
func orPlaceholder(items []string) string {
	if len(items) == 0 {
		return "none specified"
	}
	return strings.Join(items, ", ")
}

// collectSources returns the distinct sources cited by the results
func collectSources(results []*domain.SearchResult) []string {
	seen := make(map[string]bool)
	sources := []string{}
	for _, r := range results {
		if r.Document.Source == "" || seen[r.Document.Source] {
			continue
		}
		seen[r.Document.Source] = true
		sources = append(sources, r.Document.Source)
	}
	return sources
}
