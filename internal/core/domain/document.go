package domain

import (
	"encoding/json"
	"time"
)

// Category classifies a wellness document
type Category string

const (
	CategoryCondition  Category = "condition"
	CategorySymptom    Category = "symptom"
	CategoryTreatment  Category = "treatment"
	CategoryLifestyle  Category = "lifestyle"
	CategoryMedication Category = "medication"
	CategoryPrevention Category = "prevention"
)

// Valid reports whether the category is one of the known values
func (c Category) Valid() bool {
	switch c {
	case CategoryCondition, CategorySymptom, CategoryTreatment,
		CategoryLifestyle, CategoryMedication, CategoryPrevention:
		return true
	}
	return false
}

// EvidenceLevel grades the strength of a document's sourcing
type EvidenceLevel string

const (
	EvidenceHigh   EvidenceLevel = "high"
	EvidenceMedium EvidenceLevel = "medium"
	EvidenceLow    EvidenceLevel = "low"
)

// Valid reports whether the evidence level is one of the known values
func (e EvidenceLevel) Valid() bool {
	return e == EvidenceHigh || e == EvidenceMedium || e == EvidenceLow
}

// Document is the retrievable unit of the knowledge base.
// A document with a UserID is visible only to that user's searches;
// a document without one belongs to the shared general pool.
type Document struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	Category      Category          `json:"category"`
	Keywords      []string          `json:"keywords"`
	EvidenceLevel EvidenceLevel     `json:"evidence_level"`
	Source        string            `json:"source"`
	UserID        string            `json:"user_id,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	UsageCount    int               `json:"usage_count"`
	Embedding     []float64         `json:"embedding,omitempty"` // nil until computed
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Owned reports whether the document belongs to a specific user
func (d *Document) Owned() bool {
	return d.UserID != ""
}

// VisibleTo reports whether the document may appear in a search scoped
// to the given user. Unowned documents are visible to everyone.
func (d *Document) VisibleTo(userID string) bool {
	return d.UserID == "" || d.UserID == userID
}

// Validate checks required fields and enum values
func (d *Document) Validate() error {
	if d.Title == "" || d.Content == "" {
		return ErrInvalidInput
	}
	if !d.Category.Valid() {
		return ErrInvalidInput
	}
	if !d.EvidenceLevel.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// DocumentFilter is a typed, AND-combined set of allow-list predicates.
// The retrieval engine never builds ad hoc query shapes at runtime; every
// supported predicate is an explicit field here, validated at the boundary.
type DocumentFilter struct {
	Categories     []Category      `json:"categories,omitempty"`
	EvidenceLevels []EvidenceLevel `json:"evidence_levels,omitempty"`
	Sources        []string        `json:"sources,omitempty"`

	// OwnerID scopes the search: nil means general pool only, a value
	// means that user's documents plus the general pool.
	OwnerID *string `json:"owner_id,omitempty"`

	// RequireEmbedding restricts results to documents whose embedding
	// has been computed.
	RequireEmbedding bool `json:"require_embedding,omitempty"`
}

// Validate checks that every allow-listed enum value is known
func (f *DocumentFilter) Validate() error {
	if f == nil {
		return nil
	}
	for _, c := range f.Categories {
		if !c.Valid() {
			return ErrInvalidInput
		}
	}
	for _, e := range f.EvidenceLevels {
		if !e.Valid() {
			return ErrInvalidInput
		}
	}
	return nil
}

// Matches evaluates the filter against a document in memory.
// The postgres store applies the same predicates in SQL; this form is
// used by the in-memory mocks and the candidate post-check.
func (f *DocumentFilter) Matches(doc *Document) bool {
	if f == nil {
		return true
	}
	if len(f.Categories) > 0 && !containsCategory(f.Categories, doc.Category) {
		return false
	}
	if len(f.EvidenceLevels) > 0 && !containsEvidence(f.EvidenceLevels, doc.EvidenceLevel) {
		return false
	}
	if len(f.Sources) > 0 && !containsString(f.Sources, doc.Source) {
		return false
	}
	if f.RequireEmbedding && len(doc.Embedding) == 0 {
		return false
	}
	if f.OwnerID == nil {
		return !doc.Owned()
	}
	return doc.VisibleTo(*f.OwnerID)
}

// CanonicalJSON returns a stable serialization of the filter for cache
// key derivation. A nil filter serializes to the empty string.
func (f *DocumentFilter) CanonicalJSON() string {
	if f == nil {
		return ""
	}
	data, err := json.Marshal(f)
	if err != nil {
		return ""
	}
	return string(data)
}

func containsCategory(list []Category, c Category) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

func containsEvidence(list []EvidenceLevel, e EvidenceLevel) bool {
	for _, v := range list {
		if v == e {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
