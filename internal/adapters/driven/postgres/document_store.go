package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using PostgreSQL.
// Keyword search uses the weighted tsvector maintained by the schema
// trigger: title matches rank highest, keywords next, content least.
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

const documentColumns = `id, title, content, category, keywords, evidence_level, source, user_id, metadata, tags, usage_count, embedding, created_at, updated_at`

// Save creates or updates a document
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (id, title, content, category, keywords, evidence_level, source, user_id, metadata, tags, usage_count, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			category = EXCLUDED.category,
			keywords = EXCLUDED.keywords,
			evidence_level = EXCLUDED.evidence_level,
			source = EXCLUDED.source,
			metadata = EXCLUDED.metadata,
			tags = EXCLUDED.tags,
			usage_count = EXCLUDED.usage_count,
			embedding = EXCLUDED.embedding,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		doc.ID,
		doc.Title,
		doc.Content,
		string(doc.Category),
		pq.Array(doc.Keywords),
		string(doc.EvidenceLevel),
		doc.Source,
		NullString(doc.UserID),
		metadataJSON,
		pq.Array(doc.Tags),
		doc.UsageCount,
		pq.Array(doc.Embedding),
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// Get retrieves a document by ID
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// Delete removes a document by ID
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns documents matching the filter, up to limit
func (s *DocumentStore) List(ctx context.Context, filter *domain.DocumentFilter, limit int) ([]*domain.Document, error) {
	where, args := buildFilterClauses(filter, 0)

	query := `SELECT ` + documentColumns + ` FROM documents`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY updated_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// TextSearch runs weighted full-text search against the filtered set.
// Ranks are normalized to [0,1] so callers can treat them uniformly
// with cosine similarities.
func (s *DocumentStore) TextSearch(ctx context.Context, query string, filter *domain.DocumentFilter, limit int) ([]*driven.TextMatch, error) {
	where, args := buildFilterClauses(filter, 1)
	args = append([]interface{}{query}, args...)

	sqlQuery := `
		SELECT ` + documentColumns + `,
			ts_rank(search_vector, plainto_tsquery('english', $1), 1) AS rank
		FROM documents
		WHERE search_vector @@ plainto_tsquery('english', $1)`
	if len(where) > 0 {
		sqlQuery += ` AND ` + strings.Join(where, " AND ")
	}
	sqlQuery += fmt.Sprintf(` ORDER BY rank DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*driven.TextMatch
	for rows.Next() {
		doc, rank, err := scanDocumentWithRank(rows)
		if err != nil {
			return nil, err
		}
		if rank > 1.0 {
			rank = 1.0
		}
		matches = append(matches, &driven.TextMatch{Document: doc, Rank: rank})
	}
	return matches, rows.Err()
}

// IncrementUsage bumps a document's usage counter
func (s *DocumentStore) IncrementUsage(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE documents SET usage_count = usage_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// buildFilterClauses translates the typed filter into WHERE fragments.
// argOffset shifts placeholder numbering when the caller binds leading args.
func buildFilterClauses(filter *domain.DocumentFilter, argOffset int) ([]string, []interface{}) {
	var where []string
	var args []interface{}

	next := func() int { return argOffset + len(args) + 1 }

	if filter != nil {
		if len(filter.Categories) > 0 {
			where = append(where, fmt.Sprintf("category = ANY($%d)", next()))
			args = append(args, pq.Array(categoryStrings(filter.Categories)))
		}
		if len(filter.EvidenceLevels) > 0 {
			where = append(where, fmt.Sprintf("evidence_level = ANY($%d)", next()))
			args = append(args, pq.Array(evidenceStrings(filter.EvidenceLevels)))
		}
		if len(filter.Sources) > 0 {
			where = append(where, fmt.Sprintf("source = ANY($%d)", next()))
			args = append(args, pq.Array(filter.Sources))
		}
		if filter.RequireEmbedding {
			where = append(where, "embedding IS NOT NULL")
		}
		if filter.OwnerID == nil {
			where = append(where, "user_id IS NULL")
		} else {
			where = append(where, fmt.Sprintf("(user_id IS NULL OR user_id = $%d)", next()))
			args = append(args, *filter.OwnerID)
		}
	} else {
		where = append(where, "user_id IS NULL")
	}

	return where, args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON []byte
	var userID sql.NullString
	var keywords, tags pq.StringArray
	var embedding pq.Float64Array

	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.Category,
		&keywords,
		&doc.EvidenceLevel,
		&doc.Source,
		&userID,
		&metadataJSON,
		&tags,
		&doc.UsageCount,
		&embedding,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.Keywords = keywords
	doc.Tags = tags
	doc.Embedding = embedding
	doc.UserID = StringOrEmpty(userID)
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
			return nil, err
		}
	}

	return &doc, nil
}

func scanDocumentWithRank(row rowScanner) (*domain.Document, float64, error) {
	var doc domain.Document
	var metadataJSON []byte
	var userID sql.NullString
	var keywords, tags pq.StringArray
	var embedding pq.Float64Array
	var rank float64

	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.Category,
		&keywords,
		&doc.EvidenceLevel,
		&doc.Source,
		&userID,
		&metadataJSON,
		&tags,
		&doc.UsageCount,
		&embedding,
		&doc.CreatedAt,
		&doc.UpdatedAt,
		&rank,
	)
	if err != nil {
		return nil, 0, err
	}

	doc.Keywords = keywords
	doc.Tags = tags
	doc.Embedding = embedding
	doc.UserID = StringOrEmpty(userID)
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
			return nil, 0, err
		}
	}

	return &doc, rank, nil
}

func categoryStrings(cs []domain.Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

func evidenceStrings(es []domain.EvidenceLevel) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = string(e)
	}
	return out
}
