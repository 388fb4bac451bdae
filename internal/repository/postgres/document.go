package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wordageddon/wordageddon/internal/domain"
)

// DocumentRepository implements domain.DocumentRepository
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// Create stores a new document's metadata
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (id, name, size, term_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		doc.ID,
		doc.Name,
		doc.Size,
		doc.TermCount,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetByName retrieves a document by its name
func (r *DocumentRepository) GetByName(ctx context.Context, name string) (*domain.Document, error) {
	query := `
		SELECT id, name, size, term_count, created_at, updated_at
		FROM documents
		WHERE name = $1
	`

	doc := &domain.Document{}
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&doc.ID,
		&doc.Name,
		&doc.Size,
		&doc.TermCount,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// List retrieves all documents ordered by name
func (r *DocumentRepository) List(ctx context.Context) ([]*domain.Document, error) {
	query := `
		SELECT id, name, size, term_count, created_at, updated_at
		FROM documents
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc := &domain.Document{}
		if err := rows.Scan(
			&doc.ID,
			&doc.Name,
			&doc.Size,
			&doc.TermCount,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}

// Update updates a document's metadata
func (r *DocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	query := `
		UPDATE documents
		SET name = $1, size = $2, term_count = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query, doc.Name, doc.Size, doc.TermCount, doc.ID)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// Delete deletes a document by ID
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// ReplaceStopwords replaces the stored stopword list in one transaction
func (r *DocumentRepository) ReplaceStopwords(ctx context.Context, words []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM stopwords`); err != nil {
		return fmt.Errorf("failed to clear stopwords: %w", err)
	}

	for _, word := range words {
		if _, err := tx.Exec(ctx, `INSERT INTO stopwords (word) VALUES ($1)`, word); err != nil {
			return fmt.Errorf("failed to insert stopword: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Stopwords retrieves the stored stopword list
func (r *DocumentRepository) Stopwords(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT word FROM stopwords ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stopwords: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, fmt.Errorf("failed to scan stopword: %w", err)
		}
		words = append(words, word)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stopwords: %w", err)
	}
	return words, nil
}
