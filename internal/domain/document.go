package domain

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	ErrDocumentNotFound      = errors.New("document not found")
	ErrDocumentAlreadyExists = errors.New("document already exists")
)

// Document is the metadata of one corpus text. The content itself lives in
// the filesystem document store; the index is keyed by Name.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	TermCount int       `json:"term_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentRepository defines the interface for corpus metadata operations.
type DocumentRepository interface {
	// Create stores a new document's metadata.
	Create(ctx context.Context, doc *Document) error

	// GetByName retrieves a document by its name.
	GetByName(ctx context.Context, name string) (*Document, error)

	// List retrieves all documents ordered by name.
	List(ctx context.Context) ([]*Document, error)

	// Update updates a document's metadata.
	Update(ctx context.Context, doc *Document) error

	// Delete deletes a document by ID.
	Delete(ctx context.Context, id string) error

	// ReplaceStopwords replaces the stored stopword list.
	ReplaceStopwords(ctx context.Context, words []string) error

	// Stopwords retrieves the stored stopword list.
	Stopwords(ctx context.Context) ([]string, error)
}
