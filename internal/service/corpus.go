package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wordageddon/wordageddon/internal/domain"
	"github.com/wordageddon/wordageddon/internal/storage"
	"github.com/wordageddon/wordageddon/internal/textindex"
	"github.com/wordageddon/wordageddon/internal/validation"
)

// CorpusService owns the document corpus and the frequency index built from
// it. The index is rebuilt as a whole on every corpus change and swapped in
// atomically, so readers always see a complete, immutable index.
type CorpusService struct {
	store   *storage.DocumentStorage
	docRepo domain.DocumentRepository

	mu        sync.RWMutex
	index     *textindex.Index
	documents []string
}

// NewCorpusService creates a corpus service over the given storage and
// metadata repository. Call Reload before serving plays.
func NewCorpusService(store *storage.DocumentStorage, docRepo domain.DocumentRepository) *CorpusService {
	return &CorpusService{
		store:   store,
		docRepo: docRepo,
		index:   textindex.NewIndex(),
	}
}

// CurrentIndex returns the live index and the ordered list of indexed
// document names. The returned index must be treated as read-only.
func (s *CorpusService) CurrentIndex() (*textindex.Index, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]string, len(s.documents))
	copy(docs, s.documents)
	return s.index, docs
}

// Reload rebuilds the index from every stored document and the stored
// stopword list. A document that cannot be read fails the reload; the
// previous index stays live.
func (s *CorpusService) Reload(ctx context.Context) error {
	analyzer, err := s.newAnalyzer(ctx)
	if err != nil {
		return err
	}

	names, err := s.store.ListDocuments()
	if err != nil {
		return fmt.Errorf("failed to list corpus: %w", err)
	}

	index := textindex.NewIndex()
	for _, name := range names {
		text, err := s.store.ReadDocument(name)
		if err != nil {
			return fmt.Errorf("failed to read %s during reindex: %w", name, err)
		}
		analyzer.IndexDocument(index, name, text)
	}

	s.mu.Lock()
	s.index = index
	s.documents = names
	s.mu.Unlock()
	return nil
}

// UploadDocument validates, stores, indexes and records one corpus document.
func (s *CorpusService) UploadDocument(ctx context.Context, name, content string) (*domain.Document, error) {
	if err := validation.ValidateDocumentUpload(name, content); err != nil {
		return nil, err
	}

	stored, err := s.store.SaveDocument(name, content)
	if err != nil {
		return nil, err
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	termCount := s.index.TermCount(stored)
	s.mu.RUnlock()

	now := time.Now()
	doc := &domain.Document{
		ID:        uuid.NewString(),
		Name:      stored,
		Size:      int64(len(content)),
		TermCount: termCount,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if existing, err := s.docRepo.GetByName(ctx, stored); err == nil {
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
		if err := s.docRepo.Update(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document from storage, metadata and the index.
// The stopword filter is unchanged by a deletion, so the live index is pruned
// in place of a full rebuild; no other document needs re-reading.
func (s *CorpusService) DeleteDocument(ctx context.Context, name string) error {
	doc, err := s.docRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}

	if err := s.store.DeleteDocument(name); err != nil {
		return err
	}
	if err := s.docRepo.Delete(ctx, doc.ID); err != nil {
		return err
	}

	s.mu.Lock()
	next := s.index.Clone()
	next.RemoveDocument(doc.Name)
	remaining := make([]string, 0, len(s.documents))
	for _, n := range s.documents {
		if n != doc.Name {
			remaining = append(remaining, n)
		}
	}
	s.index = next
	s.documents = remaining
	s.mu.Unlock()
	return nil
}

// ListDocuments returns the corpus metadata.
func (s *CorpusService) ListDocuments(ctx context.Context) ([]*domain.Document, error) {
	return s.docRepo.List(ctx)
}

// UploadStopwords replaces the stopword list and reindexes the corpus under
// the new filter.
func (s *CorpusService) UploadStopwords(ctx context.Context, content string) (int, error) {
	if err := validation.ValidateStopwordsUpload(content); err != nil {
		return 0, err
	}

	words := parseStopwords(content)
	if err := s.docRepo.ReplaceStopwords(ctx, words); err != nil {
		return 0, err
	}
	if err := s.store.SaveStopwords(words); err != nil {
		return 0, err
	}
	if err := s.Reload(ctx); err != nil {
		return 0, err
	}
	return len(words), nil
}

// SaveSnapshot writes the live index to its snapshot file.
func (s *CorpusService) SaveSnapshot(ctx context.Context) error {
	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()

	return index.SaveFile(s.store.SnapshotPath())
}

// LoadSnapshot replaces the live index with the snapshot on disk. The
// document list follows the snapshot's contents.
func (s *CorpusService) LoadSnapshot(ctx context.Context) error {
	index, err := textindex.LoadFile(s.store.SnapshotPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoSnapshot
		}
		return err
	}

	s.mu.Lock()
	s.index = index
	s.documents = index.Documents()
	s.mu.Unlock()
	return nil
}

// newAnalyzer builds an analyzer loaded with the stored stopword list. The
// relational store wins; the on-disk list is the fallback when the store has
// none.
func (s *CorpusService) newAnalyzer(ctx context.Context) (*textindex.Analyzer, error) {
	analyzer := textindex.NewAnalyzer()

	words, err := s.docRepo.Stopwords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stopwords: %w", err)
	}
	if len(words) > 0 {
		if err := analyzer.LoadStopwords(strings.NewReader(strings.Join(words, "\n"))); err != nil {
			return nil, err
		}
		return analyzer, nil
	}

	if err := analyzer.LoadStopwordsFile(s.store.StopwordsPath()); err != nil {
		return nil, err
	}
	return analyzer, nil
}

func parseStopwords(content string) []string {
	var words []string
	seen := make(map[string]struct{})
	for _, line := range strings.Split(content, "\n") {
		word := strings.ToLower(strings.TrimSpace(line))
		if word == "" || strings.HasPrefix(word, "//") {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	return words
}
