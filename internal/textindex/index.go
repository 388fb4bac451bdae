package textindex

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// Common errors
var (
	ErrCorruptSnapshot     = errors.New("index snapshot is corrupt or not an index snapshot")
	ErrUnsupportedSnapshot = errors.New("unsupported index snapshot version")
)

// snapshotMagic identifies a serialized index on disk. A load that does not
// start with these bytes is rejected before the gob decoder runs.
var snapshotMagic = [4]byte{'W', 'D', 'T', 'M'}

const snapshotVersion byte = 1

// Index is a document-term matrix: it maps document IDs to per-term
// occurrence counts. Terms with count zero are never stored. The zero value
// is not usable; create instances with NewIndex.
//
// An Index is built once by an Analyzer and is read-only afterwards.
// Concurrent reads are safe as long as no AddTerm call is in flight.
type Index struct {
	matrix map[string]map[string]int
}

// NewIndex creates an empty document-term matrix.
func NewIndex() *Index {
	return &Index{matrix: make(map[string]map[string]int)}
}

// AddTerm increments the count of term in the given document, creating the
// document entry on first use.
func (ix *Index) AddTerm(documentID, term string) {
	terms, ok := ix.matrix[documentID]
	if !ok {
		terms = make(map[string]int)
		ix.matrix[documentID] = terms
	}
	terms[term]++
}

// TermsForDocument returns a copy of the term frequency map for a document.
// Unknown documents yield an empty map, never an error.
func (ix *Index) TermsForDocument(documentID string) map[string]int {
	terms := make(map[string]int, len(ix.matrix[documentID]))
	for term, count := range ix.matrix[documentID] {
		terms[term] = count
	}
	return terms
}

// Frequency returns how many times term occurs in the given document, or 0
// when either the document or the term is unknown.
func (ix *Index) Frequency(documentID, term string) int {
	return ix.matrix[documentID][term]
}

// AllTerms returns the union of terms across all documents in lexicographic
// order.
func (ix *Index) AllTerms() []string {
	seen := make(map[string]struct{})
	for _, terms := range ix.matrix {
		for term := range terms {
			seen[term] = struct{}{}
		}
	}
	all := make([]string, 0, len(seen))
	for term := range seen {
		all = append(all, term)
	}
	sort.Strings(all)
	return all
}

// Documents returns the IDs of all indexed documents, in lexicographic order.
func (ix *Index) Documents() []string {
	docs := make([]string, 0, len(ix.matrix))
	for id := range ix.matrix {
		docs = append(docs, id)
	}
	sort.Strings(docs)
	return docs
}

// HasDocument reports whether the document is present in the index.
func (ix *Index) HasDocument(documentID string) bool {
	_, ok := ix.matrix[documentID]
	return ok
}

// TermCount returns the number of distinct terms indexed for a document.
func (ix *Index) TermCount(documentID string) int {
	return len(ix.matrix[documentID])
}

// VocabularySize returns the number of distinct terms across all documents.
func (ix *Index) VocabularySize() int {
	seen := make(map[string]struct{})
	for _, terms := range ix.matrix {
		for term := range terms {
			seen[term] = struct{}{}
		}
	}
	return len(seen)
}

// RemoveDocument drops a document and its terms from the index. Removing an
// unknown document is a no-op.
func (ix *Index) RemoveDocument(documentID string) {
	delete(ix.matrix, documentID)
}

// Clone returns a deep copy of the index. Readers of the original are
// unaffected by mutations of the copy.
func (ix *Index) Clone() *Index {
	matrix := make(map[string]map[string]int, len(ix.matrix))
	for id, terms := range ix.matrix {
		copied := make(map[string]int, len(terms))
		for term, count := range terms {
			copied[term] = count
		}
		matrix[id] = copied
	}
	return &Index{matrix: matrix}
}

// SaveTo writes a snapshot of the index. The stream starts with a magic
// header and format version so LoadFrom can reject foreign data.
func (ix *Index) SaveTo(w io.Writer) error {
	if _, err := w.Write(snapshotMagic[:]); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	if _, err := w.Write([]byte{snapshotVersion}); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	if err := gob.NewEncoder(w).Encode(ix.matrix); err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	return nil
}

// LoadFrom reads a snapshot previously written by SaveTo. Data that does not
// carry the expected header, or does not decode into a valid matrix, is
// rejected with ErrCorruptSnapshot or ErrUnsupportedSnapshot.
func LoadFrom(r io.Reader) (*Index, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if [4]byte(header[:4]) != snapshotMagic {
		return nil, ErrCorruptSnapshot
	}
	if header[4] != snapshotVersion {
		return nil, ErrUnsupportedSnapshot
	}

	var matrix map[string]map[string]int
	if err := gob.NewDecoder(r).Decode(&matrix); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if matrix == nil {
		matrix = make(map[string]map[string]int)
	}
	return &Index{matrix: matrix}, nil
}

// SaveFile writes an index snapshot to disk.
func (ix *Index) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()

	if err := ix.SaveTo(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to flush snapshot file: %w", err)
	}
	return nil
}

// LoadFile reads an index snapshot from disk.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()

	return LoadFrom(f)
}
