package textindex

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// SourceDocument is one unit of raw input for indexing: an identifier plus
// the full document text.
type SourceDocument struct {
	ID   string
	Text string
}

// Analyzer turns raw document text into index terms. It is stateless apart
// from the loaded stopword set; an Analyzer with no stopwords loaded filters
// nothing.
type Analyzer struct {
	stopwords map[string]struct{}
}

// NewAnalyzer creates an analyzer with an empty stopword set.
func NewAnalyzer() *Analyzer {
	return &Analyzer{stopwords: make(map[string]struct{})}
}

// LoadStopwords reads a line-oriented stopword list. Lines are trimmed and
// lowercased; blank lines and lines starting with "//" are ignored. Words
// accumulate on top of any previously loaded set.
func (a *Analyzer) LoadStopwords(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		a.stopwords[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stopwords: %w", err)
	}
	return nil
}

// LoadStopwordsFile loads stopwords from a file. A missing file is not an
// error: indexing degrades to zero filtering.
func (a *Analyzer) LoadStopwordsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open stopwords file: %w", err)
	}
	defer f.Close()

	return a.LoadStopwords(f)
}

// StopwordCount returns the number of loaded stopwords.
func (a *Analyzer) StopwordCount() int {
	return len(a.stopwords)
}

// IsStopword reports whether the lowercased word is in the loaded set.
func (a *Analyzer) IsStopword(word string) bool {
	_, ok := a.stopwords[strings.ToLower(word)]
	return ok
}

// IndexDocument tokenizes text and adds every surviving term to the index
// under documentID. Normalization: the whole text is lowercased, every rune
// that is not a lowercase Latin letter or one of the accented vowels
// à è é ì ò ù becomes whitespace, the result is split on whitespace runs,
// and empty tokens and stopwords are dropped.
func (a *Analyzer) IndexDocument(idx *Index, documentID, text string) {
	for _, term := range a.Tokenize(text) {
		idx.AddTerm(documentID, term)
	}
}

// IndexCorpus indexes a batch of documents.
func (a *Analyzer) IndexCorpus(idx *Index, docs []SourceDocument) {
	for _, doc := range docs {
		a.IndexDocument(idx, doc.ID, doc.Text)
	}
}

// Tokenize returns the normalized, stopword-filtered terms of text in
// occurrence order.
func (a *Analyzer) Tokenize(text string) []string {
	normalized := strings.Map(func(r rune) rune {
		if isTermRune(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	fields := strings.Fields(normalized)
	terms := fields[:0]
	for _, word := range fields {
		if _, stop := a.stopwords[word]; stop {
			continue
		}
		terms = append(terms, word)
	}
	return terms
}

func isTermRune(r rune) bool {
	if r >= 'a' && r <= 'z' {
		return true
	}
	switch r {
	case 'à', 'è', 'é', 'ì', 'ò', 'ù':
		return true
	}
	return false
}
