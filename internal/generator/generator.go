// Package generator synthesizes multiple-choice quiz questions from a
// frequency index. Four strategies are tried in random order per call; each
// tracks the combinations it has already produced so a session does not see
// the same question twice.
package generator

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wordageddon/wordageddon/internal/domain"
	"github.com/wordageddon/wordageddon/internal/textindex"
)

// maxAttempts bounds the retry loop of each strategy when it hunts for a
// combination not used yet this session.
const maxAttempts = 50

// Generator produces questions over a read-only index, restricted to an
// ordered list of in-play documents. It is not safe for concurrent use; each
// session should own one Generator.
type Generator struct {
	index     *textindex.Index
	documents []string
	rng       *rand.Rand

	usedFrequency   map[string]struct{}
	usedComparison  map[string]struct{}
	usedAssociation map[string]struct{}
	usedExclusion   map[string]struct{}
}

// New creates a generator over index, restricted to the given in-play
// documents. The document order determines the generic "Document N" labels
// used in question texts.
func New(index *textindex.Index, documents []string) *Generator {
	return NewWithRand(index, documents, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand is New with a caller-supplied random source, for deterministic
// tests.
func NewWithRand(index *textindex.Index, documents []string, rng *rand.Rand) *Generator {
	docs := make([]string, len(documents))
	copy(docs, documents)

	g := &Generator{
		index:     index,
		documents: docs,
		rng:       rng,
	}
	g.ResetTracking()
	return g
}

// ResetTracking clears the non-repetition state. Call once when starting a
// new session.
func (g *Generator) ResetTracking() {
	g.usedFrequency = make(map[string]struct{})
	g.usedComparison = make(map[string]struct{})
	g.usedAssociation = make(map[string]struct{})
	g.usedExclusion = make(map[string]struct{})
}

// Question generates one question with the given 1-based sequence number.
// The four strategies are shuffled and tried once each; if all of them run
// out of fresh material the fallback question is returned, so the call never
// fails.
func (g *Generator) Question(number int) *domain.Question {
	strategies := []func(int) *domain.Question{
		g.absoluteFrequencyQuestion,
		g.relativeFrequencyQuestion,
		g.documentAssociationQuestion,
		g.exclusionQuestion,
	}
	g.rng.Shuffle(len(strategies), func(i, j int) {
		strategies[i], strategies[j] = strategies[j], strategies[i]
	})

	for _, generate := range strategies {
		if q := generate(number); q != nil {
			return q
		}
	}
	return g.fallbackQuestion(number)
}

// reuseThreshold is the point past which a strategy stops insisting on fresh
// combinations. It keeps generation latency bounded on small corpora.
func (g *Generator) reuseThreshold() int {
	return len(g.documents) * 5
}

// absoluteFrequencyQuestion asks how many times a word occurs in a document.
func (g *Generator) absoluteFrequencyQuestion(number int) *domain.Question {
	if len(g.documents) == 0 {
		return nil
	}

	for attempts := 0; attempts < maxAttempts; attempts++ {
		doc := g.randomDocument()
		terms := g.index.TermsForDocument(doc)
		if len(terms) == 0 {
			continue
		}

		word := g.randomTerm(terms)
		key := doc + "|" + word
		if _, used := g.usedFrequency[key]; used && len(g.usedFrequency) < g.reuseThreshold() {
			continue
		}
		g.usedFrequency[key] = struct{}{}

		correct := terms[word]
		options, correctIndex := g.numericOptions(correct, 4)

		text := fmt.Sprintf("How many times does the word %q appear in %s?", word, g.documentLabel(doc))
		q, err := domain.NewQuestion(number, text, options, correctIndex)
		if err != nil {
			delete(g.usedFrequency, key)
			continue
		}
		return q
	}
	return nil
}

// relativeFrequencyQuestion asks which of two words occurs more often in a
// document. Only documents with at least five distinct terms qualify, and
// words with equal counts are rejected.
func (g *Generator) relativeFrequencyQuestion(number int) *domain.Question {
	if len(g.documents) == 0 {
		return nil
	}

	for attempts := 0; attempts < maxAttempts; attempts++ {
		doc := g.randomDocument()
		terms := g.index.TermsForDocument(doc)
		if len(terms) < 5 {
			continue
		}

		words := sortedTerms(terms)
		g.rng.Shuffle(len(words), func(i, j int) {
			words[i], words[j] = words[j], words[i]
		})

		first, second := words[0], words[1]
		if terms[first] == terms[second] {
			continue
		}

		key := doc + "|" + first + "|" + second
		reverseKey := doc + "|" + second + "|" + first
		_, usedA := g.usedComparison[key]
		_, usedB := g.usedComparison[reverseKey]
		if (usedA || usedB) && len(g.usedComparison) < g.reuseThreshold() {
			continue
		}
		g.usedComparison[key] = struct{}{}

		correctWord := first
		if terms[second] > terms[first] {
			correctWord = second
		}

		options := []string{first, second}
		for _, distractor := range words[2:] {
			if len(options) >= 4 {
				break
			}
			options = append(options, distractor)
		}
		g.rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		// The text names the compared pair; the distractors can never be
		// the answer.
		text := fmt.Sprintf("In %s, which word appears more often, %q or %q?",
			g.documentLabel(doc), first, second)
		q, err := domain.NewQuestion(number, text, options, indexOf(options, correctWord))
		if err != nil {
			delete(g.usedComparison, key)
			continue
		}
		return q
	}
	return nil
}

// documentAssociationQuestion asks which document contains a word that is
// exclusive to it among the in-play documents. Needs at least two documents.
func (g *Generator) documentAssociationQuestion(number int) *domain.Question {
	if len(g.documents) < 2 {
		return nil
	}

	for attempts := 0; attempts < maxAttempts; attempts++ {
		doc := g.randomDocument()
		terms := g.index.TermsForDocument(doc)
		if len(terms) == 0 {
			continue
		}

		candidates := g.exclusiveTerms(doc, terms)
		if len(candidates) == 0 {
			continue
		}
		word := candidates[g.rng.Intn(len(candidates))]

		threshold := min(50, len(g.documents)*10)
		if _, used := g.usedAssociation[word]; used && len(g.usedAssociation) < threshold {
			continue
		}
		g.usedAssociation[word] = struct{}{}

		options := []string{g.documentLabel(doc)}
		others := make([]string, 0, len(g.documents)-1)
		for _, other := range g.documents {
			if other != doc {
				others = append(others, other)
			}
		}
		g.rng.Shuffle(len(others), func(i, j int) {
			others[i], others[j] = others[j], others[i]
		})
		for _, other := range others {
			if len(options) >= 4 {
				break
			}
			options = append(options, g.documentLabel(other))
		}
		g.rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		text := fmt.Sprintf("Which document contains the word %q?", word)
		q, err := domain.NewQuestion(number, text, options, indexOf(options, g.documentLabel(doc)))
		if err != nil {
			delete(g.usedAssociation, word)
			continue
		}
		return q
	}
	return nil
}

// exclusionQuestion asks which word never appears in a chosen document. The
// correct option comes from the vocabulary minus the document's terms; the
// distractors are words that do appear in it.
func (g *Generator) exclusionQuestion(number int) *domain.Question {
	if len(g.documents) == 0 {
		return nil
	}

	for attempts := 0; attempts < maxAttempts; attempts++ {
		doc := g.randomDocument()
		terms := g.index.TermsForDocument(doc)
		if len(terms) == 0 {
			continue
		}

		var missing []string
		for _, word := range g.index.AllTerms() {
			if _, present := terms[word]; !present {
				missing = append(missing, word)
			}
		}
		if len(missing) == 0 {
			continue
		}

		correctWord := missing[g.rng.Intn(len(missing))]
		key := doc + "|" + correctWord
		if _, used := g.usedExclusion[key]; used && len(g.usedExclusion) < g.reuseThreshold() {
			continue
		}
		g.usedExclusion[key] = struct{}{}

		distractors := sortedTerms(terms)
		g.rng.Shuffle(len(distractors), func(i, j int) {
			distractors[i], distractors[j] = distractors[j], distractors[i]
		})
		if len(distractors) > 3 {
			distractors = distractors[:3]
		}

		options := append([]string{correctWord}, distractors...)
		g.rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		text := fmt.Sprintf("Which of the following words never appears in %s: %s?",
			g.documentLabel(doc), strings.Join(options, ", "))
		q, err := domain.NewQuestion(number, text, options, indexOf(options, correctWord))
		if err != nil {
			delete(g.usedExclusion, key)
			continue
		}
		return q
	}
	return nil
}

// fallbackQuestion always produces something, even over a degenerate corpus:
// a frequency question on the first document with terms, or a static
// placeholder when no terms exist anywhere.
func (g *Generator) fallbackQuestion(number int) *domain.Question {
	for _, doc := range g.documents {
		terms := g.index.TermsForDocument(doc)
		if len(terms) == 0 {
			continue
		}

		word := sortedTerms(terms)[0]
		correct := terms[word]

		options := []string{
			strconv.Itoa(correct),
			strconv.Itoa(max(0, correct-1)),
			strconv.Itoa(correct + 1),
			strconv.Itoa(correct + 2),
		}
		g.rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		text := fmt.Sprintf("How many times does the word %q appear in %s?", word, g.documentLabel(doc))
		q, err := domain.NewQuestion(number, text, options, indexOf(options, strconv.Itoa(correct)))
		if err == nil {
			return q
		}
	}

	q, _ := domain.NewQuestion(number,
		"How many words does this document contain?",
		[]string{"0", "1", "2", "3"}, 1)
	return q
}

// numericOptions builds count distinct numeric options including the correct
// value, shuffles them, and returns the shuffled list plus the correct
// option's new position. Distractor spread is max(5, correct/2).
func (g *Generator) numericOptions(correct, count int) ([]string, int) {
	values := map[int]struct{}{correct: {}}
	spread := max(5, correct/2)

	for len(values) < count {
		variation := g.rng.Intn(spread) + 1
		value := correct + variation
		if g.rng.Intn(2) == 0 {
			value = max(0, correct-variation)
		}
		if value != correct {
			values[value] = struct{}{}
		}
	}

	options := make([]string, 0, len(values))
	ordered := make([]int, 0, len(values))
	for v := range values {
		ordered = append(ordered, v)
	}
	sort.Ints(ordered)
	g.rng.Shuffle(len(ordered), func(i, j int) {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	})
	correctIndex := 0
	for i, v := range ordered {
		options = append(options, strconv.Itoa(v))
		if v == correct {
			correctIndex = i
		}
	}
	return options, correctIndex
}

// exclusiveTerms returns the terms of doc that are absent from every other
// in-play document.
func (g *Generator) exclusiveTerms(doc string, terms map[string]int) []string {
	var exclusive []string
	for _, word := range sortedTerms(terms) {
		shared := false
		for _, other := range g.documents {
			if other == doc {
				continue
			}
			if g.index.Frequency(other, word) > 0 {
				shared = true
				break
			}
		}
		if !shared {
			exclusive = append(exclusive, word)
		}
	}
	return exclusive
}

// documentLabel maps a document ID to its generic in-play label, "Document 1"
// through "Document N" following the in-play order. Raw file names never
// reach question texts.
func (g *Generator) documentLabel(doc string) string {
	for i, d := range g.documents {
		if d == doc {
			return fmt.Sprintf("Document %d", i+1)
		}
	}
	return "Document ?"
}

func (g *Generator) randomDocument() string {
	return g.documents[g.rng.Intn(len(g.documents))]
}

func (g *Generator) randomTerm(terms map[string]int) string {
	words := sortedTerms(terms)
	return words[g.rng.Intn(len(words))]
}

// sortedTerms returns the map's keys in lexicographic order; random picks go
// through this so results depend only on the Generator's own source.
func sortedTerms(terms map[string]int) []string {
	words := make([]string, 0, len(terms))
	for word := range terms {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

func indexOf(options []string, target string) int {
	for i, opt := range options {
		if opt == target {
			return i
		}
	}
	return -1
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
