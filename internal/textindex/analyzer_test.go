package textindex

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenizeNormalization(t *testing.T) {
	a := NewAnalyzer()

	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			"lowercases and splits",
			"Il Cane CORRE",
			[]string{"il", "cane", "corre"},
		},
		{
			"strips digits and punctuation",
			"cane42, gatto! (topo)",
			[]string{"cane", "gatto", "topo"},
		},
		{
			"keeps accented vowels",
			"Perché la città è così",
			[]string{"perché", "la", "città", "è", "così"},
		},
		{
			"collapses whitespace runs",
			"cane \t\n  gatto",
			[]string{"cane", "gatto"},
		},
		{
			"empty input",
			"",
			[]string{},
		},
		{
			"only punctuation",
			"42 -- !!!",
			[]string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := a.Tokenize(tc.text)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestTokenizeFiltersStopwords(t *testing.T) {
	a := NewAnalyzer()
	stopwords := strings.NewReader("il\nla\n\n// articles above\nlo\n")
	if err := a.LoadStopwords(stopwords); err != nil {
		t.Fatalf("failed to load stopwords: %v", err)
	}

	if got := a.StopwordCount(); got != 3 {
		t.Fatalf("expected 3 stopwords, got %d", got)
	}
	if !a.IsStopword("IL") {
		t.Fatal("stopword check should be case insensitive")
	}

	got := a.Tokenize("Il cane e la volpe")
	want := []string{"cane", "e", "volpe"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLoadStopwordsAccumulates(t *testing.T) {
	a := NewAnalyzer()
	if err := a.LoadStopwords(strings.NewReader("il")); err != nil {
		t.Fatalf("failed to load stopwords: %v", err)
	}
	if err := a.LoadStopwords(strings.NewReader("la")); err != nil {
		t.Fatalf("failed to load stopwords: %v", err)
	}

	if got := a.StopwordCount(); got != 2 {
		t.Fatalf("expected the sets to accumulate, got %d stopwords", got)
	}
}

func TestLoadStopwordsFileMissing(t *testing.T) {
	a := NewAnalyzer()
	if err := a.LoadStopwordsFile("does/not/exist.txt"); err != nil {
		t.Fatalf("a missing stopwords file should not be an error, got %v", err)
	}
	if got := a.StopwordCount(); got != 0 {
		t.Fatalf("expected no stopwords, got %d", got)
	}
}

func TestIndexDocumentCountsOccurrences(t *testing.T) {
	a := NewAnalyzer()
	idx := NewIndex()

	a.IndexDocument(idx, "favola.txt", "Il cane vide il gatto. Il gatto vide il topo.")

	if got := idx.Frequency("favola.txt", "il"); got != 4 {
		t.Fatalf("expected il to occur 4 times, got %d", got)
	}
	if got := idx.Frequency("favola.txt", "gatto"); got != 2 {
		t.Fatalf("expected gatto to occur 2 times, got %d", got)
	}
	if got := idx.Frequency("favola.txt", "topo"); got != 1 {
		t.Fatalf("expected topo to occur once, got %d", got)
	}
}

func TestIndexCorpus(t *testing.T) {
	a := NewAnalyzer()
	idx := NewIndex()

	a.IndexCorpus(idx, []SourceDocument{
		{ID: "a.txt", Text: "cane gatto"},
		{ID: "b.txt", Text: "topo"},
	})

	want := []string{"a.txt", "b.txt"}
	if got := idx.Documents(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected documents %v, got %v", want, got)
	}
}
