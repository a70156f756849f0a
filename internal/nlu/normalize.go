package nlu

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultFuzzyThreshold is the minimum similarity for a fuzzy correction.
const DefaultFuzzyThreshold = 0.6

// Normalizer cleans transcripts token by token against a Dictionary.
type Normalizer struct {
	dict      *Dictionary
	threshold float64
}

func NewNormalizer(dict *Dictionary, threshold float64) *Normalizer {
	return &Normalizer{dict: dict, threshold: threshold}
}

// Normalize lowercases, strips punctuation and corrects every token of raw.
// Tokens that are pure punctuation are dropped.
func (n *Normalizer) Normalize(raw string) string {
	fields := strings.Fields(raw)
	out := make([]string, 0, len(fields))

	for _, f := range fields {
		tok := cleanToken(f)
		if tok == "" {
			continue
		}
		out = append(out, n.correct(tok))
	}

	return strings.Join(out, " ")
}

func (n *Normalizer) correct(tok string) string {
	if canon, ok := n.dict.Lookup(tok); ok {
		return canon
	}

	best, bestScore := "", 0.0
	for _, canon := range n.dict.canonical {
		// strict > keeps the earliest declared form on ties
		if s := Similarity(tok, canon); s > bestScore {
			best, bestScore = canon, s
		}
	}
	if best != "" && bestScore >= n.threshold {
		return best
	}

	return tok
}

// Similarity is the normalized Levenshtein ratio of a and b, in [0, 1].
func Similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func cleanToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Clean lowercases raw and strips punctuation without correcting any token.
func Clean(raw string) string {
	fields := strings.Fields(raw)
	out := fields[:0]
	for _, f := range fields {
		if tok := cleanToken(f); tok != "" {
			out = append(out, tok)
		}
	}
	return strings.Join(out, " ")
}
