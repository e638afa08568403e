// Package tokenizer implements a dictionary-free Japanese tokenizer:
// character-class run extraction, overlapping character n-grams, kanji
// unigrams, stop-word filtering, and multiplicative quality scoring.
package tokenizer

import (
	"unicode"

	"github.com/sorataki/kotoba/pkg/charclass"
	"github.com/sorataki/kotoba/pkg/dictionary"
)

const (
	minNgram           = 2
	maxNgram           = 3
	kanjiUnigramWeight = 0.6
	kanjiCompoundBoost = 1.8
	mixedClassPenalty  = 0.7
	stopWordPenalty    = 0.5
	dictionaryBoost    = 2.0
)

// Token is a weighted surface form produced by the tokenizer. Duplicate
// surfaces across a single Tokenize call are expected; callers aggregate
// by summing weights.
type Token struct {
	Surface string
	Weight  float32
}

// Tokenizer is a pure function of input text and the currently active
// user dictionary: the same text always yields the same token stream.
type Tokenizer struct {
	dict *dictionary.Dictionary
}

// New creates a Tokenizer with no active user dictionary.
func New() *Tokenizer {
	return &Tokenizer{}
}

// SetDictionary installs d as the active user dictionary, replacing any
// previous one. Passing nil is equivalent to ClearDictionary.
func (t *Tokenizer) SetDictionary(d *dictionary.Dictionary) {
	t.dict = d
}

// ClearDictionary removes the active user dictionary.
func (t *Tokenizer) ClearDictionary() {
	t.dict = nil
}

type tokenKind int

const (
	kindRun tokenKind = iota
	kindNgram
	kindKanjiUnigram
)

type rawToken struct {
	runes []rune
	kind  tokenKind
}

// Tokenize canonicalizes text through the active dictionary (if any),
// extracts class runs, n-grams, and kanji unigrams, then filters and
// scores them.
func (t *Tokenizer) Tokenize(text string) []Token {
	var dictHits map[string]bool
	canonical := text
	if t.dict != nil {
		canonical, dictHits = t.dict.CanonicalizeWithMatches(text)
	}

	chars := []rune(canonical)
	var raw []rawToken
	raw = append(raw, classRuns(chars)...)
	raw = append(raw, charNgrams(chars)...)
	raw = append(raw, kanjiUnigrams(chars)...)

	tokens := make([]Token, 0, len(raw))
	for _, rt := range raw {
		surface := string(rt.runes)
		if stopWords[surface] {
			continue
		}
		weight := scoreToken(rt, dictHits)
		if weight <= 0 {
			continue
		}
		tokens = append(tokens, Token{Surface: surface, Weight: weight})
	}
	return tokens
}

// classRuns extracts maximal runs of a single character class. Runs of
// length < 2 are dropped.
func classRuns(chars []rune) []rawToken {
	var out []rawToken
	start := 0
	curr := charclass.Other
	for i := 0; i <= len(chars); i++ {
		var c charclass.Class
		if i < len(chars) {
			c = charclass.Of(chars[i])
		} else {
			c = charclass.Other // force flush at end
		}
		if i == 0 {
			curr = c
			start = 0
			continue
		}
		if c != curr {
			if curr != charclass.Other && i-start >= 2 {
				out = append(out, rawToken{runes: append([]rune(nil), chars[start:i]...), kind: kindRun})
			}
			start = i
			curr = c
		}
	}
	return out
}

// charNgrams slides windows of size 2 and 3 across the entire string,
// across class boundaries, skipping any window containing whitespace or
// an "other"-classified character.
func charNgrams(chars []rune) []rawToken {
	var out []rawToken
	for n := minNgram; n <= maxNgram; n++ {
		if len(chars) < n {
			continue
		}
		for i := 0; i+n <= len(chars); i++ {
			window := chars[i : i+n]
			if windowValid(window) {
				out = append(out, rawToken{runes: append([]rune(nil), window...), kind: kindNgram})
			}
		}
	}
	return out
}

func windowValid(window []rune) bool {
	for _, r := range window {
		if unicode.IsSpace(r) || charclass.IsOther(r) {
			return false
		}
	}
	return true
}

// kanjiUnigrams emits every individual kanji scalar as its own token.
func kanjiUnigrams(chars []rune) []rawToken {
	var out []rawToken
	for _, r := range chars {
		if charclass.Of(r) == charclass.Kanji {
			out = append(out, rawToken{runes: []rune{r}, kind: kindKanjiUnigram})
		}
	}
	return out
}

// scoreToken computes the multiplicative quality score for a raw token.
// Kanji compounds score highest, mixed-class runs and stop-word-bearing
// n-grams are penalized, and dictionary-canonicalized surfaces get a
// boost.
func scoreToken(rt rawToken, dictHits map[string]bool) float32 {
	score := float32(1.0)

	if dictHits[string(rt.runes)] {
		score *= dictionaryBoost
	}

	switch {
	case len(rt.runes) == 1 && charclass.Of(rt.runes[0]) == charclass.Kanji:
		score *= kanjiUnigramWeight
	case isPureClass(rt.runes, charclass.Kanji) && len(rt.runes) >= 2:
		score *= kanjiCompoundBoost
	case !isSingleClass(rt.runes):
		score *= mixedClassPenalty
	}

	if rt.kind == kindNgram && containsStopWordChar(rt.runes) {
		score *= stopWordPenalty
	}

	return score
}

func isSingleClass(runes []rune) bool {
	if len(runes) == 0 {
		return true
	}
	first := charclass.Of(runes[0])
	for _, r := range runes[1:] {
		if charclass.Of(r) != first {
			return false
		}
	}
	return true
}

func isPureClass(runes []rune, c charclass.Class) bool {
	for _, r := range runes {
		if charclass.Of(r) != c {
			return false
		}
	}
	return len(runes) > 0
}

func containsStopWordChar(runes []rune) bool {
	for _, r := range runes {
		if stopWords[string(r)] {
			return true
		}
	}
	return false
}
