// Package dictionary implements a user dictionary: a longest-match,
// leftmost canonicalization pass run over raw text before tokenization.
package dictionary

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Entry maps a set of surface variants onto one canonical surface.
type Entry struct {
	Canonical string   `json:"surface"`
	Variants  []string `json:"variants"`
}

// pattern is one (text, canonical) candidate considered at a position.
// entryIdx is the index of the entry that produced it, used to break
// equal-length ties in favor of earlier entries.
type pattern struct {
	text      []rune
	canonical string
	entryIdx  int
}

// Dictionary canonicalizes surface variants found in text to their
// canonical surface, longest match first, ties broken by entry order.
type Dictionary struct {
	patterns []pattern
}

// New builds a Dictionary from entries in the order given. An empty or nil
// slice is a valid, identity-transform dictionary.
func New(entries []Entry) *Dictionary {
	d := &Dictionary{}
	for i, e := range entries {
		d.patterns = append(d.patterns, pattern{text: []rune(e.Canonical), canonical: e.Canonical, entryIdx: i})
		for _, v := range e.Variants {
			d.patterns = append(d.patterns, pattern{text: []rune(v), canonical: e.Canonical, entryIdx: i})
		}
	}
	// Longest pattern first; ties broken by entry order.
	sort.Slice(d.patterns, func(i, j int) bool {
		if len(d.patterns[i].text) != len(d.patterns[j].text) {
			return len(d.patterns[i].text) > len(d.patterns[j].text)
		}
		return d.patterns[i].entryIdx < d.patterns[j].entryIdx
	})
	return d
}

// Empty reports whether the dictionary has no entries (identity transform).
func (d *Dictionary) Empty() bool {
	return d == nil || len(d.patterns) == 0
}

// Canonicalize scans text left to right; at each position the longest
// matching pattern across all entries is replaced by its canonical
// surface. Ties are broken by entry order (lower index wins).
func (d *Dictionary) Canonicalize(text string) string {
	out, _ := d.CanonicalizeWithMatches(text)
	return out
}

// CanonicalizeWithMatches behaves like Canonicalize but also returns the
// set of distinct canonical surfaces that were substituted into the
// result, so callers can give dictionary-normalized tokens extra weight.
func (d *Dictionary) CanonicalizeWithMatches(text string) (string, map[string]bool) {
	if d.Empty() {
		return text, nil
	}

	chars := []rune(text)
	var out []rune
	matched := make(map[string]bool)
	i := 0
	for i < len(chars) {
		didMatch := false
		for _, p := range d.patterns {
			n := len(p.text)
			if n == 0 || i+n > len(chars) {
				continue
			}
			if runesEqual(chars[i:i+n], p.text) {
				out = append(out, []rune(p.canonical)...)
				matched[p.canonical] = true
				i += n
				didMatch = true
				break
			}
		}
		if !didMatch {
			out = append(out, chars[i])
			i++
		}
	}
	return string(out), matched
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ParseJSON decodes a dictionary from its serialized JSON array form.
func ParseJSON(data []byte) (*Dictionary, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("dictionary: invalid JSON: %w", err)
	}
	return New(entries), nil
}
