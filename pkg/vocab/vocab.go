// Package vocab implements the vocabulary and document-frequency store:
// a bijection between surface strings and dense nonnegative integer ids,
// with a document-frequency count per id and a capped total vocabulary
// size.
package vocab

// DefaultMaxSize is the default upper bound on distinct ids retained.
const DefaultMaxSize = 50000

// Store assigns ids to token surfaces in first-seen order and tracks how
// many distinct documents have observed each id.
type Store struct {
	maxSize    int
	ids        map[string]int
	surfaces   []string
	df         []uint32
	corpusSize int
}

// New creates an empty Store capped at maxSize distinct ids. A maxSize of
// 0 or less uses DefaultMaxSize.
func New(maxSize int) *Store {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Store{
		maxSize: maxSize,
		ids:     make(map[string]int),
	}
}

// Observe records one document's distinct token surfaces: each surface
// is assigned an id if room remains and it hasn't been seen before, and
// its document frequency is incremented exactly once per document
// regardless of how many times it occurs within tokens.
func (s *Store) Observe(surfaces []string) {
	s.corpusSize++
	seen := make(map[string]bool, len(surfaces))
	for _, surf := range surfaces {
		if seen[surf] {
			continue
		}
		seen[surf] = true

		id, ok := s.ids[surf]
		if !ok {
			if len(s.surfaces) >= s.maxSize {
				continue // capacity exceeded: unseen tokens silently ignored
			}
			id = len(s.surfaces)
			s.ids[surf] = id
			s.surfaces = append(s.surfaces, surf)
			s.df = append(s.df, 0)
		}
		s.df[id]++
	}
}

// Restore reconstructs a Store from a previously exported vocabulary
// snapshot (surfaces indexed by id), its document-frequency vector, and
// the corpus size at export time, so an importer can resume ingestion
// with ids and capacity consistent with the imported model.
func Restore(surfaces []string, df []uint32, corpusSize int, maxSize int) *Store {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	s := &Store{
		maxSize:    maxSize,
		ids:        make(map[string]int, len(surfaces)),
		surfaces:   append([]string(nil), surfaces...),
		df:         append([]uint32(nil), df...),
		corpusSize: corpusSize,
	}
	for id, surf := range s.surfaces {
		s.ids[surf] = id
	}
	return s
}

// Lookup returns the id for surf with no side effect.
func (s *Store) Lookup(surf string) (int, bool) {
	id, ok := s.ids[surf]
	return id, ok
}

// Surface returns the surface string for id (the inverse of Lookup).
func (s *Store) Surface(id int) string {
	return s.surfaces[id]
}

// MaxSize returns the capacity this store was constructed with.
func (s *Store) MaxSize() int {
	return s.maxSize
}

// Size returns the number of distinct ids assigned.
func (s *Store) Size() int {
	return len(s.surfaces)
}

// CorpusSize returns the number of documents observed.
func (s *Store) CorpusSize() int {
	return s.corpusSize
}

// DF returns the document frequency of id.
func (s *Store) DF(id int) uint32 {
	return s.df[id]
}

// AllDF returns a copy of the document-frequency vector, indexed by id.
func (s *Store) AllDF() []uint32 {
	out := make([]uint32, len(s.df))
	copy(out, s.df)
	return out
}

// Surfaces returns a copy of the id→surface vector (position = id).
func (s *Store) Surfaces() []string {
	out := make([]string, len(s.surfaces))
	copy(out, s.surfaces)
	return out
}
