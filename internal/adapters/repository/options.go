package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMatches seeds the store with matches. Later duplicates replace earlier ones.
func WithMatches(matches ...Match) Option {
	return func(s *MemoryStore) {
		for i := range matches {
			s.put(matches[i])
		}
	}
}
